// grounded on the CMU bustub B+ tree index iterator (src/storage/index/index_iterator.cpp)

package index

import (
	"github.com/crabtree-db/crabtree/storage/page"
	"github.com/crabtree-db/crabtree/types"
)

// IndexIterator is an ordered cursor over every (key, value) pair in a
// tree, walking leaves via next_page_id. It pins whichever leaf it is
// currently positioned on; Close (or running off the end) releases it.
type IndexIterator struct {
	bpm    pageFetcher
	leafPg *page.Page
	leaf   *page.LeafPage
	idx    int32
}

// pageFetcher is the narrow slice of BufferPoolManager the iterator
// needs, letting it be constructed without importing the buffer package
// for anything but this interface's concrete satisfier.
type pageFetcher interface {
	FetchPage(types.PageID) *page.Page
	UnpinPage(types.PageID, bool) error
}

func (t *BPlusTree) leafForIteration(key *types.Key) *page.Page {
	t.rootLatch.RLock()
	rootID := t.rootPageId
	if rootID == types.InvalidPageID {
		t.rootLatch.RUnlock()
		return nil
	}
	pg := t.bpm.FetchPage(rootID)
	pg.RLatch()
	t.rootLatch.RUnlock()

	for pageType(pg) != page.IndexPageLeaf {
		node := page.WrapInternalPage(pg)
		var childID types.PageID
		if key == nil {
			childID = node.ValueAt(0)
		} else {
			childID = node.ValueAt(node.GetKeySlotPosition(*key))
		}
		child := t.bpm.FetchPage(childID)
		child.RLatch()
		pg.RUnlatch()
		t.bpm.UnpinPage(pg.GetPageId(), false)
		pg = child
	}
	return pg
}

// Begin positions a cursor at the leftmost key in the tree.
func (t *BPlusTree) Begin() *IndexIterator {
	pg := t.leafForIteration(nil)
	if pg == nil {
		return t.End()
	}
	leaf := page.WrapLeafPage(pg)
	pg.RUnlatch()
	return &IndexIterator{bpm: t.bpm, leafPg: pg, leaf: leaf, idx: 0}
}

// BeginAt positions a cursor at the smallest key >= key.
func (t *BPlusTree) BeginAt(key types.Key) *IndexIterator {
	pg := t.leafForIteration(&key)
	if pg == nil {
		return t.End()
	}
	leaf := page.WrapLeafPage(pg)
	idx := leaf.PositionOfNearestKey(key)
	pg.RUnlatch()
	it := &IndexIterator{bpm: t.bpm, leafPg: pg, leaf: leaf, idx: idx}
	if idx >= leaf.GetSize() {
		// every key in this leaf is smaller: the answer is the first
		// entry of the next leaf, or the end.
		it.idx = idx - 1
		it.Next()
	}
	return it
}

// End returns the sentinel one-past-the-end iterator.
func (t *BPlusTree) End() *IndexIterator {
	return &IndexIterator{bpm: t.bpm}
}

// Valid reports whether the cursor is positioned on a real entry.
func (it *IndexIterator) Valid() bool {
	return it.leafPg != nil
}

// Key returns the key at the cursor. Valid() must be true.
func (it *IndexIterator) Key() types.Key {
	return it.leaf.KeyAt(it.idx)
}

// Value returns the value at the cursor. Valid() must be true.
func (it *IndexIterator) Value() page.RID {
	return it.leaf.KeyValuePairAt(it.idx).Second
}

// Next advances the cursor by one entry, crossing into the next leaf via
// next_page_id when the current leaf is exhausted, and unpinning the
// leaf it leaves behind. Advancing past the last entry makes the cursor
// invalid (Valid() becomes false).
func (it *IndexIterator) Next() {
	if it.leafPg == nil {
		return
	}
	it.idx++
	if it.idx < it.leaf.GetSize() {
		return
	}

	nextID := it.leaf.GetNextPageId()
	it.bpm.UnpinPage(it.leafPg.GetPageId(), false)
	if nextID == types.InvalidPageID {
		it.leafPg = nil
		it.leaf = nil
		it.idx = 0
		return
	}

	pg := it.bpm.FetchPage(nextID)
	pg.RLatch()
	it.leaf = page.WrapLeafPage(pg)
	pg.RUnlatch()
	it.leafPg = pg
	it.idx = 0
}

// Close releases the cursor's pin on its current leaf, if any. Callers
// that run an iterator to completion (Valid() becomes false) don't need
// to call this; it's for abandoning one early.
func (it *IndexIterator) Close() {
	if it.leafPg == nil {
		return
	}
	it.bpm.UnpinPage(it.leafPg.GetPageId(), false)
	it.leafPg = nil
	it.leaf = nil
}

// Equal compares cursors the way bustub's iterator equality does: same
// leaf page and same intra-leaf index.
func (it *IndexIterator) Equal(other *IndexIterator) bool {
	return it.leafPg == other.leafPg && it.idx == other.idx
}
