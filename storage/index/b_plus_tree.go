// algorithm grounded on the CMU bustub B+ tree (src/storage/index/b_plus_tree.cpp)

package index

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/crabtree-db/crabtree/common"
	"github.com/crabtree-db/crabtree/concurrency"
	"github.com/crabtree-db/crabtree/storage/buffer"
	"github.com/crabtree-db/crabtree/storage/page"
	"github.com/crabtree-db/crabtree/types"
)

// BPlusTree is a height-balanced, clustered index whose nodes are buffer
// pool pages. Every public operation is safe for concurrent use: page
// access is guarded by per-page latches acquired top-down (crabbing), and
// changes to the root pointer itself are guarded by rootLatch.
type BPlusTree struct {
	indexName       string
	bpm             *buffer.BufferPoolManager
	leafMaxSize     int32
	internalMaxSize int32
	rootPageId      types.PageID
	rootLatch       common.ReaderWriterLatch
}

// NewBPlusTree opens (or creates, if absent) the named index backed by
// bpm, recovering its root page id from the header page if one is
// already recorded there. On a fresh disk manager with no header page
// yet, it reserves page id 0 for the header before any tree page can be
// allocated, so the two never alias.
func NewBPlusTree(indexName string, bpm *buffer.BufferPoolManager, leafMaxSize, internalMaxSize int32) *BPlusTree {
	t := &BPlusTree{
		indexName:       indexName,
		bpm:             bpm,
		leafMaxSize:     leafMaxSize,
		internalMaxSize: internalMaxSize,
		rootPageId:      types.InvalidPageID,
		rootLatch:       common.NewRWLatch(),
	}

	hpg := bpm.FetchPage(common.HeaderPageID)
	if hpg == nil {
		hpg = bpm.NewPage()
		common.Assert(hpg != nil, "b+ tree: buffer pool exhausted reserving header page")
		common.Assert(hpg.GetPageId() == common.HeaderPageID, "b+ tree: first page allocated on a fresh disk was not page id 0")
		page.WrapHeaderPage(hpg).Init()
		bpm.UnpinPage(common.HeaderPageID, true)
		return t
	}

	hpg.RLatch()
	hp := page.WrapHeaderPage(hpg)
	if id, ok := hp.GetRootId(indexName); ok {
		t.rootPageId = id
	}
	hpg.RUnlatch()
	bpm.UnpinPage(common.HeaderPageID, false)
	return t
}

// IsEmpty reports whether the tree has no root yet.
func (t *BPlusTree) IsEmpty() bool {
	t.rootLatch.RLock()
	defer t.rootLatch.RUnlock()
	return t.rootPageId == types.InvalidPageID
}

// GetRootPageId returns the current root page id, or InvalidPageID for an
// empty tree.
func (t *BPlusTree) GetRootPageId() types.PageID {
	t.rootLatch.RLock()
	defer t.rootLatch.RUnlock()
	return t.rootPageId
}

func pageType(pg *page.Page) page.IndexPageType {
	return page.WrapLeafPage(pg).GetPageType()
}

func pageParentID(pg *page.Page) types.PageID {
	return page.WrapLeafPage(pg).GetParentPageId()
}

func setParentPageId(pg *page.Page, parentID types.PageID) {
	if pageType(pg) == page.IndexPageLeaf {
		page.WrapLeafPage(pg).SetParentPageId(parentID)
	} else {
		page.WrapInternalPage(pg).SetParentPageId(parentID)
	}
}

// updateRootPageId persists the tree's current root page id on the header
// page, inserting a fresh record the first time an index is created.
func (t *BPlusTree) updateRootPageId(isNewIndex bool) {
	hpg := t.bpm.FetchPage(common.HeaderPageID)
	common.Assert(hpg != nil, "b+ tree: could not fetch header page")
	hpg.WLatch()
	hp := page.WrapHeaderPage(hpg)
	if isNewIndex {
		if !hp.InsertRecord(t.indexName, t.rootPageId) {
			hp.UpdateRecord(t.indexName, t.rootPageId)
		}
	} else if !hp.UpdateRecord(t.indexName, t.rootPageId) {
		hp.InsertRecord(t.indexName, t.rootPageId)
	}
	hpg.WUnlatch()
	t.bpm.UnpinPage(common.HeaderPageID, true)
}

// GetValue descends from the root using GetKeySlotPosition at every
// internal page, releasing each ancestor as soon as its child is
// latched -- read traversal is always safe.
func (t *BPlusTree) GetValue(key types.Key) (page.RID, bool) {
	t.rootLatch.RLock()
	rootID := t.rootPageId
	if rootID == types.InvalidPageID {
		t.rootLatch.RUnlock()
		return page.RID{}, false
	}
	pg := t.bpm.FetchPage(rootID)
	pg.RLatch()
	t.rootLatch.RUnlock()

	for pageType(pg) != page.IndexPageLeaf {
		node := page.WrapInternalPage(pg)
		childID := node.ValueAt(node.GetKeySlotPosition(key))
		child := t.bpm.FetchPage(childID)
		child.RLatch()
		pg.RUnlatch()
		t.bpm.UnpinPage(pg.GetPageId(), false)
		pg = child
	}

	leaf := page.WrapLeafPage(pg)
	v, ok := leaf.LookupKey(key)
	pg.RUnlatch()
	t.bpm.UnpinPage(pg.GetPageId(), false)
	return v, ok
}

type safetyFn func(pg *page.Page) bool

func (t *BPlusTree) insertSafety(pg *page.Page) bool {
	if pageType(pg) == page.IndexPageLeaf {
		return page.WrapLeafPage(pg).GetSize() < t.leafMaxSize-1
	}
	return page.WrapInternalPage(pg).GetSize() < t.internalMaxSize
}

func (t *BPlusTree) deleteSafety(pg *page.Page) bool {
	if pageType(pg) == page.IndexPageLeaf {
		leaf := page.WrapLeafPage(pg)
		return leaf.GetSize() > leaf.MinSize()
	}
	node := page.WrapInternalPage(pg)
	return node.GetSize() > node.MinSize()
}

// descendWLatched crabs down from the root to a leaf under write latches,
// releasing every ancestor as soon as the child it just latched is
// "safe" under safe (it cannot itself require further restructuring).
// The leaf, and any unsafe ancestors still needed for propagation, are
// left in txn's page set on return.
func (t *BPlusTree) descendWLatched(key types.Key, txn *concurrency.TransactionContext, safe safetyFn) *page.Page {
	cur := t.bpm.FetchPage(t.rootPageId)
	cur.WLatch()
	txn.AddIntoPageSet(cur, concurrency.LockWrite)

	for pageType(cur) != page.IndexPageLeaf {
		node := page.WrapInternalPage(cur)
		childID := node.ValueAt(node.GetKeySlotPosition(key))
		child := t.bpm.FetchPage(childID)
		child.WLatch()
		if safe(child) {
			t.releaseAncestors(txn)
		}
		txn.AddIntoPageSet(child, concurrency.LockWrite)
		cur = child
	}
	return cur
}

func (t *BPlusTree) releaseAncestors(txn *concurrency.TransactionContext) {
	for {
		pg, _, ok := txn.PopFrontPageSet()
		if !ok {
			return
		}
		pg.WUnlatch()
		t.bpm.UnpinPage(pg.GetPageId(), false)
	}
}

func (t *BPlusTree) setChildParent(childID types.PageID, parentID types.PageID) {
	pg := t.bpm.FetchPage(childID)
	pg.WLatch()
	setParentPageId(pg, parentID)
	pg.WUnlatch()
	t.bpm.UnpinPage(childID, true)
}

// Insert adds (key, value), splitting nodes up the tree as needed.
// Returns false if key is already present.
func (t *BPlusTree) Insert(key types.Key, value page.RID, txn *concurrency.TransactionContext) bool {
	if txn == nil {
		txn = concurrency.NewTransactionContext(common.InvalidTxnID)
	}
	t.rootLatch.WLock()
	defer t.rootLatch.WUnlock()

	if t.rootPageId == types.InvalidPageID {
		t.startNewTree(key, value)
		return true
	}
	return t.insertIntoLeaf(key, value, txn)
}

func (t *BPlusTree) startNewTree(key types.Key, value page.RID) {
	pg := t.bpm.NewPage()
	common.Assert(pg != nil, "b+ tree: buffer pool exhausted creating root leaf")
	leaf := page.WrapLeafPage(pg)
	leaf.Init(pg.GetPageId(), types.InvalidPageID, t.leafMaxSize)
	leaf.Insert(key, value)
	t.rootPageId = pg.GetPageId()
	t.bpm.UnpinPage(pg.GetPageId(), true)
	t.updateRootPageId(true)
}

func (t *BPlusTree) insertIntoLeaf(key types.Key, value page.RID, txn *concurrency.TransactionContext) bool {
	leafPg := t.descendWLatched(key, txn, t.insertSafety)
	_, _, _ = txn.PopFrontPageSet() // discard: this is leafPg itself
	leaf := page.WrapLeafPage(leafPg)

	if !leaf.Insert(key, value) {
		leafPg.WUnlatch()
		t.bpm.UnpinPage(leafPg.GetPageId(), false)
		t.releaseAncestors(txn)
		return false
	}
	if leaf.GetSize() < t.leafMaxSize {
		leafPg.WUnlatch()
		t.bpm.UnpinPage(leafPg.GetPageId(), true)
		t.releaseAncestors(txn)
		return true
	}

	newPg := t.bpm.NewPage()
	common.Assert(newPg != nil, "b+ tree: buffer pool exhausted splitting leaf")
	newPg.WLatch()
	newLeaf := page.WrapLeafPage(newPg)
	newLeaf.Init(newPg.GetPageId(), leaf.GetParentPageId(), t.leafMaxSize)
	leaf.MoveHalfTo(newLeaf)
	newLeaf.SetNextPageId(leaf.GetNextPageId())
	leaf.SetNextPageId(newPg.GetPageId())
	sepKey := newLeaf.KeyAt(0)

	t.insertIntoParent(leafPg, sepKey, newPg, txn)
	return true
}

// insertIntoParent wires (sepKey, newPg) into oldPg's parent, splitting
// that parent (and recursing upward) if it overflows, or growing the
// tree by one level if oldPg was the root. It always releases oldPg and
// newPg before returning; a parent that itself becomes the next level's
// oldPg is passed on still latched and pinned.
func (t *BPlusTree) insertIntoParent(oldPg *page.Page, sepKey types.Key, newPg *page.Page, txn *concurrency.TransactionContext) {
	parentID := pageParentID(oldPg)

	if parentID == types.InvalidPageID {
		rootPg := t.bpm.NewPage()
		common.Assert(rootPg != nil, "b+ tree: buffer pool exhausted growing root")
		root := page.WrapInternalPage(rootPg)
		root.Init(rootPg.GetPageId(), types.InvalidPageID, t.internalMaxSize)
		root.PopulateNewRoot(oldPg.GetPageId(), sepKey, newPg.GetPageId())
		setParentPageId(oldPg, rootPg.GetPageId())
		setParentPageId(newPg, rootPg.GetPageId())
		t.rootPageId = rootPg.GetPageId()
		t.bpm.UnpinPage(rootPg.GetPageId(), true)
		t.updateRootPageId(false)

		oldPg.WUnlatch()
		t.bpm.UnpinPage(oldPg.GetPageId(), true)
		newPg.WUnlatch()
		t.bpm.UnpinPage(newPg.GetPageId(), true)
		t.releaseAncestors(txn)
		return
	}

	parentPg, _, ok := txn.PopFrontPageSet()
	common.Assert(ok && parentPg.GetPageId() == parentID, "b+ tree: ancestor stack out of sync during split propagation")
	parent := page.WrapInternalPage(parentPg)

	setParentPageId(newPg, parentID)
	idx := parent.ValueIndex(oldPg.GetPageId())
	parent.InsertAt(idx+1, sepKey, newPg.GetPageId())

	oldPg.WUnlatch()
	t.bpm.UnpinPage(oldPg.GetPageId(), true)
	newPg.WUnlatch()
	t.bpm.UnpinPage(newPg.GetPageId(), true)

	if parent.GetSize() <= t.internalMaxSize {
		parentPg.WUnlatch()
		t.bpm.UnpinPage(parentPg.GetPageId(), true)
		t.releaseAncestors(txn)
		return
	}

	newInternalPg := t.bpm.NewPage()
	common.Assert(newInternalPg != nil, "b+ tree: buffer pool exhausted splitting internal page")
	newInternalPg.WLatch()
	newInternal := page.WrapInternalPage(newInternalPg)
	newInternal.Init(newInternalPg.GetPageId(), parent.GetParentPageId(), t.internalMaxSize)

	splitIdx := parent.GetSize() - parent.GetSize()/2
	pushUpKey := parent.KeyAt(splitIdx)
	parent.MoveHalfTo(newInternal, splitIdx)
	for i := int32(0); i < newInternal.GetSize(); i++ {
		t.setChildParent(newInternal.ValueAt(i), newInternalPg.GetPageId())
	}

	t.insertIntoParent(parentPg, pushUpKey, newInternalPg, txn)
}

// Remove deletes key, rebalancing (borrow or merge) underflowed nodes up
// the tree. It is a no-op if key is absent.
func (t *BPlusTree) Remove(key types.Key, txn *concurrency.TransactionContext) {
	if txn == nil {
		txn = concurrency.NewTransactionContext(common.InvalidTxnID)
	}
	t.rootLatch.WLock()
	defer t.rootLatch.WUnlock()

	if t.rootPageId == types.InvalidPageID {
		return
	}

	leafPg := t.descendWLatched(key, txn, t.deleteSafety)
	_, _, _ = txn.PopFrontPageSet() // discard: this is leafPg itself
	leaf := page.WrapLeafPage(leafPg)

	if !leaf.Delete(key) {
		leafPg.WUnlatch()
		t.bpm.UnpinPage(leafPg.GetPageId(), false)
		t.releaseAncestors(txn)
		return
	}
	t.removeFromLeaf(leafPg, leaf, txn)
}

func (t *BPlusTree) removeFromLeaf(leafPg *page.Page, leaf *page.LeafPage, txn *concurrency.TransactionContext) {
	if leaf.IsRootPage() {
		isEmpty := leaf.GetSize() == 0
		leafPg.WUnlatch()
		t.bpm.UnpinPage(leafPg.GetPageId(), true)
		if isEmpty {
			t.bpm.DeletePage(leafPg.GetPageId())
			t.rootPageId = types.InvalidPageID
			t.updateRootPageId(false)
		}
		t.releaseAncestors(txn)
		return
	}
	if leaf.GetSize() >= leaf.MinSize() {
		leafPg.WUnlatch()
		t.bpm.UnpinPage(leafPg.GetPageId(), true)
		t.releaseAncestors(txn)
		return
	}
	t.rebalanceLeaf(leafPg, leaf, txn)
}

func (t *BPlusTree) rebalanceLeaf(leafPg *page.Page, leaf *page.LeafPage, txn *concurrency.TransactionContext) {
	parentPg, _, ok := txn.PopFrontPageSet()
	common.Assert(ok, "b+ tree: missing latched parent during leaf rebalance")
	parent := page.WrapInternalPage(parentPg)
	idx := parent.ValueIndex(leafPg.GetPageId())

	if idx > 0 {
		leftID := parent.ValueAt(idx - 1)
		leftPg := t.bpm.FetchPage(leftID)
		leftPg.WLatch()
		left := page.WrapLeafPage(leftPg)
		if left.GetSize()+leaf.GetSize() >= 2*leaf.MinSize() {
			left.MoveLastToFrontOf(leaf)
			parent.SetKeyAt(idx, leaf.KeyAt(0))
			leftPg.WUnlatch()
			t.bpm.UnpinPage(leftID, true)
			leafPg.WUnlatch()
			t.bpm.UnpinPage(leafPg.GetPageId(), true)
			parentPg.WUnlatch()
			t.bpm.UnpinPage(parentPg.GetPageId(), true)
			t.releaseAncestors(txn)
			return
		}
		leftPg.WUnlatch()
		t.bpm.UnpinPage(leftID, false)
	}

	if idx < parent.GetSize()-1 {
		rightID := parent.ValueAt(idx + 1)
		rightPg := t.bpm.FetchPage(rightID)
		rightPg.WLatch()
		right := page.WrapLeafPage(rightPg)
		if right.GetSize()+leaf.GetSize() >= 2*leaf.MinSize() {
			right.MoveFirstToEndOf(leaf)
			parent.SetKeyAt(idx+1, right.KeyAt(0))
			rightPg.WUnlatch()
			t.bpm.UnpinPage(rightID, true)
			leafPg.WUnlatch()
			t.bpm.UnpinPage(leafPg.GetPageId(), true)
			parentPg.WUnlatch()
			t.bpm.UnpinPage(parentPg.GetPageId(), true)
			t.releaseAncestors(txn)
			return
		}
		rightPg.WUnlatch()
		t.bpm.UnpinPage(rightID, false)
	}

	// No sibling can donate: merge. Prefer absorbing into the left
	// sibling; fall back to absorbing the right sibling into this leaf.
	if idx > 0 {
		leftID := parent.ValueAt(idx - 1)
		leftPg := t.bpm.FetchPage(leftID)
		leftPg.WLatch()
		left := page.WrapLeafPage(leftPg)
		leaf.MoveAllTo(left)
		left.SetNextPageId(leaf.GetNextPageId())
		leftPg.WUnlatch()
		t.bpm.UnpinPage(leftID, true)
		leafPg.WUnlatch()
		t.bpm.UnpinPage(leafPg.GetPageId(), false)
		t.bpm.DeletePage(leafPg.GetPageId())
		parent.DeleteAt(idx)
	} else {
		rightID := parent.ValueAt(idx + 1)
		rightPg := t.bpm.FetchPage(rightID)
		rightPg.WLatch()
		right := page.WrapLeafPage(rightPg)
		right.MoveAllTo(leaf)
		leaf.SetNextPageId(right.GetNextPageId())
		rightPg.WUnlatch()
		t.bpm.UnpinPage(rightID, false)
		t.bpm.DeletePage(rightID)
		leafPg.WUnlatch()
		t.bpm.UnpinPage(leafPg.GetPageId(), true)
		parent.DeleteAt(idx + 1)
	}

	t.removeFromInternal(parentPg, parent, txn)
}

func (t *BPlusTree) removeFromInternal(nodePg *page.Page, node *page.InternalPage, txn *concurrency.TransactionContext) {
	if node.IsRootPage() {
		t.resetRootIfNecessaryInternal(nodePg, node)
		t.releaseAncestors(txn)
		return
	}
	if node.GetSize() >= node.MinSize() {
		nodePg.WUnlatch()
		t.bpm.UnpinPage(nodePg.GetPageId(), true)
		t.releaseAncestors(txn)
		return
	}
	t.rebalanceInternal(nodePg, node, txn)
}

func (t *BPlusTree) resetRootIfNecessaryInternal(nodePg *page.Page, node *page.InternalPage) {
	if node.GetSize() != 1 {
		nodePg.WUnlatch()
		t.bpm.UnpinPage(nodePg.GetPageId(), true)
		return
	}
	onlyChild := node.RemoveAndReturnOnlyChild()
	nodePg.WUnlatch()
	t.bpm.UnpinPage(nodePg.GetPageId(), true)
	t.bpm.DeletePage(nodePg.GetPageId())
	t.setChildParent(onlyChild, types.InvalidPageID)
	t.rootPageId = onlyChild
	t.updateRootPageId(false)
}

func (t *BPlusTree) rebalanceInternal(nodePg *page.Page, node *page.InternalPage, txn *concurrency.TransactionContext) {
	parentPg, _, ok := txn.PopFrontPageSet()
	common.Assert(ok, "b+ tree: missing latched parent during internal rebalance")
	parent := page.WrapInternalPage(parentPg)
	idx := parent.ValueIndex(nodePg.GetPageId())

	if idx > 0 {
		leftID := parent.ValueAt(idx - 1)
		leftPg := t.bpm.FetchPage(leftID)
		leftPg.WLatch()
		left := page.WrapInternalPage(leftPg)
		if left.GetSize()+node.GetSize() >= 2*node.MinSize() {
			oldSep := parent.KeyAt(idx)
			pushUp := left.KeyAt(left.GetSize() - 1)
			left.MoveLastToFrontOf(node, oldSep)
			parent.SetKeyAt(idx, pushUp)
			t.setChildParent(node.ValueAt(0), nodePg.GetPageId())
			leftPg.WUnlatch()
			t.bpm.UnpinPage(leftID, true)
			nodePg.WUnlatch()
			t.bpm.UnpinPage(nodePg.GetPageId(), true)
			parentPg.WUnlatch()
			t.bpm.UnpinPage(parentPg.GetPageId(), true)
			t.releaseAncestors(txn)
			return
		}
		leftPg.WUnlatch()
		t.bpm.UnpinPage(leftID, false)
	}

	if idx < parent.GetSize()-1 {
		rightID := parent.ValueAt(idx + 1)
		rightPg := t.bpm.FetchPage(rightID)
		rightPg.WLatch()
		right := page.WrapInternalPage(rightPg)
		if right.GetSize()+node.GetSize() >= 2*node.MinSize() {
			oldSep := parent.KeyAt(idx + 1)
			pushUp := right.KeyAt(1)
			right.MoveFirstToEndOf(node, oldSep)
			parent.SetKeyAt(idx+1, pushUp)
			t.setChildParent(node.ValueAt(node.GetSize()-1), nodePg.GetPageId())
			rightPg.WUnlatch()
			t.bpm.UnpinPage(rightID, true)
			nodePg.WUnlatch()
			t.bpm.UnpinPage(nodePg.GetPageId(), true)
			parentPg.WUnlatch()
			t.bpm.UnpinPage(parentPg.GetPageId(), true)
			t.releaseAncestors(txn)
			return
		}
		rightPg.WUnlatch()
		t.bpm.UnpinPage(rightID, false)
	}

	if idx > 0 {
		leftID := parent.ValueAt(idx - 1)
		leftPg := t.bpm.FetchPage(leftID)
		leftPg.WLatch()
		left := page.WrapInternalPage(leftPg)
		sep := parent.KeyAt(idx)
		node.MoveAllTo(left, sep)
		for i := int32(0); i < left.GetSize(); i++ {
			t.setChildParent(left.ValueAt(i), leftID)
		}
		leftPg.WUnlatch()
		t.bpm.UnpinPage(leftID, true)
		nodePg.WUnlatch()
		t.bpm.UnpinPage(nodePg.GetPageId(), false)
		t.bpm.DeletePage(nodePg.GetPageId())
		parent.DeleteAt(idx)
	} else {
		rightID := parent.ValueAt(idx + 1)
		rightPg := t.bpm.FetchPage(rightID)
		rightPg.WLatch()
		right := page.WrapInternalPage(rightPg)
		sep := parent.KeyAt(idx + 1)
		right.MoveAllTo(node, sep)
		for i := int32(0); i < node.GetSize(); i++ {
			t.setChildParent(node.ValueAt(i), nodePg.GetPageId())
		}
		rightPg.WUnlatch()
		t.bpm.UnpinPage(rightID, false)
		t.bpm.DeletePage(rightID)
		nodePg.WUnlatch()
		t.bpm.UnpinPage(nodePg.GetPageId(), true)
		parent.DeleteAt(idx + 1)
	}

	t.removeFromInternal(parentPg, parent, txn)
}

// InsertFromFile bulk-loads keys from a trivial newline/comma-separated
// integer format, one Insert per key, mapping each key to an RID whose
// slot equals the key itself (there is no backing table heap in this
// module, so the RID only needs to be a stable, distinguishable value).
func (t *BPlusTree) InsertFromFile(r io.Reader, txn *concurrency.TransactionContext) error {
	return forEachKeyInFile(r, func(k types.Key) error {
		t.Insert(k, page.NewRID(types.InvalidPageID, uint32(k)), txn)
		return nil
	})
}

// RemoveFromFile bulk-deletes keys from the same trivial format.
func (t *BPlusTree) RemoveFromFile(r io.Reader, txn *concurrency.TransactionContext) error {
	return forEachKeyInFile(r, func(k types.Key) error {
		t.Remove(k, txn)
		return nil
	})
}

func forEachKeyInFile(r io.Reader, fn func(types.Key) error) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		for _, field := range strings.Split(line, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			n, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return fmt.Errorf("b+ tree: bad key %q: %w", field, err)
			}
			if err := fn(types.Key(n)); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}

// DebugString renders a pre-order dump of every page's keys, useful for
// diagnosing split/merge tests by eye.
func (t *BPlusTree) DebugString() string {
	var sb strings.Builder
	t.rootLatch.RLock()
	root := t.rootPageId
	t.rootLatch.RUnlock()
	if root == types.InvalidPageID {
		return "<empty tree>\n"
	}
	t.dumpPage(&sb, root, 0)
	return sb.String()
}

func (t *BPlusTree) dumpPage(sb *strings.Builder, id types.PageID, depth int32) {
	pg := t.bpm.FetchPage(id)
	pg.RLatch()
	indent := strings.Repeat("  ", int(depth))
	if pageType(pg) == page.IndexPageLeaf {
		leaf := page.WrapLeafPage(pg)
		keys := make([]string, leaf.GetSize())
		for i := int32(0); i < leaf.GetSize(); i++ {
			keys[i] = fmt.Sprintf("%d", leaf.KeyAt(i))
		}
		fmt.Fprintf(sb, "%sleaf(%d): [%s]\n", indent, id, strings.Join(keys, " "))
		pg.RUnlatch()
		t.bpm.UnpinPage(id, false)
		return
	}
	node := page.WrapInternalPage(pg)
	keys := make([]string, node.GetSize())
	children := make([]types.PageID, node.GetSize())
	for i := int32(0); i < node.GetSize(); i++ {
		if i > 0 {
			keys[i] = fmt.Sprintf("%d", node.KeyAt(i))
		}
		children[i] = node.ValueAt(i)
	}
	fmt.Fprintf(sb, "%sinternal(%d): [%s]\n", indent, id, strings.Join(keys, " "))
	pg.RUnlatch()
	t.bpm.UnpinPage(id, false)
	for _, childID := range children {
		t.dumpPage(sb, childID, depth+1)
	}
}
