// algorithm grounded on the CMU bustub B+ tree leaf page (b_plus_tree_leaf_page.cpp)

package page

import (
	"encoding/binary"
	"sort"

	"github.com/crabtree-db/crabtree/types"
	pair "github.com/notEpsilon/go-pair"
)

const (
	offsetNextPageID = commonHeaderSize
	leafHeaderSize   = offsetNextPageID + 4
	leafSlotSize     = 16 // 8 byte key + 4 byte RID.pageId + 4 byte RID.slot
)

// LeafPage is a B+ tree leaf: size (key, RID) pairs sorted ascending by
// key, plus next_page_id threading all leaves into one ordered list.
type LeafPage struct {
	treeHeader
}

// WrapLeafPage views an already-typed Page as a LeafPage without touching
// its bytes; used when fetching a page already known to be a leaf.
func WrapLeafPage(pg *Page) *LeafPage {
	return &LeafPage{treeHeader{pg}}
}

// Init lays out a fresh leaf page's header in pg's buffer.
func (l *LeafPage) Init(pageID, parentID types.PageID, maxSize int32) {
	l.SetPageType(IndexPageLeaf)
	l.SetSize(0)
	l.SetMaxSize(maxSize)
	l.SetParentPageId(parentID)
	l.SetPageId(pageID)
	l.SetNextPageId(types.InvalidPageID)
}

func (l *LeafPage) GetNextPageId() types.PageID {
	return types.PageID(int32(binary.LittleEndian.Uint32(l.bytes()[offsetNextPageID:])))
}

func (l *LeafPage) SetNextPageId(id types.PageID) {
	binary.LittleEndian.PutUint32(l.bytes()[offsetNextPageID:], uint32(int32(id)))
}

func (l *LeafPage) slotOffset(i int32) int {
	return leafHeaderSize + int(i)*leafSlotSize
}

// KeyAt returns the key stored at slot i.
func (l *LeafPage) KeyAt(i int32) types.Key {
	return getKey(l.bytes()[l.slotOffset(i):])
}

func (l *LeafPage) setKeyAt(i int32, k types.Key) {
	putKey(l.bytes()[l.slotOffset(i):], k)
}

// ValueAt returns the RID stored at slot i.
func (l *LeafPage) ValueAt(i int32) page_RID {
	off := l.slotOffset(i) + 8
	pid := types.PageID(int32(binary.LittleEndian.Uint32(l.bytes()[off:])))
	slot := binary.LittleEndian.Uint32(l.bytes()[off+4:])
	return page_RID{pid, slot}
}

func (l *LeafPage) setValueAt(i int32, v page_RID) {
	off := l.slotOffset(i) + 8
	binary.LittleEndian.PutUint32(l.bytes()[off:], uint32(int32(v.pageId)))
	binary.LittleEndian.PutUint32(l.bytes()[off+4:], v.slot)
}

// page_RID mirrors RID's two fields without importing the RID type's
// method set, since the leaf page only needs plain field access for
// serialization. Conversion helpers below adapt to and from RID.
type page_RID struct {
	pageId types.PageID
	slot   uint32
}

func ridToInternal(r RID) page_RID  { return page_RID{r.GetPageId(), r.GetSlot()} }
func ridFromInternal(r page_RID) RID {
	var out RID
	out.Set(r.pageId, r.slot)
	return out
}

// KeyValuePairAt returns slot i as a (key, value) pair.
func (l *LeafPage) KeyValuePairAt(i int32) pair.Pair[types.Key, RID] {
	return pair.Pair[types.Key, RID]{First: l.KeyAt(i), Second: ridFromInternal(l.ValueAt(i))}
}

// PositionOfNearestKey returns the index of the smallest key >= target,
// or GetSize() if every key is smaller than target.
func (l *LeafPage) PositionOfNearestKey(target types.Key) int32 {
	size := l.GetSize()
	idx := sort.Search(int(size), func(i int) bool {
		return l.KeyAt(int32(i)) >= target
	})
	return int32(idx)
}

// LookupKey returns the value stored for key, if present.
func (l *LeafPage) LookupKey(key types.Key) (RID, bool) {
	pos := l.PositionOfNearestKey(key)
	if pos < l.GetSize() && l.KeyAt(pos) == key {
		return ridFromInternal(l.ValueAt(pos)), true
	}
	return RID{}, false
}

// Insert inserts (key, value) in sorted position, rejecting a duplicate
// key. Returns false on duplicate. max_size is not checked here: the
// tree may insert into a full leaf (e.g. one just filled by a merge) and
// then splits it; the slot array only has to have room for one more entry.
func (l *LeafPage) Insert(key types.Key, value RID) bool {
	pos := l.PositionOfNearestKey(key)
	if pos < l.GetSize() && l.KeyAt(pos) == key {
		return false
	}
	l.InsertAt(pos, key, value)
	return true
}

// InsertAt shifts slots [idx, size) one to the right and writes (key,
// value) into idx.
func (l *LeafPage) InsertAt(idx int32, key types.Key, value RID) {
	size := l.GetSize()
	for i := size; i > idx; i-- {
		l.setKeyAt(i, l.KeyAt(i-1))
		l.setValueAt(i, l.ValueAt(i-1))
	}
	l.setKeyAt(idx, key)
	l.setValueAt(idx, ridToInternal(value))
	l.IncreaseSize(1)
}

// Append adds (key, value) as the new last slot. Caller guarantees key
// order is preserved (used when redistributing entries during a split).
func (l *LeafPage) Append(key types.Key, value RID) {
	size := l.GetSize()
	l.setKeyAt(size, key)
	l.setValueAt(size, ridToInternal(value))
	l.IncreaseSize(1)
}

// Delete removes key if present, returning whether it was found.
func (l *LeafPage) Delete(key types.Key) bool {
	pos := l.PositionOfNearestKey(key)
	if pos >= l.GetSize() || l.KeyAt(pos) != key {
		return false
	}
	l.DeleteAt(pos)
	return true
}

// DeleteAt removes the slot at idx, shifting later slots left.
func (l *LeafPage) DeleteAt(idx int32) {
	size := l.GetSize()
	for i := idx; i < size-1; i++ {
		l.setKeyAt(i, l.KeyAt(i+1))
		l.setValueAt(i, l.ValueAt(i+1))
	}
	l.IncreaseSize(-1)
}

// MoveHalfTo moves this leaf's upper half of entries into dst, used when
// splitting a full leaf. The ceiling half stays behind; the floor half
// moves to dst.
func (l *LeafPage) MoveHalfTo(dst *LeafPage) {
	size := l.GetSize()
	splitIdx := size - size/2
	for i := splitIdx; i < size; i++ {
		dst.Append(l.KeyAt(i), ridFromInternal(l.ValueAt(i)))
	}
	l.SetSize(splitIdx)
}

// MoveAllTo appends all of this leaf's entries onto dst, used when
// merging an underflowed leaf into a sibling.
func (l *LeafPage) MoveAllTo(dst *LeafPage) {
	size := l.GetSize()
	for i := int32(0); i < size; i++ {
		dst.Append(l.KeyAt(i), ridFromInternal(l.ValueAt(i)))
	}
	l.SetSize(0)
}

// MoveFirstToEndOf moves this leaf's first entry onto the end of dst,
// used when dst (the left sibling) borrows from this leaf (the right
// sibling).
func (l *LeafPage) MoveFirstToEndOf(dst *LeafPage) {
	dst.Append(l.KeyAt(0), ridFromInternal(l.ValueAt(0)))
	l.DeleteAt(0)
}

// MoveLastToFrontOf moves this leaf's last entry onto the front of dst,
// used when dst (the right sibling) borrows from this leaf (the left
// sibling).
func (l *LeafPage) MoveLastToFrontOf(dst *LeafPage) {
	last := l.GetSize() - 1
	dst.InsertAt(0, l.KeyAt(last), ridFromInternal(l.ValueAt(last)))
	l.DeleteAt(last)
}

// LeafMaxCapacity is the largest max_size a leaf page's fixed buffer can
// hold for diagnostics/tests; callers normally pass a smaller max_size.
const LeafMaxCapacity = (4096 - leafHeaderSize) / leafSlotSize
