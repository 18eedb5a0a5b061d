// algorithm grounded on the CMU bustub B+ tree internal page (b_plus_tree_internal_page.cpp)

package page

import (
	"encoding/binary"

	"github.com/crabtree-db/crabtree/types"
)

const internalSlotSize = 12 // 8 byte key + 4 byte child page id

// InternalPage is a B+ tree internal node: n children and n-1 separator
// keys, using the convention that slot 0's key is unused (only its child
// pointer, the leftmost subtree, is meaningful).
type InternalPage struct {
	treeHeader
}

// WrapInternalPage views an already-typed Page as an InternalPage.
func WrapInternalPage(pg *Page) *InternalPage {
	return &InternalPage{treeHeader{pg}}
}

// Init lays out a fresh internal page's header. size starts at 0 (no
// children yet); the caller appends child 0 via SetValueAt(0, ...) plus
// one (key, child) pair to reach size 2 in the common "new root" case.
func (n *InternalPage) Init(pageID, parentID types.PageID, maxSize int32) {
	n.SetPageType(IndexPageInternal)
	n.SetSize(0)
	n.SetMaxSize(maxSize)
	n.SetParentPageId(parentID)
	n.SetPageId(pageID)
}

func (n *InternalPage) slotOffset(i int32) int {
	return commonHeaderSize + int(i)*internalSlotSize
}

// KeyAt returns the separator key at slot i (undefined for i == 0).
func (n *InternalPage) KeyAt(i int32) types.Key {
	return getKey(n.bytes()[n.slotOffset(i):])
}

func (n *InternalPage) SetKeyAt(i int32, k types.Key) {
	putKey(n.bytes()[n.slotOffset(i):], k)
}

// ValueAt returns the child page id at slot i.
func (n *InternalPage) ValueAt(i int32) types.PageID {
	off := n.slotOffset(i) + 8
	return types.PageID(int32(binary.LittleEndian.Uint32(n.bytes()[off:])))
}

func (n *InternalPage) SetValueAt(i int32, v types.PageID) {
	off := n.slotOffset(i) + 8
	binary.LittleEndian.PutUint32(n.bytes()[off:], uint32(int32(v)))
}

// ValueIndex returns the slot index whose child pointer equals v, or -1.
func (n *InternalPage) ValueIndex(v types.PageID) int32 {
	size := n.GetSize()
	for i := int32(0); i < size; i++ {
		if n.ValueAt(i) == v {
			return i
		}
	}
	return -1
}

// GetKeySlotPosition returns the child index to descend into for key:
// i-1 for the smallest i >= 1 such that key < KeyAt(i), or size-1 if key
// is >= every separator, or 0 if key is smaller than every separator
// (i.e. it belongs under child 0).
func (n *InternalPage) GetKeySlotPosition(key types.Key) int32 {
	size := n.GetSize()
	for i := int32(1); i < size; i++ {
		if key < n.KeyAt(i) {
			return i - 1
		}
	}
	return size - 1
}

// Insert appends a (key, child) pair maintaining the n children / n-1
// keys shape; caller ensures room (size < max_size).
func (n *InternalPage) Insert(key types.Key, child types.PageID) {
	n.Append(key, child)
}

// InsertAt shifts slots [idx, size) right and writes (key, child) at idx.
// With idx == 0 (used by MoveLastToFrontOf) the written key lands in the
// unused slot-0 key position.
func (n *InternalPage) InsertAt(idx int32, key types.Key, child types.PageID) {
	size := n.GetSize()
	for i := size; i > idx; i-- {
		n.SetKeyAt(i, n.KeyAt(i-1))
		n.SetValueAt(i, n.ValueAt(i-1))
	}
	n.SetKeyAt(idx, key)
	n.SetValueAt(idx, child)
	n.IncreaseSize(1)
}

// Append adds (key, child) as the new last slot.
func (n *InternalPage) Append(key types.Key, child types.PageID) {
	size := n.GetSize()
	n.SetKeyAt(size, key)
	n.SetValueAt(size, child)
	n.IncreaseSize(1)
}

// PopulateNewRoot seeds a freshly initialised internal page as: child 0 =
// left, slot 1 = (key, right). Size becomes 2.
func (n *InternalPage) PopulateNewRoot(left types.PageID, key types.Key, right types.PageID) {
	n.SetValueAt(0, left)
	n.SetKeyAt(1, key)
	n.SetValueAt(1, right)
	n.SetSize(2)
}

// Delete removes the slot holding child, if present.
func (n *InternalPage) Delete(child types.PageID) {
	idx := n.ValueIndex(child)
	if idx < 0 {
		return
	}
	n.DeleteAt(idx)
}

// DeleteAt removes the slot at idx, shifting later slots left.
func (n *InternalPage) DeleteAt(idx int32) {
	size := n.GetSize()
	for i := idx; i < size-1; i++ {
		n.SetKeyAt(i, n.KeyAt(i+1))
		n.SetValueAt(i, n.ValueAt(i+1))
	}
	n.IncreaseSize(-1)
}

// RemoveAndReturnOnlyChild is used when the root collapses to a single
// child: it returns that child's page id, having decremented size to 0.
func (n *InternalPage) RemoveAndReturnOnlyChild() types.PageID {
	only := n.ValueAt(0)
	n.SetSize(0)
	return only
}

// MoveHalfTo moves this internal page's upper half to dst, used when
// splitting an internal node that an insert has just overfilled. The
// tree passes a split index that leaves both halves at or above min_size.
func (n *InternalPage) MoveHalfTo(dst *InternalPage, splitIdx int32) {
	size := n.GetSize()
	for i := splitIdx; i < size; i++ {
		dst.Append(n.KeyAt(i), n.ValueAt(i))
	}
	n.SetSize(splitIdx)
}

// MoveAllTo appends all of this internal page's entries onto dst, with
// middleKey taking the place of this page's slot-0 unused key (the separator
// that used to sit in the parent, now descending into the merged node).
// Used when merging an underflowed internal page into a sibling.
func (n *InternalPage) MoveAllTo(dst *InternalPage, middleKey types.Key) {
	size := n.GetSize()
	if size > 0 {
		dst.Append(middleKey, n.ValueAt(0))
		for i := int32(1); i < size; i++ {
			dst.Append(n.KeyAt(i), n.ValueAt(i))
		}
	}
	n.SetSize(0)
}

// MoveFirstToEndOf moves this page's first child (with middleKey
// standing in for the moved slot's now-defined key) onto the end of dst.
func (n *InternalPage) MoveFirstToEndOf(dst *InternalPage, middleKey types.Key) {
	dst.Append(middleKey, n.ValueAt(0))
	n.DeleteAt(0)
}

// MoveLastToFrontOf moves this page's last (key, child) onto the front of
// dst, with middleKey becoming dst's new slot-1 key (the old slot-0 key
// is unused by convention).
func (n *InternalPage) MoveLastToFrontOf(dst *InternalPage, middleKey types.Key) {
	last := n.GetSize() - 1
	lastChild := n.ValueAt(last)
	n.DeleteAt(last)
	dst.InsertAt(0, middleKey, lastChild)
	dst.SetKeyAt(1, middleKey)
}

// InternalMaxCapacity is the largest max_size an internal page's fixed
// buffer can hold.
const InternalMaxCapacity = (4096 - commonHeaderSize) / internalSlotSize
