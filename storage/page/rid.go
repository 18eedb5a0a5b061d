package page

import "github.com/crabtree-db/crabtree/types"

// RID is a record identifier: the page id of a table/heap page plus the
// slot within it. It is the value type the B+ tree indexes by default —
// a leaf maps key -> RID rather than key -> arbitrary payload, matching
// the clustered-index shape bustub's tree is instantiated with.
type RID struct {
	pageId  types.PageID
	slotNum uint32
}

// NewRID constructs an RID.
func NewRID(pageId types.PageID, slot uint32) RID {
	return RID{pageId, slot}
}

// Set overwrites the record identifier in place.
func (r *RID) Set(pageId types.PageID, slot uint32) {
	r.pageId = pageId
	r.slotNum = slot
}

// GetPageId returns the page id half of the identifier.
func (r *RID) GetPageId() types.PageID {
	return r.pageId
}

// GetSlot returns the slot number half of the identifier.
func (r *RID) GetSlot() uint32 {
	return r.slotNum
}
