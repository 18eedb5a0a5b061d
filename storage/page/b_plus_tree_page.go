package page

import (
	"encoding/binary"

	"github.com/crabtree-db/crabtree/types"
)

// IndexPageType distinguishes the two kinds of tree page, leaf and
// internal. There is no header-page value: HeaderPage (page id 0) stores
// no type tag and keeps its record count at offset 0 instead.
type IndexPageType int32

const (
	IndexPageInvalid  IndexPageType = -1
	IndexPageLeaf     IndexPageType = 0
	IndexPageInternal IndexPageType = 1
)

// Common prefix shared by leaf and internal pages:
//
//	offset 0 : page_type    (int32)
//	offset 4 : size         (int32)
//	offset 8 : max_size     (int32)
//	offset 12: parent_page_id (int32)
//	offset 16: page_id        (int32)
const (
	offsetPageType   = 0
	offsetSize       = 4
	offsetMaxSize    = 8
	offsetParentID   = 12
	offsetPageID     = 16
	commonHeaderSize = 20
)

// treeHeader is embedded by LeafPage and InternalPage; it reads and writes
// the common prefix directly on the underlying Page's byte buffer.
type treeHeader struct {
	pg *Page
}

func (h treeHeader) bytes() *[4096]byte { return h.pg.Data() }

func (h treeHeader) GetPageType() IndexPageType {
	return IndexPageType(int32(binary.LittleEndian.Uint32(h.bytes()[offsetPageType:])))
}

func (h treeHeader) SetPageType(t IndexPageType) {
	binary.LittleEndian.PutUint32(h.bytes()[offsetPageType:], uint32(int32(t)))
}

func (h treeHeader) GetSize() int32 {
	return int32(binary.LittleEndian.Uint32(h.bytes()[offsetSize:]))
}

func (h treeHeader) SetSize(size int32) {
	binary.LittleEndian.PutUint32(h.bytes()[offsetSize:], uint32(size))
}

func (h treeHeader) IncreaseSize(delta int32) {
	h.SetSize(h.GetSize() + delta)
}

func (h treeHeader) GetMaxSize() int32 {
	return int32(binary.LittleEndian.Uint32(h.bytes()[offsetMaxSize:]))
}

func (h treeHeader) SetMaxSize(maxSize int32) {
	binary.LittleEndian.PutUint32(h.bytes()[offsetMaxSize:], uint32(maxSize))
}

// MinSize is ceil(max_size / 2).
func (h treeHeader) MinSize() int32 {
	return (h.GetMaxSize() + 1) / 2
}

func (h treeHeader) GetParentPageId() types.PageID {
	return types.PageID(int32(binary.LittleEndian.Uint32(h.bytes()[offsetParentID:])))
}

func (h treeHeader) SetParentPageId(id types.PageID) {
	binary.LittleEndian.PutUint32(h.bytes()[offsetParentID:], uint32(int32(id)))
}

func (h treeHeader) GetPageId() types.PageID {
	return types.PageID(int32(binary.LittleEndian.Uint32(h.bytes()[offsetPageID:])))
}

func (h treeHeader) SetPageId(id types.PageID) {
	binary.LittleEndian.PutUint32(h.bytes()[offsetPageID:], uint32(int32(id)))
}

func (h treeHeader) IsRootPage() bool {
	return h.GetParentPageId() == types.InvalidPageID
}

func putKey(buf []byte, k types.Key) {
	binary.LittleEndian.PutUint64(buf, uint64(int64(k)))
}

func getKey(buf []byte) types.Key {
	return types.Key(int64(binary.LittleEndian.Uint64(buf)))
}
