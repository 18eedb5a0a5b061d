// grounded on the CMU bustub header_page.cpp (index_name -> root_page_id directory)

package page

import (
	"encoding/binary"

	"github.com/crabtree-db/crabtree/common"
	"github.com/crabtree-db/crabtree/types"
)

// HeaderPage is the fixed page id 0: a directory of (index_name,
// root_page_id) records, one per named tree index sharing this buffer
// pool / disk manager.
type HeaderPage struct {
	pg *Page
}

// WrapHeaderPage views pg (which must be page id common.HeaderPageID) as
// a HeaderPage.
func WrapHeaderPage(pg *Page) *HeaderPage {
	return &HeaderPage{pg}
}

// Init clears the record count, used the first time page 0 is created.
func (h *HeaderPage) Init() {
	binary.LittleEndian.PutUint32(h.pg.Data()[0:], 0)
}

func (h *HeaderPage) recordCount() int {
	return int(binary.LittleEndian.Uint32(h.pg.Data()[0:]))
}

func (h *HeaderPage) setRecordCount(n int) {
	binary.LittleEndian.PutUint32(h.pg.Data()[0:], uint32(n))
}

// iterate walks stored records, calling visit(name, rootID, byteOffset)
// for each. It stops early if visit returns false.
func (h *HeaderPage) iterate(visit func(name string, rootID types.PageID, off int) bool) {
	off := 4
	n := h.recordCount()
	data := h.pg.Data()
	for i := 0; i < n; i++ {
		nameLen := int(binary.LittleEndian.Uint16(data[off:]))
		off += 2
		name := string(data[off : off+nameLen])
		off += nameLen
		rootID := types.PageID(int32(binary.LittleEndian.Uint32(data[off:])))
		off += 4
		if !visit(name, rootID, off-4-nameLen-2) {
			return
		}
	}
}

// GetRootId looks up the root page id for a named index.
func (h *HeaderPage) GetRootId(name string) (types.PageID, bool) {
	var found types.PageID
	ok := false
	h.iterate(func(n string, rootID types.PageID, _ int) bool {
		if n == name {
			found, ok = rootID, true
			return false
		}
		return true
	})
	return found, ok
}

// InsertRecord adds a new (name, rootID) record. Returns false if name
// already has a record (use UpdateRecord instead).
func (h *HeaderPage) InsertRecord(name string, rootID types.PageID) bool {
	if _, exists := h.GetRootId(name); exists {
		return false
	}

	n := h.recordCount()
	data := h.pg.Data()
	end := 4
	for i := 0; i < n; i++ {
		nameLen := int(binary.LittleEndian.Uint16(data[end:]))
		end += 2 + nameLen + 4
	}

	binary.LittleEndian.PutUint16(data[end:], uint16(len(name)))
	end += 2
	copy(data[end:], name)
	end += len(name)
	binary.LittleEndian.PutUint32(data[end:], uint32(int32(rootID)))

	h.setRecordCount(n + 1)
	common.Assert(end+4 <= common.PageSize, "header page overflowed")
	return true
}

// UpdateRecord rewrites an existing (name, rootID) record in place.
// Returns false if no record exists for name.
func (h *HeaderPage) UpdateRecord(name string, rootID types.PageID) bool {
	data := h.pg.Data()
	found := false
	h.iterate(func(n string, _ types.PageID, recOff int) bool {
		if n != name {
			return true
		}
		nameLen := len(n)
		binary.LittleEndian.PutUint32(data[recOff+2+nameLen:], uint32(int32(rootID)))
		found = true
		return false
	})
	return found
}

// DeleteRecord removes a named record, shifting later records left.
func (h *HeaderPage) DeleteRecord(name string) bool {
	data := h.pg.Data()
	n := h.recordCount()
	p := 4
	for i := 0; i < n; i++ {
		nameLen := int(binary.LittleEndian.Uint16(data[p:]))
		recLen := 2 + nameLen + 4
		if string(data[p+2:p+2+nameLen]) == name {
			rest := make([]byte, common.PageSize-(p+recLen))
			copy(rest, data[p+recLen:])
			copy(data[p:], rest)
			h.setRecordCount(n - 1)
			return true
		}
		p += recLen
	}
	return false
}
