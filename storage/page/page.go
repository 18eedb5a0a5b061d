// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package page

import (
	"sync/atomic"

	"github.com/crabtree-db/crabtree/common"
	"github.com/crabtree-db/crabtree/types"
)

// Page is the basic unit of storage within the database system: a fixed
// size byte buffer plus the book-keeping a buffer pool needs to manage its
// residency — pin count, dirty flag, and a reader/writer latch. It is the
// "frame" of a frame id: every frame id in the buffer pool's fixed array
// points at exactly one Page.
type Page struct {
	id       types.PageID
	pinCount int32
	isDirty  bool
	data     *[common.PageSize]byte
	rwlatch  common.ReaderWriterLatch
}

// IncPinCount increments the pin count.
func (p *Page) IncPinCount() {
	atomic.AddInt32(&p.pinCount, 1)
}

// DecPinCount decrements the pin count.
func (p *Page) DecPinCount() {
	atomic.AddInt32(&p.pinCount, -1)
}

// PinCount returns the pin count.
func (p *Page) PinCount() int32 {
	return atomic.LoadInt32(&p.pinCount)
}

// GetPageId returns the page id currently resident in this frame.
func (p *Page) GetPageId() types.PageID {
	return p.id
}

// SetPageId reassigns the page id resident in this frame. The buffer pool
// does not use it: it builds a fresh Page whenever a frame is reused.
func (p *Page) SetPageId(id types.PageID) {
	p.id = id
}

// Data returns the raw bytes of the page.
func (p *Page) Data() *[common.PageSize]byte {
	return p.data
}

// SetIsDirty sets the dirty bit.
func (p *Page) SetIsDirty(isDirty bool) {
	p.isDirty = isDirty
}

// IsDirty reports whether the page has been modified but not flushed.
func (p *Page) IsDirty() bool {
	return p.isDirty
}

// ResetMemory zeroes the page's buffer. NewPage does not call it; it
// starts from NewEmpty's zeroed buffer.
func (p *Page) ResetMemory() {
	for i := range p.data {
		p.data[i] = 0
	}
}

// New creates a page wrapping pre-existing data, e.g. just read from disk.
func New(id types.PageID, isDirty bool, data *[common.PageSize]byte) *Page {
	return &Page{id: id, pinCount: 1, isDirty: isDirty, data: data, rwlatch: common.NewRWLatch()}
}

// NewEmpty creates a page with a zeroed buffer.
func NewEmpty(id types.PageID) *Page {
	return &Page{id: id, pinCount: 1, isDirty: false, data: &[common.PageSize]byte{}, rwlatch: common.NewRWLatch()}
}

// WLatch acquires the page's write latch.
func (p *Page) WLatch() { p.rwlatch.WLock() }

// WUnlatch releases the page's write latch.
func (p *Page) WUnlatch() { p.rwlatch.WUnlock() }

// RLatch acquires the page's read latch.
func (p *Page) RLatch() { p.rwlatch.RLock() }

// RUnlatch releases the page's read latch.
func (p *Page) RUnlatch() { p.rwlatch.RUnlock() }
