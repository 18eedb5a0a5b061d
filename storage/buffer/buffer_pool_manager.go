// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package buffer

import (
	"fmt"

	"github.com/ncw/directio"
	"github.com/sasha-s/go-deadlock"

	"github.com/crabtree-db/crabtree/common"
	"github.com/crabtree-db/crabtree/container/hash"
	"github.com/crabtree-db/crabtree/storage/disk"
	"github.com/crabtree-db/crabtree/storage/page"
	"github.com/crabtree-db/crabtree/types"
)

// BufferPoolManager mediates every access to a page's bytes: callers ask
// for a page id and get back a pinned, in-memory Page, never a raw disk
// offset. Residency is tracked by an extendible hash table (page id ->
// frame id) and eviction candidates are chosen by an LRU-K replacer.
type BufferPoolManager struct {
	latch       deadlock.Mutex
	diskManager disk.DiskManager
	pages       []*page.Page // index is FrameID
	replacer    *LRUKReplacer
	freeList    []types.FrameID
	pageTable   *hash.ExtendibleHashTable[types.PageID, types.FrameID]
}

// NewBufferPoolManager constructs a pool of poolSize frames backed by
// diskManager, with LRU-K replacement parameterised by k.
func NewBufferPoolManager(poolSize int32, k int32, diskManager disk.DiskManager) *BufferPoolManager {
	freeList := make([]types.FrameID, poolSize)
	for i := int32(0); i < poolSize; i++ {
		freeList[i] = types.FrameID(i)
	}
	return &BufferPoolManager{
		diskManager: diskManager,
		pages:       make([]*page.Page, poolSize),
		replacer:    NewLRUKReplacer(poolSize, k),
		freeList:    freeList,
		pageTable:   hash.NewExtendibleHashTable[types.PageID, types.FrameID](common.DefaultBucketSize, hash.HashPageID),
	}
}

// allocateFrame returns a free frame, evicting one via the replacer if the
// free list is empty. The evicted frame's resident page, if dirty, is
// flushed before its slot is reused.
func (b *BufferPoolManager) allocateFrame() (types.FrameID, bool) {
	if len(b.freeList) > 0 {
		frameID := b.freeList[0]
		b.freeList = b.freeList[1:]
		return frameID, true
	}

	frameID, ok := b.replacer.Evict()
	if !ok {
		return 0, false
	}
	if victim := b.pages[frameID]; victim != nil {
		if victim.IsDirty() {
			data := victim.Data()
			if err := b.diskManager.WritePage(victim.GetPageId(), data[:]); err != nil {
				common.ShPrintf(common.ERROR, "BufferPoolManager: failed writing evicted page %d: %v\n", victim.GetPageId(), err)
			}
		}
		b.pageTable.Remove(victim.GetPageId())
		b.pages[frameID] = nil
	}
	return frameID, true
}

// NewPage allocates a brand new page on disk, pins it and returns it.
func (b *BufferPoolManager) NewPage() *page.Page {
	b.latch.Lock()
	defer b.latch.Unlock()

	frameID, ok := b.allocateFrame()
	if !ok {
		return nil
	}

	pageID := b.diskManager.AllocatePage()
	pg := page.NewEmpty(pageID)

	b.pageTable.Insert(pageID, frameID)
	b.pages[frameID] = pg
	b.replacer.RecordAccess(frameID)
	b.replacer.SetEvictable(frameID, false)

	common.ShPrintf(common.DEBUG_INFO, "BufferPoolManager::NewPage pageId=%d frameId=%d\n", pageID, frameID)
	return pg
}

// FetchPage returns the requested page, pinned, reading it from disk if
// it is not already resident. Returns nil if every frame is pinned.
func (b *BufferPoolManager) FetchPage(pageID types.PageID) *page.Page {
	b.latch.Lock()
	defer b.latch.Unlock()

	if frameID, ok := b.pageTable.Find(pageID); ok {
		pg := b.pages[frameID]
		pg.IncPinCount()
		b.replacer.RecordAccess(frameID)
		b.replacer.SetEvictable(frameID, false)
		return pg
	}

	frameID, ok := b.allocateFrame()
	if !ok {
		return nil
	}

	data := directio.AlignedBlock(common.PageSize)
	if err := b.diskManager.ReadPage(pageID, data); err != nil {
		common.ShPrintf(common.ERROR, "BufferPoolManager::FetchPage failed reading page %d: %v\n", pageID, err)
		b.freeList = append(b.freeList, frameID)
		return nil
	}
	var buf [common.PageSize]byte
	copy(buf[:], data)
	pg := page.New(pageID, false, &buf)

	b.pageTable.Insert(pageID, frameID)
	b.pages[frameID] = pg
	b.replacer.RecordAccess(frameID)
	b.replacer.SetEvictable(frameID, false)

	common.ShPrintf(common.DEBUG_INFO, "BufferPoolManager::FetchPage pageId=%d frameId=%d\n", pageID, frameID)
	return pg
}

// UnpinPage decrements a page's pin count, marking it evictable once the
// count reaches zero. isDirty is OR'd into the page's dirty bit, so a
// caller that only read the page passes false without clearing a dirty
// bit set by another caller.
func (b *BufferPoolManager) UnpinPage(pageID types.PageID, isDirty bool) error {
	b.latch.Lock()
	defer b.latch.Unlock()

	frameID, ok := b.pageTable.Find(pageID)
	if !ok {
		return fmt.Errorf("buffer pool: unpin of page %d not in pool", pageID)
	}
	pg := b.pages[frameID]
	if pg.PinCount() <= 0 {
		return fmt.Errorf("buffer pool: unpin of page %d with pin count already zero", pageID)
	}

	pg.DecPinCount()
	if isDirty {
		pg.SetIsDirty(true)
	}
	if pg.PinCount() == 0 {
		b.replacer.SetEvictable(frameID, true)
	}
	return nil
}

// FlushPage writes a page's current bytes to disk regardless of its
// dirty bit, clearing the dirty bit on success.
func (b *BufferPoolManager) FlushPage(pageID types.PageID) bool {
	b.latch.Lock()
	defer b.latch.Unlock()

	frameID, ok := b.pageTable.Find(pageID)
	if !ok {
		return false
	}
	pg := b.pages[frameID]
	data := pg.Data()
	if err := b.diskManager.WritePage(pageID, data[:]); err != nil {
		return false
	}
	pg.SetIsDirty(false)
	return true
}

// FlushAllPages flushes every page currently resident in the pool.
func (b *BufferPoolManager) FlushAllPages() {
	b.latch.Lock()
	ids := make([]types.PageID, 0, len(b.pages))
	for _, pg := range b.pages {
		if pg != nil {
			ids = append(ids, pg.GetPageId())
		}
	}
	b.latch.Unlock()

	for _, id := range ids {
		b.FlushPage(id)
	}
}

// DeletePage removes a page from the pool and deallocates its backing
// disk space. It refuses to delete a pinned page.
func (b *BufferPoolManager) DeletePage(pageID types.PageID) bool {
	b.latch.Lock()
	defer b.latch.Unlock()

	frameID, ok := b.pageTable.Find(pageID)
	if !ok {
		return true
	}
	pg := b.pages[frameID]
	if pg.PinCount() > 0 {
		return false
	}

	if pg.IsDirty() {
		data := pg.Data()
		if err := b.diskManager.WritePage(pageID, data[:]); err != nil {
			common.ShPrintf(common.ERROR, "BufferPoolManager::DeletePage failed flushing page %d: %v\n", pageID, err)
		}
	}

	b.pageTable.Remove(pageID)
	b.replacer.Remove(frameID)
	b.pages[frameID] = nil
	b.freeList = append(b.freeList, frameID)

	b.diskManager.DeallocatePage(pageID)
	return true
}

// GetPoolSize returns the number of frames the pool manages.
func (b *BufferPoolManager) GetPoolSize() int {
	return len(b.pages)
}
