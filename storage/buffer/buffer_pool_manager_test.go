package buffer

import (
	"testing"

	"github.com/crabtree-db/crabtree/storage/disk"
	"github.com/crabtree-db/crabtree/types"
)

// Scenario: pool_size = 3. Three NewPage calls succeed and return three
// distinct frames; a fourth fails because every frame is pinned and the
// replacer has nothing evictable. Unpinning one frame lets the fourth
// NewPage succeed by evicting it.
func TestBufferPoolManagerExhaustionAndEviction(t *testing.T) {
	dm := disk.NewDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(3, 2, dm)

	ids := make([]types.PageID, 3)
	for i := 0; i < 3; i++ {
		pg := bpm.NewPage()
		if pg == nil {
			t.Fatalf("NewPage() #%d returned nil, want a page", i)
		}
		ids[i] = pg.GetPageId()
	}

	if pg := bpm.NewPage(); pg != nil {
		t.Fatalf("NewPage() with all frames pinned = %v, want nil", pg)
	}

	if err := bpm.UnpinPage(ids[1], false); err != nil {
		t.Fatalf("UnpinPage(%d) = %v", ids[1], err)
	}

	pg := bpm.NewPage()
	if pg == nil {
		t.Fatalf("NewPage() after unpin returned nil, want a page evicting the unpinned frame")
	}

	if _, ok := bpm.pageTable.Find(ids[1]); ok {
		t.Fatalf("page %d still resident after its frame should have been evicted", ids[1])
	}
}

// A page fetched, unpinned, then fetched again without any intervening
// eviction must return byte-identical data without another disk read.
func TestBufferPoolManagerFetchRoundTrip(t *testing.T) {
	dm := disk.NewDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(3, 2, dm)

	pg := bpm.NewPage()
	if pg == nil {
		t.Fatalf("NewPage() returned nil")
	}
	id := pg.GetPageId()
	pg.Data()[0] = 0x42
	pg.SetIsDirty(true)
	if err := bpm.UnpinPage(id, true); err != nil {
		t.Fatalf("UnpinPage(%d) = %v", id, err)
	}

	fetched := bpm.FetchPage(id)
	if fetched == nil {
		t.Fatalf("FetchPage(%d) returned nil", id)
	}
	if fetched.Data()[0] != 0x42 {
		t.Fatalf("FetchPage(%d) byte[0] = %#x, want 0x42", id, fetched.Data()[0])
	}
	bpm.UnpinPage(id, false)
}

// FlushPage followed by FetchPage after the original frame has been
// evicted must read back the flushed bytes from disk.
func TestBufferPoolManagerFlushSurvivesEviction(t *testing.T) {
	dm := disk.NewDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(1, 2, dm)

	pg := bpm.NewPage()
	id := pg.GetPageId()
	pg.Data()[10] = 0x7a
	if !bpm.FlushPage(id) {
		t.Fatalf("FlushPage(%d) = false", id)
	}
	if err := bpm.UnpinPage(id, false); err != nil {
		t.Fatalf("UnpinPage(%d) = %v", id, err)
	}

	// Force eviction of the only frame by allocating another page.
	other := bpm.NewPage()
	if other == nil {
		t.Fatalf("NewPage() for eviction returned nil")
	}
	bpm.UnpinPage(other.GetPageId(), false)

	refetched := bpm.FetchPage(id)
	if refetched == nil {
		t.Fatalf("FetchPage(%d) after eviction returned nil", id)
	}
	if refetched.Data()[10] != 0x7a {
		t.Fatalf("FetchPage(%d) byte[10] = %#x, want 0x7a", id, refetched.Data()[10])
	}
	bpm.UnpinPage(id, false)
}

// DeletePage refuses to remove a pinned page but succeeds once unpinned,
// and frees its frame back onto the free list for reuse.
func TestBufferPoolManagerDeletePage(t *testing.T) {
	dm := disk.NewDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(2, 2, dm)

	pg := bpm.NewPage()
	id := pg.GetPageId()

	if bpm.DeletePage(id) {
		t.Fatalf("DeletePage(%d) on a pinned page = true, want false", id)
	}

	if err := bpm.UnpinPage(id, false); err != nil {
		t.Fatalf("UnpinPage(%d) = %v", id, err)
	}
	if !bpm.DeletePage(id) {
		t.Fatalf("DeletePage(%d) = false, want true", id)
	}
	if _, ok := bpm.pageTable.Find(id); ok {
		t.Fatalf("page %d still in page table after DeletePage", id)
	}
}
