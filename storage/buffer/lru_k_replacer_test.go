package buffer

import (
	"testing"

	"github.com/crabtree-db/crabtree/types"
)

// Scenario: frames 1..6, k=2, pool=7. Record each frame once (putting all
// six in the history list, since none has reached k=2 accesses yet), mark
// 1..5 evictable and 6 pinned, then access 1 again (promoting it to the
// cache list on its second access). Eviction should then walk the
// remaining history-list frames oldest first.
func TestLRUKReplacerSample(t *testing.T) {
	r := NewLRUKReplacer(7, 2)

	for i := types.FrameID(1); i <= 6; i++ {
		r.RecordAccess(i)
	}
	for i := types.FrameID(1); i <= 5; i++ {
		r.SetEvictable(i, true)
	}
	r.SetEvictable(6, false)
	r.RecordAccess(1)

	wantEvictOrder := []types.FrameID{2, 3, 4}
	for _, want := range wantEvictOrder {
		got, ok := r.Evict()
		if !ok || got != want {
			t.Fatalf("Evict() = %d, %v; want %d, true", got, ok, want)
		}
	}

	r.RecordAccess(3)
	r.RecordAccess(4)
	r.RecordAccess(5)
	r.RecordAccess(4)
	r.SetEvictable(3, true)
	r.SetEvictable(4, true)
	if got, ok := r.Evict(); !ok || got != 3 {
		t.Fatalf("Evict() = %d, %v; want 3, true", got, ok)
	}

	r.SetEvictable(6, true)
	if got, ok := r.Evict(); !ok || got != 6 {
		t.Fatalf("Evict() = %d, %v; want 6, true", got, ok)
	}

	r.SetEvictable(1, false)
	if got, ok := r.Evict(); !ok || got != 5 {
		t.Fatalf("Evict() = %d, %v; want 5, true", got, ok)
	}

	r.RecordAccess(1)
	r.RecordAccess(1)
	r.SetEvictable(1, true)
	if got, ok := r.Evict(); !ok || got != 4 {
		t.Fatalf("Evict() = %d, %v; want 4, true", got, ok)
	}
	if got, ok := r.Evict(); !ok || got != 1 {
		t.Fatalf("Evict() = %d, %v; want 1, true", got, ok)
	}
	if _, ok := r.Evict(); ok {
		t.Fatalf("Evict() on empty replacer should fail")
	}
}

func TestLRUKReplacerSizeTracksEvictableCount(t *testing.T) {
	r := NewLRUKReplacer(4, 2)
	r.RecordAccess(0)
	r.RecordAccess(1)
	r.SetEvictable(0, true)
	r.SetEvictable(1, true)
	if got := r.Size(); got != 2 {
		t.Fatalf("Size() = %d, want 2", got)
	}

	r.SetEvictable(0, false)
	if got := r.Size(); got != 1 {
		t.Fatalf("Size() = %d, want 1", got)
	}

	r.Remove(1)
	if got := r.Size(); got != 0 {
		t.Fatalf("Size() = %d, want 0", got)
	}
}
