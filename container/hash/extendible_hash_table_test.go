package hash

import "testing"

// Scenario: bucket_size = 2, insert keys whose hashes are the four 2-bit
// patterns 0b00, 0b10, 0b01, 0b11 in that order. The first two share a
// bucket at global_depth 0; the third forces the directory to grow and
// the bucket to split. All four keys must remain retrievable throughout,
// and every entry must live at a directory index consistent with its own
// hash under the current local depth of its bucket.
func TestExtendibleHashTableSplitScenario(t *testing.T) {
	hashOf := map[int]uint32{0: 0b00, 1: 0b10, 2: 0b01, 3: 0b11}
	h := NewExtendibleHashTable[int, string](2, func(k int) uint32 { return hashOf[k] })

	for _, k := range []int{0, 1, 2, 3} {
		h.Insert(k, "v")
		for _, seen := range []int{0, 1, 2, 3} {
			if seen > k {
				continue
			}
			if _, ok := h.Find(seen); !ok {
				t.Fatalf("Find(%d) not found after inserting key %d", seen, k)
			}
		}
		checkBucketInvariant(t, h)
	}

	if got := h.GlobalDepth(); got < 1 {
		t.Fatalf("GlobalDepth() = %d after forcing a split, want >= 1", got)
	}
}

func TestExtendibleHashTableFindUpdateRemove(t *testing.T) {
	h := NewExtendibleHashTable[string, int](4, func(k string) uint32 {
		var sum uint32
		for _, c := range k {
			sum += uint32(c)
		}
		return sum
	})

	h.Insert("a", 1)
	h.Insert("a", 2)
	if v, ok := h.Find("a"); !ok || v != 2 {
		t.Fatalf("Find(a) = %d, %v; want 2, true (Insert should update in place)", v, ok)
	}

	if ok := h.Remove("a"); !ok {
		t.Fatalf("Remove(a) = false, want true")
	}
	if _, ok := h.Find("a"); ok {
		t.Fatalf("Find(a) found after Remove")
	}
	if ok := h.Remove("a"); ok {
		t.Fatalf("Remove(a) twice = true, want false")
	}
}

func TestExtendibleHashTableBucketInvariant(t *testing.T) {
	h := NewExtendibleHashTable[int, bool](1, HashPageIDLikeInt)
	for k := 0; k < 50; k++ {
		h.Insert(k, true)
	}
	for k := 0; k < 50; k++ {
		if _, ok := h.Find(k); !ok {
			t.Fatalf("Find(%d) not found after 50 inserts with bucket_size=1", k)
		}
	}
	checkBucketInvariant(t, h)
}

// checkBucketInvariant fails t if any entry sits behind a directory slot
// whose low local-depth bits differ from the entry's own hash bits.
func checkBucketInvariant[K comparable, V any](t *testing.T, h *ExtendibleHashTable[K, V]) {
	t.Helper()
	for i, b := range h.dir {
		m := mask(b.depth)
		for _, e := range b.entries {
			if h.hashFn(e.key)&m != uint32(i)&m {
				t.Fatalf("key %v at directory slot %d breaks local depth %d", e.key, i, b.depth)
			}
		}
	}
}

func HashPageIDLikeInt(k int) uint32 { return GenHashMurMur([]byte{byte(k), byte(k >> 8)}) }
