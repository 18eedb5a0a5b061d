package index

import (
	"testing"

	"github.com/crabtree-db/crabtree/storage/buffer"
	"github.com/crabtree-db/crabtree/storage/disk"
	"github.com/crabtree-db/crabtree/storage/page"
	"github.com/crabtree-db/crabtree/types"
)

func newTestTree(t *testing.T, leafMax, internalMax int32) (*BPlusTree, func()) {
	dm := disk.NewDiskManagerTest()
	bpm := buffer.NewBufferPoolManager(50, 2, dm)
	tree := NewBPlusTree("test_index", bpm, leafMax, internalMax)
	return tree, func() { dm.ShutDown() }
}

func rid(k int64) page.RID { return page.NewRID(types.InvalidPageID, uint32(k)) }

// Scenario: leaf_max_size = 3. Inserting 1, 2, 3 in order overflows the
// root leaf on the third insert, splitting it into [1,2] and [3] with
// separator key 3 pushed into a freshly created root.
func TestBPlusTreeInsertSplit(t *testing.T) {
	tree, done := newTestTree(t, 3, 3)
	defer done()

	for _, k := range []int64{1, 2, 3} {
		if ok := tree.Insert(types.Key(k), rid(k), nil); !ok {
			t.Fatalf("Insert(%d) = false, want true", k)
		}
	}

	rootID := tree.GetRootPageId()
	rootPg := tree.bpm.FetchPage(rootID)
	root := page.WrapInternalPage(rootPg)
	if root.GetSize() != 2 {
		t.Fatalf("root size = %d, want 2 (one separator, two children)", root.GetSize())
	}
	if got := root.KeyAt(1); got != types.Key(3) {
		t.Fatalf("root separator key = %d, want 3", got)
	}
	tree.bpm.UnpinPage(rootID, false)

	leftID := root.ValueAt(0)
	leftPg := tree.bpm.FetchPage(leftID)
	left := page.WrapLeafPage(leftPg)
	if left.GetSize() != 2 || left.KeyAt(0) != 1 || left.KeyAt(1) != 2 {
		t.Fatalf("left leaf keys wrong, size=%d", left.GetSize())
	}
	tree.bpm.UnpinPage(leftID, false)

	rightID := root.ValueAt(1)
	rightPg := tree.bpm.FetchPage(rightID)
	right := page.WrapLeafPage(rightPg)
	if right.GetSize() != 1 || right.KeyAt(0) != 3 {
		t.Fatalf("right leaf keys wrong, size=%d", right.GetSize())
	}
	tree.bpm.UnpinPage(rightID, false)

	for _, k := range []int64{1, 2, 3} {
		v, ok := tree.GetValue(types.Key(k))
		if !ok || v.GetSlot() != uint32(k) {
			t.Fatalf("GetValue(%d) = %v, %v; want slot %d, true", k, v, ok, k)
		}
	}
}

// Continuing from the split above and inserting 4 (leaves [1,2] and
// [3,4]): removing 4 underflows the right leaf (size 1 < min_size 2),
// and since [1,2] cannot spare an entry it merges into its left sibling. The parent is left with a single child and
// collapses, so the root becomes the merged leaf itself.
func TestBPlusTreeDeleteMerge(t *testing.T) {
	tree, done := newTestTree(t, 3, 3)
	defer done()

	for _, k := range []int64{1, 2, 3, 4} {
		tree.Insert(types.Key(k), rid(k), nil)
	}

	tree.Remove(types.Key(4), nil)

	rootID := tree.GetRootPageId()
	rootPg := tree.bpm.FetchPage(rootID)
	if pageType(rootPg) != page.IndexPageLeaf {
		t.Fatalf("root is not a leaf after merge collapse")
	}
	leaf := page.WrapLeafPage(rootPg)
	if leaf.GetSize() != 3 {
		t.Fatalf("merged leaf size = %d, want 3", leaf.GetSize())
	}
	for i, want := range []int64{1, 2, 3} {
		if got := leaf.KeyAt(int32(i)); got != types.Key(want) {
			t.Fatalf("merged leaf key[%d] = %d, want %d", i, got, want)
		}
	}
	tree.bpm.UnpinPage(rootID, false)

	if _, ok := tree.GetValue(types.Key(4)); ok {
		t.Fatalf("GetValue(4) found removed key")
	}
}

// Continuing further: inserting 5 overflows the merged 3-entry leaf
// (leaf_max_size 3), splitting it into [1,2] and [3,5]. An iterator started from
// the beginning must walk every key in ascending order across the
// next_page_id chain.
func TestBPlusTreeIteratorOrder(t *testing.T) {
	tree, done := newTestTree(t, 3, 3)
	defer done()

	for _, k := range []int64{1, 2, 3, 4} {
		tree.Insert(types.Key(k), rid(k), nil)
	}
	tree.Remove(types.Key(4), nil)
	tree.Insert(types.Key(5), rid(5), nil)

	var got []int64
	for it := tree.Begin(); it.Valid(); it.Next() {
		got = append(got, int64(it.Key()))
	}
	want := []int64{1, 2, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("iterator yielded %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("iterator yielded %v, want %v", got, want)
		}
	}
}

func TestBPlusTreeInsertGetRoundTrip(t *testing.T) {
	tree, done := newTestTree(t, 4, 4)
	defer done()

	if !tree.Insert(types.Key(10), rid(10), nil) {
		t.Fatalf("Insert(10) = false, want true")
	}
	v, ok := tree.GetValue(types.Key(10))
	if !ok || v.GetSlot() != 10 {
		t.Fatalf("GetValue(10) = %v, %v; want slot 10, true", v, ok)
	}
}

func TestBPlusTreeInsertDuplicateRejected(t *testing.T) {
	tree, done := newTestTree(t, 4, 4)
	defer done()

	tree.Insert(types.Key(1), rid(1), nil)
	if ok := tree.Insert(types.Key(1), rid(99), nil); ok {
		t.Fatalf("Insert of duplicate key = true, want false")
	}
	v, ok := tree.GetValue(types.Key(1))
	if !ok || v.GetSlot() != 1 {
		t.Fatalf("GetValue(1) = %v, %v; want original slot 1 preserved", v, ok)
	}
}

func TestBPlusTreeRemoveThenGetValueFails(t *testing.T) {
	tree, done := newTestTree(t, 4, 4)
	defer done()

	tree.Insert(types.Key(7), rid(7), nil)
	tree.Remove(types.Key(7), nil)
	if _, ok := tree.GetValue(types.Key(7)); ok {
		t.Fatalf("GetValue(7) found after Remove")
	}
	if !tree.IsEmpty() {
		t.Fatalf("IsEmpty() = false after removing the only key")
	}
}

// Inserting a larger, unordered key set and then fetching every key back
// exercises multiple levels of splitting beyond the hand-traced scenarios
// above.
func TestBPlusTreeManyKeysRoundTrip(t *testing.T) {
	tree, done := newTestTree(t, 4, 4)
	defer done()

	keys := []int64{50, 10, 40, 20, 30, 5, 25, 45, 15, 35, 1, 60, 55, 70, 65}
	for _, k := range keys {
		if !tree.Insert(types.Key(k), rid(k), nil) {
			t.Fatalf("Insert(%d) = false, want true", k)
		}
	}
	for _, k := range keys {
		v, ok := tree.GetValue(types.Key(k))
		if !ok || v.GetSlot() != uint32(k) {
			t.Fatalf("GetValue(%d) = %v, %v; want slot %d, true", k, v, ok, k)
		}
	}

	var prev types.Key
	first := true
	for it := tree.Begin(); it.Valid(); it.Next() {
		if !first && it.Key() <= prev {
			t.Fatalf("iterator out of order: %d after %d", it.Key(), prev)
		}
		prev = it.Key()
		first = false
	}
}
