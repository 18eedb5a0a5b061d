// algorithm grounded on the CMU bustub extendible hash table
// (src/container/hash/extendible_hash_table.cpp)

package hash

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sasha-s/go-deadlock"
)

type entry[K comparable, V any] struct {
	key   K
	value V
}

type bucket[K comparable, V any] struct {
	entries []entry[K, V]
	depth   int32
	size    int32
}

func newBucket[K comparable, V any](size int32, depth int32) *bucket[K, V] {
	return &bucket[K, V]{size: size, depth: depth}
}

func (b *bucket[K, V]) isFull() bool {
	return int32(len(b.entries)) >= b.size
}

func (b *bucket[K, V]) find(key K) (V, bool) {
	for _, e := range b.entries {
		if e.key == key {
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

func (b *bucket[K, V]) update(key K, value V) bool {
	for i, e := range b.entries {
		if e.key == key {
			b.entries[i].value = value
			return true
		}
	}
	return false
}

func (b *bucket[K, V]) insert(key K, value V) {
	b.entries = append(b.entries, entry[K, V]{key, value})
}

func (b *bucket[K, V]) remove(key K) bool {
	for i, e := range b.entries {
		if e.key == key {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return true
		}
	}
	return false
}

// ExtendibleHashTable maps K -> V with bounded per-bucket size and
// directory doubling, used by the buffer pool as its page table
// (page id -> frame id).
type ExtendibleHashTable[K comparable, V any] struct {
	mutex       deadlock.Mutex
	globalDepth int32
	bucketSize  int32
	numBuckets  int32
	dir         []*bucket[K, V]
	hashFn      func(K) uint32
}

// NewExtendibleHashTable constructs a table with one bucket of the given
// capacity, hashing keys with hashFn.
func NewExtendibleHashTable[K comparable, V any](bucketSize int32, hashFn func(K) uint32) *ExtendibleHashTable[K, V] {
	return &ExtendibleHashTable[K, V]{
		globalDepth: 0,
		bucketSize:  bucketSize,
		numBuckets:  1,
		dir:         []*bucket[K, V]{newBucket[K, V](bucketSize, 0)},
		hashFn:      hashFn,
	}
}

func mask(depth int32) uint32 {
	return (uint32(1) << depth) - 1
}

// indexOf returns the directory slot a key currently hashes to.
func (h *ExtendibleHashTable[K, V]) indexOf(key K) uint32 {
	return h.hashFn(key) & mask(h.globalDepth)
}

// GlobalDepth returns the directory's global depth.
func (h *ExtendibleHashTable[K, V]) GlobalDepth() int32 {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.globalDepth
}

// LocalDepth returns the local depth of the bucket at directory index i.
func (h *ExtendibleHashTable[K, V]) LocalDepth(i int) int32 {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.dir[i].depth
}

// NumBuckets returns the number of distinct buckets (directory slots that
// share a bucket, because local depth < global depth, count once).
func (h *ExtendibleHashTable[K, V]) NumBuckets() int32 {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.numBuckets
}

// Find resolves key to its value, if present.
func (h *ExtendibleHashTable[K, V]) Find(key K) (V, bool) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	b := h.dir[h.indexOf(key)]
	return b.find(key)
}

// Remove deletes key, reporting whether it was present. Buckets are never
// merged back together on removal, matching bustub's reference design.
func (h *ExtendibleHashTable[K, V]) Remove(key K) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	b := h.dir[h.indexOf(key)]
	return b.remove(key)
}

// Insert maps key to value, inserting or overwriting, growing the
// directory and splitting buckets as needed to make room.
func (h *ExtendibleHashTable[K, V]) Insert(key K, value V) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for {
		idx := h.indexOf(key)
		b := h.dir[idx]

		if b.update(key, value) {
			return
		}
		if !b.isFull() {
			b.insert(key, value)
			return
		}

		if b.depth == h.globalDepth {
			h.dir = append(h.dir, h.dir...)
			h.globalDepth++
		}

		h.splitBucket(b)
	}
}

// splitBucket splits a full bucket into two at depth+1 and repoints every
// directory slot that used to resolve to it.
func (h *ExtendibleHashTable[K, V]) splitBucket(b *bucket[K, V]) {
	newDepth := b.depth + 1
	lowBucket := newBucket[K, V](h.bucketSize, newDepth)
	highBucket := newBucket[K, V](h.bucketSize, newDepth)
	highBit := uint32(1) << b.depth

	for _, e := range b.entries {
		if h.hashFn(e.key)&highBit != 0 {
			highBucket.insert(e.key, e.value)
		} else {
			lowBucket.insert(e.key, e.value)
		}
	}

	affected := mapset.NewThreadUnsafeSet[int]()
	for i, slot := range h.dir {
		if slot == b {
			affected.Add(i)
		}
	}
	affected.Each(func(i int) bool {
		if uint32(i)&highBit != 0 {
			h.dir[i] = highBucket
		} else {
			h.dir[i] = lowBucket
		}
		return false
	})

	h.numBuckets++
}
