// algorithm grounded on the CMU bustub LRU-K replacer (src/buffer/lru_k_replacer.cpp)

package buffer

import (
	"fmt"

	"github.com/sasha-s/go-deadlock"

	"github.com/crabtree-db/crabtree/common"
	"github.com/crabtree-db/crabtree/types"
)

const noFrame = types.FrameID(-1)

// node is one frame's bookkeeping entry. prev/next are frame ids rather
// than pointers: the replacer's map IS the arena, addressed by frame id,
// so there is nothing for a prev/next pointer to leak or cycle through.
type node struct {
	frameID     types.FrameID
	accessCount int32
	evictable   bool
	prev, next  types.FrameID
}

// intrusiveList is a doubly linked list of frame ids threaded through a
// shared node arena, with a dummy head/tail pair so push/remove never
// special-case the empty list.
type intrusiveList struct {
	nodes      map[types.FrameID]*node
	head, tail types.FrameID // dummy sentinels, never real frame ids
}

func newIntrusiveList(nodes map[types.FrameID]*node, headSentinel, tailSentinel types.FrameID) *intrusiveList {
	// sentinels live outside the caller-visible frame id space, and each
	// list sharing the arena needs its own pair.
	nodes[headSentinel] = &node{frameID: headSentinel, next: tailSentinel}
	nodes[tailSentinel] = &node{frameID: tailSentinel, prev: headSentinel}
	return &intrusiveList{nodes: nodes, head: headSentinel, tail: tailSentinel}
}

func (l *intrusiveList) pushFront(id types.FrameID) {
	n := l.nodes[id]
	first := l.nodes[l.head].next
	n.prev, n.next = l.head, first
	l.nodes[l.head].next = id
	l.nodes[first].prev = id
}

func (l *intrusiveList) remove(id types.FrameID) {
	n := l.nodes[id]
	l.nodes[n.prev].next = n.next
	l.nodes[n.next].prev = n.prev
	n.prev, n.next = noFrame, noFrame
}

func (l *intrusiveList) moveToFront(id types.FrameID) {
	l.remove(id)
	l.pushFront(id)
}

// removeLastEvictable scans from the tail (oldest) forward for the first
// evictable node, removes it from the list and returns its id.
func (l *intrusiveList) removeLastEvictable() (types.FrameID, bool) {
	for cur := l.nodes[l.tail].prev; cur != l.head; cur = l.nodes[cur].prev {
		if l.nodes[cur].evictable {
			l.remove(cur)
			return cur, true
		}
	}
	return noFrame, false
}

// LRUKReplacer selects an eviction victim by maximum backward k-distance.
// Frames with fewer than k accesses (the history list) have infinite
// k-distance and are always evicted before any frame on the cache list
// (k or more accesses). Ties within a list are broken by recency (oldest
// first).
type LRUKReplacer struct {
	latch         deadlock.Mutex
	nodes         map[types.FrameID]*node
	history       *intrusiveList
	cache         *intrusiveList
	k             int32
	replacerSize  int32 // number of currently evictable frames
	numFrames     int32 // pool_size, the valid frame id range is [0, numFrames)
}

// NewLRUKReplacer constructs a replacer over numFrames frame ids with
// backward-distance parameter k.
func NewLRUKReplacer(numFrames int32, k int32) *LRUKReplacer {
	r := &LRUKReplacer{
		nodes:     make(map[types.FrameID]*node),
		k:         k,
		numFrames: numFrames,
	}
	r.history = newIntrusiveList(r.nodes, types.FrameID(-2), types.FrameID(-3))
	r.cache = newIntrusiveList(r.nodes, types.FrameID(-4), types.FrameID(-5))
	return r
}

func (r *LRUKReplacer) checkFrameID(frameID types.FrameID) {
	common.Assert(frameID >= 0 && frameID < types.FrameID(r.numFrames),
		fmt.Sprintf("lru-k: frame id %d out of range [0,%d)", frameID, r.numFrames))
}

// RecordAccess records that frameID was accessed "now". A brand new frame
// id starts in the history list; once its access count reaches k it
// migrates to the cache list.
func (r *LRUKReplacer) RecordAccess(frameID types.FrameID) {
	r.checkFrameID(frameID)
	r.latch.Lock()
	defer r.latch.Unlock()

	n, ok := r.nodes[frameID]
	if !ok {
		n = &node{frameID: frameID}
		r.nodes[frameID] = n
		r.history.pushFront(frameID)
	} else if n.accessCount < r.k {
		r.history.moveToFront(frameID)
	} else {
		r.cache.moveToFront(frameID)
	}

	n.accessCount++
	if n.accessCount == r.k {
		r.history.remove(frameID)
		r.cache.pushFront(frameID)
	}
}

// SetEvictable flips whether frameID is a candidate for Evict, adjusting
// the evictable count. It is a no-op if the value is unchanged, and
// panics if frameID has never been recorded.
func (r *LRUKReplacer) SetEvictable(frameID types.FrameID, evictable bool) {
	r.checkFrameID(frameID)
	r.latch.Lock()
	defer r.latch.Unlock()

	n, ok := r.nodes[frameID]
	common.Assert(ok, fmt.Sprintf("lru-k: SetEvictable on unknown frame %d", frameID))

	if n.evictable == evictable {
		return
	}
	n.evictable = evictable
	if evictable {
		r.replacerSize++
	} else {
		r.replacerSize--
	}
}

// Evict removes and returns the frame with the greatest backward
// k-distance among evictable frames, preferring the history list (all of
// whose members have infinite k-distance) over the cache list.
func (r *LRUKReplacer) Evict() (types.FrameID, bool) {
	r.latch.Lock()
	defer r.latch.Unlock()

	if id, ok := r.history.removeLastEvictable(); ok {
		delete(r.nodes, id)
		r.replacerSize--
		return id, true
	}
	if id, ok := r.cache.removeLastEvictable(); ok {
		delete(r.nodes, id)
		r.replacerSize--
		return id, true
	}
	return noFrame, false
}

// Remove unconditionally drops frameID's history, if present. The caller
// guarantees frameID is either evictable or absent; removing a pinned
// (non-evictable) frame this way is a usage bug.
func (r *LRUKReplacer) Remove(frameID types.FrameID) {
	r.latch.Lock()
	defer r.latch.Unlock()

	n, ok := r.nodes[frameID]
	if !ok {
		return
	}
	if n.accessCount < r.k {
		r.history.remove(frameID)
	} else {
		r.cache.remove(frameID)
	}
	if n.evictable {
		r.replacerSize--
	}
	delete(r.nodes, frameID)
}

// Size returns the number of currently evictable frames.
func (r *LRUKReplacer) Size() int32 {
	r.latch.Lock()
	defer r.latch.Unlock()
	return r.replacerSize
}
