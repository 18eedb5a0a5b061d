// this code is from https://github.com/pzhzqt/goostub
// there is license and copyright notice in licenses/goostub dir

package common

import (
	"fmt"
	"sync/atomic"

	"github.com/sasha-s/go-deadlock"
)

// ReaderWriterLatch is the per-page / per-structure latch abstraction used
// throughout the replacer, buffer pool, hash directory and B+ tree.
type ReaderWriterLatch interface {
	WLock()
	WUnlock()
	RLock()
	RUnlock()
	PrintDebugInfo()
}

// readerWriterLatch is backed by deadlock.RWMutex rather than sync.RWMutex:
// latch crabbing acquires several of these at once in a fixed top-down
// order, and a swapped acquisition order anywhere is exactly the bug class
// go-deadlock is built to catch in tests.
type readerWriterLatch struct {
	mutex deadlock.RWMutex
}

func NewRWLatch() ReaderWriterLatch {
	return &readerWriterLatch{}
}

func (l *readerWriterLatch) WLock()   { l.mutex.Lock() }
func (l *readerWriterLatch) WUnlock() { l.mutex.Unlock() }
func (l *readerWriterLatch) RLock()   { l.mutex.RLock() }
func (l *readerWriterLatch) RUnlock() { l.mutex.RUnlock() }

func (l *readerWriterLatch) PrintDebugInfo() {
	// nothing to report; see readerWriterLatchDebug for instrumented latches
}

// readerWriterLatchDebug additionally counts live readers/writers and
// screams at a double W-lock (or a W-unlock that leaves a writer count)
// on a supposedly single threaded debug path. Readers are only counted,
// never checked.
type readerWriterLatchDebug struct {
	mutex     deadlock.RWMutex
	readerCnt int32
	writerCnt int32
}

func NewRWLatchDebug() ReaderWriterLatch {
	return &readerWriterLatchDebug{}
}

func (l *readerWriterLatchDebug) WLock() {
	n := atomic.AddInt32(&l.writerCnt, 1)
	l.mutex.Lock()
	if n != 1 {
		panic(fmt.Sprintf("double WLock: readerCnt=%d writerCnt=%d", l.readerCnt, n))
	}
}

func (l *readerWriterLatchDebug) WUnlock() {
	n := atomic.AddInt32(&l.writerCnt, -1)
	l.mutex.Unlock()
	if n != 0 {
		panic(fmt.Sprintf("double WUnlock: readerCnt=%d writerCnt=%d", l.readerCnt, n))
	}
}

func (l *readerWriterLatchDebug) RLock() {
	atomic.AddInt32(&l.readerCnt, 1)
	l.mutex.RLock()
}

func (l *readerWriterLatchDebug) RUnlock() {
	atomic.AddInt32(&l.readerCnt, -1)
	l.mutex.RUnlock()
}

func (l *readerWriterLatchDebug) PrintDebugInfo() {
	fmt.Printf("latch: readerCnt=%d writerCnt=%d\n", l.readerCnt, l.writerCnt)
}
