// grounded on the CMU bustub Transaction::AddIntoPageSet / GetPageSet
// page-set stack, used here for B+ tree latch crabbing.

package concurrency

import (
	stack "github.com/golang-collections/collections/stack"

	"github.com/crabtree-db/crabtree/common"
	"github.com/crabtree-db/crabtree/storage/page"
	"github.com/crabtree-db/crabtree/types"
)

// LockMode is the latch a page in a TransactionContext's page set was
// acquired under, so it can be released the same way it was taken.
type LockMode int32

const (
	LockRead LockMode = iota
	LockWrite
)

// pageSetEntry is one (page handle, lock mode) pair held by an in-flight
// tree operation, pushed in acquisition order so it can be unwound
// latest-first once the operation knows it is safe.
type pageSetEntry struct {
	page *page.Page
	mode LockMode
}

// TransactionContext is the latch-crabbing state an insert/delete/lookup
// carries as it descends the tree: a stack of pages it currently holds
// latched, released latest-first once the operation proves a split,
// merge or borrow can't propagate any further up.
type TransactionContext struct {
	id      common.TxnID
	pageSet *stack.Stack
	deleted []types.PageID
}

// NewTransactionContext starts a fresh page set for one tree operation.
func NewTransactionContext(id common.TxnID) *TransactionContext {
	return &TransactionContext{id: id, pageSet: stack.New()}
}

// GetTransactionId returns the caller-assigned identifier for this
// operation, used only for logging — no lock manager or isolation level
// is implemented here.
func (txn *TransactionContext) GetTransactionId() common.TxnID { return txn.id }

// AddIntoPageSet records that pg is latched under mode, most-recently
// acquired on top.
func (txn *TransactionContext) AddIntoPageSet(pg *page.Page, mode LockMode) {
	txn.pageSet.Push(pageSetEntry{pg, mode})
}

// PopFrontPageSet removes and returns the most recently acquired entry,
// or nil once the set is empty; it does not unlatch or unpin the page,
// which is left to the caller. Crabbing always unwinds in this order:
// the operation never needs to release anything but its current bottom
// latch first.
func (txn *TransactionContext) PopFrontPageSet() (*page.Page, LockMode, bool) {
	v := txn.pageSet.Pop()
	if v == nil {
		return nil, 0, false
	}
	e := v.(pageSetEntry)
	return e.page, e.mode, true
}

// ReleaseAll hands every page still held to unpin (which unlatches and
// unpins it), most recently acquired first, used once an operation
// reaches a point where no ancestor page can possibly need to change.
func (txn *TransactionContext) ReleaseAll(unpin func(pg *page.Page, mode LockMode)) {
	for {
		pg, mode, ok := txn.PopFrontPageSet()
		if !ok {
			return
		}
		unpin(pg, mode)
	}
}

// AddIntoDeletedPageSet records a page id freed during this operation
// (an internal node collapsed into its only child, a leaf merged away).
// The context only keeps the list; it never deallocates these pages.
func (txn *TransactionContext) AddIntoDeletedPageSet(id types.PageID) {
	txn.deleted = append(txn.deleted, id)
}

// GetDeletedPageSet returns every page id freed during this operation.
func (txn *TransactionContext) GetDeletedPageSet() []types.PageID {
	return txn.deleted
}
