// this code is from https://github.com/pzhzqt/goostub
// there is license and copyright notice in licenses/goostub dir

package common

// EnableDebug is a debug switch that no code in this module reads;
// ShPrintf tracing is controlled by LogLevelSetting instead.
const EnableDebug bool = false

// EnableOnMemStorage makes DiskManagerTest default to the in-memory
// virtual disk manager instead of a real file-backed one.
const EnableOnMemStorage = true

const (
	// InvalidPageID is the page id sentinel shared by disk-facing code;
	// types.InvalidPageID is the typed equivalent used elsewhere.
	InvalidPageID = -1
	// InvalidTxnID marks a latch-crabbing operation run without a caller
	// supplied transaction.
	InvalidTxnID = -1
	// InvalidLSN is the LSN sentinel for a page that was never logged.
	InvalidLSN = -1
	// HeaderPageID is the fixed page id of the (index_name -> root_page_id)
	// directory page.
	HeaderPageID = 0
	// PageSize is the size of a data page in bytes.
	PageSize = 4096

	// DefaultPoolSize is the buffer pool frame count used when a caller
	// does not specify one.
	DefaultPoolSize = 64
	// DefaultLRUK is the k parameter of the default LRU-K replacer.
	DefaultLRUK = 2
	// DefaultBucketSize is the per-bucket capacity of a fresh extendible
	// hash table.
	DefaultBucketSize = 4
)

// TxnID is the transaction id type.
type TxnID int32

// SlotOffset is the slot offset type used when addressing bytes within a
// page buffer.
type SlotOffset uintptr
