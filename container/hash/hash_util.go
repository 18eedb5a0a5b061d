package hash

import (
	"encoding/binary"

	"github.com/spaolacci/murmur3"

	"github.com/crabtree-db/crabtree/types"
)

// GenHashMurMur hashes an arbitrary byte slice with murmur3, truncated to
// 32 bits — the hash used to place keys into extendible hash table
// buckets.
func GenHashMurMur(key []byte) uint32 {
	h := murmur3.New128()
	h.Write(key)
	hash := h.Sum(nil)
	return binary.LittleEndian.Uint32(hash)
}

// HashPageID hashes a page id, the ExtendibleHashTable instantiation this
// module actually uses (as the buffer pool's page table).
func HashPageID(id types.PageID) uint32 {
	return GenHashMurMur(id.Serialize())
}
