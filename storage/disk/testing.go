// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package disk

import (
	"os"

	"github.com/crabtree-db/crabtree/common"
)

// DiskManagerTest is the disk implementation of DiskManager for testing
// purposes: it defaults to the virtual (in-memory) implementation and
// removes its own temp file on ShutDown when the real one is used.
type DiskManagerTest struct {
	path string
	DiskManager
}

// NewDiskManagerTest returns a DiskManager instance for testing purposes
func NewDiskManagerTest() DiskManager {
	f, err := os.CreateTemp("", "crabtree.")
	if err != nil {
		panic(err)
	}
	path := f.Name()
	f.Close()
	os.Remove(path)

	if common.EnableOnMemStorage {
		return &DiskManagerTest{path, NewVirtualDiskManagerImpl(path)}
	}
	return &DiskManagerTest{path, NewDiskManagerImpl(path)}
}

// ShutDown closes the database file
func (d *DiskManagerTest) ShutDown() {
	d.DiskManager.ShutDown()
	if !common.EnableOnMemStorage {
		os.Remove(d.path)
	}
}
