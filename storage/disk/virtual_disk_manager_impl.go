package disk

import (
	"errors"
	"sync"

	"github.com/dsnet/golib/memfile"

	"github.com/crabtree-db/crabtree/common"
	"github.com/crabtree-db/crabtree/types"
)

// VirtualDiskManagerImpl is an in-memory DiskManager backed by memfile
// instead of an *os.File. It is the default DiskManager for tests: no real
// file I/O, and page-id space freed by DeallocatePage is recycled.
type VirtualDiskManagerImpl struct {
	db              *memfile.File
	fileName        string
	nextPageID      types.PageID
	numWrites       uint64
	size            int64
	fileMutex       *sync.Mutex
	reusableSpceIDs []types.PageID
	spaceIDConvMap  map[types.PageID]types.PageID
	deallocedIDMap  map[types.PageID]bool
}

// NewVirtualDiskManagerImpl returns an in-memory DiskManager. dbFilename is
// kept only for symmetry with DiskManagerImpl; no file is ever created.
func NewVirtualDiskManagerImpl(dbFilename string) DiskManager {
	return &VirtualDiskManagerImpl{
		db:              memfile.New(make([]byte, 0)),
		fileName:        dbFilename,
		nextPageID:      types.PageID(0),
		fileMutex:       new(sync.Mutex),
		reusableSpceIDs: make([]types.PageID, 0),
		spaceIDConvMap:  make(map[types.PageID]types.PageID),
		deallocedIDMap:  make(map[types.PageID]bool),
	}
}

// ShutDown is a no-op: there is no backing file to close.
func (d *VirtualDiskManagerImpl) ShutDown() {}

// convToSpaceID resolves a page id to the storage slot its bytes actually
// live at, following reuse of a deallocated page's slot.
func (d *VirtualDiskManagerImpl) convToSpaceID(pageID types.PageID) types.PageID {
	if convedID, exist := d.spaceIDConvMap[pageID]; exist {
		return convedID
	}
	return pageID
}

// WritePage writes a page's bytes into the virtual file.
func (d *VirtualDiskManagerImpl) WritePage(pageId types.PageID, pageData []byte) error {
	d.fileMutex.Lock()
	defer d.fileMutex.Unlock()

	offset := int64(d.convToSpaceID(pageId)) * int64(common.PageSize)
	d.db.WriteAt(pageData, offset)

	if offset+int64(len(pageData)) > d.size {
		d.size = offset + int64(len(pageData))
	}
	d.numWrites++
	return nil
}

// ReadPage reads a page's bytes from the virtual file.
func (d *VirtualDiskManagerImpl) ReadPage(pageID types.PageID, pageData []byte) error {
	d.fileMutex.Lock()
	defer d.fileMutex.Unlock()

	if d.deallocedIDMap[pageID] {
		return types.ErrPageDeallocated
	}

	offset := int64(d.convToSpaceID(pageID)) * int64(common.PageSize)
	if offset+int64(len(pageData)) > d.size {
		return errors.New("disk: read past end of file")
	}

	_, err := d.db.ReadAt(pageData, offset)
	return err
}

// AllocatePage allocates a new page id, reusing a deallocated page's slot
// when one is available.
func (d *VirtualDiskManagerImpl) AllocatePage() types.PageID {
	d.fileMutex.Lock()
	defer d.fileMutex.Unlock()

	ret := d.nextPageID
	if len(d.reusableSpceIDs) > 0 {
		reuseID := d.reusableSpceIDs[0]
		d.reusableSpceIDs = d.reusableSpceIDs[1:]
		d.spaceIDConvMap[ret] = reuseID
	}
	d.nextPageID++
	return ret
}

// DeallocatePage marks a page id deallocated and its storage slot reusable
// by a future AllocatePage.
func (d *VirtualDiskManagerImpl) DeallocatePage(pageID types.PageID) {
	d.fileMutex.Lock()
	defer d.fileMutex.Unlock()

	d.deallocedIDMap[pageID] = true
	if convedID, exist := d.spaceIDConvMap[pageID]; exist {
		d.reusableSpceIDs = append(d.reusableSpceIDs, convedID)
		delete(d.spaceIDConvMap, pageID)
	} else {
		d.reusableSpceIDs = append(d.reusableSpceIDs, pageID)
	}
}

// GetNumWrites returns the number of disk writes performed so far.
func (d *VirtualDiskManagerImpl) GetNumWrites() uint64 {
	return d.numWrites
}

// Size returns the size of the virtual file.
func (d *VirtualDiskManagerImpl) Size() int64 {
	d.fileMutex.Lock()
	defer d.fileMutex.Unlock()
	return d.size
}

// RemoveDBFile is a no-op: there is no backing file to remove.
func (d *VirtualDiskManagerImpl) RemoveDBFile() {}
