// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package disk

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/crabtree-db/crabtree/common"
	"github.com/crabtree-db/crabtree/types"
)

// DiskManagerImpl is the file-backed implementation of DiskManager.
type DiskManagerImpl struct {
	db         *os.File
	fileName   string
	nextPageID types.PageID
	numWrites  uint64
	size       int64
	fileMutex  *sync.Mutex
}

// NewDiskManagerImpl returns a DiskManager instance
func NewDiskManagerImpl(dbFilename string) DiskManager {
	file, err := os.OpenFile(dbFilename, os.O_RDWR|os.O_CREATE, 0666)
	if err != nil {
		log.Fatalln("can't open db file")
		return nil
	}

	fileInfo, err := file.Stat()
	if err != nil {
		log.Fatalln("file info error")
		return nil
	}

	fileSize := fileInfo.Size()
	nPages := fileSize / common.PageSize

	nextPageID := types.PageID(0)
	if nPages > 0 {
		nextPageID = types.PageID(int32(nPages))
	}

	return &DiskManagerImpl{file, dbFilename, nextPageID, 0, fileSize, new(sync.Mutex)}
}

// ShutDown closes the database file
func (d *DiskManagerImpl) ShutDown() {
	d.fileMutex.Lock()
	defer d.fileMutex.Unlock()
	if err := d.db.Close(); err != nil {
		panic(fmt.Sprintf("close of db file failed: %v", err))
	}
}

// WritePage writes a page to the database file
func (d *DiskManagerImpl) WritePage(pageId types.PageID, pageData []byte) error {
	d.fileMutex.Lock()
	defer d.fileMutex.Unlock()

	offset := int64(pageId) * int64(common.PageSize)
	if _, err := d.db.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("disk: seek for write failed: %w", err)
	}

	bytesWritten, err := d.db.Write(pageData)
	if err != nil {
		return fmt.Errorf("disk: write failed: %w", err)
	}
	if bytesWritten != common.PageSize {
		panic("bytes written does not equal page size")
	}

	if offset+int64(bytesWritten) > d.size {
		d.size = offset + int64(bytesWritten)
	}
	d.numWrites++

	return d.db.Sync()
}

// ReadPage reads a page from the database file
func (d *DiskManagerImpl) ReadPage(pageID types.PageID, pageData []byte) error {
	d.fileMutex.Lock()
	defer d.fileMutex.Unlock()

	offset := int64(pageID) * int64(common.PageSize)
	if offset >= d.size {
		return errors.New("disk: read past end of file")
	}

	if _, err := d.db.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("disk: seek for read failed: %w", err)
	}

	bytesRead, err := d.db.Read(pageData)
	if err != nil && err != io.EOF {
		return fmt.Errorf("disk: read failed: %w", err)
	}

	if bytesRead < common.PageSize {
		for i := bytesRead; i < common.PageSize; i++ {
			pageData[i] = 0
		}
	}
	return nil
}

// AllocatePage allocates a new page id, monotonically increasing.
func (d *DiskManagerImpl) AllocatePage() types.PageID {
	d.fileMutex.Lock()
	defer d.fileMutex.Unlock()

	ret := d.nextPageID
	d.nextPageID++
	return ret
}

// DeallocatePage is a no-op. This implementation has no allocation
// bitmap, so a deallocated page id is never handed out again and its
// bytes stay in the file.
func (d *DiskManagerImpl) DeallocatePage(pageID types.PageID) {}

// GetNumWrites returns the number of disk writes performed so far.
func (d *DiskManagerImpl) GetNumWrites() uint64 {
	return d.numWrites
}

// Size returns the size of the file on disk.
func (d *DiskManagerImpl) Size() int64 {
	d.fileMutex.Lock()
	defer d.fileMutex.Unlock()
	return d.size
}

// RemoveDBFile deletes the backing file. Call only after ShutDown.
func (d *DiskManagerImpl) RemoveDBFile() {
	d.fileMutex.Lock()
	defer d.fileMutex.Unlock()
	if err := os.Remove(d.fileName); err != nil {
		panic(fmt.Sprintf("file remove failed: %v", err))
	}
}
