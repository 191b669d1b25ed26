package pager

import (
	"errors"
	"fmt"
	"io"
	"os"

	rserrors "github.com/FocuswithJustin/rowstore/core/errors"
	"github.com/FocuswithJustin/rowstore/core/rowstore/internal/layout"
	"github.com/FocuswithJustin/rowstore/internal/logging"
)

// Common errors
var (
	ErrPageOutOfBounds = errors.New("page index out of bounds")
	ErrNoResidentPage  = errors.New("page is not resident")
	ErrInvalidOffset   = errors.New("invalid offset")
	ErrClosed          = errors.New("pager is closed")
)

// Pager owns the database file and the in-memory copies of its pages.
// A resident page is authoritative and may be ahead of disk; a missing
// page means disk is authoritative or the page does not exist yet.
//
// A Pager is not safe for concurrent use.
type Pager struct {
	// File handle for the database file
	file *os.File

	// Database filename
	filename string

	// Resident pages
	pages pageTable
}

// Open opens the database file, creating it if needed. No page is read.
func Open(filename string) (*Pager, error) {
	file, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, rserrors.NewIO("open", filename, err)
	}

	return &Pager{
		file:     file,
		filename: filename,
	}, nil
}

// Close releases the file handle. Resident pages are dropped without being written.
func (p *Pager) Close() error {
	p.pages.clear()

	if p.file == nil {
		return nil
	}
	err := p.file.Close()
	p.file = nil
	if err != nil {
		return rserrors.NewIO("close", p.filename, err)
	}
	return nil
}

// Filename returns the path the pager was opened with.
func (p *Pager) Filename() string {
	return p.filename
}

// FileLength returns the current size of the database file in bytes.
func (p *Pager) FileLength() (int64, error) {
	if p.file == nil {
		return 0, ErrClosed
	}
	info, err := p.file.Stat()
	if err != nil {
		return 0, rserrors.NewIO("stat", p.filename, err)
	}
	return info.Size(), nil
}

// PageCount returns the number of pages on disk, counting a partial trailing page.
func (p *Pager) PageCount() (int, error) {
	n, err := p.FileLength()
	if err != nil {
		return 0, err
	}
	return int((n + layout.PageSize - 1) / layout.PageSize), nil
}

// Resident returns the number of resident pages.
func (p *Pager) Resident() int {
	return p.pages.resident
}

// DirtyPages returns the resident pages modified since they were loaded or flushed,
// in page order.
func (p *Pager) DirtyPages() []*Page {
	return p.pages.dirtyPages()
}

// Page returns the resident buffer for page num, loading it on first use.
// A page inside the file's extent is read from disk; a page past the end
// starts zero-filled. Later calls return the same *Page.
func (p *Pager) Page(num int) (*Page, error) {
	if !inBounds(num) {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrPageOutOfBounds, num, layout.TableMaxPages-1)
	}

	if page := p.pages.get(num); page != nil {
		return page, nil
	}

	numPages, err := p.PageCount()
	if err != nil {
		return nil, err
	}

	page := NewPage(num)
	fromDisk := num < numPages
	if fromDisk {
		if err := p.readPage(page); err != nil {
			return nil, err
		}
	}

	p.pages.put(page)
	logging.PageLoaded(num, fromDisk, "path", p.filename)
	return page, nil
}

// Flush writes page num to disk at num*PageSize. The page stays resident.
func (p *Pager) Flush(num int) error {
	if !inBounds(num) {
		return fmt.Errorf("%w: %d (max %d)", ErrPageOutOfBounds, num, layout.TableMaxPages-1)
	}

	page := p.pages.get(num)
	if page == nil {
		return fmt.Errorf("%w: %d", ErrNoResidentPage, num)
	}
	if p.file == nil {
		return ErrClosed
	}

	return p.writePage(page)
}

// Truncate cuts the file to size bytes if it is longer. Resident pages are untouched.
func (p *Pager) Truncate(size int64) error {
	length, err := p.FileLength()
	if err != nil {
		return err
	}
	if length <= size {
		return nil
	}
	if err := p.file.Truncate(size); err != nil {
		return rserrors.NewIO("truncate", p.filename, err)
	}
	return nil
}

// readPage fills page from disk. A short read at end of file leaves the
// remainder zero-filled.
func (p *Pager) readPage(page *Page) error {
	offset := int64(page.Num) * layout.PageSize
	_, err := p.file.ReadAt(page.Data, offset)
	if err != nil && err != io.EOF {
		return rserrors.NewIO(fmt.Sprintf("read page %d of", page.Num), p.filename, err)
	}
	return nil
}

// writePage writes the whole page buffer, padding included.
func (p *Pager) writePage(page *Page) error {
	offset := int64(page.Num) * layout.PageSize
	if _, err := p.file.WriteAt(page.Data, offset); err != nil {
		return rserrors.NewIO(fmt.Sprintf("write page %d of", page.Num), p.filename, err)
	}
	page.MakeClean()
	return nil
}

func inBounds(num int) bool {
	return num >= 0 && num < layout.TableMaxPages
}
