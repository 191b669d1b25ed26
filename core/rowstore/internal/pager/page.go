package pager

import (
	"github.com/FocuswithJustin/rowstore/core/rowstore/internal/layout"
)

// Page flags
const (
	// PageFlagClean indicates the page matches what is on disk.
	PageFlagClean = 0x001

	// PageFlagDirty indicates the page has been modified since it was loaded or flushed.
	PageFlagDirty = 0x002
)

// Page is one resident page buffer.
type Page struct {
	// Page index within the file (0-based)
	Num int

	// Page content, always layout.PageSize bytes
	Data []byte

	// Flags indicating page state
	Flags uint16
}

// NewPage creates a zero-filled page with the given index.
func NewPage(num int) *Page {
	return &Page{
		Num:   num,
		Data:  make([]byte, layout.PageSize),
		Flags: PageFlagClean,
	}
}

// IsDirty returns true if the page has been modified.
func (p *Page) IsDirty() bool {
	return p.Flags&PageFlagDirty != 0
}

// MakeDirty marks the page as modified.
func (p *Page) MakeDirty() {
	p.Flags &^= PageFlagClean
	p.Flags |= PageFlagDirty
}

// MakeClean marks the page as matching disk.
func (p *Page) MakeClean() {
	p.Flags &^= PageFlagDirty
	p.Flags |= PageFlagClean
}

// Write copies data into the page at offset and marks the page dirty.
func (p *Page) Write(offset int, data []byte) error {
	if offset < 0 || offset+len(data) > len(p.Data) {
		return ErrInvalidOffset
	}

	copy(p.Data[offset:], data)
	p.MakeDirty()
	return nil
}

// Slice returns the page bytes in [offset, offset+length) without copying.
// Writes through the returned slice do not mark the page dirty.
func (p *Page) Slice(offset, length int) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > len(p.Data) {
		return nil, ErrInvalidOffset
	}
	return p.Data[offset : offset+length : offset+length], nil
}

// pageTable is a fixed-capacity array of optional pages indexed by page number.
// Nothing is ever evicted.
type pageTable struct {
	slots    [layout.TableMaxPages]*Page
	resident int
}

func (c *pageTable) get(num int) *Page {
	return c.slots[num]
}

func (c *pageTable) put(page *Page) {
	if c.slots[page.Num] == nil {
		c.resident++
	}
	c.slots[page.Num] = page
}

func (c *pageTable) dirtyPages() []*Page {
	var pages []*Page
	for _, p := range c.slots {
		if p != nil && p.IsDirty() {
			pages = append(pages, p)
		}
	}
	return pages
}

func (c *pageTable) clear() {
	c.slots = [layout.TableMaxPages]*Page{}
	c.resident = 0
}
