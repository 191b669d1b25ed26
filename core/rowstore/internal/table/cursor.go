package table

import (
	"github.com/FocuswithJustin/rowstore/core/rowstore/internal/layout"
)

// Cursor walks the rows of a table in index order. It borrows the table
// and must not be kept across an insert.
type Cursor struct {
	table      *Table
	row        int
	endOfTable bool
}

// Start returns a cursor on row 0.
func Start(t *Table) *Cursor {
	return &Cursor{
		table:      t,
		row:        0,
		endOfTable: t.rowCount == 0,
	}
}

// End returns a cursor one past the last row, which is where the next insert goes.
func End(t *Table) *Cursor {
	return &Cursor{
		table:      t,
		row:        t.rowCount,
		endOfTable: true,
	}
}

// Row returns the current row index.
func (c *Cursor) Row() int {
	return c.row
}

// EndOfTable reports whether the cursor has passed the last row.
func (c *Cursor) EndOfTable() bool {
	return c.endOfTable
}

// Position returns the physical location of the current row.
func (c *Cursor) Position() Position {
	return c.table.LocateRow(c.row)
}

// Value returns the record-sized window of the page holding the current row.
// The page is loaded if needed; the slice aliases the page buffer.
func (c *Cursor) Value() ([]byte, error) {
	pos := c.Position()
	page, err := c.table.pager.Page(pos.Page)
	if err != nil {
		return nil, err
	}
	return page.Slice(pos.Offset, layout.RecordSize)
}

// Advance moves to the next row. It does nothing once the end is reached.
func (c *Cursor) Advance() {
	if c.endOfTable {
		return
	}
	c.row++
	if c.row >= c.table.rowCount {
		c.endOfTable = true
	}
}
