// Package table tracks the row count of a database file and walks its rows.
package table

import (
	"errors"

	rserrors "github.com/FocuswithJustin/rowstore/core/errors"
	"github.com/FocuswithJustin/rowstore/core/rowstore/internal/layout"
	"github.com/FocuswithJustin/rowstore/core/rowstore/internal/pager"
	"github.com/FocuswithJustin/rowstore/internal/logging"
)

// ErrTableFull is returned when the table already holds layout.TableMaxRows rows.
var ErrTableFull = errors.New("table full")

// Table owns a pager and the authoritative row count.
type Table struct {
	pager    *pager.Pager
	rowCount int
}

// Open derives the row count from the file length. A trailing fragment
// shorter than a record is not counted.
func Open(p *pager.Pager) (*Table, error) {
	length, err := p.FileLength()
	if err != nil {
		return nil, err
	}

	rows, stray := RowsForLength(length)
	if stray != 0 {
		logging.Warn("ignoring partial trailing record",
			"path", p.Filename(),
			"stray_bytes", stray,
		)
	}
	if rows > layout.TableMaxRows {
		logging.Warn("row count exceeds table capacity",
			"path", p.Filename(),
			"rows", rows,
			"max_rows", layout.TableMaxRows,
		)
		rows = layout.TableMaxRows
	}

	return &Table{pager: p, rowCount: rows}, nil
}

// RowsForLength returns how many whole rows a file of length bytes holds and
// how many bytes past the last whole row are left over. Full pages count
// RowsPerPage rows each; the padding at the end of a page is not a row.
func RowsForLength(length int64) (rows int, stray int64) {
	fullPages := length / layout.PageSize
	tail := length % layout.PageSize

	tailRows := tail / layout.RecordSize
	stray = tail - tailRows*layout.RecordSize
	if tailRows == layout.RowsPerPage {
		stray = 0
	}
	return int(fullPages)*layout.RowsPerPage + int(tailRows), stray
}

// RowCount returns the number of valid rows.
func (t *Table) RowCount() int {
	return t.rowCount
}

// Pager returns the table's page store.
func (t *Table) Pager() *pager.Pager {
	return t.pager
}

// LocateRow returns where row lives.
func (t *Table) LocateRow(row int) Position {
	return Locate(row)
}

// IsFull reports whether another row can be appended.
func (t *Table) IsFull() bool {
	return t.rowCount >= layout.TableMaxRows
}

// IncrementRowCount records one appended row.
func (t *Table) IncrementRowCount() error {
	if t.IsFull() {
		return ErrTableFull
	}
	t.rowCount++
	return nil
}

// Close writes back every modified page that can hold a valid row and
// closes the pager. Unmodified pages already match disk and are skipped, so
// a session that only reads leaves the file untouched. When a page was
// written, the file is cut back to the end of the last row. The file is
// closed even if a flush fails; the first error is returned.
func (t *Table) Close() error {
	fullPages := t.rowCount / layout.RowsPerPage
	last := fullPages
	if t.rowCount%layout.RowsPerPage > 0 {
		last++
	}

	var firstErr error
	flushed := 0
	for _, page := range t.pager.DirtyPages() {
		if page.Num >= last {
			continue
		}
		if err := t.pager.Flush(page.Num); err != nil {
			if firstErr == nil {
				firstErr = rserrors.Wrapf(err, "flush page %d", page.Num)
			}
			continue
		}
		flushed++
	}

	if firstErr == nil && flushed > 0 {
		// Flushes write whole pages; drop the padding after the last row so
		// the next Open counts the same rows.
		end := Locate(t.rowCount).FileOffset()
		if err := t.pager.Truncate(end); err != nil {
			firstErr = err
		}
	}

	logging.TableClosed(t.pager.Filename(), t.rowCount, flushed, "pages_resident", t.pager.Resident())

	if err := t.pager.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
