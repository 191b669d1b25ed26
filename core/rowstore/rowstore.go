// Package rowstore is a single-file store of fixed-width user records.
//
// Rows are appended with Insert and read back in insertion order with
// SelectAll or Scan. Pages are cached in memory and only written to disk by
// Close, so rows inserted since Open are lost if the process exits without
// closing the DB.
//
// A DB is not safe for concurrent use.
package rowstore

import (
	"github.com/FocuswithJustin/rowstore/core/rowstore/internal/layout"
	"github.com/FocuswithJustin/rowstore/core/rowstore/internal/pager"
	"github.com/FocuswithJustin/rowstore/core/rowstore/internal/record"
	"github.com/FocuswithJustin/rowstore/core/rowstore/internal/table"
	"github.com/FocuswithJustin/rowstore/internal/logging"
)

// Record is one stored row.
type Record = record.Record

// Errors returned by DB operations.
var (
	ErrTableFull       = table.ErrTableFull
	ErrPageOutOfBounds = pager.ErrPageOutOfBounds
	ErrNoResidentPage  = pager.ErrNoResidentPage
)

// Capacity limits of a database file.
const (
	MaxRows      = layout.TableMaxRows
	MaxUsername  = layout.UsernameSize
	MaxEmail     = layout.EmailSize
	RecordSize   = layout.RecordSize
	RowsPerPage  = layout.RowsPerPage
	PageSize     = layout.PageSize
	MaxPageCount = layout.TableMaxPages
)

// NewRecord validates and builds a record. Text longer than its field is rejected.
func NewRecord(id uint16, username, email string) (*Record, error) {
	return record.New(id, username, email)
}

// DB is an open database file.
type DB struct {
	path  string
	table *table.Table
}

// Open opens or creates the database at path.
func Open(path string) (*DB, error) {
	p, err := pager.Open(path)
	if err != nil {
		return nil, err
	}

	t, err := table.Open(p)
	if err != nil {
		p.Close()
		return nil, err
	}

	logging.TableOpened(path, t.RowCount())
	return &DB{path: path, table: t}, nil
}

// Path returns the file the DB was opened from.
func (db *DB) Path() string {
	return db.path
}

// RowCount returns the number of rows in the table.
func (db *DB) RowCount() int {
	return db.table.RowCount()
}

// Insert appends r. It fails with ErrTableFull, touching nothing, when the
// table already holds MaxRows rows.
func (db *DB) Insert(r *Record) error {
	if db.table.IsFull() {
		return ErrTableFull
	}

	pos := table.End(db.table).Position()
	page, err := db.table.Pager().Page(pos.Page)
	if err != nil {
		return err
	}

	enc := r.Encode()
	if err := page.Write(pos.Offset, enc[:]); err != nil {
		return err
	}
	return db.table.IncrementRowCount()
}

// Scan calls fn for every row in index order. It stops at the first error
// returned by fn or by a page load.
func (db *DB) Scan(fn func(*Record) error) error {
	c := table.Start(db.table)
	for !c.EndOfTable() {
		v, err := c.Value()
		if err != nil {
			return err
		}
		r, err := record.Decode(v)
		if err != nil {
			return err
		}
		if err := fn(r); err != nil {
			return err
		}
		c.Advance()
	}
	return nil
}

// SelectAll returns every row in insertion order.
func (db *DB) SelectAll() ([]*Record, error) {
	rows := make([]*Record, 0, db.table.RowCount())
	err := db.Scan(func(r *Record) error {
		rows = append(rows, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Close writes resident pages holding rows back to the file and closes it.
func (db *DB) Close() error {
	return db.table.Close()
}
