// Package export copies the rows of a rowstore database into other formats.
package export

import (
	"context"
	"database/sql"
	"fmt"

	rserrors "github.com/FocuswithJustin/rowstore/core/errors"
	"github.com/FocuswithJustin/rowstore/core/rowstore"
	"github.com/FocuswithJustin/rowstore/core/sqlite"
	"github.com/FocuswithJustin/rowstore/internal/logging"
)

// DefaultTable is the SQLite table rows are written to.
const DefaultTable = "users"

const createTableSQL = `CREATE TABLE IF NOT EXISTS %s (
	id       INTEGER NOT NULL,
	username TEXT    NOT NULL,
	email    TEXT    NOT NULL
)`

// ToSQLite copies every row of db into table DefaultTable of the SQLite file
// at path, creating it if needed, inside one transaction. Duplicate ids are
// kept because rowstore does not enforce uniqueness. It returns the number
// of rows written.
func ToSQLite(ctx context.Context, db *rowstore.DB, path string) (int, error) {
	out, err := sqlite.Open(path)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	tx, err := out.BeginTx(ctx, nil)
	if err != nil {
		return 0, rserrors.Wrap(err, "begin export transaction")
	}
	defer tx.Rollback()

	n, err := copyRows(ctx, tx, db)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, rserrors.Wrap(err, "commit export")
	}

	logging.InfoContext(ctx, "export_sqlite",
		"src", db.Path(),
		"dst", path,
		"rows", n,
		"driver", sqlite.DriverType(),
	)
	return n, nil
}

func copyRows(ctx context.Context, tx *sql.Tx, db *rowstore.DB) (int, error) {
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(createTableSQL, DefaultTable)); err != nil {
		return 0, rserrors.Wrapf(err, "create %s table", DefaultTable)
	}

	stmt, err := tx.PrepareContext(ctx,
		fmt.Sprintf("INSERT INTO %s (id, username, email) VALUES (?, ?, ?)", DefaultTable))
	if err != nil {
		return 0, rserrors.Wrap(err, "prepare insert")
	}
	defer stmt.Close()

	n := 0
	err = db.Scan(func(r *rowstore.Record) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, int64(r.ID), r.Username(), r.Email()); err != nil {
			return rserrors.Wrapf(err, "insert row %d", n)
		}
		n++
		return nil
	})
	return n, err
}
