//go:build cgo_sqlite

package sqliteexternal

import (
	_ "github.com/mattn/go-sqlite3" // registers "sqlite3"
)

// Read by core/sqlite when built with cgo_sqlite.
const (
	// DriverName is the database/sql name mattn/go-sqlite3 registers under.
	DriverName = "sqlite3"

	// DriverType is reported by `rowstore version` and the export log.
	DriverType = "cgo"

	// DriverPackage is the import path of the underlying driver.
	DriverPackage = "github.com/mattn/go-sqlite3"
)
