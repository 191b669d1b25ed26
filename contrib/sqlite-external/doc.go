// Package sqliteexternal provides the optional CGO SQLite driver.
//
// It is compiled only with the cgo_sqlite build tag; core/sqlite then
// registers github.com/mattn/go-sqlite3 instead of the pure Go default:
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite ./cmd/rowstore
//
// The driver is only used by the SQLite export command. Use it when the
// target machine already builds with CGO and export speed matters; use the
// default when a single static binary or cross-compilation matters more.
package sqliteexternal
