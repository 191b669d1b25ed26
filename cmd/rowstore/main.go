// Command rowstore is the shell and maintenance tool for rowstore database files.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	rserrors "github.com/FocuswithJustin/rowstore/core/errors"
	"github.com/FocuswithJustin/rowstore/core/rowstore"
	"github.com/FocuswithJustin/rowstore/core/sqlite"
	"github.com/FocuswithJustin/rowstore/internal/archive"
	"github.com/FocuswithJustin/rowstore/internal/export"
	"github.com/FocuswithJustin/rowstore/internal/importer"
	"github.com/FocuswithJustin/rowstore/internal/logging"
	"github.com/FocuswithJustin/rowstore/internal/repl"
	"github.com/FocuswithJustin/rowstore/internal/validation"
)

const version = "0.1.0"

// maxFileSize is the largest file a full table produces.
const maxFileSize = int64(rowstore.MaxPageCount) * rowstore.PageSize

// Injectable for tests.
var (
	stdout io.Writer = os.Stdout
	stdin  io.Reader = os.Stdin
)

// isTerminal reports whether stdin is interactive.
var isTerminal = func() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// CLI defines the command-line interface for rowstore.
type CLI struct {
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)" default:"warn" enum:"debug,info,warn,error" env:"ROWSTORE_LOG_LEVEL"`
	LogFormat string `name:"log-format" help:"Log format (text, json)" default:"text" enum:"text,json" env:"ROWSTORE_LOG_FORMAT"`
	LogFile   string `name:"log-file" help:"Append logs to this file instead of stderr" type:"path" env:"ROWSTORE_LOG_FILE"`

	Repl         ReplCmd         `cmd:"" default:"withargs" help:"Open an interactive shell on a database file"`
	Insert       InsertCmd       `cmd:"" help:"Append one row"`
	Select       SelectCmd       `cmd:"" help:"Print every row"`
	Checksum     ChecksumCmd     `cmd:"" help:"Print the BLAKE3 digest of a database file"`
	Backup       BackupCmd       `cmd:"" help:"Write an xz-compressed backup with a digest file"`
	Restore      RestoreCmd      `cmd:"" help:"Restore a database file from a backup"`
	ExportSQLite ExportSQLiteCmd `cmd:"" name:"export-sqlite" help:"Copy every row into a SQLite database"`
	ImportXML    ImportXMLCmd    `cmd:"" name:"import-xml" help:"Insert rows read from an XML document"`
	Version      VersionCmd      `cmd:"" help:"Print version information"`
}

// AfterApply configures logging before any command runs.
func (c *CLI) AfterApply() error {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(c.LogFormat)
	if err != nil {
		return err
	}
	if c.LogFile != "" {
		// Left open for the life of the process.
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return rserrors.NewIO("open log file", c.LogFile, err)
		}
		logging.SetOutput(f)
	}
	logging.InitLogger(level, format)
	return nil
}

// openDB validates path and opens it.
func openDB(path string) (*rowstore.DB, error) {
	if err := validation.ValidateDatabasePath(path, maxFileSize); err != nil {
		return nil, rserrors.Wrap(err, "invalid database path")
	}
	return rowstore.Open(path)
}

// ReplCmd runs the interactive shell.
type ReplCmd struct {
	Path     string `arg:"" help:"Database file (created if missing)" type:"path"`
	NoPrompt bool   `name:"no-prompt" help:"Do not print the prompt (default when stdin is not a terminal)"`
}

func (c *ReplCmd) Run() error {
	db, err := openDB(c.Path)
	if err != nil {
		return err
	}
	prompt := !c.NoPrompt && isTerminal()
	return repl.New(db, stdin, stdout, prompt).Run(context.Background())
}

// InsertCmd appends one row and closes the file.
type InsertCmd struct {
	Path     string `arg:"" help:"Database file (created if missing)" type:"path"`
	ID       uint16 `arg:"" help:"Row id (0-65535)"`
	Username string `arg:"" help:"Username (at most 32 bytes)"`
	Email    string `arg:"" help:"Email (at most 255 bytes)"`
}

func (c *InsertCmd) Run() error {
	r, err := rowstore.NewRecord(c.ID, c.Username, c.Email)
	if err != nil {
		return err
	}

	db, err := openDB(c.Path)
	if err != nil {
		return err
	}
	if err := db.Insert(r); err != nil {
		db.Close()
		return err
	}
	if err := db.Close(); err != nil {
		return err
	}

	fmt.Fprintln(stdout, "Executed.")
	return nil
}

// SelectCmd prints every row.
type SelectCmd struct {
	Path string `arg:"" help:"Database file" type:"existingfile"`
}

func (c *SelectCmd) Run() error {
	db, err := openDB(c.Path)
	if err != nil {
		return err
	}
	err = db.Scan(func(r *rowstore.Record) error {
		_, err := fmt.Fprintln(stdout, r)
		return err
	})
	if cerr := db.Close(); err == nil {
		err = cerr
	}
	return err
}

// ChecksumCmd prints the BLAKE3 digest of a file.
type ChecksumCmd struct {
	Path string `arg:"" help:"Database file" type:"existingfile"`
}

func (c *ChecksumCmd) Run() error {
	digest, err := archive.Checksum(c.Path)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s  %s\n", digest, c.Path)
	return nil
}

// BackupCmd compresses a database file.
type BackupCmd struct {
	Path string `arg:"" help:"Database file" type:"existingfile"`
	Out  string `required:"" help:"Backup path (.xz)" type:"path"`
}

func (c *BackupCmd) Run() error {
	if err := validation.ValidateDistinct(c.Path, c.Out); err != nil {
		return err
	}
	res, err := archive.Backup(c.Path, c.Out)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Backed up: %s\n", c.Path)
	fmt.Fprintf(stdout, "  Output: %s\n", res.Path)
	fmt.Fprintf(stdout, "  BLAKE3: %s\n", res.Digest)
	fmt.Fprintf(stdout, "  Size: %d bytes\n", res.Size)
	return nil
}

// RestoreCmd decompresses a backup into a database file.
type RestoreCmd struct {
	Backup string `arg:"" help:"Backup file (.xz)" type:"existingfile"`
	Out    string `required:"" help:"Database file to write" type:"path"`
}

func (c *RestoreCmd) Run() error {
	if err := validation.ValidateDistinct(c.Backup, c.Out); err != nil {
		return err
	}
	res, err := archive.Restore(c.Backup, c.Out)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Restored: %s\n", res.Path)
	fmt.Fprintf(stdout, "  BLAKE3: %s\n", res.Digest)
	fmt.Fprintf(stdout, "  Size: %d bytes\n", res.Size)
	return nil
}

// ExportSQLiteCmd copies rows into a SQLite database.
type ExportSQLiteCmd struct {
	Path string `arg:"" help:"Database file" type:"existingfile"`
	Out  string `required:"" help:"SQLite file to write" type:"path"`
}

func (c *ExportSQLiteCmd) Run() error {
	if err := validation.ValidateDistinct(c.Path, c.Out); err != nil {
		return err
	}
	db, err := openDB(c.Path)
	if err != nil {
		return err
	}
	n, err := export.ToSQLite(context.Background(), db, c.Out)
	if cerr := db.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Exported %d rows to %s (table %s)\n", n, c.Out, export.DefaultTable)
	return nil
}

// ImportXMLCmd inserts rows from an XML document.
type ImportXMLCmd struct {
	Path  string `arg:"" help:"Database file (created if missing)" type:"path"`
	File  string `arg:"" help:"XML document" type:"existingfile"`
	XPath string `name:"xpath" help:"XPath selecting one node per row" default:"//user"`
}

func (c *ImportXMLCmd) Run() error {
	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	db, err := openDB(c.Path)
	if err != nil {
		return err
	}

	// Rows inserted before a failure are still written by Close.
	n, err := importer.FromXML(db, f, c.XPath)
	if cerr := db.Close(); err == nil {
		err = cerr
	}
	fmt.Fprintf(stdout, "Imported %d rows into %s\n", n, c.Path)
	return err
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	info := sqlite.GetInfo()
	fmt.Fprintf(stdout, "rowstore version %s\n", version)
	fmt.Fprintf(stdout, "  record size: %d bytes, %d rows per page, %d rows max\n",
		rowstore.RecordSize, rowstore.RowsPerPage, rowstore.MaxRows)
	fmt.Fprintf(stdout, "  field limits: username %d bytes, email %d bytes\n",
		rowstore.MaxUsername, rowstore.MaxEmail)
	fmt.Fprintf(stdout, "  sqlite driver: %s (%s)\n", info.Package, info.DriverType)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("rowstore"),
		kong.Description("Fixed-width single-file record store"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
