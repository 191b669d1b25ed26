// Package repl implements the interactive shell over a rowstore database.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	rserrors "github.com/FocuswithJustin/rowstore/core/errors"
	"github.com/FocuswithJustin/rowstore/core/rowstore"
	"github.com/FocuswithJustin/rowstore/core/rowstore/statement"
	"github.com/FocuswithJustin/rowstore/internal/archive"
	"github.com/FocuswithJustin/rowstore/internal/logging"
)

// Prompt is printed before each line is read.
const Prompt = "db > "

const helpText = `Statements:
  insert <id> <username> <email>
  select
Meta commands:
  .count      print the number of rows
  .checksum   print the BLAKE3 digest of the file as last closed
  .help       show this text
  .exit       write pages to disk and quit
`

// Shell reads statements from an input stream and prints results.
// It owns the DB from Run until Run returns, and closes it on the way out.
type Shell struct {
	db     *rowstore.DB
	in     *bufio.Scanner
	out    io.Writer
	prompt bool
}

// New returns a shell over db. When prompt is false no prompt is printed,
// which suits piped input.
func New(db *rowstore.DB, in io.Reader, out io.Writer, prompt bool) *Shell {
	return &Shell{
		db:     db,
		in:     bufio.NewScanner(in),
		out:    out,
		prompt: prompt,
	}
}

// Run reads lines until .exit or end of input, then closes the database.
// A failing statement is reported and the loop continues; only a failed
// close or a read error is returned.
func (s *Shell) Run(ctx context.Context) error {
	ctx = logging.WithSessionID(ctx, uuid.NewString())
	logging.InfoContext(ctx, "session_started", "path", s.db.Path(), "row_count", s.db.RowCount())

	for {
		if s.prompt {
			fmt.Fprint(s.out, Prompt)
		}
		if !s.in.Scan() {
			if err := s.in.Err(); err != nil {
				s.db.Close()
				return rserrors.Wrap(err, "read input")
			}
			return s.close(ctx)
		}

		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if done := s.meta(ctx, line); done {
				return s.close(ctx)
			}
			continue
		}

		s.statement(ctx, line)
	}
}

func (s *Shell) close(ctx context.Context) error {
	if err := s.db.Close(); err != nil {
		logging.ErrorContext(ctx, "close_failed", "path", s.db.Path(), "error", err.Error())
		return err
	}
	logging.InfoContext(ctx, "session_ended", "path", s.db.Path())
	return nil
}

// meta runs a dot command and reports whether the shell should stop.
func (s *Shell) meta(ctx context.Context, line string) bool {
	switch line {
	case ".exit":
		return true
	case ".count":
		fmt.Fprintln(s.out, s.db.RowCount())
	case ".checksum":
		digest, err := archive.Checksum(s.db.Path())
		if err != nil {
			logging.WarnContext(ctx, "checksum_failed", "path", s.db.Path(), "error", err.Error())
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return false
		}
		fmt.Fprintf(s.out, "%s  %s\n", digest, s.db.Path())
	case ".help":
		fmt.Fprint(s.out, helpText)
	default:
		logging.DebugContext(ctx, "unrecognized_meta_command", "input", line)
		fmt.Fprintf(s.out, "Unrecognized command '%s'\n", line)
	}
	return false
}

func (s *Shell) statement(ctx context.Context, line string) {
	stmt, err := statement.Prepare(line)
	if err != nil {
		fmt.Fprintln(s.out, prepareMessage(line, err))
		return
	}

	start := time.Now()
	err = statement.Execute(s.db, stmt, s.out)
	logging.StatementExecuted(ctx, stmt.Kind.String(), time.Since(start), err)

	switch {
	case err == nil:
		fmt.Fprintln(s.out, "Executed.")
	case rserrors.Is(err, rowstore.ErrTableFull):
		fmt.Fprintln(s.out, "Error: Table full.")
	default:
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

func prepareMessage(line string, err error) string {
	var vErr *rserrors.ValidationError
	switch {
	case rserrors.Is(err, statement.ErrUnrecognized):
		return fmt.Sprintf("Unrecognized keyword at start of '%s'.", line)
	case rserrors.As(err, &vErr) && (vErr.Field == "username" || vErr.Field == "email"):
		return "String is too long."
	case rserrors.As(err, &vErr):
		return vErr.Message + "."
	case rserrors.Is(err, statement.ErrSyntax):
		return "Syntax error. Could not parse statement."
	}
	return fmt.Sprintf("Error: %v", err)
}
