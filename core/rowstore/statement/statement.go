// Package statement parses and runs the two statements the shell accepts:
//
//	insert <id> <username> <email>
//	select
package statement

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	rserrors "github.com/FocuswithJustin/rowstore/core/errors"
	"github.com/FocuswithJustin/rowstore/core/rowstore"
)

// Errors returned by Prepare.
var (
	ErrEmpty        = errors.New("empty statement")
	ErrUnrecognized = errors.New("unrecognized keyword")
	ErrSyntax       = errors.New("syntax error")
)

// Kind identifies a statement.
type Kind int

const (
	// KindInsert appends one row.
	KindInsert Kind = iota
	// KindSelect prints every row.
	KindSelect
)

func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindSelect:
		return "select"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Statement is a prepared statement. Record is set for inserts.
type Statement struct {
	Kind   Kind
	Record *rowstore.Record
}

//nolint:govet // participle grammar tags are not standard struct tags
type statementGrammar struct {
	Insert *insertClause `parser:"'insert' @@"`
	Select bool          `parser:"| @'select'"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type insertClause struct {
	ID       string `parser:"@Word"`
	Username string `parser:"@Word"`
	Email    string `parser:"@Word"`
}

// statementLexer splits on whitespace; keywords are matched by value so a
// username may be any word.
var statementLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Word", Pattern: `[^\s]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var statementParser = participle.MustBuild[statementGrammar](
	participle.Lexer(statementLexer),
	participle.Elide("Whitespace"),
)

// Prepare parses input into a statement. Insert arguments are validated
// here so bad values never reach the store.
func Prepare(input string) (*Statement, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmpty
	}

	keyword := strings.Fields(input)[0]
	if keyword != "insert" && keyword != "select" {
		return nil, &rserrors.ParseError{
			Format:  "statement",
			Input:   keyword,
			Message: "unrecognized keyword at start",
			Err:     ErrUnrecognized,
		}
	}

	parsed, err := statementParser.ParseString("", input)
	if err != nil {
		return nil, &rserrors.ParseError{
			Format:  "statement",
			Input:   input,
			Message: err.Error(),
			Err:     ErrSyntax,
		}
	}

	if parsed.Select {
		return &Statement{Kind: KindSelect}, nil
	}
	return prepareInsert(parsed.Insert)
}

func prepareInsert(c *insertClause) (*Statement, error) {
	if strings.HasPrefix(c.ID, "-") {
		return nil, &rserrors.ValidationError{Field: "id", Value: c.ID, Message: "ID must be positive"}
	}
	// One leading plus sign is allowed, as in "+5".
	id, err := strconv.ParseUint(strings.TrimPrefix(c.ID, "+"), 10, 16)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return nil, &rserrors.ValidationError{Field: "id", Value: c.ID, Message: "ID must fit in 16 bits"}
		}
		return nil, &rserrors.ParseError{
			Format:  "statement",
			Input:   c.ID,
			Message: "ID must be a number",
			Err:     ErrSyntax,
		}
	}

	r, err := rowstore.NewRecord(uint16(id), c.Username, c.Email)
	if err != nil {
		return nil, err
	}
	return &Statement{Kind: KindInsert, Record: r}, nil
}

// Execute runs stmt against db. Select writes one line per row to w.
func Execute(db *rowstore.DB, stmt *Statement, w io.Writer) error {
	switch stmt.Kind {
	case KindInsert:
		return db.Insert(stmt.Record)
	case KindSelect:
		return db.Scan(func(r *rowstore.Record) error {
			_, err := fmt.Fprintln(w, r)
			return err
		})
	}
	return rserrors.NewUnsupported("statement", stmt.Kind.String())
}
