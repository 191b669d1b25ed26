package statement

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	rserrors "github.com/FocuswithJustin/rowstore/core/errors"
	"github.com/FocuswithJustin/rowstore/core/rowstore"
)

func TestPrepare(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantKind     Kind
		wantID       uint16
		wantUsername string
		wantEmail    string
	}{
		{"select", "select", KindSelect, 0, "", ""},
		{"select with spaces", "  select  ", KindSelect, 0, "", ""},
		{"insert", "insert 1 alice alice@example.com", KindInsert, 1, "alice", "alice@example.com"},
		{"insert max id", "insert 65535 bob b@x", KindInsert, 65535, "bob", "b@x"},
		{"keyword as username", "insert 2 select insert", KindInsert, 2, "select", "insert"},
		{"tabs", "insert\t3\tcarol\tc@x", KindInsert, 3, "carol", "c@x"},
		{"plus sign id", "insert +5 dave d@x", KindInsert, 5, "dave", "d@x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := Prepare(tt.input)
			if err != nil {
				t.Fatalf("Prepare(%q) error = %v", tt.input, err)
			}
			if stmt.Kind != tt.wantKind {
				t.Fatalf("Kind = %v, want %v", stmt.Kind, tt.wantKind)
			}
			if tt.wantKind != KindInsert {
				if stmt.Record != nil {
					t.Error("select statement carries a record")
				}
				return
			}
			r := stmt.Record
			if r.ID != tt.wantID || r.Username() != tt.wantUsername || r.Email() != tt.wantEmail {
				t.Errorf("Record = %v, want (%d, %s, %s)", r, tt.wantID, tt.wantUsername, tt.wantEmail)
			}
		})
	}
}

func TestPrepare_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "   ", ErrEmpty},
		{"unknown keyword", "delete 1", ErrUnrecognized},
		{"uppercase keyword", "SELECT", ErrUnrecognized},
		{"missing email", "insert 1 alice", ErrSyntax},
		{"no arguments", "insert", ErrSyntax},
		{"extra argument", "insert 1 a b c", ErrSyntax},
		{"select with argument", "select *", ErrSyntax},
		{"non-numeric id", "insert x a b", ErrSyntax},
		{"bare plus id", "insert + a b", ErrSyntax},
		{"double plus id", "insert ++5 a b", ErrSyntax},
		{"plus minus id", "insert +-5 a b", ErrSyntax},
		{"negative id", "insert -1 a b", rserrors.ErrInvalidInput},
		{"id too large", "insert 65536 a b", rserrors.ErrInvalidInput},
		{"username too long", "insert 1 " + strings.Repeat("u", rowstore.MaxUsername+1) + " a@b", rserrors.ErrInvalidInput},
		{"email too long", "insert 1 u " + strings.Repeat("e", rowstore.MaxEmail+1), rserrors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := Prepare(tt.input)
			if err == nil {
				t.Fatalf("Prepare(%q) = %+v, want error", tt.input, stmt)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Prepare(%q) error = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}

func TestPrepare_NegativeIDMessage(t *testing.T) {
	_, err := Prepare("insert -5 a b")
	var vErr *rserrors.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error %v is not a ValidationError", err)
	}
	if vErr.Message != "ID must be positive" {
		t.Errorf("Message = %q", vErr.Message)
	}
}

func TestExecute(t *testing.T) {
	db, err := rowstore.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	for _, in := range []string{"insert 1 alice a@x", "insert 2 bob b@x"} {
		stmt, err := Prepare(in)
		if err != nil {
			t.Fatalf("Prepare(%q) error = %v", in, err)
		}
		if err := Execute(db, stmt, nil); err != nil {
			t.Fatalf("Execute(%q) error = %v", in, err)
		}
	}

	var buf bytes.Buffer
	stmt, _ := Prepare("select")
	if err := Execute(db, stmt, &buf); err != nil {
		t.Fatalf("Execute(select) error = %v", err)
	}
	want := "(1, alice, a@x)\n(2, bob, b@x)\n"
	if buf.String() != want {
		t.Errorf("select output = %q, want %q", buf.String(), want)
	}
}

func TestExecute_UnknownKind(t *testing.T) {
	err := Execute(nil, &Statement{Kind: Kind(7)}, nil)
	if !errors.Is(err, rserrors.ErrUnsupported) {
		t.Errorf("Execute() error = %v, want ErrUnsupported", err)
	}
}

func TestKindString(t *testing.T) {
	if KindInsert.String() != "insert" || KindSelect.String() != "select" {
		t.Error("unexpected Kind names")
	}
	if Kind(9).String() != "Kind(9)" {
		t.Errorf("Kind(9).String() = %q", Kind(9).String())
	}
}
