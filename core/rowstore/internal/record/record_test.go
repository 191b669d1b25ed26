package record

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	rserrors "github.com/FocuswithJustin/rowstore/core/errors"
	"github.com/FocuswithJustin/rowstore/core/rowstore/internal/layout"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		id       uint16
		username string
		email    string
	}{
		{"typical", 1, "alice", "alice@example.com"},
		{"zero id", 0, "", ""},
		{"max id", 65535, "bob", "bob@example.com"},
		{"full username", 42, strings.Repeat("u", layout.UsernameSize), "u@example.com"},
		{"full email", 7, "carol", strings.Repeat("e", layout.EmailSize)},
		{"utf8", 9, "zoë", "zoë@exämple.org"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.id, tt.username, tt.email)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			enc := r.Encode()
			got, err := Decode(enc[:])
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}

			if got.ID != tt.id {
				t.Errorf("ID = %d, want %d", got.ID, tt.id)
			}
			if got.Username() != tt.username {
				t.Errorf("Username() = %q, want %q", got.Username(), tt.username)
			}
			if got.Email() != tt.email {
				t.Errorf("Email() = %q, want %q", got.Email(), tt.email)
			}
			if *got != *r {
				t.Error("decoded record not Equal to original")
			}
		})
	}
}

func TestEncodeLayout(t *testing.T) {
	r, err := New(0x0102, "ab", "cd")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	b := r.Encode()

	if len(b) != layout.RecordSize {
		t.Fatalf("len = %d, want %d", len(b), layout.RecordSize)
	}
	if b[0] != 0x01 || b[1] != 0x02 {
		t.Errorf("id bytes = %x %x, want big-endian 01 02", b[0], b[1])
	}
	if !bytes.Equal(b[layout.UsernameOffset:layout.UsernameOffset+2], []byte("ab")) {
		t.Errorf("username not at offset %d", layout.UsernameOffset)
	}
	if !bytes.Equal(b[layout.EmailOffset:layout.EmailOffset+2], []byte("cd")) {
		t.Errorf("email not at offset %d", layout.EmailOffset)
	}
	for i := layout.UsernameOffset + 2; i < layout.EmailOffset; i++ {
		if b[i] != 0 {
			t.Fatalf("username padding byte %d = %x, want 0", i, b[i])
		}
	}
	for i := layout.EmailOffset + 2; i < layout.RecordSize; i++ {
		if b[i] != 0 {
			t.Fatalf("email padding byte %d = %x, want 0", i, b[i])
		}
	}
}

func TestEncodeToLeavesNeighboursAlone(t *testing.T) {
	buf := bytes.Repeat([]byte{0xff}, layout.RecordSize+2)
	r, _ := New(5, "x", "y")
	r.EncodeTo(buf[1 : 1+layout.RecordSize])

	if buf[0] != 0xff || buf[len(buf)-1] != 0xff {
		t.Error("EncodeTo wrote outside its window")
	}
}

func TestNewRejectsOversizedText(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		field    string
	}{
		{"username", strings.Repeat("a", layout.UsernameSize+1), "a@b", "username"},
		{"email", "a", strings.Repeat("e", layout.EmailSize+1), "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(1, tt.username, tt.email)
			if err == nil {
				t.Fatalf("New() = %v, want error", r)
			}
			var vErr *rserrors.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error %T is not a ValidationError", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", vErr.Field, tt.field)
			}
			if !errors.Is(err, rserrors.ErrInvalidInput) {
				t.Error("error should unwrap to ErrInvalidInput")
			}
		})
	}
}

func TestDecodeShortBuffer(t *testing.T) {
	_, err := Decode(make([]byte, layout.RecordSize-1))
	if !errors.Is(err, ErrShortBuffer) {
		t.Errorf("Decode() error = %v, want ErrShortBuffer", err)
	}
}

func TestString(t *testing.T) {
	r, _ := New(3, "dave", "dave@example.com")
	if got, want := r.String(), "(3, dave, dave@example.com)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
