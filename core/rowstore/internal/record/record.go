// Package record implements the fixed-width row codec.
//
// An encoded record is exactly layout.RecordSize bytes:
//
//	[0:2]    id, big-endian uint16
//	[2:34]   username, zero-padded
//	[34:289] email, zero-padded
package record

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	rserrors "github.com/FocuswithJustin/rowstore/core/errors"
	"github.com/FocuswithJustin/rowstore/core/rowstore/internal/layout"
)

// ErrShortBuffer is returned by Decode when fewer than layout.RecordSize bytes are given.
var ErrShortBuffer = errors.New("record: buffer shorter than record size")

// Bytes is the encoded form of a record.
type Bytes = [layout.RecordSize]byte

// Record is one row of the table.
type Record struct {
	ID       uint16
	username [layout.UsernameSize]byte
	email    [layout.EmailSize]byte
}

// New builds a record, rejecting text that does not fit its field.
func New(id uint16, username, email string) (*Record, error) {
	if len(username) > layout.UsernameSize {
		return nil, tooLong("username", username, layout.UsernameSize)
	}
	if len(email) > layout.EmailSize {
		return nil, tooLong("email", email, layout.EmailSize)
	}

	r := &Record{ID: id}
	copy(r.username[:], username)
	copy(r.email[:], email)
	return r, nil
}

func tooLong(field, value string, limit int) error {
	shown := value
	if len(shown) > 16 {
		shown = shown[:16] + "..."
	}
	return &rserrors.ValidationError{
		Field:   field,
		Value:   shown,
		Message: fmt.Sprintf("%d bytes exceeds the %d byte limit", len(value), limit),
	}
}

// Username returns the username with its zero padding removed.
func (r *Record) Username() string {
	return trim(r.username[:])
}

// Email returns the email with its zero padding removed.
func (r *Record) Email() string {
	return trim(r.email[:])
}

func trim(b []byte) string {
	return string(bytes.TrimRight(b, "\x00"))
}

// Encode returns the fixed-width encoding of r.
func (r *Record) Encode() Bytes {
	var b Bytes
	r.EncodeTo(b[:])
	return b
}

// EncodeTo writes r into dst, which must hold at least layout.RecordSize bytes.
func (r *Record) EncodeTo(dst []byte) {
	_ = dst[layout.RecordSize-1]
	binary.BigEndian.PutUint16(dst[layout.IDOffset:layout.UsernameOffset], r.ID)
	copy(dst[layout.UsernameOffset:layout.EmailOffset], r.username[:])
	copy(dst[layout.EmailOffset:layout.RecordSize], r.email[:])
}

// Decode rebuilds a record from the first layout.RecordSize bytes of b.
func Decode(b []byte) (*Record, error) {
	if len(b) < layout.RecordSize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrShortBuffer, len(b))
	}

	r := &Record{
		ID: binary.BigEndian.Uint16(b[layout.IDOffset:layout.UsernameOffset]),
	}
	copy(r.username[:], b[layout.UsernameOffset:layout.EmailOffset])
	copy(r.email[:], b[layout.EmailOffset:layout.RecordSize])
	return r, nil
}

// String renders the record the way the shell prints rows.
func (r *Record) String() string {
	return fmt.Sprintf("(%d, %s, %s)", r.ID, r.Username(), r.Email())
}
