// Package archive creates and restores compressed backups of database files.
package archive

import (
	"encoding/hex"
	"io"
	"os"

	"github.com/zeebo/blake3"

	rserrors "github.com/FocuswithJustin/rowstore/core/errors"
)

// Checksum returns the hex BLAKE3-256 digest of the file at path.
func Checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", rserrors.NewIO("open", path, err)
	}
	defer f.Close()

	return ChecksumReader(f)
}

// ChecksumReader returns the hex BLAKE3-256 digest of everything read from r.
func ChecksumReader(r io.Reader) (string, error) {
	h := blake3.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", rserrors.NewIO("hash", "", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyAndHash copies r to w and returns the digest and length of what was copied.
func copyAndHash(w io.Writer, r io.Reader) (string, int64, error) {
	h := blake3.New()
	n, err := io.Copy(io.MultiWriter(w, h), r)
	if err != nil {
		return "", n, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}
