// Package validation checks user-supplied paths before they reach the store.
package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

const (
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
)

// Common validation errors.
var (
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrPathTooLong      = errors.New("path too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrIsDirectory      = errors.New("path is a directory")
	ErrSamePath         = errors.New("source and destination are the same file")
	ErrTooLarge         = errors.New("file too large")
)

// ValidatePath performs basic validation on a file path.
// It rejects empty paths, overly long paths, and control characters.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}

	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}

	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}

	return nil
}

// ValidateDatabasePath checks a path that will be opened as a database file.
// The file may be missing; if it exists it must be a regular file no larger
// than maxSize bytes (0 disables the size check).
func ValidateDatabasePath(path string, maxSize int64) error {
	if err := ValidatePath(path); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, path, info.Size(), maxSize)
	}
	return nil
}

// ValidateDistinct rejects a destination that resolves to the same file as src.
func ValidateDistinct(src, dst string) error {
	if err := ValidatePath(src); err != nil {
		return err
	}
	if err := ValidatePath(dst); err != nil {
		return err
	}

	absSrc, err := filepath.Abs(src)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", src, err)
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", dst, err)
	}
	if absSrc == absDst {
		return fmt.Errorf("%w: %s", ErrSamePath, src)
	}

	srcInfo, err1 := os.Stat(src)
	dstInfo, err2 := os.Stat(dst)
	if err1 == nil && err2 == nil && os.SameFile(srcInfo, dstInfo) {
		return fmt.Errorf("%w: %s and %s", ErrSamePath, src, dst)
	}
	return nil
}
