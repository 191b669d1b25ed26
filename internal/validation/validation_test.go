package validation

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want error
	}{
		{"valid", "data/users.db", nil},
		{"empty", "", ErrEmptyPath},
		{"too long", strings.Repeat("a", MaxPathLength+1), ErrPathTooLong},
		{"null byte", "users\x00.db", ErrInvalidCharacter},
		{"control character", "users\n.db", ErrInvalidCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidatePath(tt.path); !errors.Is(err, tt.want) {
				t.Errorf("ValidatePath(%q) = %v, want %v", tt.path, err, tt.want)
			}
		})
	}
}

func TestValidateDatabasePath(t *testing.T) {
	dir := t.TempDir()
	small := filepath.Join(dir, "small.db")
	big := filepath.Join(dir, "big.db")
	os.WriteFile(small, make([]byte, 10), 0644)
	os.WriteFile(big, make([]byte, 100), 0644)

	tests := []struct {
		name    string
		path    string
		maxSize int64
		want    error
	}{
		{"missing file", filepath.Join(dir, "new.db"), 50, nil},
		{"small file", small, 50, nil},
		{"large file", big, 50, ErrTooLarge},
		{"no limit", big, 0, nil},
		{"directory", dir, 0, ErrIsDirectory},
		{"empty", "", 0, ErrEmptyPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateDatabasePath(tt.path, tt.maxSize); !errors.Is(err, tt.want) {
				t.Errorf("ValidateDatabasePath(%q) = %v, want %v", tt.path, err, tt.want)
			}
		})
	}
}

func TestValidateDistinct(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.db")
	os.WriteFile(a, nil, 0644)
	link := filepath.Join(dir, "link.db")
	linkErr := os.Symlink(a, link)

	if err := ValidateDistinct(a, filepath.Join(dir, "b.db")); err != nil {
		t.Errorf("distinct paths: %v", err)
	}
	if err := ValidateDistinct(a, filepath.Join(dir, ".", "a.db")); !errors.Is(err, ErrSamePath) {
		t.Errorf("same path: %v, want ErrSamePath", err)
	}
	if linkErr == nil {
		if err := ValidateDistinct(a, link); !errors.Is(err, ErrSamePath) {
			t.Errorf("symlink: %v, want ErrSamePath", err)
		}
	}
	if err := ValidateDistinct("", a); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("empty source: %v, want ErrEmptyPath", err)
	}
}
