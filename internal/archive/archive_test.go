package archive

import (
	"bytes"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zeebo/blake3"

	rserrors "github.com/FocuswithJustin/rowstore/core/errors"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

// digestOf is the expected hex digest of data.
func digestOf(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func TestChecksum(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.db")
	data := bytes.Repeat([]byte("row"), 1000)
	writeFile(t, path, data)

	got, err := Checksum(path)
	if err != nil {
		t.Fatalf("Checksum() error = %v", err)
	}
	if len(got) != 64 {
		t.Errorf("digest length = %d, want 64", len(got))
	}
	if want := digestOf(data); got != want {
		t.Errorf("Checksum() = %s, want %s", got, want)
	}
	if fromReader, _ := ChecksumReader(bytes.NewReader(data)); fromReader != got {
		t.Errorf("ChecksumReader() = %s, want %s", fromReader, got)
	}
	if digestOf([]byte("other")) == got {
		t.Error("different content produced the same digest")
	}
}

func TestChecksum_Missing(t *testing.T) {
	_, err := Checksum(filepath.Join(t.TempDir(), "missing.db"))
	var ioErr *rserrors.IOError
	if !errors.As(err, &ioErr) {
		t.Errorf("Checksum() error = %v, want IOError", err)
	}
}

func TestBackupRestore(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "users.db")
	data := bytes.Repeat([]byte{0, 1, 'a', 'b'}, 4096)
	writeFile(t, src, data)

	backupPath := filepath.Join(dir, "users.db.xz")
	res, err := Backup(src, backupPath)
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if res.Size != int64(len(data)) {
		t.Errorf("Size = %d, want %d", res.Size, len(data))
	}
	if res.Digest != digestOf(data) {
		t.Errorf("Digest = %s, want %s", res.Digest, digestOf(data))
	}

	sidecar, err := os.ReadFile(res.DigestPath)
	if err != nil {
		t.Fatalf("digest file missing: %v", err)
	}
	if !strings.HasPrefix(string(sidecar), res.Digest+"  users.db") {
		t.Errorf("digest file = %q", sidecar)
	}

	info, _ := os.Stat(backupPath)
	if info.Size() >= int64(len(data)) {
		t.Errorf("backup is %d bytes, not smaller than %d", info.Size(), len(data))
	}

	restored := filepath.Join(dir, "restored.db")
	rres, err := Restore(backupPath, restored)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if rres.Digest != res.Digest {
		t.Errorf("restored digest = %s, want %s", rres.Digest, res.Digest)
	}
	got, _ := os.ReadFile(restored)
	if !bytes.Equal(got, data) {
		t.Error("restored bytes differ from the original")
	}
}

func TestRestore_DigestMismatch(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "users.db")
	writeFile(t, src, []byte("hello"))

	backupPath := filepath.Join(dir, "users.db.xz")
	if _, err := Backup(src, backupPath); err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	writeFile(t, backupPath+DigestSuffix, []byte(strings.Repeat("0", 64)+"  users.db\n"))

	restored := filepath.Join(dir, "restored.db")
	_, err := Restore(backupPath, restored)
	if !errors.Is(err, rserrors.ErrCorrupt) {
		t.Fatalf("Restore() error = %v, want ErrCorrupt", err)
	}
	if _, err := os.Stat(restored); !os.IsNotExist(err) {
		t.Error("Restore() wrote the destination despite a digest mismatch")
	}
}

func TestRestore_WithoutDigest(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "users.db")
	writeFile(t, src, []byte("hello"))

	backupPath := filepath.Join(dir, "users.db.xz")
	if _, err := Backup(src, backupPath); err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	os.Remove(backupPath + DigestSuffix)

	restored := filepath.Join(dir, "restored.db")
	if _, err := Restore(backupPath, restored); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if got, _ := os.ReadFile(restored); string(got) != "hello" {
		t.Errorf("restored = %q", got)
	}
}

func TestRestore_NotXZ(t *testing.T) {
	dir := t.TempDir()
	bogus := filepath.Join(dir, "bogus.xz")
	writeFile(t, bogus, []byte("definitely not xz"))

	_, err := Restore(bogus, filepath.Join(dir, "out.db"))
	if !errors.Is(err, rserrors.ErrCorrupt) {
		t.Errorf("Restore() error = %v, want ErrCorrupt", err)
	}
}

func TestRestore_BadDigestFile(t *testing.T) {
	dir := t.TempDir()
	bogus := filepath.Join(dir, "b.xz")
	writeFile(t, bogus, nil)
	writeFile(t, bogus+DigestSuffix, []byte("short"))

	_, err := Restore(bogus, filepath.Join(dir, "out.db"))
	if !errors.Is(err, rserrors.ErrInvalidInput) {
		t.Errorf("Restore() error = %v, want ErrInvalidInput", err)
	}
}

func TestBackup_RenameFailure(t *testing.T) {
	orig := osRename
	defer func() { osRename = orig }()
	osRename = func(string, string) error { return os.ErrPermission }

	dir := t.TempDir()
	src := filepath.Join(dir, "users.db")
	writeFile(t, src, []byte("x"))

	_, err := Backup(src, filepath.Join(dir, "users.db.xz"))
	if !errors.Is(err, os.ErrPermission) {
		t.Errorf("Backup() error = %v, want permission error", err)
	}
}
