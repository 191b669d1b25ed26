package archive

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	rserrors "github.com/FocuswithJustin/rowstore/core/errors"
	"github.com/FocuswithJustin/rowstore/internal/logging"
)

// DigestSuffix is appended to a backup path to name its digest file.
const DigestSuffix = ".blake3"

// Injectable for tests.
var (
	xzNewWriter = xz.NewWriter
	xzNewReader = xz.NewReader
	osRename    = os.Rename
)

// BackupResult describes a written backup.
type BackupResult struct {
	Path       string // compressed backup
	DigestPath string // sidecar holding the BLAKE3 digest of the uncompressed file
	Digest     string
	Size       int64 // uncompressed bytes
}

// Backup writes an xz-compressed copy of the database at src to dst and a
// digest file next to it. The database must not be open for writing.
func Backup(src, dst string) (*BackupResult, error) {
	in, err := os.Open(src)
	if err != nil {
		return nil, rserrors.NewIO("open", src, err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".backup-*")
	if err != nil {
		return nil, rserrors.NewIO("create temp file for", dst, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	xw, err := xzNewWriter(tmp)
	if err != nil {
		tmp.Close()
		return nil, rserrors.Wrap(err, "failed to create xz writer")
	}

	digest, size, err := copyAndHash(xw, in)
	if err != nil {
		xw.Close()
		tmp.Close()
		return nil, rserrors.NewIO("compress", src, err)
	}
	if err := xw.Close(); err != nil {
		tmp.Close()
		return nil, rserrors.NewIO("finish xz stream for", dst, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, rserrors.NewIO("close", tmpPath, err)
	}
	if err := osRename(tmpPath, dst); err != nil {
		return nil, rserrors.NewIO("rename backup to", dst, err)
	}

	digestPath := dst + DigestSuffix
	line := fmt.Sprintf("%s  %s\n", digest, filepath.Base(src))
	if err := os.WriteFile(digestPath, []byte(line), 0644); err != nil {
		return nil, rserrors.NewIO("write", digestPath, err)
	}

	logging.Info("backup_written", "src", src, "dst", dst, "bytes", size, "blake3", digest)
	return &BackupResult{Path: dst, DigestPath: digestPath, Digest: digest, Size: size}, nil
}

// Restore decompresses the backup at src into dst. If a digest file sits next
// to src, the restored bytes must match it or dst is left untouched.
func Restore(src, dst string) (*BackupResult, error) {
	want, err := readDigest(src + DigestSuffix)
	if err != nil {
		return nil, err
	}

	in, err := os.Open(src)
	if err != nil {
		return nil, rserrors.NewIO("open", src, err)
	}
	defer in.Close()

	xr, err := xzNewReader(bufio.NewReader(in))
	if err != nil {
		return nil, &rserrors.ParseError{Format: "xz", Input: src, Message: err.Error(), Err: rserrors.ErrCorrupt}
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".restore-*")
	if err != nil {
		return nil, rserrors.NewIO("create temp file for", dst, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	digest, size, err := copyAndHash(tmp, xr)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, rserrors.NewIO("decompress", src, err)
	}

	if want != "" && want != digest {
		return nil, fmt.Errorf("%w: %s digest %s does not match %s", rserrors.ErrCorrupt, src, digest, want)
	}
	if err := osRename(tmpPath, dst); err != nil {
		return nil, rserrors.NewIO("rename restore to", dst, err)
	}

	logging.Info("backup_restored", "src", src, "dst", dst, "bytes", size, "verified", want != "")
	return &BackupResult{Path: dst, Digest: digest, Size: size}, nil
}

// readDigest returns the digest recorded in path, or "" if the file does not exist.
func readDigest(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", rserrors.NewIO("read", path, err)
	}

	fields := strings.Fields(string(data))
	if len(fields) == 0 || len(fields[0]) != 64 {
		return "", rserrors.NewParse("digest file", path, "expected a 64 character hex digest")
	}
	return fields[0], nil
}
