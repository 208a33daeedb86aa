package dataset

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// fingerprint accumulates per-table checksums into a single dataset
// fingerprint. Tables must be added in registration order so that Load
// and DirFingerprint agree.
type fingerprint struct {
	digest *xxhash.Digest
}

func newFingerprint() *fingerprint {
	return &fingerprint{digest: xxhash.New()}
}

func (fp *fingerprint) add(key, checksum string) {
	fp.digest.WriteString(key)
	fp.digest.WriteString("\n")
	fp.digest.WriteString(checksum)
	fp.digest.WriteString("\n")
}

func (fp *fingerprint) sum() string {
	return fmt.Sprintf("%016x", fp.digest.Sum64())
}

// FileChecksum returns the hex xxhash digest of a file's raw bytes.
func FileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DirFingerprint computes the fingerprint Load would assign to the
// directory's current bytes, without parsing them. Used to detect source
// files drifting out from under a loaded dataset.
func DirFingerprint(dir string) (string, error) {
	combined := newFingerprint()
	for _, spec := range All() {
		sum, err := FileChecksum(filepath.Join(dir, spec.Info.FileName))
		if err != nil {
			return "", fmt.Errorf("%s: %w", spec.Info.Key, err)
		}
		combined.add(spec.Info.Key, sum)
	}
	return combined.sum(), nil
}
