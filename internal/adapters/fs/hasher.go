package fs

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/lumen/internal/core/domain"
	"go.trai.ch/lumen/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher provides hashing functionality for stylesheets.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}

	return hasher.Sum64(), nil
}

// ComputeInputHash computes a single hash over the stage fingerprint, the
// file's base name and its content. Each part is terminated by a NUL so
// that shifting bytes between parts changes the hash.
func (h *Hasher) ComputeInputHash(fingerprint, name string, content []byte) string {
	hasher := xxhash.New()

	_, _ = hasher.WriteString(fingerprint)
	_, _ = hasher.Write([]byte{0})

	_, _ = hasher.WriteString(name)
	_, _ = hasher.Write([]byte{0})

	_, _ = hasher.Write(content)

	return fmt.Sprintf("%016x", hasher.Sum64())
}
