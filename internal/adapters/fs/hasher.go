package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.TreeHasher = (*Hasher)(nil)

// Hasher computes content hashes of package directories.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
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
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// HashTree hashes every file under root: relative path, executable bit and content.
// Symlinks contribute their target. Only the install marker at the package root is
// excluded, so that writing it does not change the hash it records.
func (h *Hasher) HashTree(root string) (string, error) {
	hasher := xxhash.New()

	for path, err := range h.walker.WalkFiles(root, []string{domain.InstallMarkerFile}) {
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, "failed to walk package"), "path", path)
		}
		if err := h.hashEntry(root, path, hasher); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func (h *Hasher) hashEntry(root, path string, digest *xxhash.Digest) error {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", path)
	}
	_, _ = digest.WriteString(filepath.ToSlash(rel))
	_, _ = digest.Write([]byte{0})

	info, err := os.Lstat(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat file"), "path", path)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(path)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to read symlink"), "path", path)
		}
		_, _ = digest.WriteString("link:" + filepath.ToSlash(target))
		_, _ = digest.Write([]byte{0})
		return nil
	}

	mode := byte('f')
	if info.Mode().Perm()&0o111 != 0 {
		mode = 'x'
	}
	_, _ = digest.Write([]byte{mode, 0})

	sum, err := h.ComputeFileHash(path)
	if err != nil {
		return err
	}
	if err := binary.Write(digest, binary.LittleEndian, sum); err != nil {
		return zerr.Wrap(err, "failed to write hash to digest")
	}
	return nil
}
