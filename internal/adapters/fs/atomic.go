package fs

import (
	"os"
	"path/filepath"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/zerr"
)

// WriteFileAtomic replaces path with data. Readers observe either the old or the new
// content, never a partial write.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", dir)
	}

	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create temp file"), "path", dir)
	}
	tmpName := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return zerr.Wrap(err, "failed to write temp file")
	}

	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return zerr.Wrap(err, "failed to sync temp file")
	}

	if err := tmpFile.Close(); err != nil {
		return zerr.Wrap(err, "failed to close temp file")
	}

	if err := os.Chmod(tmpName, perm); err != nil {
		return zerr.Wrap(err, "failed to chmod temp file")
	}

	if err := os.Rename(tmpName, path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to rename temp file"), "path", path)
	}

	return nil
}
