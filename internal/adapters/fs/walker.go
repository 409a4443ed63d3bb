// Package fs provides file system adapters for walking and hashing package trees.
package fs

import (
	"io/fs"
	"iter"
	pathpkg "path"
	"path/filepath"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every non-directory entry under root in lexical order. Entries
// whose slash-separated path relative to root matches one of ignores are skipped,
// along with everything below a matching directory.
// Walk errors are yielded with the path they occurred at.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if !yield(path, err) {
					return filepath.SkipAll
				}
				return nil
			}

			if path != root {
				if skip, action := w.shouldSkip(root, path, d, ignores); skip {
					return action
				}
			}

			if d.IsDir() {
				return nil
			}

			if !yield(path, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// shouldSkip reports whether an entry is skipped, and the action WalkDir should take.
func (w *Walker) shouldSkip(root, path string, d fs.DirEntry, ignores []string) (bool, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false, nil
	}
	rel = filepath.ToSlash(rel)

	for _, ignore := range ignores {
		if matched, _ := pathpkg.Match(ignore, rel); matched {
			if d.IsDir() {
				return true, filepath.SkipDir
			}
			return true, nil
		}
	}

	return false, nil
}
