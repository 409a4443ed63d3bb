package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"go.trai.ch/rig/internal/adapters/fs"
	"go.trai.ch/rig/internal/core/domain"
)

func writeFile(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatal(err)
	}
}

func TestWalker_WalkFiles(t *testing.T) {
	// tmp/
	//   .git/config
	//   ignored/file
	//   src/ignored
	//   src/main.go
	//   README.md
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".git", "config"), "git config", domain.PrivateFilePerm)
	writeFile(t, filepath.Join(tmpDir, "ignored", "file"), "ignored content", domain.PrivateFilePerm)
	writeFile(t, filepath.Join(tmpDir, "src", "ignored"), "nested, not ignored", domain.PrivateFilePerm)
	writeFile(t, filepath.Join(tmpDir, "src", "main.go"), "package main", domain.PrivateFilePerm)
	writeFile(t, filepath.Join(tmpDir, "README.md"), "# Readme", domain.PrivateFilePerm)

	walker := fs.NewWalker()

	var files []string
	for path, err := range walker.WalkFiles(tmpDir, []string{"ignored"}) {
		if err != nil {
			t.Fatal(err)
		}
		rel, err := filepath.Rel(tmpDir, path)
		if err != nil {
			t.Fatal(err)
		}
		files = append(files, filepath.ToSlash(rel))
	}

	expected := []string{".git/config", "README.md", "src/ignored", "src/main.go"}
	if len(files) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, files)
	}
	for i := range expected {
		if files[i] != expected[i] {
			t.Errorf("expected %q at %d, got %q", expected[i], i, files[i])
		}
	}
}

func TestWalker_MissingRoot(t *testing.T) {
	walker := fs.NewWalker()

	var gotErr error
	for _, err := range walker.WalkFiles(filepath.Join(t.TempDir(), "missing"), nil) {
		gotErr = err
	}
	if gotErr == nil {
		t.Fatal("expected an error for a missing root")
	}
}

func TestHasher_ComputeFileHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	writeFile(t, path, "hello world", domain.PrivateFilePerm)

	hasher := fs.NewHasher(fs.NewWalker())

	hash1, err := hasher.ComputeFileHash(path)
	if err != nil {
		t.Fatalf("ComputeFileHash failed: %v", err)
	}
	if hash1 == 0 {
		t.Error("expected non-zero hash")
	}

	hash2, err := hasher.ComputeFileHash(path)
	if err != nil {
		t.Fatal(err)
	}
	if hash1 != hash2 {
		t.Error("expected deterministic hash")
	}
}

func TestHasher_HashTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.yaml"), "name: a\nversion: \"1\"\n", domain.FilePerm)
	writeFile(t, filepath.Join(root, "lib", "a.txt"), "content", domain.FilePerm)

	hasher := fs.NewHasher(fs.NewWalker())

	base, err := hasher.HashTree(root)
	if err != nil {
		t.Fatalf("HashTree failed: %v", err)
	}
	if len(base) != 16 {
		t.Fatalf("expected 16 hex characters, got %q", base)
	}

	// The install marker is not part of the tree hash.
	writeFile(t, filepath.Join(root, domain.InstallMarkerFile), `{"fingerprint":"x"}`, domain.FilePerm)
	withMarker, err := hasher.HashTree(root)
	if err != nil {
		t.Fatal(err)
	}
	if withMarker != base {
		t.Error("expected marker file to be excluded from the hash")
	}

	// Content changes are detected.
	writeFile(t, filepath.Join(root, "lib", "a.txt"), "changed", domain.FilePerm)
	changed, err := hasher.HashTree(root)
	if err != nil {
		t.Fatal(err)
	}
	if changed == base {
		t.Error("expected hash to change when file content changes")
	}

	// Renames are detected.
	writeFile(t, filepath.Join(root, "lib", "a.txt"), "content", domain.FilePerm)
	if err := os.Rename(filepath.Join(root, "lib", "a.txt"), filepath.Join(root, "lib", "b.txt")); err != nil {
		t.Fatal(err)
	}
	renamed, err := hasher.HashTree(root)
	if err != nil {
		t.Fatal(err)
	}
	if renamed == base {
		t.Error("expected hash to change when a file is renamed")
	}
}

func TestHasher_HashTree_NestedEntries(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.yaml"), "name: a\nversion: \"1\"\n", domain.FilePerm)

	hasher := fs.NewHasher(fs.NewWalker())
	hash := func() string {
		t.Helper()
		h, err := hasher.HashTree(root)
		if err != nil {
			t.Fatal(err)
		}
		return h
	}

	base := hash()

	// A file named like the marker below the package root is package content.
	writeFile(t, filepath.Join(root, "inst", domain.InstallMarkerFile), "{}", domain.FilePerm)
	nested := hash()
	if nested == base {
		t.Error("expected a nested marker-named file to change the hash")
	}

	// VCS directories shipped inside a package are hashed like anything else.
	writeFile(t, filepath.Join(root, ".git", "HEAD"), "ref: refs/heads/main\n", domain.FilePerm)
	withGit := hash()
	if withGit == nested {
		t.Error("expected files under .git to change the hash")
	}

	writeFile(t, filepath.Join(root, ".jj", "repo"), "store", domain.FilePerm)
	if hash() == withGit {
		t.Error("expected files under .jj to change the hash")
	}
}

func TestHasher_HashTree_ModeAndSymlinks(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "bin", "tool"), "#!/bin/sh\n", domain.FilePerm)

	hasher := fs.NewHasher(fs.NewWalker())
	before, err := hasher.HashTree(root)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.Chmod(filepath.Join(root, "bin", "tool"), 0o755); err != nil { //nolint:gosec // Executable test fixture
		t.Fatal(err)
	}
	executable, err := hasher.HashTree(root)
	if err != nil {
		t.Fatal(err)
	}
	if executable == before {
		t.Error("expected hash to change when the executable bit changes")
	}

	if err := os.Symlink("bin/tool", filepath.Join(root, "tool")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	linked, err := hasher.HashTree(root)
	if err != nil {
		t.Fatal(err)
	}
	if linked == executable {
		t.Error("expected hash to change when a symlink is added")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "state.json")

	if err := fs.WriteFileAtomic(path, []byte("first"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	if err := fs.WriteFileAtomic(path, []byte("second"), 0o600); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("expected second write to win, got %q", data)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the target file, found %d entries", len(entries))
	}
}
