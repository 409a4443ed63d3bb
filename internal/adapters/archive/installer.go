// Package archive installs packages from gzip-compressed tar archives.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/rig/internal/adapters/library"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Installer = (*Installer)(nil)

var (
	errNoTopLevel   = errors.New("archive must contain a single top-level directory")
	errUnsafePath   = errors.New("archive entry escapes the package directory")
	errUnsafeLink   = errors.New("archive link escapes the package directory")
	errWrongPackage = errors.New("archive does not contain the requested package")
)

// Installer implements ports.Installer. Archives hold a single top-level directory
// which becomes <libraryDir>/<name>.
type Installer struct{}

// NewInstaller creates an Installer.
func NewInstaller() *Installer {
	return &Installer{}
}

// Install extracts archive into libraryDir and stamps the package metadata with record.
func (i *Installer) Install(ctx context.Context, record domain.PackageRecord, archive io.Reader, libraryDir string) error {
	target := filepath.Join(libraryDir, record.Name)
	if _, err := os.Lstat(target); err == nil {
		return zerr.With(errors.New("package directory already exists"), "path", target)
	}

	tmp, err := os.MkdirTemp(libraryDir, ".extract-"+record.Name+"-*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create extraction directory"), "path", libraryDir)
	}
	defer func() {
		_ = os.RemoveAll(tmp)
	}()

	if err := extract(ctx, archive, tmp); err != nil {
		return zerr.With(err, "package", record.Name)
	}

	observed, err := library.ReadMetadata(tmp)
	if err != nil {
		return err
	}
	if observed.Name != record.Name || observed.Version != record.Version {
		err := zerr.With(errWrongPackage, "expected", record.String())
		return zerr.With(err, "found", observed.String())
	}

	if err := library.WriteMetadata(tmp, record.WithComputedFingerprint()); err != nil {
		return err
	}

	if err := os.Rename(tmp, target); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to move package into place"), "path", target)
	}
	return nil
}

func extract(ctx context.Context, r io.Reader, dest string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return zerr.Wrap(err, "failed to open gzip stream")
	}
	defer func() {
		_ = gz.Close()
	}()

	tr := tar.NewReader(gz)
	top := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return zerr.Wrap(err, "failed to read archive")
		}
		if hdr.Typeflag == tar.TypeXGlobalHeader {
			continue
		}

		root, rel, err := split(hdr.Name)
		if err != nil {
			return zerr.With(err, "entry", hdr.Name)
		}
		if top == "" {
			top = root
		} else if root != top {
			return zerr.With(errNoTopLevel, "entry", hdr.Name)
		}
		if rel == "" {
			if hdr.Typeflag != tar.TypeDir {
				return zerr.With(errNoTopLevel, "entry", hdr.Name)
			}
			continue
		}

		if err := writeEntry(tr, hdr, top, rel, dest); err != nil {
			return zerr.With(err, "entry", hdr.Name)
		}
	}

	if top == "" {
		return zerr.Wrap(errNoTopLevel, "archive is empty")
	}
	return nil
}

// split separates the top-level directory from the rest of an entry name.
func split(name string) (root, rel string, err error) {
	clean := path.Clean(strings.TrimPrefix(name, "./"))
	if clean == "." || path.IsAbs(clean) || !filepath.IsLocal(filepath.FromSlash(clean)) {
		return "", "", errUnsafePath
	}
	root, rel, _ = strings.Cut(clean, "/")
	return root, rel, nil
}

func writeEntry(tr *tar.Reader, hdr *tar.Header, top, rel, dest string) error {
	target := filepath.Join(dest, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return err
	}

	switch hdr.Typeflag {
	case tar.TypeDir:
		return os.MkdirAll(target, domain.DirPerm)

	case tar.TypeReg:
		mode := hdr.FileInfo().Mode().Perm() | 0o600
		f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_EXCL, mode)
		if err != nil {
			return err
		}
		//nolint:gosec // archives come from the project's configured repositories
		if _, err := io.Copy(f, tr); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()

	case tar.TypeSymlink:
		link := filepath.FromSlash(hdr.Linkname)
		resolved := filepath.Join(filepath.Dir(filepath.FromSlash(rel)), link)
		if filepath.IsAbs(link) || !filepath.IsLocal(resolved) {
			return errUnsafeLink
		}
		return os.Symlink(link, target)

	case tar.TypeLink:
		root, linkRel, err := split(hdr.Linkname)
		if err != nil || root != top || linkRel == "" {
			return errUnsafeLink
		}
		return os.Link(filepath.Join(dest, filepath.FromSlash(linkRel)), target)

	default:
		return fmt.Errorf("unsupported archive entry type %q", hdr.Typeflag)
	}
}
