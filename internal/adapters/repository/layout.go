package repository

import (
	"net/url"

	"go.trai.ch/rig/internal/core/domain"
)

const (
	packagesDir = "packages"
	archivesDir = "archives"
	indexFile   = "index.json"
)

func documentPath(name string) string {
	return packagesDir + "/" + url.PathEscape(name) + ".json"
}

// ArchiveName returns the file name of a package archive.
func ArchiveName(record domain.PackageRecord) string {
	return url.PathEscape(record.Name) + "_" + url.PathEscape(string(record.Version)) + ".tar.gz"
}

func archivePath(record domain.PackageRecord) string {
	return archivesDir + "/" + ArchiveName(record)
}
