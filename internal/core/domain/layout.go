package domain

import "path/filepath"

const (
	// RigDirName is the name of the per-project state directory.
	RigDirName = ".rig"

	// LibraryDirName is the name of the active library directory inside RigDirName.
	LibraryDirName = "library"

	// StagingNewSuffix is appended to the library path for the generation being built.
	StagingNewSuffix = ".new"

	// StagingOldSuffix is appended to the library path for the generation being retired.
	StagingOldSuffix = ".old"

	// LibraryLockSuffix is appended to the library path for the advisory lock file.
	LibraryLockSuffix = ".lock"

	// CacheDirName is the name of the cache directory.
	CacheDirName = "cache"

	// MetadataCacheDirName is the name of the repository metadata cache directory.
	MetadataCacheDirName = "metadata"

	// DownloadDirName is the name of the archive download directory.
	DownloadDirName = "downloads"

	// ProjectFileName is the name of the project configuration file.
	ProjectFileName = "rig.yaml"

	// DefaultLockFileName is the name of the lock file written next to the project file.
	DefaultLockFileName = "rig.lock"

	// HistoryFileName is the name of the run journal database.
	HistoryFileName = "history.db"

	// PackageMetadataFile is the metadata file embedded in every installed package.
	PackageMetadataFile = "package.yaml"

	// InstallMarkerFile is the provenance marker written by the applier into each package it installs.
	InstallMarkerFile = ".rig-install.json"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultRigPath returns the state directory for the project rooted at root.
func DefaultRigPath(root string) string {
	return filepath.Join(root, RigDirName)
}

// DefaultLibraryPath returns the active library path for the project rooted at root.
func DefaultLibraryPath(root string) string {
	return filepath.Join(root, RigDirName, LibraryDirName)
}

// DefaultMetadataCachePath returns the repository metadata cache for the project rooted at root.
func DefaultMetadataCachePath(root string) string {
	return filepath.Join(root, RigDirName, CacheDirName, MetadataCacheDirName)
}

// DefaultDownloadPath returns the archive download directory for the project rooted at root.
func DefaultDownloadPath(root string) string {
	return filepath.Join(root, RigDirName, CacheDirName, DownloadDirName)
}

// DefaultHistoryPath returns the run journal path for the project rooted at root.
func DefaultHistoryPath(root string) string {
	return filepath.Join(root, RigDirName, HistoryFileName)
}

// StagingNewPath returns the staging-new slot for the given library.
func StagingNewPath(libraryPath string) string {
	return filepath.Clean(libraryPath) + StagingNewSuffix
}

// StagingOldPath returns the staging-old slot for the given library.
func StagingOldPath(libraryPath string) string {
	return filepath.Clean(libraryPath) + StagingOldSuffix
}

// LibraryLockPath returns the advisory lock file for the given library.
func LibraryLockPath(libraryPath string) string {
	return filepath.Clean(libraryPath) + LibraryLockSuffix
}
