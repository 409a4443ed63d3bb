package domain

import "go.trai.ch/zerr"

// Error kinds surfaced by the reconciliation engine. Callers match them with errors.Is;
// producers attach them with errors.Join(kind, cause) so the underlying cause stays in the chain.
var (
	// ErrLookupFailed is returned when the metadata source cannot be queried.
	ErrLookupFailed = zerr.New("package metadata lookup failed")

	// ErrPackageNotFound is returned by a metadata source that does not know a package.
	ErrPackageNotFound = zerr.New("package not found")

	// ErrMissingPackages is returned when required packages could not be resolved.
	ErrMissingPackages = zerr.New("required packages could not be resolved")

	// ErrConflictDetected is returned when a name resolves to two incompatible records.
	ErrConflictDetected = zerr.New("conflicting package records")

	// ErrArchiveFetchFailed is returned when a package archive cannot be downloaded.
	ErrArchiveFetchFailed = zerr.New("failed to fetch package archive")

	// ErrInstallFailed is returned when a package cannot be installed into the staging library.
	ErrInstallFailed = zerr.New("failed to install package")

	// ErrSwapFailed is returned when the staging library could not be promoted.
	// The active library is left as it was before the apply started.
	ErrSwapFailed = zerr.New("failed to swap library generations")

	// ErrLibraryCorrupted is returned when a failed swap could not be rolled back.
	// The project has no active library and needs manual recovery.
	ErrLibraryCorrupted = zerr.New("library is corrupted, manual recovery required")

	// ErrLibraryBusy is returned when another process holds the library lock.
	ErrLibraryBusy = zerr.New("library is locked by another process")

	// ErrLockStoreCorrupt is returned when the lock file cannot be parsed.
	ErrLockStoreCorrupt = zerr.New("lock file is corrupt")

	// ErrLockNotFound is returned when the project has no lock file yet.
	ErrLockNotFound = zerr.New("lock file not found")

	// ErrLockWriteFailed is returned when the lock file cannot be written.
	ErrLockWriteFailed = zerr.New("failed to write lock file")

	// ErrInspectionFailed is returned when the library directory cannot be listed.
	ErrInspectionFailed = zerr.New("failed to inspect library")

	// ErrConfirmationRequired is returned when a destructive plan needs confirmation
	// but the session is not interactive.
	ErrConfirmationRequired = zerr.New("plan removes or downgrades packages, rerun with --yes to apply")

	// ErrAborted is returned when the user declines a destructive plan.
	ErrAborted = zerr.New("aborted by user")

	// ErrConfigReadFailed is returned when the project file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read project file")

	// ErrConfigParseFailed is returned when the project file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse project file")

	// ErrConfigNotFound is returned when no project file is found.
	ErrConfigNotFound = zerr.New("could not find rig.yaml")

	// ErrInvalidPackageName is returned when a declared dependency has an invalid name.
	ErrInvalidPackageName = zerr.New("invalid package name")

	// ErrInvalidRepository is returned when a repository entry is malformed.
	ErrInvalidRepository = zerr.New("invalid repository")

	// ErrSettingsLoadFailed is returned when user settings cannot be loaded.
	ErrSettingsLoadFailed = zerr.New("failed to load settings")

	// ErrRepositoryRequestFailed is returned when a repository request fails.
	ErrRepositoryRequestFailed = zerr.New("repository request failed")

	// ErrRepositoryParseFailed is returned when a repository response cannot be parsed.
	ErrRepositoryParseFailed = zerr.New("failed to parse repository response")

	// ErrMetadataCacheFailed is returned when the metadata cache cannot be written.
	ErrMetadataCacheFailed = zerr.New("failed to write metadata cache")

	// ErrHistoryFailed is returned when the run journal cannot be read or written.
	ErrHistoryFailed = zerr.New("failed to access run history")
)
