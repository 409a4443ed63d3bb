package domain

import (
	"path/filepath"
	"time"
)

// Settings are the user-level knobs that apply to every project.
type Settings struct {
	// OverwriteDirty lets restore replace dirty packages that are in the target set.
	OverwriteDirty bool

	// FetchConcurrency bounds parallel archive downloads.
	FetchConcurrency int

	// HTTPTimeout bounds a single repository request.
	HTTPTimeout time.Duration

	// CacheTTL is how long cached repository metadata stays fresh.
	CacheTTL time.Duration

	// VersionScheme selects the version comparator ("dotted" or "semver").
	VersionScheme string

	// LogFormat is "pretty" or "json".
	LogFormat string

	// LogLevel is the minimum level logged unless --verbose is given.
	LogLevel LogLevel
}

// Default settings values.
const (
	DefaultFetchConcurrency = 4
	DefaultHTTPTimeout      = 30 * time.Second
	DefaultCacheTTL         = time.Hour
	LogFormatPretty         = "pretty"
	LogFormatJSON           = "json"
)

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		FetchConcurrency: DefaultFetchConcurrency,
		HTTPTimeout:      DefaultHTTPTimeout,
		CacheTTL:         DefaultCacheTTL,
		VersionScheme:    SchemeDotted,
		LogFormat:        LogFormatPretty,
		LogLevel:         LogLevelInfo,
	}
}

// Project is the explicit per-project context threaded through every operation.
// Nothing in rig reads the active library path from global state.
type Project struct {
	// Name is the project name from rig.yaml.
	Name string

	// Root is the directory holding rig.yaml.
	Root string

	// Runtime is the runtime version recorded into the lock.
	Runtime string

	// Repositories are consulted in order.
	Repositories []Repository

	// Roots are the declared root dependencies.
	Roots []string

	// LibraryPath is the active library directory.
	LibraryPath string

	// LockPath is the lock file.
	LockPath string

	// Settings are the resolved user settings.
	Settings Settings
}

// NewProject returns a project rooted at root with default paths and settings.
func NewProject(root string) Project {
	return Project{
		Name:        filepath.Base(root),
		Root:        root,
		LibraryPath: DefaultLibraryPath(root),
		LockPath:    filepath.Join(root, DefaultLockFileName),
		Settings:    DefaultSettings(),
	}
}

// RigPath returns the project state directory.
func (p Project) RigPath() string {
	return DefaultRigPath(p.Root)
}

// MetadataCachePath returns the repository metadata cache directory.
func (p Project) MetadataCachePath() string {
	return DefaultMetadataCachePath(p.Root)
}

// DownloadPath returns the archive download directory.
func (p Project) DownloadPath() string {
	return DefaultDownloadPath(p.Root)
}

// HistoryPath returns the run journal database.
func (p Project) HistoryPath() string {
	return DefaultHistoryPath(p.Root)
}

// Comparator returns the version comparator selected by the settings.
func (p Project) Comparator() (Comparator, error) {
	return ComparatorFor(p.Settings.VersionScheme)
}
