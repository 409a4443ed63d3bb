// Package config provides the project file loader and user settings for rig.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ProjectLoader = (*Loader)(nil)

// supportedVersion is the only rig.yaml format version understood.
const supportedVersion = "1"

// Loader implements ports.ProjectLoader using rig.yaml and the user settings.
type Loader struct {
	Logger   ports.Logger
	Settings *Settings
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger, settings *Settings) *Loader {
	return &Loader{Logger: logger, Settings: settings}
}

// Load finds rig.yaml in cwd or the nearest parent directory and resolves the project.
func (l *Loader) Load(cwd string) (domain.Project, error) {
	configPath, err := FindProjectFile(cwd)
	if err != nil {
		return domain.Project{}, err
	}

	rigfile, err := ReadRigfile(configPath)
	if err != nil {
		return domain.Project{}, err
	}

	settings, err := l.Settings.Load()
	if err != nil {
		return domain.Project{}, err
	}

	project, err := l.resolve(configPath, rigfile)
	if err != nil {
		return domain.Project{}, zerr.With(err, "path", configPath)
	}
	project.Settings = settings
	return project, nil
}

// FindProjectFile returns the path of the nearest rig.yaml at or above cwd.
func FindProjectFile(cwd string) (string, error) {
	currentDir := filepath.Clean(cwd)
	for {
		candidate := filepath.Join(currentDir, domain.ProjectFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "no project file"), "cwd", cwd)
}

// ReadRigfile reads and parses a rig.yaml file.
func ReadRigfile(path string) (Rigfile, error) {
	var rigfile Rigfile

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return rigfile, zerr.With(errors.Join(domain.ErrConfigReadFailed, err), "path", path)
	}

	if err := yaml.Unmarshal(data, &rigfile); err != nil {
		return rigfile, zerr.With(errors.Join(domain.ErrConfigParseFailed, err), "path", path)
	}

	if rigfile.Version != "" && rigfile.Version != supportedVersion {
		err := zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "unsupported version"), "version", rigfile.Version)
		return rigfile, zerr.With(err, "path", path)
	}

	return rigfile, nil
}

// RootDependencies returns the declared root dependencies sorted and de-duplicated.
func (f Rigfile) RootDependencies() ([]string, error) {
	roots := make([]string, 0, len(f.Dependencies))
	for _, dep := range f.Dependencies {
		dep = strings.TrimSpace(dep)
		if err := domain.ValidatePackageName(dep); err != nil {
			return nil, zerr.With(err, "dependency", dep)
		}
		roots = append(roots, dep)
	}
	slices.Sort(roots)
	return slices.Compact(roots), nil
}

func (l *Loader) resolve(configPath string, rigfile Rigfile) (domain.Project, error) {
	root := filepath.Dir(configPath)
	project := domain.NewProject(root)

	if rigfile.Project != "" {
		project.Name = rigfile.Project
	}
	project.Runtime = rigfile.Runtime

	repos, err := resolveRepositories(rigfile.Repositories)
	if err != nil {
		return domain.Project{}, err
	}
	project.Repositories = repos

	roots, err := rigfile.RootDependencies()
	if err != nil {
		return domain.Project{}, err
	}
	if len(roots) != len(rigfile.Dependencies) {
		l.Logger.Warn(fmt.Sprintf("duplicate dependencies in %s are ignored", domain.ProjectFileName))
	}
	project.Roots = roots

	if rigfile.Library != "" {
		project.LibraryPath = resolvePath(root, rigfile.Library)
	}
	if rigfile.Lockfile != "" {
		project.LockPath = resolvePath(root, rigfile.Lockfile)
	}

	return project, nil
}

func resolveRepositories(dtos []RepositoryDTO) ([]domain.Repository, error) {
	seen := make(map[string]bool, len(dtos))
	repos := make([]domain.Repository, 0, len(dtos))
	for i, dto := range dtos {
		if dto.Name == "" || dto.URL == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidRepository, "repository needs a name and a url"), "index", i)
		}
		if seen[dto.Name] {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidRepository, "duplicate repository name"), "repository", dto.Name)
		}
		seen[dto.Name] = true
		repos = append(repos, domain.Repository{Name: dto.Name, URL: dto.URL})
	}
	return repos, nil
}

func resolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}
