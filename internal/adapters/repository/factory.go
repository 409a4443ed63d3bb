package repository

import (
	"net/http"
	"net/url"
	"path/filepath"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.RepositoryFactory = (*Factory)(nil)

// Factory builds the repository chain of a project.
type Factory struct {
	transport http.RoundTripper
}

// NewFactory creates a Factory. A nil transport uses http.DefaultTransport.
func NewFactory(transport http.RoundTripper) *Factory {
	return &Factory{transport: transport}
}

// ForProject returns the project's repositories as a chain. http and https URLs are
// remote repositories; file URLs and paths are local, relative to the project root.
func (f *Factory) ForProject(project domain.Project) (ports.Repository, error) {
	client := &http.Client{
		Transport: f.transport,
		Timeout:   project.Settings.HTTPTimeout,
	}

	var cache *Cache
	if project.Settings.CacheTTL > 0 {
		cache = NewCache(project.MetadataCachePath(), project.Settings.CacheTTL)
	}

	named := make([]Named, 0, len(project.Repositories))
	for _, repo := range project.Repositories {
		backend, err := open(project.Root, repo, client, cache)
		if err != nil {
			return nil, err
		}
		named = append(named, Named{Name: repo.Name, URL: repo.URL, Repo: backend})
	}
	return NewChain(named...), nil
}

func open(root string, repo domain.Repository, client *http.Client, cache *Cache) (ports.Repository, error) {
	u, err := url.Parse(repo.URL)
	if err != nil {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidRepository, err.Error()), "repository", repo.Name), "url", repo.URL)
	}

	switch u.Scheme {
	case "http", "https":
		return NewHTTP(repo.URL, client, cache), nil
	case "file":
		return NewLocal(u.Path), nil
	case "":
		dir := filepath.FromSlash(repo.URL)
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(root, dir)
		}
		return NewLocal(dir), nil
	default:
		err := zerr.With(zerr.Wrap(domain.ErrInvalidRepository, "unsupported URL scheme"), "repository", repo.Name)
		return nil, zerr.With(err, "url", repo.URL)
	}
}
