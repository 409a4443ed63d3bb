package repository_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/adapters/repository"
	"go.trai.ch/rig/internal/core/domain"
)

type server struct {
	*httptest.Server
	hits atomic.Int32
}

func newServer(t *testing.T, docs map[string]string, archives map[string]string) *server {
	t.Helper()
	s := &server{}
	mux := http.NewServeMux()
	mux.HandleFunc("/packages/{file}", func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		body, ok := docs[r.PathValue("file")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, body)
	})
	mux.HandleFunc("/archives/{file}", func(w http.ResponseWriter, r *http.Request) {
		body, ok := archives[r.PathValue("file")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, body)
	})
	mux.HandleFunc("/index.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"packages": ["A", "B"]}`)
	})
	mux.HandleFunc("/broken/packages/{file}", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func TestHTTP_Lookup(t *testing.T) {
	srv := newServer(t, map[string]string{
		"A.json": `{"name": "A", "version": "1.0", "requires": ["B"], "build_requires": ["C"]}`,
	}, nil)
	repo := repository.NewHTTP(srv.URL+"/", srv.Client(), nil)

	got, err := repo.Lookup(context.Background(), "A")
	require.NoError(t, err)
	want := domain.NewPackageRecord("A", "1.0", domain.WithRequires("B"), domain.WithBuildRequires("C"))
	assert.Equal(t, want, got)
}

func TestHTTP_LookupErrors(t *testing.T) {
	srv := newServer(t, map[string]string{
		"bad.json":   `{"name": `,
		"other.json": `{"name": "someone-else", "version": "1"}`,
	}, nil)
	ctx := context.Background()

	_, err := repository.NewHTTP(srv.URL, srv.Client(), nil).Lookup(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrPackageNotFound)

	_, err = repository.NewHTTP(srv.URL, srv.Client(), nil).Lookup(ctx, "bad")
	assert.ErrorIs(t, err, domain.ErrRepositoryParseFailed)

	_, err = repository.NewHTTP(srv.URL, srv.Client(), nil).Lookup(ctx, "other")
	assert.ErrorIs(t, err, domain.ErrRepositoryParseFailed)

	_, err = repository.NewHTTP(srv.URL+"/broken", srv.Client(), nil).Lookup(ctx, "A")
	assert.ErrorIs(t, err, domain.ErrRepositoryRequestFailed)
	assert.NotErrorIs(t, err, domain.ErrPackageNotFound)
}

func TestHTTP_CachesDocuments(t *testing.T) {
	srv := newServer(t, map[string]string{"A.json": `{"name": "A", "version": "1.0"}`}, nil)
	cache := repository.NewCache(t.TempDir(), time.Hour)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.SetClock(func() time.Time { return now })
	repo := repository.NewHTTP(srv.URL, srv.Client(), cache)
	ctx := context.Background()

	_, err := repo.Lookup(ctx, "A")
	require.NoError(t, err)
	_, err = repo.Lookup(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.hits.Load(), "second lookup is served from cache")

	now = now.Add(2 * time.Hour)
	_, err = repo.Lookup(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, int32(2), srv.hits.Load(), "expired entries are refetched")
}

func TestHTTP_FetchArchiveAndNames(t *testing.T) {
	srv := newServer(t, nil, map[string]string{"A_1.0.tar.gz": "archive-bytes"})
	repo := repository.NewHTTP(srv.URL, srv.Client(), nil)
	ctx := context.Background()

	rc, err := repo.FetchArchive(ctx, domain.NewPackageRecord("A", "1.0"))
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "archive-bytes", string(data))

	_, err = repo.FetchArchive(ctx, domain.NewPackageRecord("A", "9.9"))
	assert.ErrorIs(t, err, domain.ErrPackageNotFound)

	names, err := repo.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names)
}

func writeLocal(t *testing.T, dir string, docs map[string]repository.Document) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "packages"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "archives"), 0o750))
	for name, doc := range docs {
		data, err := json.Marshal(doc)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "packages", name+".json"), data, 0o600))
		archive := repository.ArchiveName(doc.Record())
		require.NoError(t, os.WriteFile(filepath.Join(dir, "archives", archive), []byte(doc.Name), 0o600))
	}
}

func TestLocal(t *testing.T) {
	dir := t.TempDir()
	writeLocal(t, dir, map[string]repository.Document{
		"A": {Name: "A", Version: "1.0", Requires: []string{"B"}},
		"B": {Name: "B", Version: "2.0"},
	})
	repo := repository.NewLocal(dir)
	ctx := context.Background()

	got, err := repo.Lookup(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, got.Requires)

	_, err = repo.Lookup(ctx, "C")
	assert.ErrorIs(t, err, domain.ErrPackageNotFound)

	_, err = repo.Lookup(ctx, "../A")
	assert.ErrorIs(t, err, domain.ErrPackageNotFound)

	rc, err := repo.FetchArchive(ctx, got)
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	names, err := repo.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names)
}

func TestChain(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writeLocal(t, first, map[string]repository.Document{"A": {Name: "A", Version: "1.0"}})
	writeLocal(t, second, map[string]repository.Document{
		"A": {Name: "A", Version: "2.0"},
		"B": {Name: "B", Version: "1.0"},
	})
	chain := repository.NewChain(
		repository.Named{Name: "first", URL: first, Repo: repository.NewLocal(first)},
		repository.Named{Name: "second", URL: second, Repo: repository.NewLocal(second)},
	)
	ctx := context.Background()

	a, err := chain.Lookup(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, domain.Version("1.0"), a.Version, "first repository wins")
	assert.Equal(t, domain.Source{Type: domain.SourceRepository, Name: "first", URL: first}, a.Source)
	assert.Equal(t, domain.ComputeFingerprint(a), a.Fingerprint)

	b, err := chain.Lookup(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, "second", b.Source.Name)

	rc, err := chain.FetchArchive(ctx, b)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "B", string(data))

	orphan := b
	orphan.Source.Name = "retired"
	rc, err = chain.FetchArchive(ctx, orphan)
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	_, err = chain.Lookup(ctx, "Z")
	assert.ErrorIs(t, err, domain.ErrPackageNotFound)

	names, err := chain.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names)

	assert.Equal(t, []domain.Repository{{Name: "first", URL: first}, {Name: "second", URL: second}}, chain.Repositories())
}

func TestFactory_ForProject(t *testing.T) {
	root := t.TempDir()
	writeLocal(t, filepath.Join(root, "vendor-repo"), map[string]repository.Document{"A": {Name: "A", Version: "1.0"}})

	project := domain.NewProject(root)
	project.Repositories = []domain.Repository{{Name: "vendored", URL: "vendor-repo"}}

	repo, err := repository.NewFactory(nil).ForProject(project)
	require.NoError(t, err)

	got, err := repo.Lookup(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, "vendored", got.Source.Name)

	project.Repositories = []domain.Repository{{Name: "bad", URL: "ftp://example.com/repo"}}
	_, err = repository.NewFactory(nil).ForProject(project)
	assert.ErrorIs(t, err, domain.ErrInvalidRepository)
}

func TestSuggest(t *testing.T) {
	names := []string{"dplyr", "ggplot2", "data.table", "tidyr", "DBI"}

	assert.Equal(t, []string{"ggplot2"}, repository.Suggest("ggplot", names, 3))
	assert.Contains(t, repository.Suggest("dplyer", names, 3), "dplyr")
	assert.Equal(t, "DBI", repository.Suggest("dbi", names, 3)[0])
	assert.Empty(t, repository.Suggest("zzz", names, 3))
	assert.Empty(t, repository.Suggest("", names, 3))
	assert.Len(t, repository.Suggest("d", names, 2), 2)
}
