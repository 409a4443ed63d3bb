// Package repository implements package repositories: remote HTTP repositories,
// local directory repositories and an ordered chain of both.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Repository = (*HTTP)(nil)

// HTTP is a repository served over HTTP. Package documents are cached on disk.
type HTTP struct {
	baseURL string
	client  *http.Client
	cache   *Cache
}

// NewHTTP creates an HTTP repository rooted at baseURL. cache may be nil.
func NewHTTP(baseURL string, client *http.Client, cache *Cache) *HTTP {
	return &HTTP{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		cache:   cache,
	}
}

// Lookup returns the package document for name, from the cache when fresh.
func (h *HTTP) Lookup(ctx context.Context, name string) (domain.PackageRecord, error) {
	if h.cache != nil {
		if doc, ok := h.cache.Get(h.baseURL, name); ok {
			return doc.Record(), nil
		}
	}

	var doc Document
	if err := h.getJSON(ctx, documentPath(name), &doc); err != nil {
		return domain.PackageRecord{}, zerr.With(err, "package", name)
	}
	if doc.Name == "" {
		doc.Name = name
	}
	if doc.Name != name || doc.Version == "" {
		err := zerr.With(zerr.Wrap(domain.ErrRepositoryParseFailed, "package document does not describe the package"),
			"package", name)
		return domain.PackageRecord{}, zerr.With(err, "url", h.baseURL)
	}

	if h.cache != nil {
		_ = h.cache.Put(h.baseURL, name, doc)
	}
	return doc.Record(), nil
}

// FetchArchive streams the package archive. The caller closes the reader.
func (h *HTTP) FetchArchive(ctx context.Context, record domain.PackageRecord) (io.ReadCloser, error) {
	body, err := h.open(ctx, archivePath(record))
	if err != nil {
		return nil, zerr.With(err, "package", record.String())
	}
	return body, nil
}

// Names returns the package names listed in the repository index.
func (h *HTTP) Names(ctx context.Context) ([]string, error) {
	var index Index
	if err := h.getJSON(ctx, indexFile, &index); err != nil {
		return nil, err
	}
	return index.Packages, nil
}

func (h *HTTP) getJSON(ctx context.Context, path string, v any) error {
	body, err := h.open(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		_ = body.Close()
	}()

	data, err := io.ReadAll(body)
	if err != nil {
		return zerr.With(errors.Join(domain.ErrRepositoryRequestFailed, err), "url", h.baseURL+"/"+path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return zerr.With(errors.Join(domain.ErrRepositoryParseFailed, err), "url", h.baseURL+"/"+path)
	}
	return nil
}

func (h *HTTP) open(ctx context.Context, path string) (io.ReadCloser, error) {
	url := h.baseURL + "/" + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrRepositoryRequestFailed, err), "url", url)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrRepositoryRequestFailed, err), "url", url)
	}

	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return nil, zerr.With(zerr.Wrap(domain.ErrPackageNotFound, "not in repository"), "url", url)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		apiErr := zerr.With(zerr.Wrap(domain.ErrRepositoryRequestFailed, resp.Status), "status_code", resp.StatusCode)
		return nil, zerr.With(apiErr, "url", url)
	}

	return resp.Body, nil
}
