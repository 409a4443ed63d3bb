package repository

import (
	"time"

	"go.trai.ch/rig/internal/core/domain"
)

// Document is the JSON package description a repository serves at packages/<name>.json.
type Document struct {
	Name          string   `json:"name"`
	Version       string   `json:"version"`
	Requires      []string `json:"requires,omitempty"`
	BuildRequires []string `json:"build_requires,omitempty"`
	Optional      []string `json:"optional,omitempty"`
	Runtime       string   `json:"runtime,omitempty"`
}

// Index is the JSON package listing a repository serves at index.json.
type Index struct {
	Packages []string `json:"packages"`
}

// cacheEntry is a cached Document.
type cacheEntry struct {
	Repository string    `json:"repository"`
	Name       string    `json:"name"`
	FetchedAt  time.Time `json:"fetched_at"`
	Document   Document  `json:"document"`
}

// Record converts the document into a package record without origin.
func (d Document) Record() domain.PackageRecord {
	return domain.NewPackageRecord(d.Name, domain.Version(d.Version),
		domain.WithRequires(d.Requires...),
		domain.WithBuildRequires(d.BuildRequires...),
		domain.WithOptional(d.Optional...),
		domain.WithRuntime(d.Runtime),
	)
}

// NewDocument describes a record.
func NewDocument(r domain.PackageRecord) Document {
	return Document{
		Name:          r.Name,
		Version:       string(r.Version),
		Requires:      r.Requires,
		BuildRequires: r.BuildRequires,
		Optional:      r.Optional,
		Runtime:       r.Runtime,
	}
}
