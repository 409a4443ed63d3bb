package lockstore

import "go.trai.ch/rig/internal/core/domain"

// lockFile is the on-disk lock document.
type lockFile struct {
	Version      int                   `json:"version"`
	Runtime      runtimeDTO            `json:"runtime"`
	Repositories []repositoryDTO       `json:"repositories,omitempty"`
	Packages     map[string]packageDTO `json:"packages"`
}

type runtimeDTO struct {
	Version string `json:"version,omitempty"`
}

type repositoryDTO struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

type sourceDTO struct {
	Type string `json:"type,omitempty"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
	Ref  string `json:"ref,omitempty"`
}

type packageDTO struct {
	Name          string    `json:"name"`
	Version       string    `json:"version"`
	Source        sourceDTO `json:"source"`
	Fingerprint   string    `json:"fingerprint,omitempty"`
	Requires      []string  `json:"requires,omitempty"`
	BuildRequires []string  `json:"build_requires,omitempty"`
	Optional      []string  `json:"optional,omitempty"`
	Runtime       string    `json:"runtime,omitempty"`
}

func toLockFile(lock domain.LockRecord) lockFile {
	version := lock.Version
	if version == 0 {
		version = domain.LockFormatVersion
	}

	out := lockFile{
		Version:  version,
		Runtime:  runtimeDTO{Version: lock.Runtime},
		Packages: make(map[string]packageDTO, len(lock.Packages)),
	}
	for _, repo := range lock.Repositories {
		out.Repositories = append(out.Repositories, repositoryDTO{Name: repo.Name, URL: repo.URL})
	}
	for _, r := range lock.Packages {
		out.Packages[r.Name] = packageDTO{
			Name:    r.Name,
			Version: string(r.Version),
			Source: sourceDTO{
				Type: string(r.Source.Type),
				Name: r.Source.Name,
				URL:  r.Source.URL,
				Ref:  r.Source.Ref,
			},
			Fingerprint:   r.Fingerprint,
			Requires:      r.Requires,
			BuildRequires: r.BuildRequires,
			Optional:      r.Optional,
			Runtime:       r.Runtime,
		}
	}
	return out
}

func (p packageDTO) record() domain.PackageRecord {
	return domain.NewPackageRecord(p.Name, domain.Version(p.Version),
		domain.WithSource(domain.Source{
			Type: domain.SourceType(p.Source.Type),
			Name: p.Source.Name,
			URL:  p.Source.URL,
			Ref:  p.Source.Ref,
		}),
		domain.WithFingerprint(p.Fingerprint),
		domain.WithRequires(p.Requires...),
		domain.WithBuildRequires(p.BuildRequires...),
		domain.WithOptional(p.Optional...),
		domain.WithRuntime(p.Runtime),
	)
}
