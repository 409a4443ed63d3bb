package library

import (
	"errors"
	"os"
	"path/filepath"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// PackageFile is the structure of the package.yaml file embedded in every package.
type PackageFile struct {
	Name          string     `yaml:"name"`
	Version       string     `yaml:"version"`
	Source        *SourceDTO `yaml:"source,omitempty"`
	Fingerprint   string     `yaml:"fingerprint,omitempty"`
	Requires      []string   `yaml:"requires,omitempty"`
	BuildRequires []string   `yaml:"build_requires,omitempty"`
	Optional      []string   `yaml:"optional,omitempty"`
	Runtime       string     `yaml:"runtime,omitempty"`
}

// SourceDTO is the origin of a package as recorded in package.yaml.
type SourceDTO struct {
	Type string `yaml:"type"`
	Name string `yaml:"name,omitempty"`
	URL  string `yaml:"url,omitempty"`
	Ref  string `yaml:"ref,omitempty"`
}

// DecodeMetadata parses package.yaml content.
func DecodeMetadata(data []byte) (domain.PackageRecord, error) {
	var file PackageFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return domain.PackageRecord{}, zerr.Wrap(err, "failed to parse package metadata")
	}
	if file.Name == "" {
		return domain.PackageRecord{}, errors.New("package metadata has no name")
	}
	if file.Version == "" {
		return domain.PackageRecord{}, zerr.With(errors.New("package metadata has no version"), "package", file.Name)
	}
	return file.Record(), nil
}

// EncodeMetadata renders a record as package.yaml content.
func EncodeMetadata(record domain.PackageRecord) ([]byte, error) {
	file := PackageFile{
		Name:          record.Name,
		Version:       string(record.Version),
		Fingerprint:   record.Fingerprint,
		Requires:      record.Requires,
		BuildRequires: record.BuildRequires,
		Optional:      record.Optional,
		Runtime:       record.Runtime,
	}
	if record.Source.Type != "" {
		file.Source = &SourceDTO{
			Type: string(record.Source.Type),
			Name: record.Source.Name,
			URL:  record.Source.URL,
			Ref:  record.Source.Ref,
		}
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to marshal package metadata")
	}
	return data, nil
}

// Record converts the file into a package record.
func (f PackageFile) Record() domain.PackageRecord {
	opts := []domain.RecordOption{
		domain.WithFingerprint(f.Fingerprint),
		domain.WithRequires(f.Requires...),
		domain.WithBuildRequires(f.BuildRequires...),
		domain.WithOptional(f.Optional...),
		domain.WithRuntime(f.Runtime),
	}
	if f.Source != nil {
		opts = append(opts, domain.WithSource(domain.Source{
			Type: domain.SourceType(f.Source.Type),
			Name: f.Source.Name,
			URL:  f.Source.URL,
			Ref:  f.Source.Ref,
		}))
	}
	return domain.NewPackageRecord(f.Name, domain.Version(f.Version), opts...)
}

// ReadMetadata reads the package.yaml of the package directory dir.
func ReadMetadata(dir string) (domain.PackageRecord, error) {
	path := filepath.Join(dir, domain.PackageMetadataFile)
	data, err := os.ReadFile(path) //nolint:gosec // path is inside the project library
	if err != nil {
		return domain.PackageRecord{}, zerr.With(zerr.Wrap(err, "failed to read package metadata"), "path", path)
	}
	record, err := DecodeMetadata(data)
	if err != nil {
		return domain.PackageRecord{}, zerr.With(err, "path", path)
	}
	return record, nil
}

// WriteMetadata writes record as the package.yaml of dir.
func WriteMetadata(dir string, record domain.PackageRecord) error {
	data, err := EncodeMetadata(record)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, domain.PackageMetadataFile)
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write package metadata"), "path", path)
	}
	return nil
}
