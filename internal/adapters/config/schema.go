package config

// Rigfile represents the structure of the rig.yaml project file.
type Rigfile struct {
	Version      string          `yaml:"version"`
	Project      string          `yaml:"project"`
	Runtime      string          `yaml:"runtime"`
	Repositories []RepositoryDTO `yaml:"repositories"`
	Dependencies []string        `yaml:"dependencies"`
	Library      string          `yaml:"library"`
	Lockfile     string          `yaml:"lockfile"`
}

// RepositoryDTO represents a repository entry in rig.yaml.
type RepositoryDTO struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}
