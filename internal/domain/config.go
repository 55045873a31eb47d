package domain

// Config represents the vulimport configuration loaded from vul.yaml.
type Config struct {
	Repository RepositoryConfig
	Content    ContentConfig
	Importer   ImporterConfig
	Paths      PathsConfig
	Runs       RunsConfig
}

type RepositoryConfig struct {
	// EnvVar names the environment variable holding the repository reference.
	EnvVar string
	Class  AssetClass
}

type ContentConfig struct {
	Mount string
	Root  string
}

type ImporterConfig struct {
	// Command is the argv run once per connected data source.
	Command []string
}

type PathsConfig struct {
	RunsDir string
}

type RunsConfig struct {
	Index bool
}

// DefaultConfig provides sane defaults if vul.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Repository: RepositoryConfig{
			EnvVar: "UE_VUL_DATA_REPO",
			Class:  ClassDataRepository,
		},
		Content: ContentConfig{
			Mount: DefaultMount,
			Root:  "Content",
		},
		Paths: PathsConfig{
			RunsDir: "runs",
		},
		Runs: RunsConfig{Index: true},
	}
}

// WorkspaceSpec describes where a new workspace is scaffolded.
type WorkspaceSpec struct {
	Root string
}
