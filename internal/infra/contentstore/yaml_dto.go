package contentstore

// YAMLAsset is the on-disk manifest describing one asset.
type YAMLAsset struct {
	Class string `yaml:"class"`

	// VulDataRepository
	DataTables map[string]string `yaml:"data_tables"`

	// VulDataTableSource
	DataTable    string   `yaml:"data_table"`
	Directory    string   `yaml:"directory"`
	FilePatterns []string `yaml:"file_patterns"`
	TopLevelKey  string   `yaml:"top_level_key"`
}
