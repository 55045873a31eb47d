package workspacefinder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/vulimport/internal/domain"
	"gopkg.in/yaml.v3"
)

// ConfigFileName marks a workspace root.
const ConfigFileName = "vul.yaml"

// LoadConfig loads vul.yaml from the workspace root and applies defaults.
func LoadConfig(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, ConfigFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	// Apply parsed values on top of defaults.
	if v := strings.TrimSpace(y.Vul.Repository.Env); v != "" {
		cfg.Repository.EnvVar = v
	}
	if v := strings.TrimSpace(y.Vul.Repository.Class); v != "" {
		cfg.Repository.Class = domain.AssetClass(v)
	}
	if v := strings.TrimSpace(y.Vul.Content.Mount); v != "" {
		if !strings.HasPrefix(v, "/") || !strings.HasSuffix(v, "/") || len(v) < 3 {
			return cfg, &domain.OpError{
				Op:   "workspacefinder.loadconfig",
				Kind: domain.KindInvalidConfig,
				Path: path,
				Err:  fmt.Errorf("field content.mount: %q must look like /Name/: %w", v, domain.ErrInvalidConfig),
			}
		}
		cfg.Content.Mount = v
	}
	if v := strings.TrimSpace(y.Vul.Content.Root); v != "" {
		cfg.Content.Root = v
	}
	if len(y.Vul.Importer.Command) > 0 {
		cfg.Importer.Command = y.Vul.Importer.Command
	}
	if y.Vul.Paths.RunsDir != "" {
		cfg.Paths.RunsDir = y.Vul.Paths.RunsDir
	}
	if y.Vul.Runs.Index != nil {
		cfg.Runs.Index = *y.Vul.Runs.Index
	}

	return cfg, nil
}

type yamlConfig struct {
	Vul struct {
		Repository struct {
			Env   string `yaml:"env"`
			Class string `yaml:"class"`
		} `yaml:"repository"`

		Content struct {
			Mount string `yaml:"mount"`
			Root  string `yaml:"root"`
		} `yaml:"content"`

		Importer struct {
			Command []string `yaml:"command"`
		} `yaml:"importer"`

		Paths struct {
			RunsDir string `yaml:"runs_dir"`
		} `yaml:"paths"`

		Runs struct {
			Index *bool `yaml:"index"`
		} `yaml:"runs"`
	} `yaml:"vul"`
}
