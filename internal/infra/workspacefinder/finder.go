package workspacefinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aalvaropc/vulimport/internal/domain"
)

// Finder locates the nearest vulimport workspace at or above a directory: the
// first directory holding vul.yaml. The workspace's content root must exist,
// otherwise no asset could ever resolve and the workspace is rejected.
type Finder struct{}

func NewFinder() *Finder {
	return &Finder{}
}

func (f *Finder) FindRoot(startDir string) (string, error) {
	dir, err := startDirectory(startDir)
	if err != nil {
		return "", err
	}

	for {
		if isFile(filepath.Join(dir, ConfigFileName)) {
			cfg, err := LoadConfig(dir)
			if err != nil {
				return "", err
			}
			if err := CheckContent(dir, cfg); err != nil {
				return "", err
			}
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &domain.OpError{
				Op:   "workspacefinder.findroot",
				Kind: domain.KindNotFound,
				Path: startDir,
				Err:  fmt.Errorf("no %s above this directory: %w", ConfigFileName, domain.ErrNotFound),
			}
		}
		dir = parent
	}
}

// ContentDir is the directory mounted at cfg.Content.Mount.
func ContentDir(root string, cfg domain.Config) string {
	if filepath.IsAbs(cfg.Content.Root) {
		return filepath.Clean(cfg.Content.Root)
	}
	return filepath.Join(root, cfg.Content.Root)
}

// CheckContent fails with invalid_config when the content root is missing or not a directory.
func CheckContent(root string, cfg domain.Config) error {
	dir := ContentDir(root, cfg)
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}
	return &domain.OpError{
		Op:   "workspacefinder.content",
		Kind: domain.KindInvalidConfig,
		Path: dir,
		Err:  fmt.Errorf("content.root %q is not a directory: %w", cfg.Content.Root, domain.ErrInvalidConfig),
	}
}

// startDirectory resolves where the upward search begins; a file path starts at its directory.
func startDirectory(start string) (string, error) {
	if start == "" {
		return "", &domain.OpError{
			Op:   "workspacefinder.findroot",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("start directory is empty"),
		}
	}

	abs, err := filepath.Abs(start)
	if err != nil {
		return "", &domain.OpError{
			Op:   "workspacefinder.findroot",
			Kind: domain.KindExecution,
			Path: start,
			Err:  err,
		}
	}
	if isFile(abs) {
		abs = filepath.Dir(abs)
	}
	return filepath.Clean(abs), nil
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
