package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/vulimport/internal/domain"
	"github.com/aalvaropc/vulimport/internal/infra/contentstore"
	"github.com/aalvaropc/vulimport/internal/infra/hostcmd"
	"github.com/aalvaropc/vulimport/internal/infra/runstore"
	"github.com/aalvaropc/vulimport/internal/infra/sourceimport"
	"github.com/aalvaropc/vulimport/internal/infra/workspacefinder"
	"github.com/aalvaropc/vulimport/internal/ports"
	"github.com/aalvaropc/vulimport/internal/usecase"
)

type workspaceCtx struct {
	root string
	cfg  domain.Config

	assets *contentstore.Store
	store  ports.ArtifactStore
}

func loadWorkspace(workspaceFlag string) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		return nil, err
	}

	cfg, err := workspacefinder.LoadConfig(root)
	if err != nil {
		return nil, err
	}

	if err := workspacefinder.CheckContent(root, cfg); err != nil {
		return nil, err
	}

	return &workspaceCtx{
		root:   root,
		cfg:    cfg,
		assets: contentstore.New(workspacefinder.ContentDir(root, cfg), contentstore.WithMount(cfg.Content.Mount)),
		store:  runstore.NewJSONStore(root, cfg),
	}, nil
}

// gate wires the import use case. importer may be nil when only Resolve is used.
func (ws *workspaceCtx) gate(importer ports.DataSourceImporter, log *slog.Logger) *usecase.ImportRepository {
	return usecase.NewImportRepository(ws.assets, importer,
		usecase.WithMount(ws.cfg.Content.Mount),
		usecase.WithExpectedClass(ws.cfg.Repository.Class),
		usecase.WithLogger(log),
	)
}

// importer builds the connected-source importer around the configured host command.
func (ws *workspaceCtx) importer(log *slog.Logger) (ports.DataSourceImporter, error) {
	runner, err := hostcmd.New(ws.cfg.Importer.Command,
		hostcmd.WithDir(ws.root),
		hostcmd.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	return sourceimport.New(ws.assets, runner, sourceimport.WithLogger(log)), nil
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	locator := workspacefinder.NewFinder()
	root, err := locator.FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("workspace not found from %q (tip: run `vulimport init`): %w", wd, err)
	}
	return root, nil
}

// resolveReference picks the repository reference: --repo when given, otherwise
// the configured environment variable. An unset variable yields "", which the
// gate rejects like any malformed path.
func resolveReference(cmd *cobra.Command, repoFlag string, cfg domain.Config, lookupEnv func(string) (string, bool)) string {
	if cmd != nil && cmd.Flags().Changed("repo") {
		return repoFlag
	}
	v, _ := lookupEnv(cfg.Repository.EnvVar)
	return v
}
