package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aalvaropc/vulimport/internal/infra/logger"
	"github.com/aalvaropc/vulimport/internal/infra/workspacefinder"
)

func Execute() {
	a := &app{}
	if err := a.execute(a.rootCmd()); err != nil {
		os.Exit(1)
	}
}

// app carries the persistent flags and the logger lifecycle shared by subcommands.
type app struct {
	workspace string
	debug     bool
	noColor   bool

	cleanup func() error
}

func newRootCmd() *cobra.Command {
	return (&app{}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "vulimport",
		Short:        "Import the data sources connected to a VulDataRepository",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.setupLogging(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&a.workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable verbose logging (also written to .vul/logs/vul.log)")
	cmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		importCmd(a),
		validateCmd(a),
		assetsCmd(a),
		initCmd(),
		versionCmd(),
	)
	return cmd
}

func (a *app) setupLogging(cmd *cobra.Command) {
	if a.noColor {
		color.NoColor = true
	}

	logRoot := strings.TrimSpace(a.workspace)
	if logRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			wd = "."
		}
		wd, _ = filepath.Abs(wd)

		logRoot = wd
		if root, ferr := workspacefinder.NewFinder().FindRoot(wd); ferr == nil && root != "" {
			logRoot = root
		}
	}

	cleanup, _ := logger.Setup(logger.Config{
		Root:    logRoot,
		Debug:   a.debug,
		Console: cmd.ErrOrStderr(),
		NoColor: color.NoColor,
	})
	a.cleanup = cleanup
}

// execute runs cmd and releases the logger. On failure it points at the log
// file, which holds the debug-level importer output.
func (a *app) execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if err != nil {
		if p := logger.Path(); p != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Log: %s\n", p)
		}
	}
	a.close()
	return err
}

func (a *app) close() {
	if a.cleanup != nil {
		_ = a.cleanup()
		a.cleanup = nil
	}
}
