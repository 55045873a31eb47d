package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aalvaropc/vulimport/internal/domain"
	"github.com/aalvaropc/vulimport/internal/infra/logger"
	"github.com/aalvaropc/vulimport/internal/ports"
)

func importCmd(a *app) *cobra.Command {
	var repo string
	var noSave bool
	var format string

	c := &cobra.Command{
		Use:   "import",
		Short: "Import every data source connected to the repository asset",
		Long: "Reads the repository asset path from --repo or the configured environment variable\n" +
			"(UE_VUL_DATA_REPO by default), checks it is a VulDataRepository and runs the\n" +
			"importer command for each connected data table source.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			ws, err := loadWorkspace(a.workspace)
			if err != nil {
				return err
			}

			invocation := uuid.New().String()
			log := logger.L().With("invocation", invocation)
			importer := deferredImporter{build: func() (ports.DataSourceImporter, error) {
				return ws.importer(log)
			}}

			ref := resolveReference(cmd, repo, ws.cfg, os.LookupEnv)

			started := time.Now()
			report, err := ws.gate(importer, log).Execute(cmd.Context(), ref)
			if err != nil {
				return explainRefError(cmd, ws.cfg, err)
			}

			var outcome error
			if !report.OK() {
				outcome = fmt.Errorf("import finished with %d failed data source(s)", len(report.Failed))
			}

			var runID string
			if !noSave {
				run := domain.ImportRun{
					Invocation: invocation,
					Repository: report.Repository,
					StartedAt:  started,
					EndedAt:    time.Now(),
					Report:     report,
				}
				if outcome != nil {
					run.Error = outcome.Error()
				}
				runID, err = ws.store.SaveRun(run)
				if err != nil {
					log.Warn("could not save import run", "error", err)
				}
			}

			if err := printReport(cmd.OutOrStdout(), report, runID, format); err != nil {
				return err
			}
			return outcome
		},
	}

	c.Flags().StringVar(&repo, "repo", "", "Repository asset path (overrides the environment variable)")
	c.Flags().BoolVar(&noSave, "no-save", false, "Do not save the import run under runs/")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

// deferredImporter builds the connected-source importer on first use, so the
// importer command is only checked for a reference that passed the gate.
type deferredImporter struct {
	build func() (ports.DataSourceImporter, error)
}

func (d deferredImporter) ImportConnectedDataSources(ctx context.Context, repo domain.Asset) (domain.ImportReport, error) {
	importer, err := d.build()
	if err != nil {
		return domain.ImportReport{Repository: repo.Ref}, err
	}
	return importer.ImportConnectedDataSources(ctx, repo)
}

// explainRefError names where a rejected reference came from.
func explainRefError(cmd *cobra.Command, cfg domain.Config, err error) error {
	if !errors.Is(err, domain.ErrInvalidRef) {
		return err
	}
	if cmd.Flags().Changed("repo") {
		return fmt.Errorf("--repo must start with %s: %w", cfg.Content.Mount, err)
	}
	return fmt.Errorf("env %s must hold an asset path starting with %s: %w", cfg.Repository.EnvVar, cfg.Content.Mount, err)
}

func checkFormat(format string) error {
	switch format {
	case "pretty", "json", "":
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printReport(w io.Writer, report domain.ImportReport, runID string, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		payload := map[string]any{
			"run_id": runID,
			"report": report,
		}
		return enc.Encode(payload)
	case "pretty", "":
		printPrettyReport(w, report, runID)
		return nil
	default:
		return checkFormat(format)
	}
}

func printPrettyReport(w io.Writer, report domain.ImportReport, runID string) {
	ok := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed, color.Bold).SprintFunc()

	fmt.Fprintf(w, "Repository: %s\n", report.Repository)
	fmt.Fprintf(w, "Sources:    %d processed, %d ok, %d failed\n", report.Processed, len(report.Succeeded), len(report.Failed))
	if runID != "" {
		fmt.Fprintf(w, "Run ID:     %s\n", runID)
	}
	fmt.Fprintln(w)

	for _, s := range report.Succeeded {
		fmt.Fprintf(w, "- [%s] %s\n", ok("OK"), s)
	}
	for _, f := range report.Failed {
		fmt.Fprintf(w, "- [%s] %s\n", fail("FAIL"), f.Source)
		fmt.Fprintf(w, "  error: %s\n", f.Error)
	}
	if report.Processed == 0 {
		fmt.Fprintln(w, "(no connected data sources found)")
	}
}
