package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/vulimport/internal/infra/logger"
	"github.com/aalvaropc/vulimport/internal/infra/sourceimport"
)

func validateCmd(a *app) *cobra.Command {
	var repo string

	c := &cobra.Command{
		Use:   "validate",
		Short: "Check the repository asset and list its connected sources (no import)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(a.workspace)
			if err != nil {
				return err
			}

			ref := resolveReference(cmd, repo, ws.cfg, os.LookupEnv)

			asset, err := ws.gate(nil, logger.L()).Resolve(cmd.Context(), ref)
			if err != nil {
				return explainRefError(cmd, ws.cfg, err)
			}

			sources, err := sourceimport.New(ws.assets, nil).Sources(cmd.Context(), asset)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "OK %s (%s)\n", asset.Ref, asset.Class)
			fmt.Fprintf(out, "%d connected data source(s)\n\n", len(sources))
			return renderSourceTree(out, asset, sources)
		},
	}

	c.Flags().StringVar(&repo, "repo", "", "Repository asset path (overrides the environment variable)")
	return c
}
