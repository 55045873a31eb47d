package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/vulimport/internal/domain"
)

func assetsCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "assets",
		Short: "Inspect asset manifests in a workspace",
	}

	c.AddCommand(assetsListCmd(a))
	return c
}

func assetsListCmd(a *app) *cobra.Command {
	var class string

	cmd := &cobra.Command{
		Use:   "list [DIR]",
		Short: "List assets under a content directory (default: the mount root)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(a.workspace)
			if err != nil {
				return err
			}

			dir := strings.TrimSuffix(ws.cfg.Content.Mount, "/")
			if len(args) == 1 {
				dir = args[0]
			}

			assets, err := ws.assets.ListAssets(cmd.Context(), dir)
			if err != nil {
				return err
			}

			var shown []domain.Asset
			for _, asset := range assets {
				if class != "" && !strings.EqualFold(string(asset.Class), class) {
					continue
				}
				shown = append(shown, asset)
			}
			return renderAssetTable(cmd.OutOrStdout(), shown)
		},
	}

	cmd.Flags().StringVar(&class, "class", "", "Only list assets of this class")
	return cmd
}
