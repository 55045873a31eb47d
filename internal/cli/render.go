package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/ddddddO/gtree"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/aalvaropc/vulimport/internal/domain"
)

// renderAssetTable prints one row per asset: reference, class and manifest file.
func renderAssetTable(w io.Writer, assets []domain.Asset) error {
	if len(assets) == 0 {
		_, err := fmt.Fprintln(w, "(no assets found)")
		return err
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithRowAutoWrap(tw.WrapNone),
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.Off}},
		})))
	table.Header("Asset", "Class", "File")

	data := make([][]string, len(assets))
	for i, a := range assets {
		data[i] = []string{a.Ref.String(), classLabel(a.Class), a.File}
	}

	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("error formatting assets: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("error rendering assets: %w", err)
	}
	return nil
}

func classLabel(class domain.AssetClass) string {
	switch class {
	case domain.ClassDataRepository:
		return color.New(color.FgCyan).Sprint(string(class))
	case domain.ClassDataTableSource:
		return color.New(color.FgGreen).Sprint(string(class))
	case domain.ClassUnknown:
		return color.New(color.Faint).Sprint(string(class))
	default:
		return string(class)
	}
}

// renderSourceTree prints the repository, its data tables and the sources feeding each table.
func renderSourceTree(w io.Writer, repo domain.Asset, sources []domain.Asset) error {
	root := gtree.NewRoot(fmt.Sprintf("%s (%s)", repo.Ref, repo.Class))

	names := make([]string, 0, len(repo.DataTables))
	for name := range repo.DataTables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		table := repo.DataTables[name]
		node := root.Add(fmt.Sprintf("%s: %s", name, table))
		for _, src := range sources {
			if src.Source.DataTable == table {
				node.Add(src.Ref.String())
			}
		}
	}

	return gtree.OutputProgrammably(w, root)
}
