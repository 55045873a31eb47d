// Package sourceimport imports the data table sources connected to a data repository.
//
// Every VulDataTableSource stored beside the repository (its directory and below) whose
// data table is one of the repository's tables is handed to a SourceRunner. A failing
// source is recorded and the remaining sources still run.
package sourceimport

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aalvaropc/vulimport/internal/domain"
	"github.com/aalvaropc/vulimport/internal/ports"
)

type Importer struct {
	catalog ports.AssetCatalog
	runner  ports.SourceRunner
	log     *slog.Logger
}

type Option func(*Importer)

func WithLogger(l *slog.Logger) Option {
	return func(i *Importer) {
		if l != nil {
			i.log = l
		}
	}
}

func New(catalog ports.AssetCatalog, runner ports.SourceRunner, opts ...Option) *Importer {
	i := &Importer{
		catalog: catalog,
		runner:  runner,
		log:     slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

var _ ports.DataSourceImporter = (*Importer)(nil)

// Sources returns the data table sources connected to repo, in catalog order.
func (i *Importer) Sources(ctx context.Context, repo domain.Asset) ([]domain.Asset, error) {
	assets, err := i.catalog.ListAssets(ctx, repo.Ref.Dir())
	if err != nil {
		return nil, err
	}

	var out []domain.Asset
	for _, a := range assets {
		if a.ConnectsTo(repo) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (i *Importer) ImportConnectedDataSources(ctx context.Context, repo domain.Asset) (domain.ImportReport, error) {
	report := domain.ImportReport{
		Repository: repo.Ref,
		Succeeded:  []domain.AssetRef{},
		Failed:     []domain.SourceFailure{},
	}

	sources, err := i.Sources(ctx, repo)
	if err != nil {
		return report, err
	}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		report.Processed++
		if err := i.runner.RunSource(ctx, src); err != nil {
			i.log.ErrorContext(ctx, "failed to import data source", "source", src.Ref.String(), "error", err)
			report.Failed = append(report.Failed, domain.SourceFailure{Source: src.Ref, Error: err.Error()})
			continue
		}

		i.log.InfoContext(ctx, "imported data source", "source", src.Ref.String())
		report.Succeeded = append(report.Succeeded, src.Ref)
	}

	if report.OK() {
		i.log.InfoContext(ctx, fmt.Sprintf("completed import of %d connected data sources", report.Processed))
	} else {
		i.log.ErrorContext(ctx, fmt.Sprintf("completed import of %d connected data sources with %d failures",
			report.Processed, len(report.Failed)))
	}

	return report, nil
}
