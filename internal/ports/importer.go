package ports

import (
	"context"

	"github.com/aalvaropc/vulimport/internal/domain"
)

// DataSourceImporter imports every data source connected to a repository.
type DataSourceImporter interface {
	ImportConnectedDataSources(ctx context.Context, repo domain.Asset) (domain.ImportReport, error)
}

// SourceRunner performs the import of a single data table source.
type SourceRunner interface {
	RunSource(ctx context.Context, source domain.Asset) error
}
