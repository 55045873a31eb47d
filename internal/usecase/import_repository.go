package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aalvaropc/vulimport/internal/domain"
	"github.com/aalvaropc/vulimport/internal/ports"
)

// ImportRepository validates a data repository reference, resolves and type-checks
// the asset, then hands it to the importer exactly once.
type ImportRepository struct {
	loader   ports.AssetLoader
	importer ports.DataSourceImporter

	mount    string
	expected domain.AssetClass
	log      *slog.Logger
}

type ImportOption func(*ImportRepository)

// WithMount overrides the required namespace prefix (default "/Game/").
func WithMount(mount string) ImportOption {
	return func(uc *ImportRepository) {
		if mount != "" {
			uc.mount = mount
		}
	}
}

// WithExpectedClass overrides the class tag the resolved asset must carry.
func WithExpectedClass(class domain.AssetClass) ImportOption {
	return func(uc *ImportRepository) {
		if class != "" {
			uc.expected = class
		}
	}
}

func WithLogger(l *slog.Logger) ImportOption {
	return func(uc *ImportRepository) {
		if l != nil {
			uc.log = l
		}
	}
}

func NewImportRepository(loader ports.AssetLoader, importer ports.DataSourceImporter, opts ...ImportOption) *ImportRepository {
	uc := &ImportRepository{
		loader:   loader,
		importer: importer,
		mount:    domain.DefaultMount,
		expected: domain.ClassDataRepository,
		log:      slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Resolve validates the reference shape, loads the asset and checks its class.
// The loader is never called for a malformed reference.
func (uc *ImportRepository) Resolve(ctx context.Context, reference string) (domain.Asset, error) {
	ref, err := domain.ValidateRef(reference, uc.mount)
	if err != nil {
		return domain.Asset{}, err
	}

	uc.log.InfoContext(ctx, fmt.Sprintf("loading asset %s", ref), "asset", ref.String())

	asset, found, err := uc.loader.LoadAsset(ctx, ref)
	if err != nil {
		return domain.Asset{}, err
	}
	if !found {
		return domain.Asset{}, &domain.OpError{
			Op:   "import.resolve",
			Kind: domain.KindNotFound,
			Path: ref.String(),
			Err:  fmt.Errorf("asset %s %w", ref, domain.ErrNotFound),
		}
	}

	if !asset.Is(uc.expected) {
		return domain.Asset{}, &domain.OpError{
			Op:   "import.typecheck",
			Kind: domain.KindTypeMismatch,
			Path: ref.String(),
			Err: &domain.TypeMismatchError{
				Ref:      ref,
				Actual:   asset.Class,
				Expected: uc.expected,
			},
		}
	}

	return asset, nil
}

// Execute runs the full gate. Nothing is retried: a second call with the same
// reference imports again.
func (uc *ImportRepository) Execute(ctx context.Context, reference string) (domain.ImportReport, error) {
	repo, err := uc.Resolve(ctx, reference)
	if err != nil {
		return domain.ImportReport{}, err
	}

	uc.log.InfoContext(ctx, "beginning import", "asset", repo.Ref.String())

	report, err := uc.importer.ImportConnectedDataSources(ctx, repo)
	if err != nil {
		return report, err
	}

	uc.log.InfoContext(ctx, "import complete",
		"asset", repo.Ref.String(),
		"processed", report.Processed,
		"failed", len(report.Failed),
	)
	return report, nil
}
