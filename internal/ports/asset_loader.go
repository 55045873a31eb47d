package ports

import (
	"context"

	"github.com/aalvaropc/vulimport/internal/domain"
)

// AssetLoader resolves a reference against an asset store.
// A missing asset is reported as found=false with a nil error.
type AssetLoader interface {
	LoadAsset(ctx context.Context, ref domain.AssetRef) (asset domain.Asset, found bool, err error)
}

// AssetCatalog lists the assets stored under a directory such as "/Game/Data".
type AssetCatalog interface {
	ListAssets(ctx context.Context, dir string) ([]domain.Asset, error)
}
