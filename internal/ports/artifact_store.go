package ports

import "github.com/aalvaropc/vulimport/internal/domain"

// ArtifactStore persists import runs.
type ArtifactStore interface {
	SaveRun(run domain.ImportRun) (id string, err error)
}
