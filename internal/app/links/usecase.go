package links

import (
	"context"

	"github.com/google/uuid"

	"linkbio/internal/domain"
)

// UseCase is an input port for the links application.
type UseCase interface {
	List(ctx context.Context, ownerID string) ([]domain.Link, error)
	Get(ctx context.Context, ownerID string, id uuid.UUID) (domain.Link, error)
	Create(ctx context.Context, ownerID string, in domain.NewLink) (domain.Link, error)
	Update(ctx context.Context, ownerID string, id uuid.UUID, patch domain.LinkPatch) (domain.Link, error)
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error
	Reorder(ctx context.Context, ownerID string, ids []uuid.UUID) ([]domain.Link, error)

	Resolve(ctx context.Context, shortCode string) (string, error)
	RecordClick(ctx context.Context, ref string, in domain.ClickInput) (int64, error)
}
