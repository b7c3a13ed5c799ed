package links

import (
	"context"
	"time"

	"github.com/google/uuid"

	"linkbio/internal/domain"
)

// Repo persists links. Implementations scope every owner operation by
// ownerID and report foreign links as domain.ErrNotFound.
type Repo interface {
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Link, error)
	GetByID(ctx context.Context, ownerID string, id uuid.UUID) (domain.Link, error)
	GetActiveByShortCode(ctx context.Context, shortCode string) (domain.Link, error)

	// Create stores link with Order set to the owner's max order + 1 (0 for
	// the first link). A duplicate short code yields domain.ErrShortCodeConflict.
	Create(ctx context.Context, link domain.Link) (domain.Link, error)
	Update(ctx context.Context, ownerID string, id uuid.UUID, patch domain.LinkPatch, now time.Time) (domain.Link, error)
	// Delete removes the link with its click events and returns what was deleted.
	Delete(ctx context.Context, ownerID string, id uuid.UUID) (domain.Link, error)
	// Reorder applies domain.PlanOrder to the owner's links as one atomic write.
	Reorder(ctx context.Context, ownerID string, ids []uuid.UUID, now time.Time) ([]domain.Link, error)

	// RecordClick appends ev and increments the click counter in one atomic
	// update, returning the new counter.
	RecordClick(ctx context.Context, key domain.LinkKey, ev domain.ClickEvent) (int64, error)
}

// ResolveCache caches short code -> destination for active links.
type ResolveCache interface {
	Get(ctx context.Context, shortCode string) (string, bool, error)
	Set(ctx context.Context, shortCode, destinationURL string) error
	Delete(ctx context.Context, shortCode string) error
}

// NopCache never hits.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (NopCache) Set(context.Context, string, string) error         { return nil }
func (NopCache) Delete(context.Context, string) error              { return nil }
