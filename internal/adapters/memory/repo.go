// Package memory is an in-process links store with the same semantics as
// the Postgres adapter. It backs unit and HTTP tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"linkbio/internal/app/analytics"
	"linkbio/internal/app/links"
	"linkbio/internal/domain"
)

type Repo struct {
	mu     sync.RWMutex
	links  map[uuid.UUID]*domain.Link
	codes  map[string]uuid.UUID
	clicks map[uuid.UUID][]domain.ClickEvent
	seq    map[uuid.UUID]int64
	next   int64
}

func NewRepo() *Repo {
	return &Repo{
		links:  make(map[uuid.UUID]*domain.Link),
		codes:  make(map[string]uuid.UUID),
		clicks: make(map[uuid.UUID][]domain.ClickEvent),
		seq:    make(map[uuid.UUID]int64),
	}
}

var (
	_ links.Repo       = (*Repo)(nil)
	_ analytics.Source = (*Repo)(nil)
)

func (r *Repo) ListByOwner(_ context.Context, ownerID string) ([]domain.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.ownedSorted(ownerID), nil
}

func (r *Repo) GetByID(_ context.Context, ownerID string, id uuid.UUID) (domain.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.links[id]
	if !ok || l.OwnerID != ownerID {
		return domain.Link{}, domain.ErrNotFound
	}

	return *l, nil
}

func (r *Repo) GetActiveByShortCode(_ context.Context, shortCode string) (domain.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.codes[shortCode]
	if !ok {
		return domain.Link{}, domain.ErrNotFound
	}

	l := r.links[id]
	if !l.IsActive {
		return domain.Link{}, domain.ErrNotFound
	}

	return *l, nil
}

func (r *Repo) Create(_ context.Context, link domain.Link) (domain.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.codes[link.ShortCode]; taken {
		return domain.Link{}, domain.ErrShortCodeConflict
	}

	link.Order = 0
	for _, l := range r.links {
		if l.OwnerID == link.OwnerID && l.Order >= link.Order {
			link.Order = l.Order + 1
		}
	}

	link.ClickCount = 0
	link.ClickEvents = nil

	stored := link
	r.links[link.ID] = &stored
	r.codes[link.ShortCode] = link.ID
	r.next++
	r.seq[link.ID] = r.next

	return link, nil
}

func (r *Repo) Update(
	_ context.Context,
	ownerID string,
	id uuid.UUID,
	patch domain.LinkPatch,
	now time.Time,
) (domain.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.links[id]
	if !ok || l.OwnerID != ownerID {
		return domain.Link{}, domain.ErrNotFound
	}

	updated := patch.Apply(*l)
	updated.UpdatedAt = now
	*l = updated

	return updated, nil
}

func (r *Repo) Delete(_ context.Context, ownerID string, id uuid.UUID) (domain.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.links[id]
	if !ok || l.OwnerID != ownerID {
		return domain.Link{}, domain.ErrNotFound
	}

	deleted := *l
	delete(r.links, id)
	delete(r.codes, deleted.ShortCode)
	delete(r.clicks, id)
	delete(r.seq, id)

	return deleted, nil
}

func (r *Repo) Reorder(_ context.Context, ownerID string, ids []uuid.UUID, now time.Time) ([]domain.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.ownedSorted(ownerID)
	for pos, id := range domain.PlanOrder(current, ids) {
		l := r.links[id]
		if l.Order != pos {
			l.Order = pos
			l.UpdatedAt = now
		}
	}

	return r.ownedSorted(ownerID), nil
}

func (r *Repo) RecordClick(_ context.Context, key domain.LinkKey, ev domain.ClickEvent) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := key.ID
	if !key.ByID() {
		id = r.codes[key.ShortCode]
	}

	l, ok := r.links[id]
	if !ok {
		return 0, domain.ErrNotFound
	}

	ev.LinkID = id
	r.clicks[id] = append(r.clicks[id], ev)
	l.ClickCount++
	l.UpdatedAt = ev.Timestamp

	return l.ClickCount, nil
}

func (r *Repo) ListClickEvents(
	_ context.Context,
	ownerID string,
	since time.Time,
) (map[uuid.UUID][]domain.ClickEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[uuid.UUID][]domain.ClickEvent)
	for id, events := range r.clicks {
		if r.links[id].OwnerID != ownerID {
			continue
		}

		for _, ev := range events {
			if !since.IsZero() && ev.Timestamp.Before(since) {
				continue
			}

			out[id] = append(out[id], ev)
		}
	}

	return out, nil
}

func (r *Repo) ownedSorted(ownerID string) []domain.Link {
	out := make([]domain.Link, 0)
	for _, l := range r.links {
		if l.OwnerID == ownerID {
			out = append(out, *l)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}

		return r.seq[out[i].ID] < r.seq[out[j].ID]
	})

	return out
}
