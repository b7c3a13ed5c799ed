package links

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"linkbio/internal/domain"
	"linkbio/internal/platform/clock"
)

const (
	autoShortCodeAttempts = 5
	resolveLookupTimeout  = 5 * time.Second

	createErrWrapFmt = "links create: %w"
)

type Service struct {
	repo  Repo
	cache ResolveCache
	clock clock.Clock
	log   Logger

	resolving singleflight.Group
	// evictions is bumped before every cache eviction. A resolve only
	// keeps its cache fill if no eviction happened since its lookup began.
	evictions atomic.Uint64
}

type Option func(*Service)

func WithCache(c ResolveCache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

func WithLogger(l Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func New(repo Repo, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		cache: NopCache{},
		clock: clock.System{},
		log:   NopLogger{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

var _ UseCase = (*Service)(nil)

func (s *Service) List(ctx context.Context, ownerID string) ([]domain.Link, error) {
	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("links list: %w", err)
	}

	return items, nil
}

func (s *Service) Get(ctx context.Context, ownerID string, id uuid.UUID) (domain.Link, error) {
	link, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return domain.Link{}, fmt.Errorf("links get: %w", err)
	}

	return link, nil
}

func (s *Service) Create(ctx context.Context, ownerID string, in domain.NewLink) (domain.Link, error) {
	in, err := domain.NormalizeNewLink(in)
	if err != nil {
		return domain.Link{}, err
	}

	now := s.clock.Now()

	for attempt := range autoShortCodeAttempts {
		code, err := domain.GenerateShortCode()
		if err != nil {
			return domain.Link{}, fmt.Errorf("links generate short code: %w", err)
		}

		link, err := s.repo.Create(ctx, domain.Link{
			ID:             uuid.New(),
			OwnerID:        ownerID,
			ShortCode:      code,
			Title:          in.Title,
			DestinationURL: in.DestinationURL,
			Presentation:   in.Presentation,
			IsActive:       true,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if errors.Is(err, domain.ErrShortCodeConflict) {
			s.log.Warn("short code collision", "attempt", attempt+1, "owner_id", ownerID)

			continue
		}

		if err != nil {
			return domain.Link{}, fmt.Errorf(createErrWrapFmt, err)
		}

		return link, nil
	}

	s.log.Error("short code attempts exhausted", "owner_id", ownerID, "attempts", autoShortCodeAttempts)

	return domain.Link{}, fmt.Errorf(createErrWrapFmt, domain.ErrShortCodeConflict)
}

func (s *Service) Update(
	ctx context.Context,
	ownerID string,
	id uuid.UUID,
	patch domain.LinkPatch,
) (domain.Link, error) {
	patch, err := domain.NormalizePatch(patch)
	if err != nil {
		return domain.Link{}, err
	}

	link, err := s.repo.Update(ctx, ownerID, id, patch, s.clock.Now())
	if err != nil {
		return domain.Link{}, fmt.Errorf("links update: %w", err)
	}

	s.evict(ctx, link.ShortCode)

	return link, nil
}

func (s *Service) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	link, err := s.repo.Delete(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("links delete: %w", err)
	}

	s.evict(ctx, link.ShortCode)

	return nil
}

func (s *Service) Reorder(ctx context.Context, ownerID string, ids []uuid.UUID) ([]domain.Link, error) {
	if len(ids) == 0 {
		return s.List(ctx, ownerID)
	}

	items, err := s.repo.Reorder(ctx, ownerID, ids, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("links reorder: %w", err)
	}

	return items, nil
}

// Resolve maps a public short code to the destination of an active link.
// It has no side effects; recording the click is up to the caller.
func (s *Service) Resolve(ctx context.Context, shortCode string) (string, error) {
	shortCode = strings.TrimSpace(shortCode)
	if !domain.IsShortCode(shortCode) {
		return "", domain.ErrNotFound
	}

	if dest, ok, err := s.cache.Get(ctx, shortCode); err != nil {
		s.log.Warn("resolve cache get failed", "short_code", shortCode, "err", err)
	} else if ok {
		return dest, nil
	}

	ch := s.resolving.DoChan(shortCode, func() (any, error) {
		return s.lookup(context.WithoutCancel(ctx), shortCode)
	})

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("links resolve: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return "", fmt.Errorf("links resolve: %w", res.Err)
		}

		return res.Val.(string), nil
	}
}

// lookup is shared by every caller resolving the same code, so it runs on
// its own deadline instead of the first caller's.
func (s *Service) lookup(ctx context.Context, shortCode string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, resolveLookupTimeout)
	defer cancel()

	gen := s.evictions.Load()

	link, err := s.repo.GetActiveByShortCode(ctx, shortCode)
	if err != nil {
		return "", err
	}

	if s.evictions.Load() != gen {
		return link.DestinationURL, nil
	}

	if err := s.cache.Set(ctx, shortCode, link.DestinationURL); err != nil {
		s.log.Warn("resolve cache set failed", "short_code", shortCode, "err", err)
	}

	// An eviction racing the Set above may have deleted before it landed.
	if s.evictions.Load() != gen {
		s.deleteCached(ctx, shortCode)
	}

	return link.DestinationURL, nil
}

// RecordClick appends a click to the link addressed by ref, which is either
// a link id or a short code. There is no ownership check.
func (s *Service) RecordClick(ctx context.Context, ref string, in domain.ClickInput) (int64, error) {
	key, ok := parseLinkRef(ref)
	if !ok {
		return 0, domain.ErrNotFound
	}

	count, err := s.repo.RecordClick(ctx, key, in.Event(s.clock.Now()))
	if err != nil {
		return 0, fmt.Errorf("links record click: %w", err)
	}

	return count, nil
}

func (s *Service) evict(ctx context.Context, shortCode string) {
	if shortCode == "" {
		return
	}

	s.evictions.Add(1)
	s.resolving.Forget(shortCode)
	s.deleteCached(ctx, shortCode)
}

func (s *Service) deleteCached(ctx context.Context, shortCode string) {
	if err := s.cache.Delete(ctx, shortCode); err != nil {
		s.log.Warn("resolve cache delete failed", "short_code", shortCode, "err", err)
	}
}

func parseLinkRef(ref string) (domain.LinkKey, bool) {
	ref = strings.TrimSpace(ref)

	if domain.IsShortCode(ref) {
		return domain.LinkKey{ShortCode: ref}, true
	}

	id, err := uuid.Parse(ref)
	if err != nil || id == uuid.Nil {
		return domain.LinkKey{}, false
	}

	return domain.LinkKey{ID: id}, true
}
