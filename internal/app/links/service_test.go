package links

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"linkbio/internal/domain"
)

type stubRepo struct {
	t testing.TB

	listByOwnerFunc func(context.Context, string) ([]domain.Link, error)
	getByIDFunc     func(context.Context, string, uuid.UUID) (domain.Link, error)
	getActiveFunc   func(context.Context, string) (domain.Link, error)
	createFunc      func(context.Context, domain.Link) (domain.Link, error)
	updateFunc      func(context.Context, string, uuid.UUID, domain.LinkPatch, time.Time) (domain.Link, error)
	deleteFunc      func(context.Context, string, uuid.UUID) (domain.Link, error)
	reorderFunc     func(context.Context, string, []uuid.UUID, time.Time) ([]domain.Link, error)
	recordClickFunc func(context.Context, domain.LinkKey, domain.ClickEvent) (int64, error)
}

func (s *stubRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Link, error) {
	s.t.Helper()
	if s.listByOwnerFunc == nil {
		s.t.Fatalf("unexpected ListByOwner call")
	}
	return s.listByOwnerFunc(ctx, ownerID)
}

func (s *stubRepo) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (domain.Link, error) {
	s.t.Helper()
	if s.getByIDFunc == nil {
		s.t.Fatalf("unexpected GetByID call")
	}
	return s.getByIDFunc(ctx, ownerID, id)
}

func (s *stubRepo) GetActiveByShortCode(ctx context.Context, shortCode string) (domain.Link, error) {
	s.t.Helper()
	if s.getActiveFunc == nil {
		s.t.Fatalf("unexpected GetActiveByShortCode call")
	}
	return s.getActiveFunc(ctx, shortCode)
}

func (s *stubRepo) Create(ctx context.Context, link domain.Link) (domain.Link, error) {
	s.t.Helper()
	if s.createFunc == nil {
		s.t.Fatalf("unexpected Create call")
	}
	return s.createFunc(ctx, link)
}

func (s *stubRepo) Update(
	ctx context.Context,
	ownerID string,
	id uuid.UUID,
	patch domain.LinkPatch,
	now time.Time,
) (domain.Link, error) {
	s.t.Helper()
	if s.updateFunc == nil {
		s.t.Fatalf("unexpected Update call")
	}
	return s.updateFunc(ctx, ownerID, id, patch, now)
}

func (s *stubRepo) Delete(ctx context.Context, ownerID string, id uuid.UUID) (domain.Link, error) {
	s.t.Helper()
	if s.deleteFunc == nil {
		s.t.Fatalf("unexpected Delete call")
	}
	return s.deleteFunc(ctx, ownerID, id)
}

func (s *stubRepo) Reorder(ctx context.Context, ownerID string, ids []uuid.UUID, now time.Time) ([]domain.Link, error) {
	s.t.Helper()
	if s.reorderFunc == nil {
		s.t.Fatalf("unexpected Reorder call")
	}
	return s.reorderFunc(ctx, ownerID, ids, now)
}

func (s *stubRepo) RecordClick(ctx context.Context, key domain.LinkKey, ev domain.ClickEvent) (int64, error) {
	s.t.Helper()
	if s.recordClickFunc == nil {
		s.t.Fatalf("unexpected RecordClick call")
	}
	return s.recordClickFunc(ctx, key, ev)
}

type mapCache struct {
	items   map[string]string
	gets    int
	deleted []string
	failGet bool
}

func newMapCache() *mapCache {
	return &mapCache{items: map[string]string{}}
}

func (c *mapCache) Get(_ context.Context, code string) (string, bool, error) {
	c.gets++
	if c.failGet {
		return "", false, errors.New("cache down")
	}
	v, ok := c.items[code]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, code, dest string) error {
	c.items[code] = dest
	return nil
}

func (c *mapCache) Delete(_ context.Context, code string) error {
	delete(c.items, code)
	c.deleted = append(c.deleted, code)
	return nil
}

func TestServiceCreate_AutoShortCodeRetries(t *testing.T) {
	ctx := context.Background()
	var calls int
	var lastCode string

	repo := &stubRepo{
		t: t,
		createFunc: func(ctx context.Context, link domain.Link) (domain.Link, error) {
			calls++
			lastCode = link.ShortCode
			if calls < 3 {
				return domain.Link{}, domain.ErrShortCodeConflict
			}
			return link, nil
		},
	}

	svc := New(repo)
	link, err := svc.Create(ctx, "owner-1", domain.NewLink{Title: "My Site", DestinationURL: "https://example.com"})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
	require.True(t, domain.IsShortCode(lastCode))
	require.Equal(t, lastCode, link.ShortCode)
	require.True(t, link.IsActive)
	require.Zero(t, link.ClickCount)
	require.NotEqual(t, uuid.Nil, link.ID)
}

func TestServiceCreate_AutoShortCodeExhausted(t *testing.T) {
	ctx := context.Background()
	var calls int

	repo := &stubRepo{
		t: t,
		createFunc: func(ctx context.Context, link domain.Link) (domain.Link, error) {
			calls++
			return domain.Link{}, domain.ErrShortCodeConflict
		},
	}

	svc := New(repo)
	_, err := svc.Create(ctx, "owner-1", domain.NewLink{Title: "My Site", DestinationURL: "https://example.com"})
	require.ErrorIs(t, err, domain.ErrShortCodeConflict)
	require.ErrorIs(t, err, domain.ErrConflict)
	require.Equal(t, autoShortCodeAttempts, calls)
}

func TestServiceCreate_ValidationBeforeRepo(t *testing.T) {
	ctx := context.Background()
	svc := New(&stubRepo{t: t})

	_, err := svc.Create(ctx, "owner-1", domain.NewLink{Title: "  ", DestinationURL: "https://example.com"})
	require.ErrorIs(t, err, domain.ErrInvalidTitle)

	_, err = svc.Create(ctx, "owner-1", domain.NewLink{Title: "ok", DestinationURL: "ftp://example.com"})
	require.ErrorIs(t, err, domain.ErrInvalidURL)
}

func TestServiceCreate_OtherRepoErrorNotRetried(t *testing.T) {
	ctx := context.Background()
	var calls int
	boom := errors.New("db down")

	repo := &stubRepo{
		t: t,
		createFunc: func(ctx context.Context, link domain.Link) (domain.Link, error) {
			calls++
			return domain.Link{}, boom
		},
	}

	_, err := New(repo).Create(ctx, "owner-1", domain.NewLink{Title: "x", DestinationURL: "example.com"})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, calls)
}

func TestServiceUpdate_EvictsCache(t *testing.T) {
	ctx := context.Background()
	cache := newMapCache()
	cache.items["aaaaaaaa"] = "https://old.example"

	repo := &stubRepo{
		t: t,
		updateFunc: func(ctx context.Context, ownerID string, id uuid.UUID, patch domain.LinkPatch, now time.Time) (domain.Link, error) {
			require.Equal(t, "https://new.example", *patch.DestinationURL)
			return domain.Link{ID: id, ShortCode: "aaaaaaaa", DestinationURL: *patch.DestinationURL}, nil
		},
	}

	dest := "new.example"
	_, err := New(repo, WithCache(cache)).Update(ctx, "owner-1", uuid.New(), domain.LinkPatch{DestinationURL: &dest})
	require.NoError(t, err)
	require.Equal(t, []string{"aaaaaaaa"}, cache.deleted)
	require.NotContains(t, cache.items, "aaaaaaaa")
}

func TestServiceUpdate_EmptyPatch(t *testing.T) {
	_, err := New(&stubRepo{t: t}).Update(context.Background(), "owner-1", uuid.New(), domain.LinkPatch{})
	require.ErrorIs(t, err, domain.ErrEmptyPatch)
}

func TestServiceDelete_NotFound(t *testing.T) {
	cache := newMapCache()
	repo := &stubRepo{
		t: t,
		deleteFunc: func(ctx context.Context, ownerID string, id uuid.UUID) (domain.Link, error) {
			return domain.Link{}, domain.ErrNotFound
		},
	}

	err := New(repo, WithCache(cache)).Delete(context.Background(), "owner-1", uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.Empty(t, cache.deleted)
}

func TestServiceReorder_EmptyIsNoop(t *testing.T) {
	existing := []domain.Link{{ID: uuid.New(), Order: 0}}
	repo := &stubRepo{
		t: t,
		listByOwnerFunc: func(ctx context.Context, ownerID string) ([]domain.Link, error) {
			return existing, nil
		},
	}

	got, err := New(repo).Reorder(context.Background(), "owner-1", nil)
	require.NoError(t, err)
	require.Equal(t, existing, got)
}

func TestServiceResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed code never reaches repo", func(t *testing.T) {
		_, err := New(&stubRepo{t: t}).Resolve(ctx, "nope")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("miss fills cache, hit skips repo", func(t *testing.T) {
		var calls int
		cache := newMapCache()
		repo := &stubRepo{
			t: t,
			getActiveFunc: func(ctx context.Context, code string) (domain.Link, error) {
				calls++
				return domain.Link{ShortCode: code, DestinationURL: "https://example.com"}, nil
			},
		}

		svc := New(repo, WithCache(cache))

		dest, err := svc.Resolve(ctx, "abcd1234")
		require.NoError(t, err)
		require.Equal(t, "https://example.com", dest)

		dest, err = svc.Resolve(ctx, "abcd1234")
		require.NoError(t, err)
		require.Equal(t, "https://example.com", dest)
		require.Equal(t, 1, calls)
	})

	t.Run("cache failure falls back to repo", func(t *testing.T) {
		cache := newMapCache()
		cache.failGet = true
		repo := &stubRepo{
			t: t,
			getActiveFunc: func(ctx context.Context, code string) (domain.Link, error) {
				return domain.Link{ShortCode: code, DestinationURL: "https://example.com"}, nil
			},
		}

		dest, err := New(repo, WithCache(cache)).Resolve(ctx, "abcd1234")
		require.NoError(t, err)
		require.Equal(t, "https://example.com", dest)
	})

	t.Run("not found is not cached", func(t *testing.T) {
		cache := newMapCache()
		repo := &stubRepo{
			t: t,
			getActiveFunc: func(ctx context.Context, code string) (domain.Link, error) {
				return domain.Link{}, domain.ErrNotFound
			},
		}

		_, err := New(repo, WithCache(cache)).Resolve(ctx, "abcd1234")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.Empty(t, cache.items)
	})
}

func TestServiceResolve_DeactivationDuringLookupIsNotCached(t *testing.T) {
	ctx := context.Background()
	cache := newMapCache()
	active := true

	var svc *Service
	repo := &stubRepo{
		t: t,
		getActiveFunc: func(ctx context.Context, code string) (domain.Link, error) {
			if !active {
				return domain.Link{}, domain.ErrNotFound
			}

			link := domain.Link{ShortCode: code, DestinationURL: "https://example.com"}

			off := false
			_, err := svc.Update(ctx, "owner-1", uuid.New(), domain.LinkPatch{IsActive: &off})
			require.NoError(t, err)

			return link, nil
		},
		updateFunc: func(ctx context.Context, ownerID string, id uuid.UUID, patch domain.LinkPatch, now time.Time) (domain.Link, error) {
			active = false
			return domain.Link{ID: id, OwnerID: ownerID, ShortCode: "abcd1234"}, nil
		},
	}
	svc = New(repo, WithCache(cache))

	dest, err := svc.Resolve(ctx, "abcd1234")
	require.NoError(t, err)
	require.Equal(t, "https://example.com", dest)
	require.NotContains(t, cache.items, "abcd1234")

	_, err = svc.Resolve(ctx, "abcd1234")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestServiceResolve_SharedLookupOutlivesCanceledCaller(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	lookupErr := make(chan error, 1)

	repo := &stubRepo{
		t: t,
		getActiveFunc: func(ctx context.Context, code string) (domain.Link, error) {
			close(started)
			<-release
			lookupErr <- ctx.Err()

			return domain.Link{ShortCode: code, DestinationURL: "https://example.com"}, nil
		},
	}
	svc := New(repo)

	ctx, cancel := context.WithCancel(context.Background())
	callerErr := make(chan error, 1)
	go func() {
		_, err := svc.Resolve(ctx, "abcd1234")
		callerErr <- err
	}()

	<-started
	cancel()
	require.ErrorIs(t, <-callerErr, context.Canceled)

	close(release)
	require.NoError(t, <-lookupErr)
}

func TestServiceRecordClick_RefParsing(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	var got domain.LinkKey
	var gotEvent domain.ClickEvent
	repo := &stubRepo{
		t: t,
		recordClickFunc: func(ctx context.Context, key domain.LinkKey, ev domain.ClickEvent) (int64, error) {
			got = key
			gotEvent = ev
			return 7, nil
		},
	}
	svc := New(repo)

	n, err := svc.RecordClick(ctx, id.String(), domain.ClickInput{})
	require.NoError(t, err)
	require.EqualValues(t, 7, n)
	require.Equal(t, domain.LinkKey{ID: id}, got)
	require.Equal(t, "direct", gotEvent.Referrer)
	require.Equal(t, "unknown", gotEvent.Device)

	_, err = svc.RecordClick(ctx, "abcd1234", domain.ClickInput{Device: "iPhone"})
	require.NoError(t, err)
	require.Equal(t, domain.LinkKey{ShortCode: "abcd1234"}, got)
	require.Equal(t, "iPhone", gotEvent.Device)

	_, err = svc.RecordClick(ctx, "../etc/passwd", domain.ClickInput{})
	require.ErrorIs(t, err, domain.ErrNotFound)
}
