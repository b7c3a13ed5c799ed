package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"linkbio/internal/domain"
	"linkbio/internal/platform/clock"
)

const defaultMaxRangeDays = 365

// Source reads an owner's links and their click history.
type Source interface {
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Link, error)
	// ListClickEvents returns events at or after since, keyed by link id.
	// A zero since means the whole history.
	ListClickEvents(ctx context.Context, ownerID string, since time.Time) (map[uuid.UUID][]domain.ClickEvent, error)
}

// UseCase is an input port for owner dashboards.
type UseCase interface {
	Summary(ctx context.Context, ownerID string) (Summary, error)
	TimeSeries(ctx context.Context, ownerID string, days int) ([]TimePoint, error)
	Devices(ctx context.Context, ownerID string) (DeviceBreakdown, error)
	Sources(ctx context.Context, ownerID string) ([]NameCount, error)
	Locations(ctx context.Context, ownerID string) ([]NameCount, error)
	TopLinks(ctx context.Context, ownerID string, n int) ([]domain.Link, error)
}

type Service struct {
	src          Source
	clock        clock.Clock
	loc          *time.Location
	maxRangeDays int
}

type Option func(*Service)

func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLocation sets the zone that defines calendar days in time series.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithMaxRangeDays(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRangeDays = n
		}
	}
}

func New(src Source, opts ...Option) *Service {
	s := &Service{
		src:          src,
		clock:        clock.System{},
		loc:          time.UTC,
		maxRangeDays: defaultMaxRangeDays,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

var _ UseCase = (*Service)(nil)

func (s *Service) Summary(ctx context.Context, ownerID string) (Summary, error) {
	items, err := s.src.ListByOwner(ctx, ownerID)
	if err != nil {
		return Summary{}, fmt.Errorf("analytics summary: %w", err)
	}

	return Summarize(items), nil
}

func (s *Service) TimeSeries(ctx context.Context, ownerID string, days int) ([]TimePoint, error) {
	if days < 1 || days > s.maxRangeDays {
		return nil, domain.ErrInvalidRange
	}

	now := s.clock.Now()

	items, err := s.withClicks(ctx, ownerID, WindowStart(days, now, s.loc))
	if err != nil {
		return nil, fmt.Errorf("analytics time series: %w", err)
	}

	return TimeSeries(items, days, now, s.loc), nil
}

func (s *Service) Devices(ctx context.Context, ownerID string) (DeviceBreakdown, error) {
	items, err := s.withClicks(ctx, ownerID, time.Time{})
	if err != nil {
		return DeviceBreakdown{}, fmt.Errorf("analytics devices: %w", err)
	}

	return ByDevice(items), nil
}

func (s *Service) Sources(ctx context.Context, ownerID string) ([]NameCount, error) {
	items, err := s.withClicks(ctx, ownerID, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("analytics sources: %w", err)
	}

	return BySource(items), nil
}

func (s *Service) Locations(ctx context.Context, ownerID string) ([]NameCount, error) {
	items, err := s.withClicks(ctx, ownerID, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("analytics locations: %w", err)
	}

	return ByLocation(items), nil
}

func (s *Service) TopLinks(ctx context.Context, ownerID string, n int) ([]domain.Link, error) {
	if n < 1 {
		return nil, domain.ErrInvalidRange
	}

	items, err := s.src.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("analytics top links: %w", err)
	}

	return TopLinks(items, n), nil
}

func (s *Service) withClicks(ctx context.Context, ownerID string, since time.Time) ([]domain.Link, error) {
	items, err := s.src.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return items, nil
	}

	events, err := s.src.ListClickEvents(ctx, ownerID, since)
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].ClickEvents = events[items[i].ID]
	}

	return items, nil
}
