package analytics_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"linkbio/internal/adapters/memory"
	"linkbio/internal/app/analytics"
	"linkbio/internal/app/links"
	"linkbio/internal/domain"
	"linkbio/internal/platform/clock"
)

func seed(t *testing.T) (*links.Service, *analytics.Service) {
	t.Helper()

	repo := memory.NewRepo()
	fixed := clock.Fixed(now)

	return links.New(repo, links.WithClock(fixed)),
		analytics.New(repo, analytics.WithClock(fixed), analytics.WithMaxRangeDays(90))
}

func TestService_TimeSeriesRange(t *testing.T) {
	ctx := context.Background()
	_, svc := seed(t)

	_, err := svc.TimeSeries(ctx, "alice", 0)
	require.ErrorIs(t, err, domain.ErrInvalidRange)

	_, err = svc.TimeSeries(ctx, "alice", 91)
	require.ErrorIs(t, err, domain.ErrInvalidRange)

	got, err := svc.TimeSeries(ctx, "alice", 7)
	require.NoError(t, err)
	require.Len(t, got, 7)
}

func TestService_EndToEnd(t *testing.T) {
	ctx := context.Background()
	linksSvc, svc := seed(t)

	site, err := linksSvc.Create(ctx, "alice", domain.NewLink{Title: "Site", DestinationURL: "example.com"})
	require.NoError(t, err)
	blog, err := linksSvc.Create(ctx, "alice", domain.NewLink{Title: "Blog", DestinationURL: "blog.example.com"})
	require.NoError(t, err)
	_, err = linksSvc.Create(ctx, "bob", domain.NewLink{Title: "Other", DestinationURL: "example.org"})
	require.NoError(t, err)

	for range 3 {
		_, err = linksSvc.RecordClick(ctx, site.ShortCode, domain.ClickInput{})
		require.NoError(t, err)
	}

	devices, err := svc.Devices(ctx, "alice")
	require.NoError(t, err)
	require.True(t, devices.IsEstimated)

	_, err = linksSvc.RecordClick(ctx, blog.ID.String(), domain.ClickInput{
		At:       now.AddDate(0, 0, -1),
		Referrer: "https://www.google.com/",
		Device:   "iPhone",
		Location: "Berlin",
	})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, "alice")
	require.NoError(t, err)
	require.EqualValues(t, 4, summary.TotalClicks)
	require.Equal(t, 2.0, summary.AverageClicksPerLink)

	series, err := svc.TimeSeries(ctx, "alice", 7)
	require.NoError(t, err)
	require.EqualValues(t, 1, series[5].Clicks)
	require.EqualValues(t, 3, series[6].Clicks)
	// all three clicks today share the fixed clock instant
	require.EqualValues(t, 1, series[6].UniqueViews)

	devices, err = svc.Devices(ctx, "alice")
	require.NoError(t, err)
	require.False(t, devices.IsEstimated)
	require.Equal(t, []analytics.CategoryCount{{Category: analytics.DeviceMobile, Count: 1}}, devices.Categories)

	sources, err := svc.Sources(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, []analytics.NameCount{
		{Name: analytics.SourceDirect, Count: 3},
		{Name: analytics.SourceGoogle, Count: 1},
	}, sources)

	locations, err := svc.Locations(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, []analytics.NameCount{{Name: "Berlin", Count: 1}}, locations)

	top, err := svc.TopLinks(ctx, "alice", 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	require.Equal(t, site.ID, top[0].ID)

	_, err = svc.TopLinks(ctx, "alice", 0)
	require.ErrorIs(t, err, domain.ErrInvalidRange)
}
