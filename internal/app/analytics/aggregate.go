// Package analytics turns raw click histories into dashboard aggregates.
// The aggregation functions are pure: they read the given links and never
// mutate them.
package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"linkbio/internal/domain"
)

const (
	// uniqueViewRatio estimates unique views when no measured count exists.
	// The data model has no visitor identity, so this is a heuristic.
	uniqueViewRatio = 0.7

	topSourcesLimit   = 6
	topLocationsLimit = 5

	dateLayout = "2006-01-02"
)

type Summary struct {
	TotalClicks          int64
	UniqueViews          int64
	ClickThroughRate     float64
	AverageClicksPerLink float64
	// UniqueViewsEstimated is set when at least one link contributed an
	// estimate instead of a measured count.
	UniqueViewsEstimated bool
}

type TimePoint struct {
	Date   string
	Clicks int64
	// UniqueViews counts distinct click timestamps within the day. It
	// approximates visitors; there is no visitor identity to dedupe on.
	UniqueViews int64
}

type NameCount struct {
	Name  string
	Count int64
}

// EstimateUniqueViews returns the measured count when present, else
// floor(clickCount * 0.7). The bool reports whether the value is estimated.
func EstimateUniqueViews(l domain.Link) (int64, bool) {
	if l.UniqueViews != nil {
		return *l.UniqueViews, false
	}

	return int64(math.Floor(float64(l.ClickCount) * uniqueViewRatio)), true
}

func Summarize(links []domain.Link) Summary {
	var out Summary

	for _, l := range links {
		out.TotalClicks += l.ClickCount

		unique, estimated := EstimateUniqueViews(l)
		out.UniqueViews += unique
		out.UniqueViewsEstimated = out.UniqueViewsEstimated || estimated
	}

	if out.UniqueViews > 0 {
		out.ClickThroughRate = round1(float64(out.TotalClicks) / float64(out.UniqueViews) * 100)
	}

	if len(links) > 0 {
		out.AverageClicksPerLink = round1(float64(out.TotalClicks) / float64(len(links)))
	}

	return out
}

// WindowStart is the first instant of the oldest day in a days-long window
// ending on the calendar date of now in loc.
func WindowStart(days int, now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	return today.AddDate(0, 0, -(days - 1))
}

// TimeSeries returns one point per calendar day in loc for the trailing
// days ending today, oldest first, including days without clicks.
func TimeSeries(links []domain.Link, days int, now time.Time, loc *time.Location) []TimePoint {
	if days <= 0 {
		return []TimePoint{}
	}

	start := WindowStart(days, now, loc)

	points := make([]TimePoint, days)
	index := make(map[string]int, days)
	distinct := make([]map[int64]struct{}, days)

	for i := range days {
		day := start.AddDate(0, 0, i).Format(dateLayout)
		points[i] = TimePoint{Date: day}
		index[day] = i
		distinct[i] = make(map[int64]struct{})
	}

	for _, l := range links {
		for _, ev := range l.ClickEvents {
			i, ok := index[ev.Timestamp.In(loc).Format(dateLayout)]
			if !ok {
				continue
			}

			points[i].Clicks++
			distinct[i][ev.Timestamp.UnixNano()] = struct{}{}
		}
	}

	for i := range points {
		points[i].UniqueViews = int64(len(distinct[i]))
	}

	return points
}

// BySource counts clicks per referrer source, most frequent first.
func BySource(links []domain.Link) []NameCount {
	counts := make(map[string]int64)

	for _, l := range links {
		for _, ev := range l.ClickEvents {
			if !domain.HasValue(ev.Referrer) {
				continue
			}

			counts[ClassifySource(ev.Referrer)]++
		}
	}

	return topN(counts, topSourcesLimit)
}

// ByLocation groups clicks by their trimmed location string.
func ByLocation(links []domain.Link) []NameCount {
	counts := make(map[string]int64)

	for _, l := range links {
		for _, ev := range l.ClickEvents {
			if !domain.HasValue(ev.Location) {
				continue
			}

			counts[strings.TrimSpace(ev.Location)]++
		}
	}

	return topN(counts, topLocationsLimit)
}

// TopLinks returns up to n links by click count, keeping input order on ties.
func TopLinks(links []domain.Link, n int) []domain.Link {
	if n <= 0 {
		return []domain.Link{}
	}

	out := make([]domain.Link, len(links))
	copy(out, links)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ClickCount > out[j].ClickCount
	})

	if len(out) > n {
		out = out[:n]
	}

	return out
}

func topN(counts map[string]int64, n int) []NameCount {
	out := make([]NameCount, 0, len(counts))
	for name, c := range counts {
		out = append(out, NameCount{Name: name, Count: c})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}

		return out[i].Name < out[j].Name
	})

	if len(out) > n {
		out = out[:n]
	}

	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
