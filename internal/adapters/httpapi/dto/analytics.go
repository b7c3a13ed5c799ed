package dto

import "linkbio/internal/app/analytics"

type SummaryResponse struct {
	TotalClicks          int64   `json:"total_clicks" example:"120"`
	UniqueViews          int64   `json:"unique_views" example:"84"`
	ClickThroughRate     float64 `json:"click_through_rate" example:"142.9"`
	AverageClicksPerLink float64 `json:"average_clicks_per_link" example:"40"`
	UniqueViewsEstimated bool    `json:"unique_views_estimated" example:"true"`
}

func FromSummary(s analytics.Summary) SummaryResponse {
	return SummaryResponse(s)
}

type TimePointResponse struct {
	Date        string `json:"date" example:"2025-10-31"`
	Clicks      int64  `json:"clicks" example:"12"`
	UniqueViews int64  `json:"unique_views" example:"9"`
}

func FromTimeSeries(points []analytics.TimePoint) []TimePointResponse {
	out := make([]TimePointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, TimePointResponse(p))
	}

	return out
}

type NameCountResponse struct {
	Name  string `json:"name" example:"Twitter"`
	Count int64  `json:"count" example:"17"`
}

func FromNameCounts(items []analytics.NameCount) []NameCountResponse {
	out := make([]NameCountResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NameCountResponse(it))
	}

	return out
}

type CategoryCountResponse struct {
	Category string `json:"category" example:"Mobile"`
	Count    int64  `json:"count" example:"60"`
}

type DeviceBreakdownResponse struct {
	Categories  []CategoryCountResponse `json:"categories"`
	IsEstimated bool                    `json:"is_estimated" example:"false"`
}

func FromDeviceBreakdown(b analytics.DeviceBreakdown) DeviceBreakdownResponse {
	out := DeviceBreakdownResponse{
		Categories:  make([]CategoryCountResponse, 0, len(b.Categories)),
		IsEstimated: b.IsEstimated,
	}

	for _, c := range b.Categories {
		out.Categories = append(out.Categories, CategoryCountResponse(c))
	}

	return out
}
