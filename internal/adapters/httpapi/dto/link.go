package dto

import (
	"time"

	"github.com/google/uuid"

	"linkbio/internal/domain"
)

type LinkResponse struct {
	ID              uuid.UUID `json:"id" example:"3f0e6c1e-8a9b-4f36-9a51-1f2d3c4b5a69"`
	ShortCode       string    `json:"short_code" example:"aB3dE9xQ"`
	ShortURL        string    `json:"short_url" example:"https://example.com/r/aB3dE9xQ"`
	Title           string    `json:"title" example:"My blog"`
	DestinationURL  string    `json:"destination_url" example:"https://example.com/blog"`
	Icon            string    `json:"icon" example:"rss"`
	BackgroundColor string    `json:"background_color" example:"#ffffff"`
	TextColor       string    `json:"text_color" example:"#000000"`
	Order           int       `json:"order" example:"0"`
	IsActive        bool      `json:"is_active" example:"true"`
	ClickCount      int64     `json:"click_count" example:"42"`
	UniqueViews     *int64    `json:"unique_views,omitempty" example:"30"`
	CreatedAt       time.Time `json:"created_at" example:"2025-10-31T13:01:43Z"`
	UpdatedAt       time.Time `json:"updated_at" example:"2025-10-31T13:01:43Z"`
}

func FromDomain(l domain.Link, baseURL string) LinkResponse {
	return LinkResponse{
		ID:              l.ID,
		ShortCode:       l.ShortCode,
		ShortURL:        ShortURL(baseURL, l.ShortCode),
		Title:           l.Title,
		DestinationURL:  l.DestinationURL,
		Icon:            l.Presentation.Icon,
		BackgroundColor: l.Presentation.BackgroundColor,
		TextColor:       l.Presentation.TextColor,
		Order:           l.Order,
		IsActive:        l.IsActive,
		ClickCount:      l.ClickCount,
		UniqueViews:     l.UniqueViews,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func FromDomainList(items []domain.Link, baseURL string) []LinkResponse {
	out := make([]LinkResponse, 0, len(items))
	for _, it := range items {
		out = append(out, FromDomain(it, baseURL))
	}

	return out
}

func ShortURL(baseURL, code string) string {
	return baseURL + "/r/" + code
}

type ResolveResponse struct {
	DestinationURL string `json:"destination_url" example:"https://example.com/blog"`
}

type ClickCountResponse struct {
	ClickCount int64 `json:"click_count" example:"43"`
}
