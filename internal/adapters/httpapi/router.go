package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"linkbio/internal/adapters/httpapi/handlers"
	"linkbio/internal/adapters/httpapi/middleware"
	"linkbio/internal/app/analytics"
	"linkbio/internal/app/links"
)

const (
	linksPath        = "/links"
	linkByIDPath     = "/links/:id"
	linksReorderPath = "/links/reorder"
	analyticsPath    = "/analytics"
)

type RouterDeps struct {
	Links     links.UseCase
	Analytics analytics.UseCase
	// Clicks may be nil; redirects then skip recording.
	Clicks  handlers.ClickQueue
	BaseURL string

	JWTSecret []byte
	// PublicRateLimit applies per client IP to unauthenticated routes. A zero
	// Limit disables it.
	PublicRateLimit limiter.Rate
}

type EnginePlugin func(*gin.Engine)

// NewEngine creates a bare gin.Engine that trusts no proxy headers and
// applies plugins in order. Use plugins.TrustedProxies to opt in.
func NewEngine(plugins ...EnginePlugin) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies(nil)

	for _, p := range plugins {
		p(r)
	}

	return r
}

// RegisterRoutes attaches routes/handlers to an existing engine.
func RegisterRoutes(r *gin.Engine, deps RouterDeps) {
	h := handlers.New(deps.Links, deps.Analytics, deps.Clicks, deps.BaseURL)

	r.NoRoute(h.NotFound)
	r.GET("/ping", h.Ping)

	var publicMW []gin.HandlerFunc
	if deps.PublicRateLimit.Limit > 0 {
		publicMW = append(publicMW, middleware.RateLimit(deps.PublicRateLimit))
	}

	public := r.Group("", publicMW...)
	{
		public.GET("/r/:code", h.Redirect)
		public.GET("/api/resolve/:code", h.ResolveLink)
		public.POST("/api/clicks/:ref", h.RecordClick)
	}

	api := r.Group("/api", middleware.Auth(deps.JWTSecret))
	{
		api.GET(linksPath, h.ListLinks)
		api.POST(linksPath, h.CreateLink)
		api.POST(linksReorderPath, h.ReorderLinks)
		api.GET(linkByIDPath, h.GetLink)
		api.PATCH(linkByIDPath, h.UpdateLink)
		api.DELETE(linkByIDPath, h.DeleteLink)

		stats := api.Group(analyticsPath)
		stats.GET("/summary", h.AnalyticsSummary)
		stats.GET("/timeseries", h.AnalyticsTimeSeries)
		stats.GET("/devices", h.AnalyticsDevices)
		stats.GET("/sources", h.AnalyticsSources)
		stats.GET("/locations", h.AnalyticsLocations)
		stats.GET("/top-links", h.AnalyticsTopLinks)
	}
}
