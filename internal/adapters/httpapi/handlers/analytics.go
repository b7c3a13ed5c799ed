package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"linkbio/internal/adapters/httpapi/dto"
	"linkbio/internal/adapters/httpapi/middleware"
	"linkbio/internal/adapters/httpapi/problems"
)

const (
	defaultTimeSeriesDays = 7
	defaultTopLinksLimit  = 5
)

func (h *Handler) AnalyticsSummary(c *gin.Context) {
	summary, err := h.analytics.Summary(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		h.fail(c, err)

		return
	}

	c.JSON(http.StatusOK, dto.FromSummary(summary))
}

func (h *Handler) AnalyticsTimeSeries(c *gin.Context) {
	days, ok := intQuery(c, "days", defaultTimeSeriesDays, problems.DetailInvalidRange)
	if !ok {
		return
	}

	points, err := h.analytics.TimeSeries(c.Request.Context(), middleware.OwnerID(c), days)
	if err != nil {
		h.fail(c, err)

		return
	}

	c.JSON(http.StatusOK, dto.FromTimeSeries(points))
}

func (h *Handler) AnalyticsDevices(c *gin.Context) {
	breakdown, err := h.analytics.Devices(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		h.fail(c, err)

		return
	}

	c.JSON(http.StatusOK, dto.FromDeviceBreakdown(breakdown))
}

func (h *Handler) AnalyticsSources(c *gin.Context) {
	items, err := h.analytics.Sources(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		h.fail(c, err)

		return
	}

	c.JSON(http.StatusOK, dto.FromNameCounts(items))
}

func (h *Handler) AnalyticsLocations(c *gin.Context) {
	items, err := h.analytics.Locations(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		h.fail(c, err)

		return
	}

	c.JSON(http.StatusOK, dto.FromNameCounts(items))
}

func (h *Handler) AnalyticsTopLinks(c *gin.Context) {
	limit, ok := intQuery(c, "limit", defaultTopLinksLimit, problems.DetailInvalidLimit)
	if !ok {
		return
	}

	items, err := h.analytics.TopLinks(c.Request.Context(), middleware.OwnerID(c), limit)
	if err != nil {
		h.fail(c, err)

		return
	}

	c.JSON(http.StatusOK, dto.FromDomainList(items, h.baseURL))
}

func intQuery(c *gin.Context, key string, def int, detail string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		problems.WriteProblem(c, problems.Validation(detail))

		return 0, false
	}

	return n, true
}
