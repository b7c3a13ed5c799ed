package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter/v3"

	"linkbio/internal/adapters/httpapi/middleware"
	testhttp "linkbio/internal/testing/httptest"
)

func TestRateLimit_PerClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.RateLimit(limiter.Rate{Period: time.Minute, Limit: 2}))
	r.GET("/r/:code", func(c *gin.Context) { c.Status(http.StatusFound) })

	do := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/r/abc", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		return rec
	}

	require.Equal(t, http.StatusFound, do("10.0.0.1:1000").Code)
	require.Equal(t, http.StatusFound, do("10.0.0.1:1001").Code)

	rec := do("10.0.0.1:1002")
	testhttp.RequireProblem(t, rec.Result(), http.StatusTooManyRequests, "rate_limited")
	require.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))

	require.Equal(t, http.StatusFound, do("10.0.0.2:1000").Code)
}
