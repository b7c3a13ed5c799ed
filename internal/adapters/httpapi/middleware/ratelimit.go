package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"linkbio/internal/adapters/httpapi/problems"
)

// RateLimit limits requests per client IP using an in-process store.
func RateLimit(rate limiter.Rate) gin.HandlerFunc {
	instance := limiter.New(memory.NewStore(), rate)

	return mgin.NewMiddleware(instance,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			problems.WriteProblem(c, problems.Problem{
				Type:   problems.ProblemTypeRateLimited,
				Title:  problems.TitleTooManyRequests,
				Status: http.StatusTooManyRequests,
				Detail: problems.DetailRateLimited,
			})
		}),
		mgin.WithErrorHandler(func(c *gin.Context, _ error) {
			problems.AbortWithProblem(c, problems.Internal())
		}),
	)
}
