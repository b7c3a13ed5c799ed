package middleware

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"linkbio/internal/adapters/httpapi/problems"
	"linkbio/internal/app/links"
)

func Recovery(log links.Logger) gin.HandlerFunc {
	if log == nil {
		log = links.NopLogger{}
	}

	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered",
			"panic", recovered,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(RequestIDKey),
			"stack", string(debug.Stack()),
		)

		problems.AbortWithProblem(c, problems.Internal())
	})
}
