package plugins

import (
	"fmt"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"linkbio/internal/adapters/httpapi/middleware"
	"linkbio/internal/app/links"
)

func Logger() func(*gin.Engine) {
	return func(r *gin.Engine) {
		r.Use(gin.Logger())
	}
}

func Recovery(log links.Logger) func(*gin.Engine) {
	return func(r *gin.Engine) {
		r.Use(middleware.Recovery(log))
	}
}

func Sentry(timeout time.Duration) func(*gin.Engine) {
	return func(r *gin.Engine) {
		r.Use(sentrygin.New(sentrygin.Options{
			Repanic: true,
			Timeout: timeout,
		}))
	}
}

func RequestTimeout(d time.Duration) func(*gin.Engine) {
	return func(r *gin.Engine) {
		if d > 0 {
			r.Use(middleware.RequestTimeout(d))
		}
	}
}

func RequestID() func(*gin.Engine) {
	return func(r *gin.Engine) {
		r.Use(middleware.RequestID())
	}
}

func CORS(origins []string) func(*gin.Engine) {
	return func(r *gin.Engine) {
		if len(origins) > 0 {
			r.Use(middleware.CORS(origins))
		}
	}
}

// TrustedProxies lets gin take the client IP from X-Forwarded-For when the
// peer is one of proxies (IPs or CIDRs). The list is validated by config.
func TrustedProxies(proxies []string) func(*gin.Engine) {
	return func(r *gin.Engine) {
		if err := r.SetTrustedProxies(proxies); err != nil {
			panic(fmt.Sprintf("plugins: trusted proxies: %v", err))
		}
	}
}
