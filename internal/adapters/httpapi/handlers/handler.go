package handlers

import (
	"errors"
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"linkbio/internal/adapters/httpapi/problems"
	"linkbio/internal/app/analytics"
	"linkbio/internal/app/clicks"
	"linkbio/internal/app/links"
	"linkbio/internal/domain"
)

// ClickQueue accepts clicks for background recording.
type ClickQueue interface {
	Submit(job clicks.Job) bool
}

type Handler struct {
	links     links.UseCase
	analytics analytics.UseCase
	clicks    ClickQueue
	baseURL   string
}

func New(linksSvc links.UseCase, analyticsSvc analytics.UseCase, queue ClickQueue, baseURL string) *Handler {
	return &Handler{
		links:     linksSvc,
		analytics: analyticsSvc,
		clicks:    queue,
		baseURL:   baseURL,
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	if errs, ok := validationErrorsFromDomain(err); ok {
		writeValidationErrors(c, errs)

		return
	}

	p := problemFromError(err)
	if p.Status >= http.StatusInternalServerError {
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
	}

	problems.WriteProblem(c, p)
}

func (h *Handler) NotFound(c *gin.Context) {
	problems.WriteProblem(c, problems.Problem{
		Type:   problems.ProblemTypeNotFound,
		Title:  problems.TitleNotFound,
		Status: http.StatusNotFound,
		Detail: problems.DetailNotFound,
	})
}

func validationErrorsFromDomain(err error) (map[string]string, bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidTitle):
		return map[string]string{"title": "title must be 1-200 characters"}, true
	case errors.Is(err, domain.ErrInvalidURL):
		return map[string]string{"destination_url": "invalid url"}, true
	case errors.Is(err, domain.ErrInvalidStyle):
		return map[string]string{"presentation": "presentation values must be at most 64 characters"}, true
	case errors.Is(err, domain.ErrInvalidOrder):
		return map[string]string{"order": "order must not be negative"}, true
	default:
		return nil, false
	}
}
