package handlers

import (
	"context"
	"errors"
	"net"
	"net/http"

	"linkbio/internal/adapters/httpapi/problems"
	"linkbio/internal/domain"
)

func problemFromError(err error) problems.Problem {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return problems.Problem{
			Type:   problems.ProblemTypeNotFound,
			Title:  problems.TitleNotFound,
			Status: http.StatusNotFound,
			Detail: problems.DetailNotFound,
		}
	case errors.Is(err, domain.ErrEmptyPatch):
		return problems.Validation(problems.DetailEmptyPatch)
	case errors.Is(err, domain.ErrInvalidRange):
		return problems.Validation(problems.DetailInvalidRange)
	case errors.Is(err, domain.ErrValidation):
		return problems.Validation(err.Error())
	case errors.Is(err, domain.ErrConflict):
		return problems.Problem{
			Type:   problems.ProblemTypeConflict,
			Title:  problems.TitleConflict,
			Status: http.StatusConflict,
			Detail: problems.DetailShortCodeConflict,
		}
	case isTimeout(err):
		return problems.Problem{
			Type:   problems.ProblemTypeTimeout,
			Title:  problems.TitleGatewayTimeout,
			Status: http.StatusGatewayTimeout,
			Detail: problems.DetailTimeout,
		}
	case isCanceled(err):
		return problems.Problem{
			Type:   problems.ProblemTypeCanceled,
			Title:  problems.TitleRequestCanceled,
			Status: problems.StatusClientClosedRequest,
			Detail: problems.DetailRequestCanceled,
		}
	default:
		return problems.Internal()
	}
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	if errors.Is(err, http.ErrHandlerTimeout) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}

func isCanceled(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, context.Canceled)
}
