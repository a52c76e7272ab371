package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/analify/dashboard-gateway/internal/backend"
	"github.com/analify/dashboard-gateway/internal/session"
	apperrors "github.com/analify/dashboard-gateway/pkg/util"
)

// translateError maps package errors onto the API error vocabulary.
func translateError(err error) *apperrors.DomainError {
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return apperrors.NewDomainError(codeForStatus(fiberErr.Code), fiberErr.Message, fiberErr.Code, nil)
	}

	var apiErr *backend.APIError
	switch {
	case errors.Is(err, session.ErrTokenExpired):
		return apperrors.ToDomainError(apperrors.NewTokenExpired(err))
	case errors.Is(err, session.ErrInvalidToken):
		return apperrors.ToDomainError(apperrors.NewInvalidToken(err))
	case errors.Is(err, session.ErrProfileFetch):
		return apperrors.ToDomainError(apperrors.NewProfileFetchFailed(err))
	case errors.Is(err, session.ErrSessionSuperseded):
		return apperrors.NewDomainError("SESSION_SUPERSEDED", err.Error(), fiber.StatusConflict, nil)
	case errors.Is(err, session.ErrUnauthorized), errors.Is(err, backend.ErrUnauthorized):
		return apperrors.ToDomainError(apperrors.NewUnauthorized(err.Error()))
	case errors.Is(err, backend.ErrForbidden):
		return apperrors.ToDomainError(apperrors.NewForbidden(err.Error()))
	case errors.As(err, &apiErr):
		return apperrors.ToDomainError(apperrors.NewUpstreamError(apiErr.Status, apiErr.Error()))
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewDomainError("TIMEOUT", "request timed out", fiber.StatusGatewayTimeout, nil)
	}
	return apperrors.ToDomainError(err)
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "VALIDATION_FAILED"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusConflict:
		return "CONFLICT"
	}
	if status >= 500 {
		return "INTERNAL_ERROR"
	}
	return "REQUEST_FAILED"
}
