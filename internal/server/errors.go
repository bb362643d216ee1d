package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/linklift/linklift/internal/db"
	"github.com/linklift/linklift/internal/ingest"
)

// ErrResumeNotFound indicates the resume record does not exist.
type ErrResumeNotFound struct {
	ID string
}

func (e *ErrResumeNotFound) Error() string {
	return fmt.Sprintf("resume not found: %s", e.ID)
}

// ErrPortfolioNotFound indicates no published portfolio exists for a slug.
type ErrPortfolioNotFound struct {
	Slug string
}

func (e *ErrPortfolioNotFound) Error() string {
	return fmt.Sprintf("portfolio not found: %s", e.Slug)
}

// ErrForbidden indicates the authenticated user does not own the resource.
type ErrForbidden struct{}

func (e *ErrForbidden) Error() string {
	return "you do not own this resource"
}

// ErrInvalidTemplate indicates an unknown portfolio template id.
type ErrInvalidTemplate struct {
	TemplateID string
}

func (e *ErrInvalidTemplate) Error() string {
	return fmt.Sprintf("unknown template: %s", e.TemplateID)
}

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus maps an error to its HTTP status code. Upstream fetch failures
// surface as 502 so callers can tell a bad file URL from a service fault.
func HTTPStatus(err error) int {
	var (
		fetchErr   *ingest.FetchError
		extractErr *ingest.ExtractError
		storageErr *db.StorageError
	)
	switch {
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	case errors.As(err, &extractErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &storageErr):
		return http.StatusInternalServerError
	}

	switch err.(type) {
	case *ErrValidation, *ErrInvalidTemplate:
		return http.StatusBadRequest
	case *ErrResumeNotFound, *ErrPortfolioNotFound:
		return http.StatusNotFound
	case *ErrForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
