package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/portfolio/internal/contact"
	"github.com/jonathan/portfolio/internal/content"
	"github.com/jonathan/portfolio/internal/db"
	"github.com/jonathan/portfolio/internal/schemas"
	"github.com/jonathan/portfolio/internal/settings"
)

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrRecordNotFound indicates no cached record has the requested id.
type ErrRecordNotFound struct {
	Collection content.Collection
	ID         string
}

func (e *ErrRecordNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Collection.Label(), e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		invalidCredentials *ErrInvalidCredentials
		recordNotFound     *ErrRecordNotFound
		validation         *ErrValidation
		recordInvalid      *content.ValidationError
		messageInvalid     *contact.ValidationError
		schemaInvalid      *schemas.ValidationError
	)
	switch {
	case errors.As(err, &invalidCredentials):
		return http.StatusUnauthorized
	case errors.As(err, &recordNotFound),
		errors.Is(err, content.ErrUnknownCollection),
		errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, db.ErrConflict):
		return http.StatusConflict
	case errors.As(err, &validation),
		errors.Is(err, db.ErrInvalid),
		errors.Is(err, settings.ErrInvalid),
		errors.As(err, &schemaInvalid):
		return http.StatusBadRequest
	case errors.As(err, &recordInvalid),
		errors.As(err, &messageInvalid):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
