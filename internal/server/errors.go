package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/db"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/fetch"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/optimizer"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/session"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/validation"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrForbidden indicates the caller may not access another user's data
type ErrForbidden struct {
	UserID string
}

func (e *ErrForbidden) Error() string {
	return fmt.Sprintf("access to user %s is not allowed", e.UserID)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		invalid   *ErrValidation
		forbidden *ErrForbidden
		content   *validation.CVContentError
		fetchErr  *fetch.Error
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &invalid),
		errors.As(err, &content),
		errors.Is(err, optimizer.ErrEmptyJobDescription),
		errors.Is(err, session.ErrInvalidStatus),
		errors.Is(err, session.ErrInvalidSender):
		return http.StatusBadRequest
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.Is(err, db.ErrSessionNotFound),
		errors.Is(err, session.ErrSuggestionNotFound),
		errors.Is(err, session.ErrVersionNotFound):
		return http.StatusNotFound
	case fetch.IsInvalidURL(err):
		return http.StatusBadRequest
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// validationError converts the first validator failure into an ErrValidation
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{Field: fe.Field(), Message: describeTag(fe)}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "url":
		return "must be a valid URL"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}
