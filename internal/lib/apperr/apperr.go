// Package apperr holds the error kinds returned by entity services. Every
// persistence failure leaves the service layer as an *Error.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgconn"

	"content_hub/internal/storage"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindNoRowsAffected
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_failed"
	case KindConflict:
		return "unique_constraint_violated"
	case KindNotFound:
		return "not_found"
	case KindNoRowsAffected:
		return "no_rows_affected"
	default:
		return "unknown"
	}
}

const DefaultMessage = "something went wrong"

type Error struct {
	Kind    Kind
	Message string
	Field   string
	Value   string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status is the HTTP status class of the error.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindNoRowsAffected:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func Validation(msg string, err error) *Error {
	return &Error{Kind: KindValidation, Message: msg, Err: err}
}

func Conflict(entity, field, value string, err error) *Error {
	return &Error{
		Kind:    KindConflict,
		Message: fmt.Sprintf("%s with %s %q already exists", entity, field, value),
		Field:   field,
		Value:   value,
		Err:     err,
	}
}

// NotFound builds the not-found error for one or many requested ids.
func NotFound(entity string, plural bool) *Error {
	if plural {
		return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", Plural(entity))}
	}
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", entity)}
}

// Plural returns the English plural of an entity name.
func Plural(entity string) string {
	if n := len(entity); n > 1 && entity[n-1] == 'y' && !strings.ContainsRune("aeiou", rune(entity[n-2])) {
		return entity[:n-1] + "ies"
	}
	return entity + "s"
}

func NotUpdated(entity string) *Error {
	return &Error{Kind: KindNoRowsAffected, Message: fmt.Sprintf("%s was not updated", entity)}
}

func NotDeleted(entity string) *Error {
	return &Error{Kind: KindNoRowsAffected, Message: fmt.Sprintf("%s was not deleted", entity)}
}

// FromStorage converts a persistence error into an *Error. Errors that are
// already *Error pass through untouched. Unrecognized errors only expose the
// database-reported message, otherwise fallback.
func FromStorage(entity string, err error, fallback string) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	var uniqueErr *storage.UniqueViolationError
	if errors.As(err, &uniqueErr) {
		return Conflict(entity, uniqueErr.Field, uniqueErr.Value, err)
	}

	var validationErr *storage.ValidationError
	if errors.As(err, &validationErr) {
		return Validation(validationErr.Error(), err)
	}

	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrUserNotFound) {
		return NotFound(entity, false)
	}

	msg := fallback
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Message != "" {
		msg = pgErr.Message
	}
	if msg == "" {
		msg = DefaultMessage
	}

	return &Error{Kind: KindUnknown, Message: msg, Err: err}
}

// KindOf reports the kind of err, KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}
