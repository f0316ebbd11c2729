package storage

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrUserNotFound = errors.New("user not found")
	ErrNoSuchKey    = errors.New("no such key")
)

var (
	ErrFileTooLarge    = errors.New("file size exceeds limit")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileNotFound    = errors.New("file not found")
)

// ValidationError is returned when a record violates a field constraint.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// UniqueViolationError is returned when a unique column already holds Value.
type UniqueViolationError struct {
	Field string
	Value string
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Field, e.Value)
}
