package postgresql

import (
	"errors"
	"regexp"

	"github.com/jackc/pgconn"

	"content_hub/internal/storage"
)

const (
	codeUniqueViolation     = "23505"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
	codeForeignKeyViolation = "23503"
	codeStringTooLong       = "22001"
	codeInvalidText         = "22P02"
)

// Key (slug)=(test-topic) already exists.
var uniqueDetail = regexp.MustCompile(`Key \((.+?)\)=\((.*)\) already exists`)

// MapError translates constraint failures reported by postgres into storage
// errors. Other errors are returned unchanged.
func MapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		uv := &storage.UniqueViolationError{Field: pgErr.ColumnName}
		if m := uniqueDetail.FindStringSubmatch(pgErr.Detail); m != nil {
			uv.Field, uv.Value = m[1], m[2]
		}
		if uv.Field == "" {
			uv.Field = pgErr.ConstraintName
		}
		return uv
	case codeNotNullViolation, codeCheckViolation, codeStringTooLong, codeInvalidText:
		return &storage.ValidationError{Field: pgErr.ColumnName, Message: pgErr.Message}
	case codeForeignKeyViolation:
		msg := pgErr.Message
		if pgErr.Detail != "" {
			msg = pgErr.Detail
		}
		return &storage.ValidationError{Message: msg}
	}

	return err
}
