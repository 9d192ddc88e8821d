// Package dberr maps storage engine failures onto the error kinds callers act on.
//
// Every classified error wraps one of the sentinels below and keeps the driver
// error in its chain, so both errors.Is(err, dberr.ErrUniqueViolation) and
// errors.As(err, &pgErr) work on the result.
package dberr

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUniqueViolation     = errors.New("unique constraint violation")
	ErrForeignKeyViolation = errors.New("foreign key violation")
	ErrRestrictedDelete    = errors.New("restricted delete violation")
	ErrValidation          = errors.New("validation violation")
	ErrNotFound            = errors.New("not found")
)

// Op tells Classify whether the failed statement wrote or deleted rows. Postgres
// reports a blocked RESTRICT delete with the same SQLSTATE as a dangling reference.
type Op int

const (
	OpWrite Op = iota
	OpDelete
)

// SQLSTATE codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeRestrictViolation   = "23001"
	codeCheckViolation      = "23514"
	codeNotNullViolation    = "23502"
	codeStringTooLong       = "22001"
	codeInvalidText         = "22P02"
	codeOutOfRange          = "22003"
)

// Classify wraps err with the matching sentinel. Errors it does not recognise are
// returned unchanged; nil stays nil.
func Classify(op Op, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	kind := kindOf(op, pgErr.Code)
	if kind == nil {
		return err
	}

	if pgErr.ConstraintName != "" {
		return fmt.Errorf("%w (%s): %w", kind, pgErr.ConstraintName, err)
	}

	return fmt.Errorf("%w: %w", kind, err)
}

func kindOf(op Op, code string) error {
	switch code {
	case codeUniqueViolation:
		return ErrUniqueViolation
	case codeForeignKeyViolation, codeRestrictViolation:
		if op == OpDelete {
			return ErrRestrictedDelete
		}

		return ErrForeignKeyViolation
	case codeCheckViolation, codeNotNullViolation, codeStringTooLong, codeInvalidText, codeOutOfRange:
		return ErrValidation
	}

	return nil
}

// Constraint returns the name of the violated constraint, or "" when err does not
// come from the database.
func Constraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}

	return ""
}
