package dberr_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/wom/internal/dberr"
)

func TestClassify(t *testing.T) {
	type testCase struct {
		name string
		op   dberr.Op
		err  error
		want error
	}

	tests := []testCase{
		{
			name: "UniqueOnWrite",
			op:   dberr.OpWrite,
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "suppliers_name_key"},
			want: dberr.ErrUniqueViolation,
		},
		{
			name: "ForeignKeyOnWrite",
			op:   dberr.OpWrite,
			err:  &pgconn.PgError{Code: "23503", ConstraintName: "suppliers_deposits_books_book_fkey"},
			want: dberr.ErrForeignKeyViolation,
		},
		{
			name: "ForeignKeyOnDelete",
			op:   dberr.OpDelete,
			err:  &pgconn.PgError{Code: "23503", ConstraintName: "suppliers_deposits_books_book_fkey"},
			want: dberr.ErrRestrictedDelete,
		},
		{
			name: "RestrictOnDelete",
			op:   dberr.OpDelete,
			err:  &pgconn.PgError{Code: "23001"},
			want: dberr.ErrRestrictedDelete,
		},
		{
			name: "CheckViolation",
			op:   dberr.OpWrite,
			err:  &pgconn.PgError{Code: "23514", ConstraintName: "deposits_transactions_status_check"},
			want: dberr.ErrValidation,
		},
		{
			name: "StringTooLong",
			op:   dberr.OpWrite,
			err:  &pgconn.PgError{Code: "22001"},
			want: dberr.ErrValidation,
		},
		{
			name: "IntegerOverflow",
			op:   dberr.OpWrite,
			err:  &pgconn.PgError{Code: "22003"},
			want: dberr.ErrValidation,
		},
		{
			name: "NoRows",
			op:   dberr.OpWrite,
			err:  sql.ErrNoRows,
			want: dberr.ErrNotFound,
		},
		{
			name: "WrappedDriverError",
			op:   dberr.OpWrite,
			err:  fmt.Errorf("inserting supplier: %w", &pgconn.PgError{Code: "23505"}),
			want: dberr.ErrUniqueViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dberr.Classify(tt.op, tt.err)

			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassify_KeepsDriverError(t *testing.T) {
	err := dberr.Classify(dberr.OpWrite, &pgconn.PgError{Code: "23505", ConstraintName: "books_isbn_key"})

	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "books_isbn_key", dberr.Constraint(err))
	assert.Contains(t, err.Error(), "books_isbn_key")
}

func TestClassify_Passthrough(t *testing.T) {
	assert.NoError(t, dberr.Classify(dberr.OpWrite, nil))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, dberr.Classify(dberr.OpWrite, plain))

	unknown := &pgconn.PgError{Code: "40001"}
	assert.Equal(t, error(unknown), dberr.Classify(dberr.OpWrite, unknown))
	assert.Empty(t, dberr.Constraint(plain))
}
