package pg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		code string
		want []error
	}{
		{codeUniqueViolation, []error{repository.ErrConflict, repository.ErrConcurrencyConflict}},
		{codeForeignKeyViolation, []error{repository.ErrReferential, repository.ErrConcurrencyConflict}},
		{codeCheckViolation, []error{repository.ErrInvalidInput}},
		{codeSerializationFailure, []error{repository.ErrConcurrencyConflict}},
		{codeDeadlockDetected, []error{repository.ErrConcurrencyConflict}},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			err := classify(fmt.Errorf("commit: %w", &pgconn.PgError{Code: tc.code}))
			for _, target := range tc.want {
				require.ErrorIs(t, err, target)
			}
		})
	}
}

func TestClassifyPassThrough(t *testing.T) {
	require.NoError(t, classify(nil))

	notFound := fmt.Errorf("%w: game \"x\"", repository.ErrNotFound)
	require.Same(t, notFound, classify(notFound))

	require.ErrorIs(t, classify(pgx.ErrNoRows), repository.ErrNotFound)

	other := errors.New("boom")
	require.Equal(t, other, classify(other))
	require.False(t, repository.IsTaxonomy(classify(&pgconn.PgError{Code: "42P01"})))
}

func TestWrapPrefix(t *testing.T) {
	err := wrap("create party", &pgconn.PgError{Code: codeSerializationFailure})
	require.ErrorIs(t, err, repository.ErrConcurrencyConflict)
	require.Contains(t, err.Error(), "pg: create party: ")
	require.NoError(t, wrap("noop", nil))
}
