package repository

import (
	"errors"
	"fmt"
	"testing"
)

func TestRaceLostMatchesBothKinds(t *testing.T) {
	cause := errors.New("duplicate key")
	err := RaceLost(ErrConflict, cause)

	if !IsConcurrencyConflict(err) || !IsConflict(err) {
		t.Fatalf("expected concurrency conflict and conflict, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause lost: %v", err)
	}
	if IsReferential(err) {
		t.Fatalf("unexpected referential match: %v", err)
	}
}

func TestKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{fmt.Errorf("pg: get game: %w", ErrNotFound), "not_found"},
		{fmt.Errorf("x: %w", ErrConflict), "conflict"},
		{RaceLost(ErrConflict, errors.New("dup")), "concurrency_conflict"},
		{fmt.Errorf("x: %w", ErrInvalidInput), "invalid_input"},
		{fmt.Errorf("x: %w", ErrReferential), "referential"},
		{fmt.Errorf("x: %w", ErrCapacityExceeded), "capacity_exceeded"},
		{ErrNoDatabase, "no_database"},
		{errors.New("boom"), "error"},
	}
	for _, tc := range cases {
		if got := Kind(tc.err); got != tc.want {
			t.Errorf("Kind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestIsTaxonomy(t *testing.T) {
	if IsTaxonomy(errors.New("boom")) {
		t.Fatal("plain error reported as taxonomy")
	}
	if !IsTaxonomy(fmt.Errorf("wrapped: %w", ErrCapacityExceeded)) {
		t.Fatal("wrapped sentinel not detected")
	}
}
