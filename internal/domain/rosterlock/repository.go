package rosterlock

import (
	"context"
	"errors"
)

// ErrConcurrentModification is returned when a supersede raced with
// another writer. Callers should re-fetch the current record and retry.
var ErrConcurrentModification = errors.New("roster lock record was modified concurrently")

// Repository persists the per-season lock ledger.
//
// AppendAndSupersede atomically clears IsCurrent on the season's current
// record and inserts rec as the new current one. expectedCurrentID names
// the record the caller read as current ("" if the season has none); if
// that record has already been superseded the call fails with
// ErrConcurrentModification, guaranteeing at most one current record per
// season under concurrent toggles.
type Repository interface {
	GetCurrent(ctx context.Context, seasonID string) (Record, bool, error)
	AppendAndSupersede(ctx context.Context, rec Record, expectedCurrentID string) (Record, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Record, error)
}
