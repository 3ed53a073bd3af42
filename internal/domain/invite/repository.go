package invite

import (
	"context"
	"time"
)

// Repository persists squad invites. Every status mutation is guarded by
// the row's current status at execution time, never by a stale snapshot:
// an invite that has already reached a terminal state is left untouched
// and simply not counted.
type Repository interface {
	Create(ctx context.Context, inv Invite) error
	GetByID(ctx context.Context, inviteID string) (Invite, bool, error)
	ListPendingByPlayer(ctx context.Context, playerID string, now time.Time) ([]Invite, error)
	ListPending(ctx context.Context) ([]Invite, error)

	// CancelAllPending moves every pending invite to cancelled and
	// returns the number of rows actually transitioned. Deliberately
	// unscoped: engaging any roster lock freezes recruiting everywhere.
	CancelAllPending(ctx context.Context) (int64, error)

	// ExpireStale moves pending invites whose expiry has passed to
	// expired. Idempotent; returns the affected row count.
	ExpireStale(ctx context.Context, now time.Time) (int64, error)

	// TransitionStatus performs a guarded from->to move on one invite.
	// Returns false when the invite was no longer in the from status.
	TransitionStatus(ctx context.Context, inviteID string, from, to Status) (bool, error)
}
