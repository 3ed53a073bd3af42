package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ostvik/league-hub/internal/domain/invite"
)

type SquadInviteRepository struct {
	mu    sync.Mutex
	items map[string]invite.Invite
}

func NewSquadInviteRepository() *SquadInviteRepository {
	return &SquadInviteRepository{items: make(map[string]invite.Invite)}
}

func (r *SquadInviteRepository) Create(_ context.Context, inv invite.Invite) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[inv.ID] = inv
	return nil
}

func (r *SquadInviteRepository) GetByID(_ context.Context, inviteID string) (invite.Invite, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.items[inviteID]
	if !ok {
		return invite.Invite{}, false, nil
	}

	return inv, true, nil
}

func (r *SquadInviteRepository) ListPendingByPlayer(_ context.Context, playerID string, now time.Time) ([]invite.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]invite.Invite, 0)
	for _, inv := range r.items {
		if inv.InvitedPlayerID != playerID || inv.Status != invite.StatusPending {
			continue
		}
		if !inv.ExpiresAt.After(now) {
			continue
		}
		out = append(out, inv)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

func (r *SquadInviteRepository) ListPending(_ context.Context) ([]invite.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]invite.Invite, 0)
	for _, inv := range r.items {
		if inv.Status == invite.StatusPending {
			out = append(out, inv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

// CancelAllPending re-checks each invite's status under the lock, so a
// concurrent accept or expire that got there first is left alone.
func (r *SquadInviteRepository) CancelAllPending(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for id, inv := range r.items {
		if inv.Status != invite.StatusPending {
			continue
		}
		inv.Status = invite.StatusCancelled
		r.items[id] = inv
		count++
	}

	return count, nil
}

func (r *SquadInviteRepository) ExpireStale(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for id, inv := range r.items {
		if inv.Status != invite.StatusPending {
			continue
		}
		if !inv.ExpiresAt.Before(now) {
			continue
		}
		inv.Status = invite.StatusExpired
		r.items[id] = inv
		count++
	}

	return count, nil
}

func (r *SquadInviteRepository) TransitionStatus(_ context.Context, inviteID string, from, to invite.Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.items[inviteID]
	if !ok || inv.Status != from {
		return false, nil
	}

	inv.Status = to
	r.items[inviteID] = inv

	return true, nil
}
