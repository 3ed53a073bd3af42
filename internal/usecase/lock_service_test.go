package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ostvik/league-hub/internal/domain/invite"
	"github.com/ostvik/league-hub/internal/domain/rosterlock"
	"github.com/ostvik/league-hub/internal/infrastructure/repository/memory"
	"github.com/ostvik/league-hub/internal/platform/logging"
)

type sequenceIDGenerator struct {
	counter atomic.Int64
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	return fmt.Sprintf("id-%03d", g.counter.Add(1)), nil
}

type mapAuthorizer struct {
	allowed map[string]bool
	err     error
}

func (a mapAuthorizer) CanManageRosterLocks(_ context.Context, actorID string) (bool, error) {
	if a.err != nil {
		return false, a.err
	}
	return a.allowed[actorID], nil
}

func newLockServiceFixture(t *testing.T) (*LockService, *memory.RosterLockRepository, *memory.SquadInviteRepository) {
	t.Helper()

	lockRepo := memory.NewRosterLockRepository()
	inviteRepo := memory.NewSquadInviteRepository()
	service := NewLockService(
		memory.NewSeasonRepository(memory.SeedSeasons()),
		lockRepo,
		inviteRepo,
		memory.NewTxManager(),
		mapAuthorizer{allowed: map[string]bool{"admin-1": true}},
		&sequenceIDGenerator{},
		logging.NewNop(),
	)

	return service, lockRepo, inviteRepo
}

func pendingInvite(id, playerID string, expiresAt time.Time) invite.Invite {
	return invite.Invite{
		ID:              id,
		SquadID:         memory.SquadIDIronwood,
		InvitedPlayerID: playerID,
		InvitedByID:     memory.ProfileIDAsta,
		Status:          invite.StatusPending,
		CreatedAt:       expiresAt.Add(-time.Hour),
		ExpiresAt:       expiresAt,
	}
}

func TestLockService_SetLock_LockThenUnlock(t *testing.T) {
	service, lockRepo, _ := newLockServiceFixture(t)

	lockedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return lockedAt }

	locked, err := service.SetLock(t.Context(), SetLockInput{
		SeasonID: memory.SeasonIDSpring2026,
		Locked:   true,
		Reason:   "playoff roster freeze",
		ActorID:  "admin-1",
	})
	if err != nil {
		t.Fatalf("set lock failed: %v", err)
	}
	if !locked.Record.IsLocked || !locked.Record.IsCurrent {
		t.Fatalf("expected current locked record, got %+v", locked.Record)
	}
	if locked.Record.LockedAt == nil || !locked.Record.LockedAt.Equal(lockedAt) {
		t.Fatalf("expected locked_at %v, got %v", lockedAt, locked.Record.LockedAt)
	}

	unlockedAt := lockedAt.Add(48 * time.Hour)
	service.now = func() time.Time { return unlockedAt }

	unlocked, err := service.SetLock(t.Context(), SetLockInput{
		SeasonID: memory.SeasonIDSpring2026,
		Locked:   false,
		Reason:   "playoffs concluded",
		ActorID:  "admin-1",
	})
	if err != nil {
		t.Fatalf("unlock failed: %v", err)
	}
	if unlocked.Record.IsLocked {
		t.Fatalf("expected unlocked record")
	}
	if unlocked.Record.UnlockedAt == nil || !unlocked.Record.UnlockedAt.Equal(unlockedAt) {
		t.Fatalf("expected unlocked_at %v, got %v", unlockedAt, unlocked.Record.UnlockedAt)
	}
	// The lock timestamp carries over from the superseded record.
	if unlocked.Record.LockedAt == nil || !unlocked.Record.LockedAt.Equal(lockedAt) {
		t.Fatalf("expected carried locked_at %v, got %v", lockedAt, unlocked.Record.LockedAt)
	}

	history, err := lockRepo.ListBySeason(t.Context(), memory.SeasonIDSpring2026)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 ledger records, got %d", len(history))
	}
	currents := 0
	for _, rec := range history {
		if rec.IsCurrent {
			currents++
		}
	}
	if currents != 1 {
		t.Fatalf("expected exactly one current record, got %d", currents)
	}
}

func TestLockService_SetLock_ValidationAndAuthz(t *testing.T) {
	service, _, _ := newLockServiceFixture(t)

	cases := []struct {
		name    string
		input   SetLockInput
		wantErr error
	}{
		{
			name:    "missing reason",
			input:   SetLockInput{SeasonID: memory.SeasonIDSpring2026, Locked: true, Reason: "   ", ActorID: "admin-1"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing actor",
			input:   SetLockInput{SeasonID: memory.SeasonIDSpring2026, Locked: true, Reason: "freeze"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown season",
			input:   SetLockInput{SeasonID: "season-bogus", Locked: true, Reason: "freeze", ActorID: "admin-1"},
			wantErr: ErrNotFound,
		},
		{
			name:    "actor without permission",
			input:   SetLockInput{SeasonID: memory.SeasonIDSpring2026, Locked: true, Reason: "freeze", ActorID: "player-1"},
			wantErr: ErrUnauthorized,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.SetLock(t.Context(), tc.input); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLockService_SetLock_CancelsPendingInvites(t *testing.T) {
	service, _, inviteRepo := newLockServiceFixture(t)

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	expiry := now.Add(24 * time.Hour)
	for i, inv := range []invite.Invite{
		pendingInvite("inv-1", memory.ProfileIDBjorn, expiry),
		pendingInvite("inv-2", memory.ProfileIDCelia, expiry),
		pendingInvite("inv-3", memory.ProfileIDDmitr, expiry),
	} {
		if err := inviteRepo.Create(t.Context(), inv); err != nil {
			t.Fatalf("seed invite %d: %v", i, err)
		}
	}
	accepted := pendingInvite("inv-4", memory.ProfileIDBjorn, expiry)
	accepted.Status = invite.StatusAccepted
	if err := inviteRepo.Create(t.Context(), accepted); err != nil {
		t.Fatalf("seed accepted invite: %v", err)
	}

	result, err := service.SetLock(t.Context(), SetLockInput{
		SeasonID: memory.SeasonIDSpring2026,
		Locked:   true,
		Reason:   "transfer deadline",
		ActorID:  "admin-1",
	})
	if err != nil {
		t.Fatalf("set lock failed: %v", err)
	}
	if result.CancelledInvites != 3 {
		t.Fatalf("expected 3 cancelled invites, got %d", result.CancelledInvites)
	}

	got, _, err := inviteRepo.GetByID(t.Context(), "inv-1")
	if err != nil {
		t.Fatalf("get invite: %v", err)
	}
	if got.Status != invite.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", got.Status)
	}
	untouched, _, err := inviteRepo.GetByID(t.Context(), "inv-4")
	if err != nil {
		t.Fatalf("get accepted invite: %v", err)
	}
	if untouched.Status != invite.StatusAccepted {
		t.Fatalf("terminal invite should be left alone, got %s", untouched.Status)
	}

	// Unlocking cancels nothing.
	unlockResult, err := service.SetLock(t.Context(), SetLockInput{
		SeasonID: memory.SeasonIDSpring2026,
		Locked:   false,
		Reason:   "window reopened",
		ActorID:  "admin-1",
	})
	if err != nil {
		t.Fatalf("unlock failed: %v", err)
	}
	if unlockResult.CancelledInvites != 0 {
		t.Fatalf("expected no cancellations on unlock, got %d", unlockResult.CancelledInvites)
	}
}

type failingCancelInviteRepo struct {
	invite.Repository
}

func (failingCancelInviteRepo) CancelAllPending(context.Context) (int64, error) {
	return 0, errors.New("storage offline")
}

func TestLockService_SetLock_CascadeFailureLeavesStateUnchanged(t *testing.T) {
	lockRepo := memory.NewRosterLockRepository()
	service := NewLockService(
		memory.NewSeasonRepository(memory.SeedSeasons()),
		lockRepo,
		failingCancelInviteRepo{Repository: memory.NewSquadInviteRepository()},
		memory.NewTxManager(),
		mapAuthorizer{allowed: map[string]bool{"admin-1": true}},
		&sequenceIDGenerator{},
		logging.NewNop(),
	)

	_, err := service.SetLock(t.Context(), SetLockInput{
		SeasonID: memory.SeasonIDSpring2026,
		Locked:   true,
		Reason:   "freeze",
		ActorID:  "admin-1",
	})
	if !errors.Is(err, ErrCascadeFailure) {
		t.Fatalf("expected ErrCascadeFailure, got %v", err)
	}

	if _, exists, err := lockRepo.GetCurrent(t.Context(), memory.SeasonIDSpring2026); err != nil {
		t.Fatalf("get current: %v", err)
	} else if exists {
		t.Fatalf("failed cascade must not leave a ledger record behind")
	}
}

// gatedLockRepo holds every GetCurrent call at a barrier until all
// expected readers have arrived, forcing concurrent toggles to act on
// the same snapshot.
type gatedLockRepo struct {
	rosterlock.Repository
	barrier *sync.WaitGroup
}

func (r gatedLockRepo) GetCurrent(ctx context.Context, seasonID string) (rosterlock.Record, bool, error) {
	rec, ok, err := r.Repository.GetCurrent(ctx, seasonID)
	r.barrier.Done()
	r.barrier.Wait()
	return rec, ok, err
}

func TestLockService_SetLock_ConcurrentTogglesOneWins(t *testing.T) {
	var barrier sync.WaitGroup
	barrier.Add(2)

	lockRepo := memory.NewRosterLockRepository()
	service := NewLockService(
		memory.NewSeasonRepository(memory.SeedSeasons()),
		gatedLockRepo{Repository: lockRepo, barrier: &barrier},
		memory.NewSquadInviteRepository(),
		memory.NewTxManager(),
		mapAuthorizer{allowed: map[string]bool{"admin-1": true, "admin-2": true}},
		&sequenceIDGenerator{},
		logging.NewNop(),
	)

	errs := make(chan error, 2)
	for _, actor := range []string{"admin-1", "admin-2"} {
		actor := actor
		go func() {
			_, err := service.SetLock(context.Background(), SetLockInput{
				SeasonID: memory.SeasonIDSpring2026,
				Locked:   true,
				Reason:   "simultaneous freeze",
				ActorID:  actor,
			})
			errs <- err
		}()
	}

	var succeeded, conflicted int
	for i := 0; i < 2; i++ {
		switch err := <-errs; {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrConflict):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || conflicted != 1 {
		t.Fatalf("expected exactly one winner and one conflict, got %d/%d", succeeded, conflicted)
	}

	history, err := lockRepo.ListBySeason(t.Context(), memory.SeasonIDSpring2026)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected a single ledger record, got %d", len(history))
	}
	if !history[0].IsCurrent {
		t.Fatalf("surviving record must be current")
	}
}
