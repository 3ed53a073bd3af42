package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ostvik/league-hub/internal/domain/invite"
	"github.com/ostvik/league-hub/internal/infrastructure/repository/memory"
	"github.com/ostvik/league-hub/internal/platform/logging"
)

type stubLockChecker struct {
	locked bool
	err    error
}

func (c *stubLockChecker) IsLocked(context.Context, string) (bool, error) {
	return c.locked, c.err
}

func newInviteServiceFixture(t *testing.T, lockCheck *stubLockChecker) (*InviteService, *memory.SquadInviteRepository) {
	t.Helper()

	inviteRepo := memory.NewSquadInviteRepository()
	service := NewInviteService(
		inviteRepo,
		lockCheck,
		&sequenceIDGenerator{},
		7*24*time.Hour,
		logging.NewNop(),
	)

	return service, inviteRepo
}

func TestInviteService_Create(t *testing.T) {
	lockCheck := &stubLockChecker{}
	service, _ := newInviteServiceFixture(t, lockCheck)

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	created, err := service.Create(t.Context(), CreateInviteInput{
		SquadID:         memory.SquadIDIronwood,
		InvitedPlayerID: memory.ProfileIDBjorn,
		InvitedByID:     memory.ProfileIDAsta,
		Message:         "  join us for the spring split  ",
	})
	if err != nil {
		t.Fatalf("create invite failed: %v", err)
	}
	if created.Status != invite.StatusPending {
		t.Fatalf("expected pending, got %s", created.Status)
	}
	if created.Message != "join us for the spring split" {
		t.Fatalf("expected trimmed message, got %q", created.Message)
	}
	if !created.ExpiresAt.Equal(now.Add(7 * 24 * time.Hour)) {
		t.Fatalf("unexpected expiry %v", created.ExpiresAt)
	}

	t.Run("missing fields", func(t *testing.T) {
		if _, err := service.Create(t.Context(), CreateInviteInput{SquadID: memory.SquadIDIronwood}); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("blocked during freeze", func(t *testing.T) {
		lockCheck.locked = true
		defer func() { lockCheck.locked = false }()

		_, err := service.Create(t.Context(), CreateInviteInput{
			SquadID:         memory.SquadIDIronwood,
			InvitedPlayerID: memory.ProfileIDCelia,
			InvitedByID:     memory.ProfileIDAsta,
		})
		if !errors.Is(err, ErrRosterLocked) {
			t.Fatalf("expected ErrRosterLocked, got %v", err)
		}
	})
}

func TestInviteService_AcceptAndDecline(t *testing.T) {
	lockCheck := &stubLockChecker{}
	service, inviteRepo := newInviteServiceFixture(t, lockCheck)

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	seed := func(t *testing.T, id, playerID string) {
		t.Helper()
		if err := inviteRepo.Create(t.Context(), pendingInvite(id, playerID, now.Add(24*time.Hour))); err != nil {
			t.Fatalf("seed invite: %v", err)
		}
	}

	t.Run("accept", func(t *testing.T) {
		seed(t, "inv-accept", memory.ProfileIDBjorn)

		accepted, err := service.Accept(t.Context(), "inv-accept", memory.ProfileIDBjorn)
		if err != nil {
			t.Fatalf("accept failed: %v", err)
		}
		if accepted.Status != invite.StatusAccepted {
			t.Fatalf("expected accepted, got %s", accepted.Status)
		}

		// A second accept hits a terminal invite.
		if _, err := service.Accept(t.Context(), "inv-accept", memory.ProfileIDBjorn); !errors.Is(err, ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("accept for someone else's invite is not found", func(t *testing.T) {
		seed(t, "inv-other", memory.ProfileIDCelia)

		if _, err := service.Accept(t.Context(), "inv-other", memory.ProfileIDBjorn); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("accept blocked during freeze", func(t *testing.T) {
		seed(t, "inv-frozen", memory.ProfileIDBjorn)
		lockCheck.locked = true
		defer func() { lockCheck.locked = false }()

		if _, err := service.Accept(t.Context(), "inv-frozen", memory.ProfileIDBjorn); !errors.Is(err, ErrRosterLocked) {
			t.Fatalf("expected ErrRosterLocked, got %v", err)
		}

		// Declining is allowed while locked; it never changes a roster.
		declined, err := service.Decline(t.Context(), "inv-frozen", memory.ProfileIDBjorn)
		if err != nil {
			t.Fatalf("decline during freeze failed: %v", err)
		}
		if declined.Status != invite.StatusDeclined {
			t.Fatalf("expected declined, got %s", declined.Status)
		}
	})

	t.Run("overdue accept expires the invite", func(t *testing.T) {
		seed(t, "inv-overdue", memory.ProfileIDBjorn)
		service.now = func() time.Time { return now.Add(48 * time.Hour) }
		defer func() { service.now = func() time.Time { return now } }()

		if _, err := service.Accept(t.Context(), "inv-overdue", memory.ProfileIDBjorn); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for overdue accept, got %v", err)
		}

		got, _, err := inviteRepo.GetByID(t.Context(), "inv-overdue")
		if err != nil {
			t.Fatalf("get invite: %v", err)
		}
		if got.Status != invite.StatusExpired {
			t.Fatalf("overdue accept should expire the invite, got %s", got.Status)
		}
	})
}

func TestInviteService_ExpireStaleIsIdempotent(t *testing.T) {
	service, inviteRepo := newInviteServiceFixture(t, &stubLockChecker{})

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	if err := inviteRepo.Create(t.Context(), pendingInvite("inv-stale", memory.ProfileIDBjorn, now.Add(-time.Minute))); err != nil {
		t.Fatalf("seed invite: %v", err)
	}
	if err := inviteRepo.Create(t.Context(), pendingInvite("inv-live", memory.ProfileIDCelia, now.Add(time.Hour))); err != nil {
		t.Fatalf("seed invite: %v", err)
	}

	expired, err := service.ExpireStale(t.Context())
	if err != nil {
		t.Fatalf("expire stale failed: %v", err)
	}
	if expired != 1 {
		t.Fatalf("expected 1 expired invite, got %d", expired)
	}

	again, err := service.ExpireStale(t.Context())
	if err != nil {
		t.Fatalf("second expire failed: %v", err)
	}
	if again != 0 {
		t.Fatalf("second sweep should be a no-op, got %d", again)
	}
}

func TestInviteService_ListForPlayer(t *testing.T) {
	service, inviteRepo := newInviteServiceFixture(t, &stubLockChecker{})

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	if err := inviteRepo.Create(t.Context(), pendingInvite("inv-live", memory.ProfileIDBjorn, now.Add(time.Hour))); err != nil {
		t.Fatalf("seed invite: %v", err)
	}
	if err := inviteRepo.Create(t.Context(), pendingInvite("inv-stale", memory.ProfileIDBjorn, now.Add(-time.Minute))); err != nil {
		t.Fatalf("seed invite: %v", err)
	}
	if err := inviteRepo.Create(t.Context(), pendingInvite("inv-someone-else", memory.ProfileIDCelia, now.Add(time.Hour))); err != nil {
		t.Fatalf("seed invite: %v", err)
	}

	invites, err := service.ListForPlayer(t.Context(), memory.ProfileIDBjorn)
	if err != nil {
		t.Fatalf("list for player failed: %v", err)
	}
	if len(invites) != 1 || invites[0].ID != "inv-live" {
		t.Fatalf("expected only the live invite, got %+v", invites)
	}

	// The list sweep expired the stale one as a side effect.
	stale, _, err := inviteRepo.GetByID(t.Context(), "inv-stale")
	if err != nil {
		t.Fatalf("get invite: %v", err)
	}
	if stale.Status != invite.StatusExpired {
		t.Fatalf("expected stale invite expired, got %s", stale.Status)
	}

	if _, err := service.ListForPlayer(t.Context(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty player id, got %v", err)
	}
}
