package memory

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ostvik/league-hub/internal/domain/invite"
)

func seedInvite(id string, expiresAt time.Time) invite.Invite {
	return invite.Invite{
		ID:              id,
		SquadID:         SquadIDIronwood,
		InvitedPlayerID: ProfileIDBjorn,
		InvitedByID:     ProfileIDAsta,
		Status:          invite.StatusPending,
		CreatedAt:       expiresAt.Add(-time.Hour),
		ExpiresAt:       expiresAt,
	}
}

func TestSquadInviteRepository_ExpireStaleBoundary(t *testing.T) {
	repo := NewSquadInviteRepository()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	if err := repo.Create(t.Context(), seedInvite("invite-exact", now)); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(t.Context(), seedInvite("invite-overdue", now.Add(-time.Second))); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	count, err := repo.ExpireStale(t.Context(), now)
	if err != nil {
		t.Fatalf("expire failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 expired invite, got %d", count)
	}

	exact, _, err := repo.GetByID(t.Context(), "invite-exact")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if exact.Status != invite.StatusPending {
		t.Fatalf("invite expiring exactly now must stay pending, got %s", exact.Status)
	}

	overdue, _, err := repo.GetByID(t.Context(), "invite-overdue")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if overdue.Status != invite.StatusExpired {
		t.Fatalf("overdue invite must be expired, got %s", overdue.Status)
	}
}

func TestSquadInviteRepository_ConcurrentCancelAndExpireSettleOnce(t *testing.T) {
	repo := NewSquadInviteRepository()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	const total = 24
	for i := 0; i < total; i++ {
		id := fmt.Sprintf("invite-%02d", i)
		if err := repo.Create(t.Context(), seedInvite(id, now.Add(-time.Minute))); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	start := make(chan struct{})
	errs := make(chan error, 2)
	var cancelled, expired int64

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		<-start
		n, err := repo.CancelAllPending(t.Context())
		if err != nil {
			errs <- err
			return
		}
		cancelled = n
	}()
	go func() {
		defer wg.Done()
		<-start
		n, err := repo.ExpireStale(t.Context(), now)
		if err != nil {
			errs <- err
			return
		}
		expired = n
	}()

	close(start)
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("unexpected error: %v", err)
	}

	if cancelled+expired != total {
		t.Fatalf("expected cancelled+expired to cover all %d invites, got %d + %d", total, cancelled, expired)
	}

	var gotCancelled, gotExpired int64
	for i := 0; i < total; i++ {
		id := fmt.Sprintf("invite-%02d", i)
		inv, ok, err := repo.GetByID(t.Context(), id)
		if err != nil || !ok {
			t.Fatalf("get %s failed: ok=%v err=%v", id, ok, err)
		}
		switch inv.Status {
		case invite.StatusCancelled:
			gotCancelled++
		case invite.StatusExpired:
			gotExpired++
		default:
			t.Fatalf("invite %s settled in %s, want a single terminal state", id, inv.Status)
		}
	}
	if gotCancelled != cancelled || gotExpired != expired {
		t.Fatalf("reported counts (%d, %d) disagree with stored statuses (%d, %d)", cancelled, expired, gotCancelled, gotExpired)
	}
}
