package memory

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ostvik/league-hub/internal/domain/rosterlock"
)

func lockRecord(id string, locked bool, at time.Time) rosterlock.Record {
	rec := rosterlock.Record{
		ID:       id,
		SeasonID: SeasonIDSpring2026,
		IsLocked: locked,
		ActorID:  "admin-1",
		Reason:   "test toggle",
	}
	if locked {
		rec.LockedAt = &at
	} else {
		rec.UnlockedAt = &at
	}
	return rec
}

func TestRosterLockRepository_AppendAndSupersede(t *testing.T) {
	repo := NewRosterLockRepository()
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	first, err := repo.AppendAndSupersede(t.Context(), lockRecord("rec-1", true, at), "")
	if err != nil {
		t.Fatalf("first append failed: %v", err)
	}
	if !first.IsCurrent {
		t.Fatalf("appended record must be current")
	}

	// A stale expectation loses.
	if _, err := repo.AppendAndSupersede(t.Context(), lockRecord("rec-2", false, at), ""); !errors.Is(err, rosterlock.ErrConcurrentModification) {
		t.Fatalf("expected ErrConcurrentModification for stale expectation, got %v", err)
	}

	second, err := repo.AppendAndSupersede(t.Context(), lockRecord("rec-2", false, at.Add(time.Hour)), first.ID)
	if err != nil {
		t.Fatalf("second append failed: %v", err)
	}
	if !second.IsCurrent {
		t.Fatalf("new record must be current")
	}

	records, err := repo.ListBySeason(t.Context(), SeasonIDSpring2026)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	currents := 0
	for _, rec := range records {
		if rec.IsCurrent {
			currents++
		}
	}
	if currents != 1 {
		t.Fatalf("expected exactly one current record, got %d", currents)
	}
}

func TestRosterLockRepository_ConcurrentAppendsOneWins(t *testing.T) {
	repo := NewRosterLockRepository()
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	const writers = 8
	start := make(chan struct{})
	errs := make(chan error, writers)

	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		id := string(rune('a' + i))
		go func() {
			defer wg.Done()
			<-start
			_, err := repo.AppendAndSupersede(t.Context(), lockRecord("rec-"+id, true, at), "")
			errs <- err
		}()
	}

	close(start)
	wg.Wait()
	close(errs)

	var winners, losers int
	for err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, rosterlock.ErrConcurrentModification):
			losers++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if winners != 1 || losers != writers-1 {
		t.Fatalf("expected one winner, got %d winners and %d losers", winners, losers)
	}
}
