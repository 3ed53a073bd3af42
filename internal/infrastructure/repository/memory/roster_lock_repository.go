package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ostvik/league-hub/internal/domain/rosterlock"
)

type RosterLockRepository struct {
	mu      sync.RWMutex
	records map[string][]rosterlock.Record
	now     func() time.Time
}

func NewRosterLockRepository() *RosterLockRepository {
	return &RosterLockRepository{
		records: make(map[string][]rosterlock.Record),
		now:     time.Now,
	}
}

func (r *RosterLockRepository) GetCurrent(_ context.Context, seasonID string) (rosterlock.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records[seasonID] {
		if rec.IsCurrent {
			return cloneRecord(rec), true, nil
		}
	}

	return rosterlock.Record{}, false, nil
}

func (r *RosterLockRepository) AppendAndSupersede(_ context.Context, rec rosterlock.Record, expectedCurrentID string) (rosterlock.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ledger := r.records[rec.SeasonID]
	currentIdx := -1
	for i := range ledger {
		if ledger[i].IsCurrent {
			currentIdx = i
			break
		}
	}

	// The supersede is conditional on the record the caller read still
	// being current; a mismatch means another toggle won the race.
	switch {
	case currentIdx == -1 && expectedCurrentID != "":
		return rosterlock.Record{}, rosterlock.ErrConcurrentModification
	case currentIdx >= 0 && ledger[currentIdx].ID != expectedCurrentID:
		return rosterlock.Record{}, rosterlock.ErrConcurrentModification
	}

	now := r.now().UTC()
	if currentIdx >= 0 {
		ledger[currentIdx].IsCurrent = false
		ledger[currentIdx].UpdatedAt = now
	}

	rec.IsCurrent = true
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	r.records[rec.SeasonID] = append(ledger, cloneRecord(rec))

	return cloneRecord(rec), nil
}

func (r *RosterLockRepository) ListBySeason(_ context.Context, seasonID string) ([]rosterlock.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ledger := r.records[seasonID]
	out := make([]rosterlock.Record, 0, len(ledger))
	for _, rec := range ledger {
		out = append(out, cloneRecord(rec))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

func cloneRecord(rec rosterlock.Record) rosterlock.Record {
	copied := rec
	if rec.LockedAt != nil {
		t := *rec.LockedAt
		copied.LockedAt = &t
	}
	if rec.UnlockedAt != nil {
		t := *rec.UnlockedAt
		copied.UnlockedAt = &t
	}
	return copied
}
