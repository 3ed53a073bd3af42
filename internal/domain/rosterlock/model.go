package rosterlock

import (
	"fmt"
	"strings"
	"time"
)

// Record is one entry in the append-only roster lock ledger. Records are
// never mutated after creation except to drop the IsCurrent flag when a
// newer record supersedes them; they are never deleted.
type Record struct {
	ID         string
	SeasonID   string
	IsLocked   bool
	LockedAt   *time.Time
	UnlockedAt *time.Time
	ActorID    string
	Reason     string
	IsCurrent  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DefaultUnlocked is the synthetic state of a season that has never had a
// lock toggle. Callers get it from GetCurrent when no ledger entry exists.
func DefaultUnlocked(seasonID string) Record {
	return Record{
		SeasonID:  seasonID,
		IsLocked:  false,
		IsCurrent: true,
	}
}

func (r Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("record id is required")
	}
	if r.SeasonID == "" {
		return fmt.Errorf("season id is required")
	}
	if strings.TrimSpace(r.Reason) == "" {
		return fmt.Errorf("reason is required")
	}
	if r.ActorID == "" {
		return fmt.Errorf("actor id is required")
	}
	if r.IsLocked && r.LockedAt == nil {
		return fmt.Errorf("locked record must carry locked_at")
	}
	if !r.IsLocked && r.UnlockedAt == nil {
		return fmt.Errorf("unlocked record must carry unlocked_at")
	}

	return nil
}
