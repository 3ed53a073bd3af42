package postgres

import (
	"time"

	"github.com/ostvik/league-hub/internal/domain/rosterlock"
)

type rosterLockTableModel struct {
	ID         string     `db:"id"`
	SeasonID   string     `db:"season_id"`
	IsLocked   bool       `db:"is_locked"`
	LockedAt   *time.Time `db:"locked_at"`
	UnlockedAt *time.Time `db:"unlocked_at"`
	ActorID    string     `db:"actor_id"`
	Reason     string     `db:"reason"`
	IsCurrent  bool       `db:"is_current"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

func (m rosterLockTableModel) toDomain() rosterlock.Record {
	return rosterlock.Record{
		ID:         m.ID,
		SeasonID:   m.SeasonID,
		IsLocked:   m.IsLocked,
		LockedAt:   m.LockedAt,
		UnlockedAt: m.UnlockedAt,
		ActorID:    m.ActorID,
		Reason:     m.Reason,
		IsCurrent:  m.IsCurrent,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

type rosterLockInsertModel struct {
	ID         string     `db:"id"`
	SeasonID   string     `db:"season_id"`
	IsLocked   bool       `db:"is_locked"`
	LockedAt   *time.Time `db:"locked_at"`
	UnlockedAt *time.Time `db:"unlocked_at"`
	ActorID    string     `db:"actor_id"`
	Reason     string     `db:"reason"`
	IsCurrent  bool       `db:"is_current"`
}
