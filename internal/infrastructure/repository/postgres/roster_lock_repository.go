package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ostvik/league-hub/internal/domain/rosterlock"
	"github.com/ostvik/league-hub/internal/platform/database"
	qb "github.com/ostvik/league-hub/internal/platform/querybuilder"
)

// RosterLockRepository stores the append-only lock ledger. A partial
// unique index on (season_id) WHERE is_current backs the single-current
// invariant, so a racing insert surfaces as a unique violation even if
// the guarded supersede was skipped.
type RosterLockRepository struct {
	db *database.DB
}

func NewRosterLockRepository(db *database.DB) *RosterLockRepository {
	return &RosterLockRepository{db: db}
}

func (r *RosterLockRepository) GetCurrent(ctx context.Context, seasonID string) (rosterlock.Record, bool, error) {
	query, args, err := qb.Select("*").From("season_roster_locks").
		Where(
			qb.Eq("season_id", seasonID),
			qb.IsTrue("is_current"),
		).
		ToSQL()
	if err != nil {
		return rosterlock.Record{}, false, fmt.Errorf("build get current roster lock query: %w", err)
	}

	var row rosterLockTableModel
	if err := r.db.Conn(ctx).GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return rosterlock.Record{}, false, nil
		}
		return rosterlock.Record{}, false, fmt.Errorf("get current roster lock: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *RosterLockRepository) AppendAndSupersede(ctx context.Context, rec rosterlock.Record, expectedCurrentID string) (rosterlock.Record, error) {
	conn := r.db.Conn(ctx)

	if expectedCurrentID != "" {
		query, args, err := qb.Update("season_roster_locks").
			Set("is_current", false).
			Where(
				qb.Eq("id", expectedCurrentID),
				qb.Eq("season_id", rec.SeasonID),
				qb.IsTrue("is_current"),
			).
			ToSQL()
		if err != nil {
			return rosterlock.Record{}, fmt.Errorf("build supersede roster lock query: %w", err)
		}

		res, err := conn.ExecContext(ctx, query, args...)
		if err != nil {
			return rosterlock.Record{}, fmt.Errorf("supersede roster lock: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return rosterlock.Record{}, fmt.Errorf("supersede roster lock rows affected: %w", err)
		}
		if affected == 0 {
			return rosterlock.Record{}, rosterlock.ErrConcurrentModification
		}
	}

	model := rosterLockInsertModel{
		ID:         rec.ID,
		SeasonID:   rec.SeasonID,
		IsLocked:   rec.IsLocked,
		LockedAt:   rec.LockedAt,
		UnlockedAt: rec.UnlockedAt,
		ActorID:    rec.ActorID,
		Reason:     rec.Reason,
		IsCurrent:  true,
	}

	query, args, err := qb.InsertModel("season_roster_locks", model, "RETURNING created_at, updated_at")
	if err != nil {
		return rosterlock.Record{}, fmt.Errorf("build insert roster lock query: %w", err)
	}

	var inserted struct {
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}
	if err := conn.GetContext(ctx, &inserted, query, args...); err != nil {
		if isUniqueViolation(err) {
			return rosterlock.Record{}, rosterlock.ErrConcurrentModification
		}
		return rosterlock.Record{}, fmt.Errorf("insert roster lock: %w", err)
	}

	out := rec
	out.IsCurrent = true
	out.CreatedAt = inserted.CreatedAt
	out.UpdatedAt = inserted.UpdatedAt

	return out, nil
}

func (r *RosterLockRepository) ListBySeason(ctx context.Context, seasonID string) ([]rosterlock.Record, error) {
	query, args, err := qb.Select("*").From("season_roster_locks").
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list roster locks query: %w", err)
	}

	var rows []rosterLockTableModel
	if err := r.db.Conn(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list roster locks: %w", err)
	}

	out := make([]rosterlock.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
