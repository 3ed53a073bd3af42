package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ostvik/league-hub/internal/domain/invite"
	"github.com/ostvik/league-hub/internal/platform/database"
	qb "github.com/ostvik/league-hub/internal/platform/querybuilder"
)

// SquadInviteRepository persists invites. Every status mutation carries a
// status guard in its WHERE clause, so concurrent writers never clobber a
// transition that already happened.
type SquadInviteRepository struct {
	db *database.DB
}

func NewSquadInviteRepository(db *database.DB) *SquadInviteRepository {
	return &SquadInviteRepository{db: db}
}

func (r *SquadInviteRepository) Create(ctx context.Context, inv invite.Invite) error {
	model := squadInviteInsertModel{
		ID:              inv.ID,
		SquadID:         inv.SquadID,
		InvitedPlayerID: inv.InvitedPlayerID,
		InvitedByID:     inv.InvitedByID,
		Message:         optionalString(inv.Message),
		Status:          string(inv.Status),
		ExpiresAt:       inv.ExpiresAt,
	}

	query, args, err := qb.InsertModel("squad_invites", model, "")
	if err != nil {
		return fmt.Errorf("build insert squad invite query: %w", err)
	}

	if _, err := r.db.Conn(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert squad invite: %w", err)
	}

	return nil
}

func (r *SquadInviteRepository) GetByID(ctx context.Context, inviteID string) (invite.Invite, bool, error) {
	query, args, err := qb.Select("*").From("squad_invites").
		Where(qb.Eq("id", inviteID)).
		ToSQL()
	if err != nil {
		return invite.Invite{}, false, fmt.Errorf("build get squad invite query: %w", err)
	}

	var row squadInviteTableModel
	if err := r.db.Conn(ctx).GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return invite.Invite{}, false, nil
		}
		return invite.Invite{}, false, fmt.Errorf("get squad invite: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *SquadInviteRepository) ListPendingByPlayer(ctx context.Context, playerID string, now time.Time) ([]invite.Invite, error) {
	query, args, err := qb.Select("*").From("squad_invites").
		Where(
			qb.Eq("invited_player_id", playerID),
			qb.Eq("status", string(invite.StatusPending)),
			qb.Expr("expires_at > ?", now),
		).
		OrderBy("created_at DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pending invites by player query: %w", err)
	}

	var rows []squadInviteTableModel
	if err := r.db.Conn(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list pending invites by player: %w", err)
	}

	out := make([]invite.Invite, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *SquadInviteRepository) ListPending(ctx context.Context) ([]invite.Invite, error) {
	query, args, err := qb.Select("*").From("squad_invites").
		Where(qb.Eq("status", string(invite.StatusPending))).
		OrderBy("created_at DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pending invites query: %w", err)
	}

	var rows []squadInviteTableModel
	if err := r.db.Conn(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list pending invites: %w", err)
	}

	out := make([]invite.Invite, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *SquadInviteRepository) CancelAllPending(ctx context.Context) (int64, error) {
	query, args, err := qb.Update("squad_invites").
		Set("status", string(invite.StatusCancelled)).
		Where(qb.Eq("status", string(invite.StatusPending))).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build cancel pending invites query: %w", err)
	}

	res, err := r.db.Conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("cancel pending invites: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cancel pending invites rows affected: %w", err)
	}

	return affected, nil
}

// expireStaleInvitesQuery matches strictly overdue invites. An invite
// whose expires_at equals now is still pending.
func expireStaleInvitesQuery(now time.Time) (string, []any, error) {
	return qb.Update("squad_invites").
		Set("status", string(invite.StatusExpired)).
		Where(
			qb.Eq("status", string(invite.StatusPending)),
			qb.Expr("expires_at < ?", now),
		).
		ToSQL()
}

func (r *SquadInviteRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	query, args, err := expireStaleInvitesQuery(now)
	if err != nil {
		return 0, fmt.Errorf("build expire stale invites query: %w", err)
	}

	res, err := r.db.Conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("expire stale invites: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expire stale invites rows affected: %w", err)
	}

	return affected, nil
}

func (r *SquadInviteRepository) TransitionStatus(ctx context.Context, inviteID string, from, to invite.Status) (bool, error) {
	query, args, err := qb.Update("squad_invites").
		Set("status", string(to)).
		Where(
			qb.Eq("id", inviteID),
			qb.Eq("status", string(from)),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build transition invite status query: %w", err)
	}

	res, err := r.db.Conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("transition invite status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("transition invite status rows affected: %w", err)
	}

	return affected == 1, nil
}
