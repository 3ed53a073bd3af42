package postgres

import (
	"database/sql"
	"time"

	"github.com/ostvik/league-hub/internal/domain/invite"
)

type squadInviteTableModel struct {
	ID              string         `db:"id"`
	SquadID         string         `db:"squad_id"`
	InvitedPlayerID string         `db:"invited_player_id"`
	InvitedByID     string         `db:"invited_by_id"`
	Message         sql.NullString `db:"message"`
	Status          string         `db:"status"`
	CreatedAt       time.Time      `db:"created_at"`
	ExpiresAt       time.Time      `db:"expires_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (m squadInviteTableModel) toDomain() invite.Invite {
	return invite.Invite{
		ID:              m.ID,
		SquadID:         m.SquadID,
		InvitedPlayerID: m.InvitedPlayerID,
		InvitedByID:     m.InvitedByID,
		Message:         m.Message.String,
		Status:          invite.Status(m.Status),
		CreatedAt:       m.CreatedAt,
		ExpiresAt:       m.ExpiresAt,
	}
}

type squadInviteInsertModel struct {
	ID              string    `db:"id"`
	SquadID         string    `db:"squad_id"`
	InvitedPlayerID string    `db:"invited_player_id"`
	InvitedByID     string    `db:"invited_by_id"`
	Message         *string   `db:"message"`
	Status          string    `db:"status"`
	ExpiresAt       time.Time `db:"expires_at"`
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
