package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ostvik/league-hub/internal/domain/profile"
	"github.com/ostvik/league-hub/internal/platform/database"
	qb "github.com/ostvik/league-hub/internal/platform/querybuilder"
)

type profileTableModel struct {
	ID        string    `db:"id"`
	Alias     string    `db:"alias"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type ProfileRepository struct {
	db *database.DB
}

func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByIDs(ctx context.Context, profileIDs []string) ([]profile.Profile, error) {
	if len(profileIDs) == 0 {
		return nil, nil
	}

	ids := make([]any, 0, len(profileIDs))
	for _, id := range profileIDs {
		ids = append(ids, id)
	}

	query, args, err := qb.Select("*").From("profiles").
		Where(qb.In("id", ids)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select profiles query: %w", err)
	}

	var rows []profileTableModel
	if err := r.db.Conn(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select profiles: %w", err)
	}

	out := make([]profile.Profile, 0, len(rows))
	for _, row := range rows {
		out = append(out, profile.Profile{
			ID:    row.ID,
			Alias: row.Alias,
		})
	}

	return out, nil
}
