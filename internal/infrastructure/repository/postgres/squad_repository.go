package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ostvik/league-hub/internal/domain/squad"
	"github.com/ostvik/league-hub/internal/platform/database"
	qb "github.com/ostvik/league-hub/internal/platform/querybuilder"
)

type squadTableModel struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Tag       string    `db:"tag"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type SquadRepository struct {
	db *database.DB
}

func NewSquadRepository(db *database.DB) *SquadRepository {
	return &SquadRepository{db: db}
}

func (r *SquadRepository) GetByIDs(ctx context.Context, squadIDs []string) ([]squad.Squad, error) {
	if len(squadIDs) == 0 {
		return nil, nil
	}

	ids := make([]any, 0, len(squadIDs))
	for _, id := range squadIDs {
		ids = append(ids, id)
	}

	query, args, err := qb.Select("*").From("squads").
		Where(qb.In("id", ids)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select squads query: %w", err)
	}

	var rows []squadTableModel
	if err := r.db.Conn(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select squads: %w", err)
	}

	out := make([]squad.Squad, 0, len(rows))
	for _, row := range rows {
		out = append(out, squad.Squad{
			ID:       row.ID,
			Name:     row.Name,
			Tag:      row.Tag,
			IsActive: row.IsActive,
		})
	}

	return out, nil
}
