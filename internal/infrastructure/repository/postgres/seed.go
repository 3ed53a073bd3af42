package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/ostvik/league-hub/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads demo seasons, squads and profiles into an empty
// database so a fresh local instance is immediately usable.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM seasons`); err != nil {
		return fmt.Errorf("count seasons for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, s := range memory.SeedSeasons() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO seasons (id, number, name, status)
VALUES (:id, :number, :name, :status)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":     s.ID,
			"number": s.Number,
			"name":   s.Name,
			"status": string(s.Status),
		})
		if err != nil {
			return fmt.Errorf("bind seed season %s query: %w", s.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed season %s: %w", s.ID, err)
		}
	}

	for _, sq := range memory.SeedSquads() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO squads (id, name, tag, is_active)
VALUES (:id, :name, :tag, :is_active)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":        sq.ID,
			"name":      sq.Name,
			"tag":       sq.Tag,
			"is_active": sq.IsActive,
		})
		if err != nil {
			return fmt.Errorf("bind seed squad %s query: %w", sq.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed squad %s: %w", sq.ID, err)
		}
	}

	for _, p := range memory.SeedProfiles() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO profiles (id, alias)
VALUES (:id, :alias)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":    p.ID,
			"alias": p.Alias,
		})
		if err != nil {
			return fmt.Errorf("bind seed profile %s query: %w", p.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed profile %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
