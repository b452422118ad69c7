package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/pickem-standings/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo season into an empty database. It is a no-op
// once any game exists.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM games WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count games for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	if err := NewGameRepository(db).UpsertGames(ctx, memory.SeedGames()); err != nil {
		return fmt.Errorf("seed games: %w", err)
	}
	if err := NewPickRepository(db).UpsertPicks(ctx, memory.SeedPicks()); err != nil {
		return fmt.Errorf("seed picks: %w", err)
	}
	return nil
}
