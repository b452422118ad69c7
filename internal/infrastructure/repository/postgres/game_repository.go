package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	qb "github.com/riskibarqy/pickem-standings/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) ListByWeek(ctx context.Context, key game.WeekKey) ([]game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(append(weekConditions(key), qb.IsNull("deleted_at"))...).
		OrderBy("kickoff_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games by week query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games week=%s: %w", key, err)
	}
	return gamesFromRows(rows), nil
}

func (r *GameRepository) ListBySeason(ctx context.Context, season int) ([]game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(
			qb.Eq("season", season),
			qb.IsNull("deleted_at"),
		).
		OrderBy("week", "kickoff_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games by season query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games season=%d: %w", season, err)
	}
	return gamesFromRows(rows), nil
}

// UpsertGames writes a schedule snapshot keyed by public id.
func (r *GameRepository) UpsertGames(ctx context.Context, games []game.Game) error {
	if len(games) == 0 {
		return nil
	}

	models := make([]gameInsertModel, 0, len(games))
	for _, item := range games {
		models = append(models, gameInsertModel{
			PublicID:      item.ID,
			Season:        item.Season,
			Week:          item.Week,
			HomeTeamID:    item.HomeTeamID,
			VisitorTeamID: item.VisitorTeamID,
			HomeScore:     intPtrToNullInt64(item.HomeScore),
			VisitorScore:  intPtrToNullInt64(item.VisitorScore),
			Status:        string(game.NormalizeStatus(string(item.Status))),
			IsTiebreaker:  item.IsTiebreaker,
			KickoffAt:     item.KickoffAt.UTC(),
		})
	}

	query, args, err := qb.InsertModels("games", models, `ON CONFLICT (public_id)
DO UPDATE SET
    season = EXCLUDED.season,
    week = EXCLUDED.week,
    home_team_id = EXCLUDED.home_team_id,
    visitor_team_id = EXCLUDED.visitor_team_id,
    home_score = EXCLUDED.home_score,
    visitor_score = EXCLUDED.visitor_score,
    status = EXCLUDED.status,
    is_tiebreaker = EXCLUDED.is_tiebreaker,
    kickoff_at = EXCLUDED.kickoff_at,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert games query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert games: %w", err)
	}
	return nil
}

func gamesFromRows(rows []gameTableModel) []game.Game {
	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, game.Game{
			ID:            row.PublicID,
			Season:        row.Season,
			Week:          row.Week,
			HomeTeamID:    row.HomeTeamID,
			VisitorTeamID: row.VisitorTeamID,
			HomeScore:     nullInt64ToIntPtr(row.HomeScore),
			VisitorScore:  nullInt64ToIntPtr(row.VisitorScore),
			Status:        game.NormalizeStatus(row.Status),
			IsTiebreaker:  row.IsTiebreaker,
			KickoffAt:     row.KickoffAt.UTC(),
		})
	}
	return out
}
