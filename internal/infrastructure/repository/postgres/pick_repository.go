package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	"github.com/riskibarqy/pickem-standings/internal/domain/pick"
	"github.com/riskibarqy/pickem-standings/internal/domain/standings"
	qb "github.com/riskibarqy/pickem-standings/internal/platform/querybuilder"
)

type PickRepository struct {
	db *sqlx.DB
}

func NewPickRepository(db *sqlx.DB) *PickRepository {
	return &PickRepository{db: db}
}

func (r *PickRepository) ListByWeek(ctx context.Context, key game.WeekKey) ([]pick.Pick, error) {
	query, args, err := qb.Select("*").From("picks").
		Where(append(weekConditions(key), qb.IsNull("deleted_at"))...).
		OrderBy("user_id", "game_public_id", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select picks by week query: %w", err)
	}

	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select picks week=%s: %w", key, err)
	}

	out := make([]pick.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, pick.Pick{
			ID:                   row.PublicID,
			UserID:               row.UserID,
			GameID:               row.GameID,
			SelectedTeamID:       row.SelectedTeamID,
			TiebreakerPrediction: nullInt64ToIntPtr(row.TiebreakerPrediction),
			Season:               row.Season,
			Week:                 row.Week,
		})
	}
	return out, nil
}

// UpsertPicks writes picks keyed by public id. A second live pick for the same
// user and game is rejected by the schema and reported as a duplicate pick.
func (r *PickRepository) UpsertPicks(ctx context.Context, picks []pick.Pick) error {
	if len(picks) == 0 {
		return nil
	}

	models := make([]pickInsertModel, 0, len(picks))
	for _, item := range picks {
		models = append(models, pickInsertModel{
			PublicID:             item.ID,
			UserID:               item.UserID,
			GameID:               item.GameID,
			SelectedTeamID:       item.SelectedTeamID,
			TiebreakerPrediction: intPtrToNullInt64(item.TiebreakerPrediction),
			Season:               item.Season,
			Week:                 item.Week,
		})
	}

	query, args, err := qb.InsertModels("picks", models, `ON CONFLICT (public_id)
DO UPDATE SET
    selected_team_id = EXCLUDED.selected_team_id,
    tiebreaker_prediction = EXCLUDED.tiebreaker_prediction,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert picks query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: upsert picks: %v", standings.ErrDuplicatePick, err)
		}
		return fmt.Errorf("upsert picks: %w", err)
	}
	return nil
}
