package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	"github.com/riskibarqy/pickem-standings/internal/domain/standings"
	qb "github.com/riskibarqy/pickem-standings/internal/platform/querybuilder"
)

type StandingsRepository struct {
	db *sqlx.DB
}

func NewStandingsRepository(db *sqlx.DB) *StandingsRepository {
	return &StandingsRepository{db: db}
}

func (r *StandingsRepository) ListWeeklyScores(ctx context.Context, key game.WeekKey) ([]standings.WeeklyScore, error) {
	query, args, err := qb.Select("*").From("weekly_scores").
		Where(weekConditions(key)...).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select weekly scores query: %w", err)
	}

	var rows []weeklyScoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select weekly scores week=%s: %w", key, err)
	}
	return weeklyScoresFromRows(rows), nil
}

func (r *StandingsRepository) ListWeeklyScoresBySeason(ctx context.Context, season int) ([]standings.WeeklyScore, error) {
	query, args, err := qb.Select("*").From("weekly_scores").
		Where(qb.Eq("season", season)).
		OrderBy("week", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select weekly scores by season query: %w", err)
	}

	var rows []weeklyScoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select weekly scores season=%d: %w", season, err)
	}
	return weeklyScoresFromRows(rows), nil
}

// ReplaceWeeklyScores upserts the new set and deletes every other row of the
// week inside one transaction.
func (r *StandingsRepository) ReplaceWeeklyScores(ctx context.Context, key game.WeekKey, scores []standings.WeeklyScore) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace weekly scores: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	userIDs := make([]string, 0, len(scores))
	models := make([]weeklyScoreInsertModel, 0, len(scores))
	for _, item := range scores {
		userIDs = append(userIDs, item.UserID)
		models = append(models, weeklyScoreInsertModel{
			UserID:               item.UserID,
			Season:               key.Season,
			Week:                 key.Week,
			CorrectPicks:         item.CorrectPicks,
			TotalPicksMade:       item.TotalPicksMade,
			BonusPoints:          item.BonusPoints,
			TotalPoints:          item.TotalPoints,
			TiebreakerPrediction: intPtrToNullInt64(item.TiebreakerPrediction),
			TiebreakerActual:     intPtrToNullInt64(item.TiebreakerActual),
			TiebreakerDiff:       intPtrToNullInt64(item.TiebreakerDiff),
			IsPerfectWeek:        item.IsPerfectWeek,
		})
	}

	clearQuery, clearArgs, err := qb.DeleteFrom("weekly_scores").
		Where(append(weekConditions(key), qb.Expr("NOT (user_id = ANY(?))", pq.Array(userIDs)))...).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear weekly scores query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear orphan weekly scores week=%s: %w", key, err)
	}

	if len(models) > 0 {
		query, args, err := qb.InsertModels("weekly_scores", models, `ON CONFLICT (user_id, season, week)
DO UPDATE SET
    correct_picks = EXCLUDED.correct_picks,
    total_picks_made = EXCLUDED.total_picks_made,
    bonus_points = EXCLUDED.bonus_points,
    total_points = EXCLUDED.total_points,
    tiebreaker_prediction = EXCLUDED.tiebreaker_prediction,
    tiebreaker_actual = EXCLUDED.tiebreaker_actual,
    tiebreaker_diff = EXCLUDED.tiebreaker_diff,
    is_perfect_week = EXCLUDED.is_perfect_week,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert weekly scores query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert weekly scores week=%s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace weekly scores tx: %w", err)
	}
	return nil
}

func (r *StandingsRepository) ListWeeklyWinners(ctx context.Context, key game.WeekKey) ([]standings.WeeklyWinner, error) {
	query, args, err := qb.Select("*").From("weekly_winners").
		Where(weekConditions(key)...).
		OrderBy("tiebreaker_diff NULLS LAST", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select weekly winners query: %w", err)
	}

	var rows []weeklyWinnerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select weekly winners week=%s: %w", key, err)
	}
	return weeklyWinnersFromRows(rows), nil
}

func (r *StandingsRepository) ListWeeklyWinnersBySeason(ctx context.Context, season int) ([]standings.WeeklyWinner, error) {
	query, args, err := qb.Select("*").From("weekly_winners").
		Where(qb.Eq("season", season)).
		OrderBy("week", "tiebreaker_diff NULLS LAST", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select weekly winners by season query: %w", err)
	}

	var rows []weeklyWinnerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select weekly winners season=%d: %w", season, err)
	}
	return weeklyWinnersFromRows(rows), nil
}

// ReplaceWeeklyWinners deletes and reinserts the week's winners in one
// transaction. An empty set only deletes.
func (r *StandingsRepository) ReplaceWeeklyWinners(ctx context.Context, key game.WeekKey, winners []standings.WeeklyWinner) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace weekly winners: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.DeleteFrom("weekly_winners").Where(weekConditions(key)...).ToSQL()
	if err != nil {
		return fmt.Errorf("build clear weekly winners query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear weekly winners week=%s: %w", key, err)
	}

	if len(winners) > 0 {
		models := make([]weeklyWinnerInsertModel, 0, len(winners))
		for _, item := range winners {
			models = append(models, weeklyWinnerInsertModel{
				Season:         key.Season,
				Week:           key.Week,
				UserID:         item.UserID,
				Points:         item.Points,
				IsTie:          item.IsTie,
				TiebreakerDiff: intPtrToNullInt64(item.TiebreakerDiff),
			})
		}
		query, args, err := qb.InsertModels("weekly_winners", models, "")
		if err != nil {
			return fmt.Errorf("build insert weekly winners query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert weekly winners week=%s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace weekly winners tx: %w", err)
	}
	return nil
}

func weeklyScoresFromRows(rows []weeklyScoreTableModel) []standings.WeeklyScore {
	out := make([]standings.WeeklyScore, 0, len(rows))
	for _, row := range rows {
		out = append(out, standings.WeeklyScore{
			UserID:               row.UserID,
			Season:               row.Season,
			Week:                 row.Week,
			CorrectPicks:         row.CorrectPicks,
			TotalPicksMade:       row.TotalPicksMade,
			BonusPoints:          row.BonusPoints,
			TotalPoints:          row.TotalPoints,
			TiebreakerPrediction: nullInt64ToIntPtr(row.TiebreakerPrediction),
			TiebreakerActual:     nullInt64ToIntPtr(row.TiebreakerActual),
			TiebreakerDiff:       nullInt64ToIntPtr(row.TiebreakerDiff),
			IsPerfectWeek:        row.IsPerfectWeek,
		})
	}
	return out
}

func weeklyWinnersFromRows(rows []weeklyWinnerTableModel) []standings.WeeklyWinner {
	out := make([]standings.WeeklyWinner, 0, len(rows))
	for _, row := range rows {
		out = append(out, standings.WeeklyWinner{
			Season:         row.Season,
			Week:           row.Week,
			UserID:         row.UserID,
			Points:         row.Points,
			IsTie:          row.IsTie,
			TiebreakerDiff: nullInt64ToIntPtr(row.TiebreakerDiff),
		})
	}
	return out
}
