package postgres

import (
	"database/sql"
	"time"
)

type weeklyScoreTableModel struct {
	ID                   int64         `db:"id"`
	UserID               string        `db:"user_id"`
	Season               int           `db:"season"`
	Week                 int           `db:"week"`
	CorrectPicks         int           `db:"correct_picks"`
	TotalPicksMade       int           `db:"total_picks_made"`
	BonusPoints          int           `db:"bonus_points"`
	TotalPoints          int           `db:"total_points"`
	TiebreakerPrediction sql.NullInt64 `db:"tiebreaker_prediction"`
	TiebreakerActual     sql.NullInt64 `db:"tiebreaker_actual"`
	TiebreakerDiff       sql.NullInt64 `db:"tiebreaker_diff"`
	IsPerfectWeek        bool          `db:"is_perfect_week"`
	CreatedAt            time.Time     `db:"created_at"`
	UpdatedAt            time.Time     `db:"updated_at"`
}

type weeklyScoreInsertModel struct {
	UserID               string        `db:"user_id"`
	Season               int           `db:"season"`
	Week                 int           `db:"week"`
	CorrectPicks         int           `db:"correct_picks"`
	TotalPicksMade       int           `db:"total_picks_made"`
	BonusPoints          int           `db:"bonus_points"`
	TotalPoints          int           `db:"total_points"`
	TiebreakerPrediction sql.NullInt64 `db:"tiebreaker_prediction"`
	TiebreakerActual     sql.NullInt64 `db:"tiebreaker_actual"`
	TiebreakerDiff       sql.NullInt64 `db:"tiebreaker_diff"`
	IsPerfectWeek        bool          `db:"is_perfect_week"`
}

type weeklyWinnerTableModel struct {
	ID             int64         `db:"id"`
	Season         int           `db:"season"`
	Week           int           `db:"week"`
	UserID         string        `db:"user_id"`
	Points         int           `db:"points"`
	IsTie          bool          `db:"is_tie"`
	TiebreakerDiff sql.NullInt64 `db:"tiebreaker_diff"`
	CreatedAt      time.Time     `db:"created_at"`
}

type weeklyWinnerInsertModel struct {
	Season         int           `db:"season"`
	Week           int           `db:"week"`
	UserID         string        `db:"user_id"`
	Points         int           `db:"points"`
	IsTie          bool          `db:"is_tie"`
	TiebreakerDiff sql.NullInt64 `db:"tiebreaker_diff"`
}
