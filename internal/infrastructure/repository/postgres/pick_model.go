package postgres

import (
	"database/sql"
	"time"
)

type pickTableModel struct {
	ID                   int64         `db:"id"`
	PublicID             string        `db:"public_id"`
	UserID               string        `db:"user_id"`
	GameID               string        `db:"game_public_id"`
	SelectedTeamID       string        `db:"selected_team_id"`
	TiebreakerPrediction sql.NullInt64 `db:"tiebreaker_prediction"`
	Season               int           `db:"season"`
	Week                 int           `db:"week"`
	CreatedAt            time.Time     `db:"created_at"`
	UpdatedAt            time.Time     `db:"updated_at"`
	DeletedAt            *time.Time    `db:"deleted_at"`
}

type pickInsertModel struct {
	PublicID             string        `db:"public_id"`
	UserID               string        `db:"user_id"`
	GameID               string        `db:"game_public_id"`
	SelectedTeamID       string        `db:"selected_team_id"`
	TiebreakerPrediction sql.NullInt64 `db:"tiebreaker_prediction"`
	Season               int           `db:"season"`
	Week                 int           `db:"week"`
}
