package postgres

import (
	"database/sql"
	"time"
)

type gameTableModel struct {
	ID            int64         `db:"id"`
	PublicID      string        `db:"public_id"`
	Season        int           `db:"season"`
	Week          int           `db:"week"`
	HomeTeamID    string        `db:"home_team_id"`
	VisitorTeamID string        `db:"visitor_team_id"`
	HomeScore     sql.NullInt64 `db:"home_score"`
	VisitorScore  sql.NullInt64 `db:"visitor_score"`
	Status        string        `db:"status"`
	IsTiebreaker  bool          `db:"is_tiebreaker"`
	KickoffAt     time.Time     `db:"kickoff_at"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
	DeletedAt     *time.Time    `db:"deleted_at"`
}

type gameInsertModel struct {
	PublicID      string        `db:"public_id"`
	Season        int           `db:"season"`
	Week          int           `db:"week"`
	HomeTeamID    string        `db:"home_team_id"`
	VisitorTeamID string        `db:"visitor_team_id"`
	HomeScore     sql.NullInt64 `db:"home_score"`
	VisitorScore  sql.NullInt64 `db:"visitor_score"`
	Status        string        `db:"status"`
	IsTiebreaker  bool          `db:"is_tiebreaker"`
	KickoffAt     time.Time     `db:"kickoff_at"`
}
