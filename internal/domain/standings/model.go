package standings

import "github.com/riskibarqy/pickem-standings/internal/domain/game"

// PerfectWeekBonus is awarded when every game of a complete week was picked correctly.
const PerfectWeekBonus = 3

// WeeklyScore is the persisted score of one participant for one week. It is
// always written as a whole row; no field is updated in isolation.
type WeeklyScore struct {
	UserID               string `json:"user_id"`
	Season               int    `json:"season"`
	Week                 int    `json:"week"`
	CorrectPicks         int    `json:"correct_picks"`
	TotalPicksMade       int    `json:"total_picks_made"`
	BonusPoints          int    `json:"bonus_points"`
	TotalPoints          int    `json:"total_points"`
	TiebreakerPrediction *int   `json:"tiebreaker_prediction,omitempty"`
	TiebreakerActual     *int   `json:"tiebreaker_actual,omitempty"`
	TiebreakerDiff       *int   `json:"tiebreaker_diff,omitempty"`
	IsPerfectWeek        bool   `json:"is_perfect_week"`
}

func (s WeeklyScore) Key() game.WeekKey {
	return game.WeekKey{Season: s.Season, Week: s.Week}
}

// WeeklyWinner is one declared winner of a complete week.
type WeeklyWinner struct {
	Season         int    `json:"season"`
	Week           int    `json:"week"`
	UserID         string `json:"user_id"`
	Points         int    `json:"points"`
	IsTie          bool   `json:"is_tie"`
	TiebreakerDiff *int   `json:"tiebreaker_diff,omitempty"`
}

// Discrepancy is a stored score whose correct pick count no longer matches
// the current game and pick data.
type Discrepancy struct {
	UserID                 string `json:"user_id"`
	StoredCorrectPicks     int    `json:"stored_correct_picks"`
	RecomputedCorrectPicks int    `json:"recomputed_correct_picks"`
}
