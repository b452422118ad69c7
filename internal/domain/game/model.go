package game

import (
	"strings"
	"time"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusLive      Status = "live"
	StatusFinal     Status = "final"
)

// Game is one scheduled matchup inside a season week. Games are owned by the
// schedule ingestion side and are read-only here.
type Game struct {
	ID            string
	Season        int
	Week          int
	HomeTeamID    string
	VisitorTeamID string
	HomeScore     *int
	VisitorScore  *int
	Status        Status
	IsTiebreaker  bool
	KickoffAt     time.Time
}

// NormalizeStatus maps provider status spellings onto the three engine states.
func NormalizeStatus(value string) Status {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "final", "finished", "ft", "post", "completed", "final/ot", "f/ot":
		return StatusFinal
	case "live", "in_progress", "in-progress", "inprogress", "halftime", "ht", "q1", "q2", "q3", "q4", "ot":
		return StatusLive
	default:
		return StatusScheduled
	}
}

func (g Game) IsFinal() bool {
	return g.Status == StatusFinal
}

func (g Game) IsLive() bool {
	return g.Status == StatusLive
}

func (g Game) HasScores() bool {
	return g.HomeScore != nil && g.VisitorScore != nil
}

// WinningTeamID reports the team that strictly outscored the other in a final
// game. Tied finals and games without both scores have no winner.
func (g Game) WinningTeamID() (string, bool) {
	if !g.IsFinal() || !g.HasScores() {
		return "", false
	}
	switch {
	case *g.HomeScore > *g.VisitorScore:
		return g.HomeTeamID, true
	case *g.VisitorScore > *g.HomeScore:
		return g.VisitorTeamID, true
	default:
		return "", false
	}
}

// CombinedScore is the tiebreaker actual: both final scores added together.
func (g Game) CombinedScore() (int, bool) {
	if !g.IsFinal() || !g.HasScores() {
		return 0, false
	}
	return *g.HomeScore + *g.VisitorScore, true
}

// Completion counts how many games of a week are final.
type Completion struct {
	Total int
	Final int
}

func Summarize(games []Game) Completion {
	out := Completion{Total: len(games)}
	for _, item := range games {
		if item.IsFinal() {
			out.Final++
		}
	}
	return out
}

// Complete is false for a week without games.
func (c Completion) Complete() bool {
	return c.Total > 0 && c.Total == c.Final
}

func IndexByID(games []Game) map[string]Game {
	out := make(map[string]Game, len(games))
	for _, item := range games {
		out[item.ID] = item
	}
	return out
}
