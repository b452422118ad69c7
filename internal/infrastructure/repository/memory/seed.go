package memory

import (
	"fmt"
	"time"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	"github.com/riskibarqy/pickem-standings/internal/domain/pick"
)

const SeedSeason = 2025

var seedSeasonStart = time.Date(2025, time.September, 4, 0, 20, 0, 0, time.UTC)

type seedGame struct {
	id           string
	week         int
	home         string
	visitor      string
	homeScore    *int
	visitorScore *int
	status       game.Status
	tiebreaker   bool
	kickoffDays  int
}

// SeedGames returns a small demo schedule: week 1 complete, week 2 with one
// game still live, week 3 not started.
func SeedGames() []game.Game {
	rows := []seedGame{
		{id: "2025-w01-dal-phi", week: 1, home: "PHI", visitor: "DAL", homeScore: intPtr(24), visitorScore: intPtr(20), status: game.StatusFinal},
		{id: "2025-w01-kc-lac", week: 1, home: "LAC", visitor: "KC", homeScore: intPtr(27), visitorScore: intPtr(21), status: game.StatusFinal, kickoffDays: 1},
		{id: "2025-w01-bal-buf", week: 1, home: "BUF", visitor: "BAL", homeScore: intPtr(41), visitorScore: intPtr(40), status: game.StatusFinal, tiebreaker: true, kickoffDays: 4},
		{id: "2025-w02-was-gb", week: 2, home: "GB", visitor: "WAS", homeScore: intPtr(27), visitorScore: intPtr(18), status: game.StatusFinal, kickoffDays: 7},
		{id: "2025-w02-sf-no", week: 2, home: "NO", visitor: "SF", homeScore: intPtr(21), visitorScore: intPtr(26), status: game.StatusFinal, kickoffDays: 10},
		{id: "2025-w02-phi-kc", week: 2, home: "KC", visitor: "PHI", homeScore: intPtr(10), visitorScore: intPtr(13), status: game.StatusLive, tiebreaker: true, kickoffDays: 10},
		{id: "2025-w03-mia-buf", week: 3, home: "BUF", visitor: "MIA", status: game.StatusScheduled, kickoffDays: 14},
		{id: "2025-w03-det-bal", week: 3, home: "BAL", visitor: "DET", status: game.StatusScheduled, tiebreaker: true, kickoffDays: 18},
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, game.Game{
			ID:            row.id,
			Season:        SeedSeason,
			Week:          row.week,
			HomeTeamID:    row.home,
			VisitorTeamID: row.visitor,
			HomeScore:     row.homeScore,
			VisitorScore:  row.visitorScore,
			Status:        row.status,
			IsTiebreaker:  row.tiebreaker,
			KickoffAt:     seedSeasonStart.AddDate(0, 0, row.kickoffDays),
		})
	}
	return out
}

// SeedPicks gives three demo users picks for the seeded weeks.
func SeedPicks() []pick.Pick {
	type selection struct {
		gameID     string
		week       int
		team       string
		prediction *int
	}
	byUser := map[string][]selection{
		"user-alice": {
			{gameID: "2025-w01-dal-phi", week: 1, team: "PHI"},
			{gameID: "2025-w01-kc-lac", week: 1, team: "LAC"},
			{gameID: "2025-w01-bal-buf", week: 1, team: "BUF", prediction: intPtr(78)},
			{gameID: "2025-w02-was-gb", week: 2, team: "GB"},
			{gameID: "2025-w02-sf-no", week: 2, team: "NO"},
			{gameID: "2025-w02-phi-kc", week: 2, team: "KC", prediction: intPtr(44)},
		},
		"user-bruno": {
			{gameID: "2025-w01-dal-phi", week: 1, team: "PHI"},
			{gameID: "2025-w01-kc-lac", week: 1, team: "KC"},
			{gameID: "2025-w01-bal-buf", week: 1, team: "BUF", prediction: intPtr(85)},
			{gameID: "2025-w02-was-gb", week: 2, team: "GB"},
			{gameID: "2025-w02-sf-no", week: 2, team: "SF"},
		},
		"user-chidi": {
			{gameID: "2025-w01-dal-phi", week: 1, team: "DAL"},
			{gameID: "2025-w01-kc-lac", week: 1, team: "LAC"},
			{gameID: "2025-w01-bal-buf", week: 1, team: "BUF", prediction: intPtr(80)},
		},
	}

	out := make([]pick.Pick, 0)
	for _, userID := range []string{"user-alice", "user-bruno", "user-chidi"} {
		for _, item := range byUser[userID] {
			out = append(out, pick.Pick{
				ID:                   fmt.Sprintf("%s:%s", userID, item.gameID),
				UserID:               userID,
				GameID:               item.gameID,
				SelectedTeamID:       item.team,
				TiebreakerPrediction: item.prediction,
				Season:               SeedSeason,
				Week:                 item.week,
			})
		}
	}
	return out
}

func intPtr(v int) *int {
	return &v
}
