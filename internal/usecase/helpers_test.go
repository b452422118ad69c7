package usecase

import (
	"testing"
	"time"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	"github.com/riskibarqy/pickem-standings/internal/domain/pick"
	"github.com/riskibarqy/pickem-standings/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pickem-standings/internal/platform/logging"
)

var testKickoff = time.Date(2025, 9, 21, 17, 0, 0, 0, time.UTC)

type harness struct {
	games       *memory.GameRepository
	picks       *memory.PickRepository
	standings   *memory.StandingsRepository
	runs        *memory.RunStore
	calculator  *WeeklyScoreCalculator
	auditor     *ConsistencyAuditor
	coordinator *RecalculationCoordinator
}

func newHarness(t *testing.T, games []game.Game, picks []pick.Pick) *harness {
	t.Helper()

	logger := logging.NewNop()
	h := &harness{
		games:     memory.NewGameRepository(games),
		picks:     memory.NewPickRepository(picks),
		standings: memory.NewStandingsRepository(),
		runs:      memory.NewRunStore(10),
	}
	h.auditor = NewConsistencyAuditor(h.games, h.picks, h.standings, logger)
	resolver := NewWinnerResolver(h.games, h.standings, logger)
	h.calculator = NewWeeklyScoreCalculator(h.games, h.picks, h.standings, resolver, h.auditor, logger)
	h.coordinator = NewRecalculationCoordinator(h.calculator, h.auditor, h.games, h.runs, nil, nil, logger, CoordinatorConfig{})
	return h
}

func intPtr(v int) *int {
	return &v
}

func finalGame(id string, week, homeScore, visitorScore int) game.Game {
	return game.Game{
		ID:            id,
		Season:        2025,
		Week:          week,
		HomeTeamID:    id + "-home",
		VisitorTeamID: id + "-away",
		HomeScore:     intPtr(homeScore),
		VisitorScore:  intPtr(visitorScore),
		Status:        game.StatusFinal,
		KickoffAt:     testKickoff.AddDate(0, 0, 7*(week-1)),
	}
}

func scheduledGame(id string, week int) game.Game {
	return game.Game{
		ID:            id,
		Season:        2025,
		Week:          week,
		HomeTeamID:    id + "-home",
		VisitorTeamID: id + "-away",
		Status:        game.StatusScheduled,
		KickoffAt:     testKickoff.AddDate(0, 0, 7*(week-1)),
	}
}

func asTiebreaker(g game.Game) game.Game {
	g.IsTiebreaker = true
	return g
}

func homePick(userID string, g game.Game) pick.Pick {
	return pick.Pick{
		ID:             userID + ":" + g.ID,
		UserID:         userID,
		GameID:         g.ID,
		SelectedTeamID: g.HomeTeamID,
		Season:         g.Season,
		Week:           g.Week,
	}
}

func awayPick(userID string, g game.Game) pick.Pick {
	p := homePick(userID, g)
	p.SelectedTeamID = g.VisitorTeamID
	return p
}

func withPrediction(p pick.Pick, prediction int) pick.Pick {
	p.TiebreakerPrediction = intPtr(prediction)
	return p
}
