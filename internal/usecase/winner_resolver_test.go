package usecase

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	"github.com/riskibarqy/pickem-standings/internal/domain/pick"
	"github.com/riskibarqy/pickem-standings/internal/domain/recalc"
	"github.com/riskibarqy/pickem-standings/internal/domain/standings"
	repocache "github.com/riskibarqy/pickem-standings/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/pickem-standings/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/pickem-standings/internal/platform/cache"
	"github.com/riskibarqy/pickem-standings/internal/platform/logging"
)

func TestWinnerResolver_IncompleteWeekLeavesWinnersUntouched(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	games := []game.Game{finalGame("g1", 3, 24, 10), finalGame("g2", 3, 17, 20)}
	h := newHarness(t, games, []pick.Pick{homePick("alice", games[0]), homePick("bruno", games[1])})

	seeded := []standings.WeeklyWinner{
		{Season: 2025, Week: 3, UserID: "alice", Points: 1, IsTie: true},
		{Season: 2025, Week: 3, UserID: "bruno", Points: 1, IsTie: true},
	}
	if err := h.standings.ReplaceWeeklyWinners(ctx, week3, seeded); err != nil {
		t.Fatalf("seed winners: %v", err)
	}

	live := games[1]
	live.Status = game.StatusLive
	if err := h.games.Upsert(ctx, live); err != nil {
		t.Fatalf("upsert game: %v", err)
	}

	resolver := NewWinnerResolver(h.games, h.standings, logging.NewNop())
	resolution, err := resolver.ResolveWinners(ctx, week3)
	if err != nil {
		t.Fatalf("resolve winners: %v", err)
	}
	if resolution.WeekComplete {
		t.Fatalf("expected incomplete week")
	}
	if len(resolution.Winners) != 0 {
		t.Fatalf("incomplete week must not declare winners, got %+v", resolution.Winners)
	}

	stored, err := h.standings.ListWeeklyWinners(ctx, week3)
	if err != nil {
		t.Fatalf("list winners: %v", err)
	}
	if !reflect.DeepEqual(stored, seeded) {
		t.Fatalf("stored winners changed:\ngot=%+v\nwant=%+v", stored, seeded)
	}
}

// Another writer (a second replica or the CLI) shares storage with a process
// whose standings reads are cached.
func TestRecalculationCoordinator_ReopenedWeekClearsWinnersBehindCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	logger := logging.NewNop()
	games := []game.Game{finalGame("g1", 3, 24, 10), finalGame("g2", 3, 17, 20)}
	gameRepo := memory.NewGameRepository(games)
	pickRepo := memory.NewPickRepository([]pick.Pick{homePick("alice", games[0]), awayPick("bruno", games[1])})
	storage := memory.NewStandingsRepository()
	cached := repocache.NewStandingsRepository(
		storage,
		basecache.NewStore[[]standings.WeeklyScore](time.Hour),
		basecache.NewStore[[]standings.WeeklyWinner](time.Hour),
	)

	if winners, err := cached.ListWeeklyWinners(ctx, week3); err != nil || len(winners) != 0 {
		t.Fatalf("expected empty cached winners, got %+v err=%v", winners, err)
	}

	other := NewWeeklyScoreCalculator(gameRepo, pickRepo, storage, nil, nil, logger)
	if _, err := other.Calculate(ctx, week3); err != nil {
		t.Fatalf("calculate from other writer: %v", err)
	}
	if winners, _ := storage.ListWeeklyWinners(ctx, week3); len(winners) != 2 {
		t.Fatalf("expected two tied winners in storage, got %+v", winners)
	}

	reopened := games[1]
	reopened.Status = game.StatusLive
	if err := gameRepo.Upsert(ctx, reopened); err != nil {
		t.Fatalf("upsert game: %v", err)
	}

	auditor := NewConsistencyAuditor(gameRepo, pickRepo, storage, logger)
	calculator := NewWeeklyScoreCalculator(gameRepo, pickRepo, cached, nil, auditor, logger)
	coordinator := NewRecalculationCoordinator(calculator, auditor, gameRepo, memory.NewRunStore(5), nil, nil, logger, CoordinatorConfig{})

	out, err := coordinator.EnsureScored(ctx, week3, recalc.TriggerLive)
	if err != nil {
		t.Fatalf("ensure scored: %v", err)
	}
	if !out.Ran || out.Record == nil || out.Record.State != recalc.StateSucceeded {
		t.Fatalf("expected a successful run, got %+v", out)
	}

	winners, err := storage.ListWeeklyWinners(ctx, week3)
	if err != nil {
		t.Fatalf("list winners: %v", err)
	}
	if len(winners) != 0 {
		t.Fatalf("reopened week must have no stored winners, got %+v", winners)
	}
	if winners, _ := cached.ListWeeklyWinners(ctx, week3); len(winners) != 0 {
		t.Fatalf("cached winners must follow storage, got %+v", winners)
	}
}
