package usecase

import (
	"context"
	"reflect"
	"testing"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	"github.com/riskibarqy/pickem-standings/internal/domain/pick"
	"github.com/riskibarqy/pickem-standings/internal/domain/standings"
)

var week3 = game.WeekKey{Season: 2025, Week: 3}

func tiebreakWeek() []game.Game {
	return []game.Game{
		finalGame("g1", 3, 24, 10),
		finalGame("g2", 3, 17, 20),
		asTiebreaker(finalGame("g3", 3, 21, 14)),
	}
}

func TestWeeklyScoreCalculator_TiebreakNarrowsToSingleWinner(t *testing.T) {
	t.Parallel()

	games := tiebreakWeek()
	picks := []pick.Pick{
		homePick("alice", games[0]), awayPick("alice", games[1]), withPrediction(awayPick("alice", games[2]), 37),
		homePick("bruno", games[0]), homePick("bruno", games[1]), withPrediction(homePick("bruno", games[2]), 30),
		awayPick("chidi", games[0]), homePick("chidi", games[1]), withPrediction(homePick("chidi", games[2]), 35),
	}
	h := newHarness(t, games, picks)

	result, err := h.calculator.Calculate(context.Background(), week3)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if !result.WeekComplete() {
		t.Fatalf("expected complete week")
	}
	if len(result.Scores) != 3 {
		t.Fatalf("unexpected score count: got=%d want=3", len(result.Scores))
	}

	winners, err := h.standings.ListWeeklyWinners(context.Background(), week3)
	if err != nil {
		t.Fatalf("list winners: %v", err)
	}
	if len(winners) != 1 {
		t.Fatalf("unexpected winner count: got=%d want=1", len(winners))
	}
	w := winners[0]
	if w.UserID != "alice" || w.Points != 2 || !w.IsTie {
		t.Fatalf("unexpected winner: %+v", w)
	}
	if w.TiebreakerDiff == nil || *w.TiebreakerDiff != 2 {
		t.Fatalf("unexpected winner diff: %v", w.TiebreakerDiff)
	}
}

func TestWeeklyScoreCalculator_NoPredictionsLeavesCoWinners(t *testing.T) {
	t.Parallel()

	games := tiebreakWeek()
	picks := []pick.Pick{
		homePick("alice", games[0]), awayPick("alice", games[1]), awayPick("alice", games[2]),
		homePick("bruno", games[0]), homePick("bruno", games[1]), homePick("bruno", games[2]),
	}
	h := newHarness(t, games, picks)

	result, err := h.calculator.Calculate(context.Background(), week3)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if len(result.Winners) != 2 {
		t.Fatalf("unexpected winner count: got=%d want=2", len(result.Winners))
	}
	for _, w := range result.Winners {
		if !w.IsTie || w.TiebreakerDiff != nil || w.Points != 2 {
			t.Fatalf("unexpected co-winner: %+v", w)
		}
	}
	if result.Winners[0].UserID != "alice" || result.Winners[1].UserID != "bruno" {
		t.Fatalf("unexpected winner order: %+v", result.Winners)
	}
}

func TestWeeklyScoreCalculator_TiedFinalCreditsNobody(t *testing.T) {
	t.Parallel()

	tied := finalGame("g1", 3, 20, 20)
	h := newHarness(t, []game.Game{tied}, []pick.Pick{homePick("alice", tied), awayPick("bruno", tied)})

	result, err := h.calculator.Calculate(context.Background(), week3)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	for _, score := range result.Scores {
		if score.CorrectPicks != 0 || score.BonusPoints != 0 || score.TotalPicksMade != 1 {
			t.Fatalf("tied final must not credit anyone: %+v", score)
		}
	}
}

func TestWeeklyScoreCalculator_PerfectWeekBonus(t *testing.T) {
	t.Parallel()

	complete := []game.Game{finalGame("g1", 3, 24, 10), finalGame("g2", 3, 17, 20)}
	incomplete := append([]game.Game{scheduledGame("g3", 3)}, complete...)

	tests := []struct {
		name      string
		games     []game.Game
		picks     []pick.Pick
		wantBonus int
		wantTotal int
	}{
		{
			name:      "all correct in complete week",
			games:     complete,
			picks:     []pick.Pick{homePick("alice", complete[0]), awayPick("alice", complete[1])},
			wantBonus: standings.PerfectWeekBonus,
			wantTotal: 2 + standings.PerfectWeekBonus,
		},
		{
			name:      "one game left unpicked",
			games:     complete,
			picks:     []pick.Pick{homePick("alice", complete[0])},
			wantBonus: 0,
			wantTotal: 1,
		},
		{
			name:      "week not complete",
			games:     incomplete,
			picks:     []pick.Pick{homePick("alice", complete[0]), awayPick("alice", complete[1]), homePick("alice", incomplete[0])},
			wantBonus: 0,
			wantTotal: 2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t, tc.games, tc.picks)
			result, err := h.calculator.Calculate(context.Background(), week3)
			if err != nil {
				t.Fatalf("calculate: %v", err)
			}
			score := result.Scores[0]
			if score.BonusPoints != tc.wantBonus || score.TotalPoints != tc.wantTotal {
				t.Fatalf("unexpected points: bonus=%d total=%d want bonus=%d total=%d",
					score.BonusPoints, score.TotalPoints, tc.wantBonus, tc.wantTotal)
			}
			if score.IsPerfectWeek != (tc.wantBonus > 0) {
				t.Fatalf("perfect week flag mismatch: %+v", score)
			}
		})
	}
}

func TestWeeklyScoreCalculator_IncompleteWeekHasNoWinners(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	games := []game.Game{finalGame("g1", 3, 24, 10), finalGame("g2", 3, 17, 20)}
	h := newHarness(t, games, []pick.Pick{homePick("alice", games[0]), homePick("bruno", games[1])})

	if _, err := h.calculator.Calculate(ctx, week3); err != nil {
		t.Fatalf("calculate: %v", err)
	}
	winners, _ := h.standings.ListWeeklyWinners(ctx, week3)
	if len(winners) == 0 {
		t.Fatalf("expected winners for complete week")
	}

	reopened := games[1]
	reopened.Status = game.StatusLive
	if err := h.games.Upsert(ctx, reopened); err != nil {
		t.Fatalf("upsert game: %v", err)
	}

	result, err := h.calculator.Calculate(ctx, week3)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if !result.StaleWinnersCleared {
		t.Fatalf("expected stale winners to be cleared")
	}
	winners, _ = h.standings.ListWeeklyWinners(ctx, week3)
	if len(winners) != 0 {
		t.Fatalf("incomplete week must have no winners, got %+v", winners)
	}
}

func TestWeeklyScoreCalculator_Idempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	games := tiebreakWeek()
	picks := []pick.Pick{
		homePick("alice", games[0]), withPrediction(awayPick("alice", games[2]), 40),
		homePick("bruno", games[1]), withPrediction(homePick("bruno", games[2]), 33),
	}
	h := newHarness(t, games, picks)

	if _, err := h.calculator.Calculate(ctx, week3); err != nil {
		t.Fatalf("first calculate: %v", err)
	}
	firstScores, _ := h.standings.ListWeeklyScores(ctx, week3)
	firstWinners, _ := h.standings.ListWeeklyWinners(ctx, week3)

	if _, err := h.calculator.Calculate(ctx, week3); err != nil {
		t.Fatalf("second calculate: %v", err)
	}
	secondScores, _ := h.standings.ListWeeklyScores(ctx, week3)
	secondWinners, _ := h.standings.ListWeeklyWinners(ctx, week3)

	if !reflect.DeepEqual(firstScores, secondScores) {
		t.Fatalf("scores changed between runs:\nfirst=%+v\nsecond=%+v", firstScores, secondScores)
	}
	if !reflect.DeepEqual(firstWinners, secondWinners) {
		t.Fatalf("winners changed between runs:\nfirst=%+v\nsecond=%+v", firstWinners, secondWinners)
	}
}

func TestWeeklyScoreCalculator_ZeroPickUsersExcludedAndOrphansRemoved(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g := finalGame("g1", 3, 24, 10)
	other := finalGame("g9", 4, 10, 3)
	h := newHarness(t, []game.Game{g, other}, []pick.Pick{
		homePick("alice", g),
		homePick("bruno", g),
		homePick("chidi", other),
	})

	result, err := h.calculator.Calculate(ctx, week3)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if len(result.Scores) != 2 {
		t.Fatalf("unexpected score count: got=%d want=2", len(result.Scores))
	}

	if err := h.picks.Delete(ctx, "bruno:g1"); err != nil {
		t.Fatalf("delete pick: %v", err)
	}
	if _, err := h.calculator.Calculate(ctx, week3); err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	stored, _ := h.standings.ListWeeklyScores(ctx, week3)
	if len(stored) != 1 || stored[0].UserID != "alice" {
		t.Fatalf("expected only alice to keep a record, got %+v", stored)
	}
}

func TestWeeklyScoreCalculator_UnknownGameIsInputInconsistency(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g := finalGame("g1", 3, 24, 10)
	ghost := pick.Pick{ID: "p-ghost", UserID: "alice", GameID: "missing", SelectedTeamID: "x", Season: 2025, Week: 3}
	h := newHarness(t, []game.Game{g}, []pick.Pick{homePick("bruno", g), ghost})

	_, err := h.calculator.Calculate(ctx, week3)
	if !crerr.Is(err, ErrInputInconsistency) {
		t.Fatalf("expected input inconsistency, got %v", err)
	}
	if !crerr.Is(err, standings.ErrUnknownGame) {
		t.Fatalf("expected unknown game cause, got %v", err)
	}
	stored, _ := h.standings.ListWeeklyScores(ctx, week3)
	if len(stored) != 0 {
		t.Fatalf("failed run must not write scores, got %+v", stored)
	}
}

func TestWeeklyScoreCalculator_InvalidKey(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil, nil)
	_, err := h.calculator.Calculate(context.Background(), game.WeekKey{Season: 2025})
	if !crerr.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
