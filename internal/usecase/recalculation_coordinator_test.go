package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	"github.com/riskibarqy/pickem-standings/internal/domain/pick"
	"github.com/riskibarqy/pickem-standings/internal/domain/recalc"
	"github.com/riskibarqy/pickem-standings/internal/infrastructure/repository/memory"
	gamemock "github.com/riskibarqy/pickem-standings/internal/mocks/domain/game"
	standingsmock "github.com/riskibarqy/pickem-standings/internal/mocks/domain/standings"
	"github.com/riskibarqy/pickem-standings/internal/platform/logging"
	"github.com/riskibarqy/pickem-standings/internal/platform/resilience"
)

type recordingMetrics struct {
	mu       sync.Mutex
	runs     map[recalc.RunState]int
	skipped  map[string]int
	drift    int
	circuits []string
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{runs: make(map[recalc.RunState]int), skipped: make(map[string]int)}
}

func (m *recordingMetrics) ObserveRun(_ recalc.Trigger, state recalc.RunState, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[state]++
}

func (m *recordingMetrics) RunSkipped(_ recalc.Trigger, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skipped[reason]++
}

func (m *recordingMetrics) DriftDetected(_ game.WeekKey, discrepancies int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drift += discrepancies
}

func (m *recordingMetrics) CircuitStateChanged(state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.circuits = append(m.circuits, state)
}

func TestRecalculationCoordinator_EnsureScoredLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	games := []game.Game{finalGame("g1", 3, 24, 10), finalGame("g2", 3, 27, 20)}
	h := newHarness(t, games, []pick.Pick{homePick("alice", games[0]), homePick("alice", games[1])})
	metrics := newRecordingMetrics()
	h.coordinator.metrics = metrics
	h.coordinator.newRunID = func() string { return "run-1" }

	first, err := h.coordinator.EnsureScored(ctx, week3, recalc.TriggerSweep)
	if err != nil {
		t.Fatalf("ensure scored: %v", err)
	}
	if !first.Ran || first.Reason != ReasonMissingScores {
		t.Fatalf("expected calculation for missing scores, got %+v", first)
	}
	if first.Record == nil || first.Record.RunID != "run-1" || !first.Record.Succeeded() {
		t.Fatalf("unexpected run record: %+v", first.Record)
	}

	second, err := h.coordinator.EnsureScored(ctx, week3, recalc.TriggerSweep)
	if err != nil {
		t.Fatalf("ensure scored again: %v", err)
	}
	if second.Ran || second.Reason != ReasonUpToDate {
		t.Fatalf("expected no-op for up to date week, got %+v", second)
	}

	corrected := games[1]
	corrected.HomeScore = intPtr(3)
	if err := h.games.Upsert(ctx, corrected); err != nil {
		t.Fatalf("upsert game: %v", err)
	}

	third, err := h.coordinator.EnsureScored(ctx, week3, recalc.TriggerLive)
	if err != nil {
		t.Fatalf("ensure scored after correction: %v", err)
	}
	if !third.Ran || third.Reason != ReasonDrift {
		t.Fatalf("expected drift recalculation, got %+v", third)
	}
	stored, _ := h.standings.ListWeeklyScores(ctx, week3)
	if stored[0].CorrectPicks != 1 {
		t.Fatalf("expected corrected score, got %+v", stored[0])
	}

	if metrics.runs[recalc.StateSucceeded] != 2 || metrics.skipped[ReasonUpToDate] != 1 || metrics.drift != 1 {
		t.Fatalf("unexpected metrics: runs=%v skipped=%v drift=%d", metrics.runs, metrics.skipped, metrics.drift)
	}
}

func TestRecalculationCoordinator_EnsureScoredWithoutPicksIsNoop(t *testing.T) {
	t.Parallel()

	h := newHarness(t, []game.Game{finalGame("g1", 3, 24, 10)}, nil)

	out, err := h.coordinator.EnsureScored(context.Background(), week3, recalc.TriggerSweep)
	if err != nil {
		t.Fatalf("ensure scored: %v", err)
	}
	if out.Ran || out.Reason != ReasonNoPicks {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	runs, _ := h.runs.ListLatestRuns(context.Background())
	if len(runs) != 0 {
		t.Fatalf("no-op must not record a run, got %+v", runs)
	}
}

func TestRecalculationCoordinator_SkipsRunningKey(t *testing.T) {
	t.Parallel()

	g := finalGame("g1", 3, 24, 10)
	h := newHarness(t, []game.Game{g}, []pick.Pick{homePick("alice", g)})

	if !h.coordinator.guard.TryAcquire(week3.String()) {
		t.Fatalf("expected to acquire guard")
	}
	out, err := h.coordinator.CalculateNow(context.Background(), week3, recalc.TriggerAdmin)
	if err != nil {
		t.Fatalf("calculate now: %v", err)
	}
	if !out.Skipped || out.Ran || out.Reason != ReasonAlreadyRunning {
		t.Fatalf("expected skipped outcome, got %+v", out)
	}

	status, err := h.coordinator.Health(context.Background())
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if len(status.Running) != 1 || status.Running[0] != week3 {
		t.Fatalf("expected week to be reported as running, got %+v", status.Running)
	}
}

func TestRecalculationCoordinator_StorageFailureIsRecorded(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g := finalGame("g1", 3, 24, 10)
	games := memory.NewGameRepository([]game.Game{g})
	picks := memory.NewPickRepository([]pick.Pick{homePick("alice", g)})
	standingsRepo := standingsmock.NewRepository(t)
	runs := memory.NewRunStore(5)
	logger := logging.NewNop()

	errStorage := crerr.New("connection reset")
	standingsRepo.
		On("ReplaceWeeklyScores", mock.Anything, week3, mock.Anything).
		Return(errStorage).
		Once()

	calculator := NewWeeklyScoreCalculator(games, picks, standingsRepo, nil, nil, logger)
	breaker := resilience.NewCircuitBreaker(1, time.Minute, 1)
	metrics := newRecordingMetrics()
	coordinator := NewRecalculationCoordinator(calculator, nil, games, runs, breaker, metrics, logger, CoordinatorConfig{})

	out, err := coordinator.CalculateNow(ctx, week3, recalc.TriggerAdmin)
	if !crerr.Is(err, errStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if out.Record == nil || out.Record.State != recalc.StateFailed || out.Record.Error == "" {
		t.Fatalf("expected failed run record, got %+v", out.Record)
	}

	_, err = coordinator.CalculateNow(ctx, week3, recalc.TriggerAdmin)
	if !crerr.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected open breaker to reject run, got %v", err)
	}

	status, err := coordinator.Health(ctx)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if status.Healthy {
		t.Fatalf("expected unhealthy status")
	}
	if status.CircuitState != string(resilience.CircuitStateOpen) {
		t.Fatalf("unexpected circuit state: %s", status.CircuitState)
	}
	if len(status.RecentErrors) != 2 {
		t.Fatalf("unexpected error log size: got=%d want=2", len(status.RecentErrors))
	}
	if len(status.FlaggedWeeks) != 1 || status.FlaggedWeeks[0].Reason != recalc.FlagReasonRunFailed {
		t.Fatalf("expected week flagged as failed, got %+v", status.FlaggedWeeks)
	}
	if status.LastRun == nil || status.LastRun.Succeeded() {
		t.Fatalf("last run must not be reported as successful: %+v", status.LastRun)
	}
	if len(metrics.circuits) != 1 || metrics.circuits[0] != string(resilience.CircuitStateOpen) {
		t.Fatalf("unexpected circuit transitions: %v", metrics.circuits)
	}
	if metrics.runs[recalc.StateFailed] != 2 {
		t.Fatalf("unexpected failed run count: got=%d want=2", metrics.runs[recalc.StateFailed])
	}
}

func TestRecalculationCoordinator_InputErrorsDoNotTripBreaker(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g := finalGame("g1", 3, 24, 10)
	ghost := pick.Pick{ID: "ghost", UserID: "alice", GameID: "missing", Season: 2025, Week: 3}
	h := newHarness(t, []game.Game{g}, []pick.Pick{ghost})
	h.coordinator.breaker = resilience.NewCircuitBreaker(1, time.Minute, 1)

	for i := 0; i < 2; i++ {
		_, err := h.coordinator.CalculateNow(ctx, week3, recalc.TriggerAdmin)
		if !crerr.Is(err, ErrInputInconsistency) {
			t.Fatalf("run %d: expected input inconsistency, got %v", i, err)
		}
	}
	if state := h.coordinator.breaker.State(); state != resilience.CircuitStateClosed {
		t.Fatalf("input errors must not open the breaker, got %s", state)
	}

	out, err := h.coordinator.EnsureScored(ctx, week3, recalc.TriggerSweep)
	if !crerr.Is(err, ErrInputInconsistency) {
		t.Fatalf("expected ensure to surface input inconsistency, got %v", err)
	}
	if !out.Ran || out.Record == nil || out.Record.State != recalc.StateFailed {
		t.Fatalf("expected a recorded failing run, got %+v", out)
	}
}

func TestRecalculationCoordinator_PanicIsRecordedAsFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	games := gamemock.NewRepository(t)
	games.
		On("ListByWeek", mock.Anything, week3).
		Run(func(mock.Arguments) { panic("schedule snapshot corrupted") }).
		Return(nil, nil).
		Once()

	runs := memory.NewRunStore(5)
	logger := logging.NewNop()
	calculator := NewWeeklyScoreCalculator(games, memory.NewPickRepository(nil), memory.NewStandingsRepository(), nil, nil, logger)
	coordinator := NewRecalculationCoordinator(calculator, nil, games, runs, nil, nil, logger, CoordinatorConfig{})

	out, err := coordinator.CalculateNow(ctx, week3, recalc.TriggerAdmin)
	if err == nil || !strings.Contains(err.Error(), "panicked") {
		t.Fatalf("expected panic to surface as error, got %v", err)
	}
	if out.Record == nil || out.Record.State != recalc.StateFailed {
		t.Fatalf("expected failed record, got %+v", out.Record)
	}
	latest, _ := runs.ListLatestRuns(ctx)
	if len(latest) != 1 || latest[0].Succeeded() {
		t.Fatalf("unexpected stored runs: %+v", latest)
	}
}

func TestRecalculationCoordinator_RejectsUnknownTrigger(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil, nil)
	_, err := h.coordinator.CalculateNow(context.Background(), week3, recalc.Trigger("cron"))
	if !crerr.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestRecalculationCoordinator_SweepSeason(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, memory.SeedGames(), memory.SeedPicks())

	result, err := h.coordinator.SweepSeason(ctx, memory.SeedSeason)
	if err != nil {
		t.Fatalf("sweep season: %v", err)
	}
	if len(result.Weeks) != 3 {
		t.Fatalf("unexpected week count: got=%d want=3", len(result.Weeks))
	}
	if result.Calculated != 2 || result.Unchanged != 1 || result.Failed != 0 {
		t.Fatalf("unexpected sweep summary: %+v", result)
	}
	for i, row := range result.Weeks {
		if row.Key.Week != i+1 {
			t.Fatalf("weeks must be ordered, got %+v", result.Weeks)
		}
	}

	winners, _ := h.standings.ListWeeklyWinners(ctx, game.WeekKey{Season: memory.SeedSeason, Week: 1})
	if len(winners) != 1 || winners[0].UserID != "user-alice" || winners[0].IsTie || winners[0].Points != 6 {
		t.Fatalf("unexpected week 1 winners: %+v", winners)
	}
	winners, _ = h.standings.ListWeeklyWinners(ctx, game.WeekKey{Season: memory.SeedSeason, Week: 2})
	if len(winners) != 0 {
		t.Fatalf("week 2 is still live, got winners %+v", winners)
	}

	again, err := h.coordinator.SweepSeason(ctx, memory.SeedSeason)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if again.Calculated != 0 || again.Unchanged != 3 {
		t.Fatalf("second sweep should be a no-op: %+v", again)
	}
}

func TestRecalculationCoordinator_PollLiveOnlyActiveWeeks(t *testing.T) {
	t.Parallel()

	h := newHarness(t, memory.SeedGames(), memory.SeedPicks())
	h.coordinator.now = func() time.Time {
		return time.Date(2025, time.September, 14, 3, 0, 0, 0, time.UTC)
	}

	result, err := h.coordinator.PollLive(context.Background(), memory.SeedSeason)
	if err != nil {
		t.Fatalf("poll live: %v", err)
	}
	if len(result.Weeks) != 1 || result.Weeks[0].Key.Week != 2 {
		t.Fatalf("expected only the live week, got %+v", result.Weeks)
	}
	if result.Weeks[0].Outcome.Trigger != recalc.TriggerLive || !result.Weeks[0].Outcome.Ran {
		t.Fatalf("unexpected live outcome: %+v", result.Weeks[0].Outcome)
	}
}

func TestRecalculationCoordinator_HealthAfterSuccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g := finalGame("g1", 3, 24, 10)
	h := newHarness(t, []game.Game{g}, []pick.Pick{homePick("alice", g)})
	_ = h.runs.Flag(ctx, recalc.FlaggedWeek{Key: week3, Reason: recalc.FlagReasonRunFailed})

	if _, err := h.coordinator.CalculateNow(ctx, week3, recalc.TriggerAdmin); err != nil {
		t.Fatalf("calculate now: %v", err)
	}

	status, err := h.coordinator.Health(ctx)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if !status.Healthy || status.LastRun == nil || !status.LastRun.Succeeded() {
		t.Fatalf("unexpected health: %+v", status)
	}
	if len(status.FlaggedWeeks) != 0 {
		t.Fatalf("successful run must clear the flag, got %+v", status.FlaggedWeeks)
	}
	if status.CircuitState != string(resilience.CircuitStateClosed) {
		t.Fatalf("nil breaker reports closed, got %s", status.CircuitState)
	}
}
