package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	"github.com/riskibarqy/pickem-standings/internal/domain/recalc"
	"github.com/riskibarqy/pickem-standings/internal/domain/standings"
	"github.com/riskibarqy/pickem-standings/internal/platform/logging"
	"github.com/riskibarqy/pickem-standings/internal/platform/resilience"
)

const (
	ReasonForced             = "forced"
	ReasonAlreadyRunning     = "already_running"
	ReasonNoPicks            = "no_picks"
	ReasonUpToDate           = "up_to_date"
	ReasonMissingScores      = "missing_scores"
	ReasonDrift              = "drift"
	ReasonStaleRecords       = "stale_records"
	ReasonStaleWinners       = "stale_winners"
	ReasonInputInconsistency = "input_inconsistency"
)

const (
	defaultSweepWorkers   = 4
	defaultLivePollWorker = 4
	defaultLiveLookback   = 12 * time.Hour
)

// RecalcMetrics receives run telemetry. The coordinator works without one.
type RecalcMetrics interface {
	ObserveRun(trigger recalc.Trigger, state recalc.RunState, duration time.Duration)
	RunSkipped(trigger recalc.Trigger, reason string)
	DriftDetected(key game.WeekKey, discrepancies int)
	CircuitStateChanged(state string)
}

type noopRecalcMetrics struct{}

func (noopRecalcMetrics) ObserveRun(recalc.Trigger, recalc.RunState, time.Duration) {}

func (noopRecalcMetrics) RunSkipped(recalc.Trigger, string) {}

func (noopRecalcMetrics) DriftDetected(game.WeekKey, int) {}

func (noopRecalcMetrics) CircuitStateChanged(string) {}

type CoordinatorConfig struct {
	SweepWorkers    int
	LivePollWorkers int
	// RunTimeout bounds a single calculation; zero leaves the caller's deadline.
	RunTimeout time.Duration
	// LiveLookback keeps a week in the live poll after its last kickoff.
	LiveLookback time.Duration
}

func normalizeCoordinatorConfig(cfg CoordinatorConfig) CoordinatorConfig {
	if cfg.SweepWorkers < 1 {
		cfg.SweepWorkers = defaultSweepWorkers
	}
	if cfg.LivePollWorkers < 1 {
		cfg.LivePollWorkers = defaultLivePollWorker
	}
	if cfg.LiveLookback <= 0 {
		cfg.LiveLookback = defaultLiveLookback
	}
	return cfg
}

// RunOutcome describes one coordinator invocation for a week key. Ran is set
// only when a calculation was attempted; Skipped only when another run held
// the key.
type RunOutcome struct {
	Key     game.WeekKey       `json:"key"`
	Trigger recalc.Trigger     `json:"trigger"`
	Ran     bool               `json:"ran"`
	Skipped bool               `json:"skipped"`
	Reason  string             `json:"reason"`
	Record  *recalc.RunRecord  `json:"record,omitempty"`
	Result  *CalculationResult `json:"-"`
}

type WeekOutcome struct {
	Key     game.WeekKey `json:"key"`
	Outcome RunOutcome   `json:"outcome"`
	Error   string       `json:"error,omitempty"`
}

type SweepResult struct {
	Season     int            `json:"season"`
	Trigger    recalc.Trigger `json:"trigger"`
	Weeks      []WeekOutcome  `json:"weeks"`
	Calculated int            `json:"calculated"`
	Unchanged  int            `json:"unchanged"`
	Skipped    int            `json:"skipped"`
	Failed     int            `json:"failed"`
}

// RecalculationCoordinator decides when a week is recalculated, serializes
// runs per week key and keeps the run bookkeeping.
type RecalculationCoordinator struct {
	calculator *WeeklyScoreCalculator
	auditor    *ConsistencyAuditor
	gameRepo   game.Repository
	runStore   recalc.Store
	breaker    *resilience.CircuitBreaker
	metrics    RecalcMetrics
	logger     *logging.Logger
	cfg        CoordinatorConfig

	guard        *resilience.KeyedGuard
	ensureFlight resilience.SingleFlight[RunOutcome]
	now          func() time.Time
	newRunID     func() string
}

func NewRecalculationCoordinator(
	calculator *WeeklyScoreCalculator,
	auditor *ConsistencyAuditor,
	gameRepo game.Repository,
	runStore recalc.Store,
	breaker *resilience.CircuitBreaker,
	metrics RecalcMetrics,
	logger *logging.Logger,
	cfg CoordinatorConfig,
) *RecalculationCoordinator {
	if logger == nil {
		logger = logging.Default()
	}
	if metrics == nil {
		metrics = noopRecalcMetrics{}
	}
	if auditor == nil && calculator != nil {
		auditor = calculator.auditor
	}

	c := &RecalculationCoordinator{
		calculator: calculator,
		auditor:    auditor,
		gameRepo:   gameRepo,
		runStore:   runStore,
		breaker:    breaker,
		metrics:    metrics,
		logger:     logger,
		cfg:        normalizeCoordinatorConfig(cfg),
		guard:      resilience.NewKeyedGuard(),
		now:        time.Now,
		newRunID:   uuid.NewString,
	}

	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		c.metrics.CircuitStateChanged(string(to))
		c.logger.Warn("scoring circuit breaker state changed",
			"from", string(from),
			"to", string(to),
		)
	})
	return c
}

// CalculateNow runs the calculator unconditionally unless another run already
// holds the key. The returned error is the run failure, already recorded.
func (c *RecalculationCoordinator) CalculateNow(ctx context.Context, key game.WeekKey, trigger recalc.Trigger) (RunOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecalculationCoordinator.CalculateNow")
	defer span.End()

	if err := validateWeekKey(key); err != nil {
		return RunOutcome{}, err
	}
	if _, ok := recalc.ParseTrigger(string(trigger)); !ok {
		return RunOutcome{}, crerr.Wrapf(ErrInvalidInput, "unknown trigger %q", trigger)
	}

	return c.calculate(ctx, key, trigger, ReasonForced)
}

// EnsureScored calculates only when picks lack score records or stored
// records drifted from the current data. Concurrent callers for the same key
// share one check.
func (c *RecalculationCoordinator) EnsureScored(ctx context.Context, key game.WeekKey, trigger recalc.Trigger) (RunOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecalculationCoordinator.EnsureScored")
	defer span.End()

	if err := validateWeekKey(key); err != nil {
		return RunOutcome{}, err
	}
	if _, ok := recalc.ParseTrigger(string(trigger)); !ok {
		return RunOutcome{}, crerr.Wrapf(ErrInvalidInput, "unknown trigger %q", trigger)
	}

	out, err, _ := c.ensureFlight.Do("ensure:"+key.String(), func() (RunOutcome, error) {
		return c.ensureOnce(ctx, key, trigger)
	})
	return out, err
}

func (c *RecalculationCoordinator) ensureOnce(ctx context.Context, key game.WeekKey, trigger recalc.Trigger) (RunOutcome, error) {
	report, err := c.auditor.Inspect(ctx, key)
	if err != nil {
		if crerr.Is(err, ErrInputInconsistency) {
			return c.calculate(ctx, key, trigger, ReasonInputInconsistency)
		}
		c.appendError(ctx, recalc.ErrorEntry{
			Key:        key,
			Trigger:    trigger,
			OccurredAt: c.now().UTC(),
			Message:    err.Error(),
		})
		c.logger.ErrorContext(ctx, "ensure scored check failed",
			"week", key.String(),
			"trigger", string(trigger),
			"error", err,
		)
		return RunOutcome{Key: key, Trigger: trigger}, crerr.Wrapf(err, "inspect week=%s", key)
	}

	reason := ensureReason(report)
	switch reason {
	case ReasonNoPicks, ReasonUpToDate:
		c.metrics.RunSkipped(trigger, reason)
		return RunOutcome{Key: key, Trigger: trigger, Reason: reason}, nil
	case ReasonDrift:
		c.metrics.DriftDetected(key, len(report.Discrepancies))
		c.logger.WarnContext(ctx, "recalculating drifted week",
			"week", key.String(),
			"trigger", string(trigger),
			"discrepancies", len(report.Discrepancies),
		)
	}

	return c.calculate(ctx, key, trigger, reason)
}

func ensureReason(report AuditReport) string {
	switch {
	case len(report.MissingParticipants) > 0:
		return ReasonMissingScores
	case len(report.Discrepancies) > 0:
		return ReasonDrift
	case len(report.StaleRecords) > 0:
		return ReasonStaleRecords
	case report.StaleWinners:
		return ReasonStaleWinners
	case !report.HasPicks:
		return ReasonNoPicks
	default:
		return ReasonUpToDate
	}
}

func (c *RecalculationCoordinator) calculate(ctx context.Context, key game.WeekKey, trigger recalc.Trigger, reason string) (RunOutcome, error) {
	guardKey := key.String()
	if !c.guard.TryAcquire(guardKey) {
		c.metrics.RunSkipped(trigger, ReasonAlreadyRunning)
		c.logger.InfoContext(ctx, "recalculation skipped, week already running",
			"week", guardKey,
			"trigger", string(trigger),
		)
		return RunOutcome{Key: key, Trigger: trigger, Skipped: true, Reason: ReasonAlreadyRunning}, nil
	}
	defer c.guard.Release(guardKey)

	record := recalc.RunRecord{
		RunID:     c.newRunID(),
		Key:       key,
		Trigger:   trigger,
		State:     recalc.StateRunning,
		StartedAt: c.now().UTC(),
	}
	c.logger.InfoContext(ctx, "recalculation started",
		"run_id", record.RunID,
		"week", guardKey,
		"trigger", string(trigger),
		"reason", reason,
	)

	runCtx := ctx
	if c.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.cfg.RunTimeout)
		defer cancel()
	}

	var result CalculationResult
	runErr := c.breaker.Execute(func() error {
		var calcErr error
		if recovered := panics.Try(func() {
			result, calcErr = c.calculator.Calculate(runCtx, key)
		}); recovered != nil {
			return crerr.Wrapf(recovered.AsError(), "calculation panicked week=%s", key)
		}
		return calcErr
	}, countsAgainstDependency)
	if crerr.Is(runErr, resilience.ErrCircuitOpen) {
		runErr = crerr.Mark(crerr.Wrapf(runErr, "recalculate week=%s", key), ErrDependencyUnavailable)
	}

	record.Duration = c.now().UTC().Sub(record.StartedAt)
	out := RunOutcome{Key: key, Trigger: trigger, Ran: true, Reason: reason}

	// Bookkeeping outlives the run deadline.
	bookCtx := context.WithoutCancel(ctx)
	if runErr != nil {
		record.State = recalc.StateFailed
		record.Error = runErr.Error()
		c.finishFailed(bookCtx, record)
		out.Record = &record
		return out, runErr
	}

	record.State = recalc.StateSucceeded
	record.ScoresWritten = len(result.Scores)
	record.WinnersWritten = len(result.Winners)
	record.Discrepancies = len(result.Discrepancies)
	c.finishSucceeded(bookCtx, record)

	out.Record = &record
	out.Result = &result
	return out, nil
}

func (c *RecalculationCoordinator) finishFailed(ctx context.Context, record recalc.RunRecord) {
	c.metrics.ObserveRun(record.Trigger, record.State, record.Duration)
	c.logger.ErrorContext(ctx, "recalculation failed",
		"run_id", record.RunID,
		"week", record.Key.String(),
		"trigger", string(record.Trigger),
		"duration", record.Duration,
		"error", record.Error,
	)

	c.saveRun(ctx, record)
	c.appendError(ctx, recalc.ErrorEntry{
		RunID:      record.RunID,
		Key:        record.Key,
		Trigger:    record.Trigger,
		OccurredAt: record.StartedAt.Add(record.Duration),
		Message:    record.Error,
	})
	c.flag(ctx, record.Key, recalc.FlagReasonRunFailed)
}

func (c *RecalculationCoordinator) finishSucceeded(ctx context.Context, record recalc.RunRecord) {
	c.metrics.ObserveRun(record.Trigger, record.State, record.Duration)
	c.logger.InfoContext(ctx, "recalculation finished",
		"run_id", record.RunID,
		"week", record.Key.String(),
		"trigger", string(record.Trigger),
		"duration", record.Duration,
		"scores", record.ScoresWritten,
		"winners", record.WinnersWritten,
		"discrepancies", record.Discrepancies,
	)

	c.saveRun(ctx, record)
	if record.Discrepancies > 0 {
		c.metrics.DriftDetected(record.Key, record.Discrepancies)
		c.flag(ctx, record.Key, recalc.FlagReasonDrift)
		return
	}
	if err := c.runStore.Unflag(ctx, record.Key); err != nil {
		c.logger.WarnContext(ctx, "unflag week failed", "week", record.Key.String(), "error", err)
	}
}

func (c *RecalculationCoordinator) saveRun(ctx context.Context, record recalc.RunRecord) {
	if err := c.runStore.SaveRun(ctx, record); err != nil {
		c.logger.ErrorContext(ctx, "save run record failed",
			"run_id", record.RunID,
			"week", record.Key.String(),
			"error", err,
		)
	}
}

func (c *RecalculationCoordinator) appendError(ctx context.Context, entry recalc.ErrorEntry) {
	if err := c.runStore.AppendError(ctx, entry); err != nil {
		c.logger.ErrorContext(ctx, "append run error failed", "week", entry.Key.String(), "error", err)
	}
}

func (c *RecalculationCoordinator) flag(ctx context.Context, key game.WeekKey, reason string) {
	err := c.runStore.Flag(ctx, recalc.FlaggedWeek{Key: key, Reason: reason, FlaggedAt: c.now().UTC()})
	if err != nil {
		c.logger.WarnContext(ctx, "flag week failed", "week", key.String(), "reason", reason, "error", err)
	}
}

// Verify runs the auditor on demand. Drift flags the week but never rewrites
// scores.
func (c *RecalculationCoordinator) Verify(ctx context.Context, key game.WeekKey) ([]standings.Discrepancy, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecalculationCoordinator.Verify")
	defer span.End()

	discrepancies, err := c.auditor.Verify(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(discrepancies) > 0 {
		c.metrics.DriftDetected(key, len(discrepancies))
		c.flag(ctx, key, recalc.FlagReasonDrift)
	}
	return discrepancies, nil
}

// SweepSeason ensures every week of the season that has games, with a bounded
// worker pool. Per-week failures are reported in the result, not returned.
func (c *RecalculationCoordinator) SweepSeason(ctx context.Context, season int) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecalculationCoordinator.SweepSeason")
	defer span.End()

	if season <= 0 {
		return SweepResult{}, fmt.Errorf("%w: season must be > 0", ErrInvalidInput)
	}

	games, err := c.gameRepo.ListBySeason(ctx, season)
	if err != nil {
		return SweepResult{}, crerr.Wrapf(err, "list games for sweep season=%d", season)
	}
	weeks := game.Weeks(games)

	result := SweepResult{Season: season, Trigger: recalc.TriggerSweep, Weeks: make([]WeekOutcome, 0, len(weeks))}
	if len(weeks) == 0 {
		return result, nil
	}

	workerCount := c.cfg.SweepWorkers
	if workerCount > len(weeks) {
		workerCount = len(weeks)
	}
	workers, err := ants.NewPool(workerCount)
	if err != nil {
		return SweepResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workers.Release()

	results := make(chan WeekOutcome, len(weeks))
	var wg sync.WaitGroup
	for _, week := range weeks {
		key := game.WeekKey{Season: season, Week: week}
		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()
			results <- c.ensureWeek(ctx, key, recalc.TriggerSweep)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return SweepResult{}, fmt.Errorf("submit week to worker pool: %w", err)
		}
	}

	wg.Wait()
	close(results)

	for row := range results {
		result.Weeks = append(result.Weeks, row)
	}
	result.summarize()

	c.logger.InfoContext(ctx, "season sweep finished",
		"season", season,
		"weeks", len(result.Weeks),
		"calculated", result.Calculated,
		"unchanged", result.Unchanged,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

// PollLive ensures the weeks of a season that are being played or finished
// inside the lookback window.
func (c *RecalculationCoordinator) PollLive(ctx context.Context, season int) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecalculationCoordinator.PollLive")
	defer span.End()

	if season <= 0 {
		return SweepResult{}, fmt.Errorf("%w: season must be > 0", ErrInvalidInput)
	}

	games, err := c.gameRepo.ListBySeason(ctx, season)
	if err != nil {
		return SweepResult{}, crerr.Wrapf(err, "list games for live poll season=%d", season)
	}
	weeks := game.ActiveWeeks(games, c.now().UTC(), c.cfg.LiveLookback)

	result := SweepResult{Season: season, Trigger: recalc.TriggerLive}
	p := pool.NewWithResults[WeekOutcome]().WithMaxGoroutines(c.cfg.LivePollWorkers)
	for _, week := range weeks {
		key := game.WeekKey{Season: season, Week: week}
		p.Go(func() WeekOutcome {
			return c.ensureWeek(ctx, key, recalc.TriggerLive)
		})
	}
	result.Weeks = p.Wait()
	if result.Weeks == nil {
		result.Weeks = []WeekOutcome{}
	}
	result.summarize()

	if len(weeks) > 0 {
		c.logger.InfoContext(ctx, "live poll finished",
			"season", season,
			"weeks", len(result.Weeks),
			"calculated", result.Calculated,
			"failed", result.Failed,
		)
	}
	return result, nil
}

func (c *RecalculationCoordinator) ensureWeek(ctx context.Context, key game.WeekKey, trigger recalc.Trigger) WeekOutcome {
	row := WeekOutcome{Key: key}
	out, err := c.EnsureScored(ctx, key, trigger)
	row.Outcome = out
	if err != nil {
		row.Error = err.Error()
	}
	return row
}

func (r *SweepResult) summarize() {
	sort.SliceStable(r.Weeks, func(i, j int) bool {
		return game.CompareWeekKeys(r.Weeks[i].Key, r.Weeks[j].Key) < 0
	})
	for _, row := range r.Weeks {
		switch {
		case row.Error != "":
			r.Failed++
		case row.Outcome.Skipped:
			r.Skipped++
		case row.Outcome.Ran:
			r.Calculated++
		default:
			r.Unchanged++
		}
	}
}

// Health reports the latest run per key, the error log, flagged keys and the
// keys currently running. It is unhealthy while the breaker is open or any
// key's latest run failed.
func (c *RecalculationCoordinator) Health(ctx context.Context) (recalc.HealthStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecalculationCoordinator.Health")
	defer span.End()

	runs, err := c.runStore.ListLatestRuns(ctx)
	if err != nil {
		return recalc.HealthStatus{}, crerr.Wrap(err, "list latest runs")
	}
	recentErrors, err := c.runStore.ListRecentErrors(ctx)
	if err != nil {
		return recalc.HealthStatus{}, crerr.Wrap(err, "list recent errors")
	}
	flagged, err := c.runStore.ListFlagged(ctx)
	if err != nil {
		return recalc.HealthStatus{}, crerr.Wrap(err, "list flagged weeks")
	}

	status := recalc.HealthStatus{
		Healthy:      true,
		Runs:         runs,
		RecentErrors: recentErrors,
		FlaggedWeeks: flagged,
		Running:      make([]game.WeekKey, 0),
		CircuitState: string(c.breaker.State()),
	}

	for i := range runs {
		if !runs[i].Succeeded() {
			status.Healthy = false
		}
		if status.LastRun == nil || runs[i].StartedAt.After(status.LastRun.StartedAt) {
			last := runs[i]
			status.LastRun = &last
		}
	}
	if c.breaker.State() == resilience.CircuitStateOpen {
		status.Healthy = false
	}

	for _, held := range c.guard.Held() {
		key, err := game.ParseWeekKey(held)
		if err != nil {
			continue
		}
		status.Running = append(status.Running, key)
	}
	return status, nil
}
