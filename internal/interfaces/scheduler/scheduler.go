package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/riskibarqy/pickem-standings/internal/platform/logging"
	"github.com/riskibarqy/pickem-standings/internal/usecase"
)

const (
	minLivePollInterval    = 5 * time.Second
	defaultGracefulTimeout = 30 * time.Second
)

// SeasonRunner is the coordinator surface the periodic triggers drive.
type SeasonRunner interface {
	SweepSeason(ctx context.Context, season int) (usecase.SweepResult, error)
	PollLive(ctx context.Context, season int) (usecase.SweepResult, error)
}

// Scheduler owns the sweep and live-poll cron entries. A job that is still
// running when its next tick fires is skipped.
type Scheduler struct {
	cron    *cron.Cron
	runner  SeasonRunner
	seasons []int
	logger  *logging.Logger

	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	jobTimeout      time.Duration
	gracefulTimeout time.Duration
}

type Options struct {
	// JobTimeout bounds one sweep or poll across all seasons; zero means none.
	JobTimeout      time.Duration
	GracefulTimeout time.Duration
}

func New(runner SeasonRunner, seasons []int, logger *logging.Logger, opts Options) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	if opts.GracefulTimeout <= 0 {
		opts.GracefulTimeout = defaultGracefulTimeout
	}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		runner:          runner,
		seasons:         append([]int(nil), seasons...),
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		jobTimeout:      opts.JobTimeout,
		gracefulTimeout: opts.GracefulTimeout,
	}
}

func (s *Scheduler) ScheduleSweep(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, func() {
		ctx, cancel := s.jobContext()
		defer cancel()
		s.RunSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("add sweep job %q: %w", cronExpression, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.Info("scheduled season sweep", "cron", cronExpression, "seasons", s.seasons)
	return nil
}

func (s *Scheduler) ScheduleLivePoll(interval time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if interval < minLivePollInterval {
		interval = minLivePollInterval
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		ctx, cancel := s.jobContext()
		defer cancel()
		s.RunLivePoll(ctx)
	})
	if err != nil {
		return fmt.Errorf("add live poll job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.Info("scheduled live poll", "interval", interval.String(), "seasons", s.seasons)
	return nil
}

func (s *Scheduler) jobContext() (context.Context, context.CancelFunc) {
	if s.jobTimeout > 0 {
		return context.WithTimeout(context.Background(), s.jobTimeout)
	}
	return context.WithCancel(context.Background())
}

// RunSweep sweeps every configured season once. Failures are logged; the next
// tick retries.
func (s *Scheduler) RunSweep(ctx context.Context) {
	for _, season := range s.seasons {
		result, err := s.runner.SweepSeason(ctx, season)
		if err != nil {
			s.logger.ErrorContext(ctx, "season sweep failed", "season", season, "error", err)
			continue
		}
		s.logger.InfoContext(ctx, "season sweep finished",
			"season", season,
			"weeks", len(result.Weeks),
			"calculated", result.Calculated,
			"failed", result.Failed,
		)
	}
}

func (s *Scheduler) RunLivePoll(ctx context.Context) {
	for _, season := range s.seasons {
		result, err := s.runner.PollLive(ctx, season)
		if err != nil {
			s.logger.ErrorContext(ctx, "live poll failed", "season", season, "error", err)
			continue
		}
		if len(result.Weeks) > 0 {
			s.logger.DebugContext(ctx, "live poll finished",
				"season", season,
				"weeks", len(result.Weeks),
				"calculated", result.Calculated,
				"failed", result.Failed,
			)
		}
	}
}

func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.Info("scheduler started", "jobs", len(s.jobIDs))
	return nil
}

// Stop waits for running jobs up to the graceful timeout.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	done := s.cron.Stop().Done()
	s.isRunning = false
	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler stop timed out after %s", s.gracefulTimeout)
	}
}

func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}
	return entries
}
