package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/pickem-standings/internal/config"
	"github.com/riskibarqy/pickem-standings/internal/interfaces/httpapi"
	"github.com/riskibarqy/pickem-standings/internal/interfaces/scheduler"
	"github.com/riskibarqy/pickem-standings/internal/observability"
	"github.com/riskibarqy/pickem-standings/internal/platform/logging"
	"github.com/riskibarqy/pickem-standings/internal/platform/resilience"
	"github.com/riskibarqy/pickem-standings/internal/usecase"
)

// App holds the wired scoring engine. Build it once per process and Close it
// on the way out.
type App struct {
	Config      config.Config
	Logger      *logging.Logger
	Stores      Stores
	Coordinator *usecase.RecalculationCoordinator
	Standings   *usecase.StandingsService
}

func Build(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	stores, err := openStores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	// The auditor reads storage directly so drift is never masked by the cache.
	standingsRepo := cachedStandings(stores.Standings, cfg.StandingsCacheTTL)
	auditor := usecase.NewConsistencyAuditor(stores.Games, stores.Picks, stores.Standings, logger)
	resolver := usecase.NewWinnerResolver(stores.Games, standingsRepo, logger)
	calculator := usecase.NewWeeklyScoreCalculator(stores.Games, stores.Picks, standingsRepo, resolver, auditor, logger)

	breaker := resilience.NewCircuitBreakerFromConfig(resilience.CircuitBreakerConfig{
		Enabled:          cfg.ScoringCircuitEnabled,
		FailureThreshold: cfg.ScoringCircuitFailureCount,
		OpenTimeout:      cfg.ScoringCircuitOpenTimeout,
		HalfOpenMaxReq:   cfg.ScoringCircuitHalfOpenMaxReq,
	})

	var metrics usecase.RecalcMetrics
	if cfg.MetricsEnabled {
		metrics = observability.NewRecalcMetrics()
	}

	coordinator := usecase.NewRecalculationCoordinator(
		calculator,
		auditor,
		stores.Games,
		stores.Runs,
		breaker,
		metrics,
		logger,
		usecase.CoordinatorConfig{
			SweepWorkers:    cfg.ScoringSweepWorkers,
			LivePollWorkers: cfg.ScoringLivePollWorkers,
			RunTimeout:      cfg.ScoringRunTimeout,
			LiveLookback:    cfg.ScoringLiveLookback,
		},
	)

	return &App{
		Config:      cfg,
		Logger:      logger,
		Stores:      stores,
		Coordinator: coordinator,
		Standings:   usecase.NewStandingsService(standingsRepo),
	}, nil
}

// NewHTTPServer builds the operator HTTP server.
func (a *App) NewHTTPServer() (*http.Server, error) {
	if a.Config.OpsHTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	var metrics http.Handler
	if a.Config.MetricsEnabled {
		metrics = observability.MetricsHandler()
	}

	handler := httpapi.NewHandler(a.Coordinator, a.Standings, a.Logger)
	router := httpapi.NewRouter(handler, a.Logger, a.Config.InternalJobToken, metrics)

	return &http.Server{
		Addr:         a.Config.OpsHTTPAddr,
		Handler:      router,
		ReadTimeout:  a.Config.ReadTimeout,
		WriteTimeout: a.Config.WriteTimeout,
	}, nil
}

// NewScheduler registers the sweep and live-poll jobs for the configured
// seasons. It does not start them.
func (a *App) NewScheduler() (*scheduler.Scheduler, error) {
	s := scheduler.New(a.Coordinator, a.Config.ScoringSeasons, a.Logger, scheduler.Options{
		GracefulTimeout: a.Config.ScoringSchedulerStopTimeout,
	})
	if err := s.ScheduleSweep(a.Config.ScoringSweepCron); err != nil {
		return nil, fmt.Errorf("schedule sweep: %w", err)
	}
	if a.Config.ScoringLivePollInterval > 0 {
		if err := s.ScheduleLivePoll(a.Config.ScoringLivePollInterval); err != nil {
			return nil, fmt.Errorf("schedule live poll: %w", err)
		}
	}
	return s, nil
}

func (a *App) Close() error {
	return a.Stores.Close()
}
