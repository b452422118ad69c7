package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/pickem-standings/internal/config"
	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	"github.com/riskibarqy/pickem-standings/internal/domain/recalc"
	"github.com/riskibarqy/pickem-standings/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pickem-standings/internal/platform/logging"
)

const testJobToken = "job-token"

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:                      config.EnvDev,
		ServiceName:                 "pickem-scorer",
		StoreDriver:                 config.StoreMemory,
		DBSeedOnStart:               true,
		OpsHTTPAddr:                 ":0",
		ReadTimeout:                 time.Second,
		WriteTimeout:                time.Second,
		InternalJobToken:            testJobToken,
		ScoringSeasons:              []int{memory.SeedSeason},
		ScoringSweepCron:            "*/15 * * * *",
		ScoringLivePollInterval:     time.Minute,
		ScoringSweepWorkers:         2,
		ScoringLivePollWorkers:      2,
		ScoringRunTimeout:           5 * time.Second,
		ScoringLiveLookback:         12 * time.Hour,
		ScoringErrorLogSize:         10,
		ScoringSchedulerStopTimeout: time.Second,
		StandingsCacheTTL:           time.Minute,
	}
}

func TestBuild_MemoryStoreScoresSeededWeek(t *testing.T) {
	t.Parallel()

	a, err := Build(context.Background(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	defer a.Close()

	outcome, err := a.Coordinator.CalculateNow(context.Background(), game.WeekKey{Season: memory.SeedSeason, Week: 1}, recalc.TriggerAdmin)
	if err != nil {
		t.Fatalf("calculate week 1: %v", err)
	}
	if !outcome.Ran || outcome.Result == nil {
		t.Fatalf("expected a calculation, got %+v", outcome)
	}
	if len(outcome.Result.Winners) != 1 || outcome.Result.Winners[0].UserID != "user-alice" {
		t.Fatalf("unexpected winners: %+v", outcome.Result.Winners)
	}

	srv, err := a.NewHTTPServer()
	if err != nil {
		t.Fatalf("build http server: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/v1/internal/scoring/standings/2025/weeks/1", nil)
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "user-alice") {
		t.Fatalf("expected standings to include user-alice, body=%s", rec.Body.String())
	}
}

func TestBuild_MemoryStoreWithoutSeedIsEmpty(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.DBSeedOnStart = false
	a, err := Build(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	defer a.Close()

	games, err := a.Stores.Games.ListByWeek(context.Background(), game.WeekKey{Season: memory.SeedSeason, Week: 1})
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 0 {
		t.Fatalf("unexpected games: got=%d want=0", len(games))
	}
}

func TestBuild_RejectsUnknownStoreDriver(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.StoreDriver = "sqlite"
	if _, err := Build(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for unknown store driver")
	}
}

func TestNewHTTPServer_RequiresAddr(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.OpsHTTPAddr = ""
	a, err := Build(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	if _, err := a.NewHTTPServer(); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

func TestNewScheduler_RegistersSweepAndLivePoll(t *testing.T) {
	t.Parallel()

	a, err := Build(context.Background(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}

	s, err := a.NewScheduler()
	if err != nil {
		t.Fatalf("build scheduler: %v", err)
	}
	if got := len(s.Entries()); got != 2 {
		t.Fatalf("unexpected entries: got=%d want=2", got)
	}
	if s.IsRunning() {
		t.Fatalf("scheduler should not start on build")
	}
}

func TestNewScheduler_InvalidCron(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.ScoringSweepCron = "not a cron"
	a, err := Build(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	if _, err := a.NewScheduler(); err == nil {
		t.Fatalf("expected error for invalid cron expression")
	}
}
