package app

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/pickem-standings/internal/config"
	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	"github.com/riskibarqy/pickem-standings/internal/domain/pick"
	"github.com/riskibarqy/pickem-standings/internal/domain/recalc"
	"github.com/riskibarqy/pickem-standings/internal/domain/standings"
	"github.com/riskibarqy/pickem-standings/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/pickem-standings/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pickem-standings/internal/infrastructure/repository/postgres"
	basecache "github.com/riskibarqy/pickem-standings/internal/platform/cache"
	"github.com/riskibarqy/pickem-standings/internal/platform/logging"
)

// Stores groups the repositories one storage driver provides. Run records,
// the error log and flags stay in process memory for every driver.
type Stores struct {
	Games     game.Repository
	Picks     pick.Repository
	Standings standings.Repository
	Runs      recalc.Store

	close func() error
}

func (s Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func openStores(ctx context.Context, cfg config.Config, logger *logging.Logger) (Stores, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		return memoryStores(cfg, logger), nil
	case config.StorePostgres:
		return postgresStores(ctx, cfg, logger)
	default:
		return Stores{}, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func memoryStores(cfg config.Config, logger *logging.Logger) Stores {
	var (
		games []game.Game
		picks []pick.Pick
	)
	if cfg.DBSeedOnStart {
		games = memory.SeedGames()
		picks = memory.SeedPicks()
	}
	logger.Info("using in-memory store", "seeded", cfg.DBSeedOnStart, "games", len(games), "picks", len(picks))

	return Stores{
		Games:     memory.NewGameRepository(games),
		Picks:     memory.NewPickRepository(picks),
		Standings: memory.NewStandingsRepository(),
		Runs:      processRunStore(cfg),
	}
}

func postgresStores(ctx context.Context, cfg config.Config, logger *logging.Logger) (Stores, error) {
	db, err := openPostgres(ctx, cfg.DBURL, cfg.DBDisablePreparedBinary)
	if err != nil {
		return Stores{}, err
	}
	if cfg.DBSeedOnStart {
		if err := postgres.BootstrapSeed(ctx, db); err != nil {
			_ = db.Close()
			return Stores{}, fmt.Errorf("seed postgres: %w", err)
		}
	}
	logger.Info("using postgres store", "db_name", dbNameFromURL(cfg.DBURL), "seed_on_start", cfg.DBSeedOnStart)

	return Stores{
		Games:     postgres.NewGameRepository(db),
		Picks:     postgres.NewPickRepository(db),
		Standings: postgres.NewStandingsRepository(db),
		Runs:      processRunStore(cfg),
		close:     db.Close,
	}, nil
}

// processRunStore keeps run bookkeeping local to this process, whichever
// driver holds the scores. Health then reports the same process whose guard
// lists the running weeks.
func processRunStore(cfg config.Config) recalc.Store {
	return memory.NewRunStore(cfg.ScoringErrorLogSize)
}

// cachedStandings wraps repo in a read-through cache. Every writer in the
// process must go through the returned repository for invalidation to hold.
func cachedStandings(repo standings.Repository, ttl time.Duration) standings.Repository {
	if ttl <= 0 {
		return repo
	}
	return cache.NewStandingsRepository(
		repo,
		basecache.NewStore[[]standings.WeeklyScore](ttl),
		basecache.NewStore[[]standings.WeeklyWinner](ttl),
	)
}
