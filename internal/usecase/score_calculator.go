package usecase

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	"github.com/riskibarqy/pickem-standings/internal/domain/pick"
	"github.com/riskibarqy/pickem-standings/internal/domain/standings"
	"github.com/riskibarqy/pickem-standings/internal/platform/logging"
)

// WeeklyScoreCalculator rebuilds every score record of a week, then resolves
// winners and audits the result.
type WeeklyScoreCalculator struct {
	gameRepo      game.Repository
	pickRepo      pick.Repository
	standingsRepo standings.Repository
	resolver      *WinnerResolver
	auditor       *ConsistencyAuditor
	logger        *logging.Logger
}

type CalculationResult struct {
	Key                 game.WeekKey
	Completion          game.Completion
	Scores              []standings.WeeklyScore
	Winners             []standings.WeeklyWinner
	StaleWinnersCleared bool
	Discrepancies       []standings.Discrepancy
}

func (r CalculationResult) WeekComplete() bool {
	return r.Completion.Complete()
}

func NewWeeklyScoreCalculator(
	gameRepo game.Repository,
	pickRepo pick.Repository,
	standingsRepo standings.Repository,
	resolver *WinnerResolver,
	auditor *ConsistencyAuditor,
	logger *logging.Logger,
) *WeeklyScoreCalculator {
	if logger == nil {
		logger = logging.Default()
	}
	if resolver == nil {
		resolver = NewWinnerResolver(gameRepo, standingsRepo, logger)
	}
	if auditor == nil {
		auditor = NewConsistencyAuditor(gameRepo, pickRepo, standingsRepo, logger)
	}
	return &WeeklyScoreCalculator{
		gameRepo:      gameRepo,
		pickRepo:      pickRepo,
		standingsRepo: standingsRepo,
		resolver:      resolver,
		auditor:       auditor,
		logger:        logger,
	}
}

// Calculate fails as a whole on any error; scores are written in a single
// replace so a failure never leaves part of a week updated.
func (c *WeeklyScoreCalculator) Calculate(ctx context.Context, key game.WeekKey) (CalculationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WeeklyScoreCalculator.Calculate")
	defer span.End()

	if err := validateWeekKey(key); err != nil {
		return CalculationResult{}, err
	}

	games, err := c.gameRepo.ListByWeek(ctx, key)
	if err != nil {
		return CalculationResult{}, crerr.Wrapf(err, "list games week=%s", key)
	}
	picks, err := c.pickRepo.ListByWeek(ctx, key)
	if err != nil {
		return CalculationResult{}, crerr.Wrapf(err, "list picks week=%s", key)
	}

	scores, completion, err := standings.ScoreWeek(key, games, picks)
	if err != nil {
		return CalculationResult{}, crerr.Wrapf(markInputError(err), "score week=%s", key)
	}

	if err := c.standingsRepo.ReplaceWeeklyScores(ctx, key, scores); err != nil {
		return CalculationResult{}, crerr.Wrapf(err, "replace weekly scores week=%s", key)
	}

	result := CalculationResult{
		Key:        key,
		Completion: completion,
		Scores:     scores,
	}

	if completion.Complete() {
		resolution, err := c.resolver.ResolveWinners(ctx, key)
		if err != nil {
			return CalculationResult{}, err
		}
		result.Winners = resolution.Winners
	} else {
		cleared, err := c.clearStaleWinners(ctx, key)
		if err != nil {
			return CalculationResult{}, err
		}
		result.StaleWinnersCleared = cleared
	}

	discrepancies, err := c.auditor.Verify(ctx, key)
	if err != nil {
		return CalculationResult{}, crerr.Wrapf(err, "verify week=%s", key)
	}
	result.Discrepancies = discrepancies

	c.logger.InfoContext(ctx, "weekly scores calculated",
		"week", key.String(),
		"participants", len(scores),
		"games_total", completion.Total,
		"games_final", completion.Final,
		"winners", len(result.Winners),
		"discrepancies", len(discrepancies),
	)
	return result, nil
}

// clearStaleWinners drops winner rows left behind by a week that was complete
// and has since been reopened. The delete is issued even when the read finds
// nothing, since another process may have written winners after that read
// was cached.
func (c *WeeklyScoreCalculator) clearStaleWinners(ctx context.Context, key game.WeekKey) (bool, error) {
	existing, err := c.standingsRepo.ListWeeklyWinners(ctx, key)
	if err != nil {
		return false, crerr.Wrapf(err, "list weekly winners week=%s", key)
	}
	if err := c.standingsRepo.ReplaceWeeklyWinners(ctx, key, nil); err != nil {
		return false, crerr.Wrapf(err, "clear stale weekly winners week=%s", key)
	}
	if len(existing) == 0 {
		return false, nil
	}
	c.logger.WarnContext(ctx, "cleared winners of reopened week",
		"week", key.String(),
		"winners", len(existing),
	)
	return true, nil
}
