package usecase

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	"github.com/riskibarqy/pickem-standings/internal/domain/standings"
	"github.com/riskibarqy/pickem-standings/internal/platform/logging"
)

// WinnerResolver declares the winners of a complete week from its stored
// scores.
type WinnerResolver struct {
	gameRepo      game.Repository
	standingsRepo standings.Repository
	logger        *logging.Logger
}

type WinnerResolution struct {
	Key          game.WeekKey
	WeekComplete bool
	Winners      []standings.WeeklyWinner
}

func NewWinnerResolver(gameRepo game.Repository, standingsRepo standings.Repository, logger *logging.Logger) *WinnerResolver {
	if logger == nil {
		logger = logging.Default()
	}
	return &WinnerResolver{
		gameRepo:      gameRepo,
		standingsRepo: standingsRepo,
		logger:        logger,
	}
}

// ResolveWinners leaves winner rows untouched while the week is incomplete.
// For a complete week it replaces the whole winner set, writing an empty set
// when nobody has a score.
func (r *WinnerResolver) ResolveWinners(ctx context.Context, key game.WeekKey) (WinnerResolution, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WinnerResolver.ResolveWinners")
	defer span.End()

	if err := validateWeekKey(key); err != nil {
		return WinnerResolution{}, err
	}

	games, err := r.gameRepo.ListByWeek(ctx, key)
	if err != nil {
		return WinnerResolution{}, crerr.Wrapf(err, "list games for winners week=%s", key)
	}

	out := WinnerResolution{Key: key}
	completion := game.Summarize(games)
	if !completion.Complete() {
		r.logger.DebugContext(ctx, "week incomplete, winners not resolved",
			"week", key.String(),
			"games_total", completion.Total,
			"games_final", completion.Final,
		)
		return out, nil
	}
	out.WeekComplete = true

	scores, err := r.standingsRepo.ListWeeklyScores(ctx, key)
	if err != nil {
		return WinnerResolution{}, crerr.Wrapf(err, "list weekly scores for winners week=%s", key)
	}

	winners := standings.ResolveWinners(key, scores)
	if err := r.standingsRepo.ReplaceWeeklyWinners(ctx, key, winners); err != nil {
		return WinnerResolution{}, crerr.Wrapf(err, "replace weekly winners week=%s", key)
	}
	if winners == nil {
		winners = []standings.WeeklyWinner{}
	}
	out.Winners = winners
	return out, nil
}
