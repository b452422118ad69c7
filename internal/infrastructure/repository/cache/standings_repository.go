package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	"github.com/riskibarqy/pickem-standings/internal/domain/standings"
	basecache "github.com/riskibarqy/pickem-standings/internal/platform/cache"
)

// StandingsRepository is a read-through cache over standings records. Replace
// calls go to the wrapped repository first and then drop the week and season
// entries of both record kinds.
type StandingsRepository struct {
	next    standings.Repository
	scores  *basecache.Store[[]standings.WeeklyScore]
	winners *basecache.Store[[]standings.WeeklyWinner]
}

var _ standings.Repository = (*StandingsRepository)(nil)

func NewStandingsRepository(
	next standings.Repository,
	scores *basecache.Store[[]standings.WeeklyScore],
	winners *basecache.Store[[]standings.WeeklyWinner],
) *StandingsRepository {
	return &StandingsRepository{next: next, scores: scores, winners: winners}
}

func weekCacheKey(key game.WeekKey) string {
	return "week:" + key.String()
}

func seasonCacheKey(season int) string {
	return "season:" + strconv.Itoa(season)
}

func (r *StandingsRepository) ListWeeklyScores(ctx context.Context, key game.WeekKey) ([]standings.WeeklyScore, error) {
	items, err := r.scores.GetOrLoad(ctx, weekCacheKey(key), func(ctx context.Context) ([]standings.WeeklyScore, error) {
		return r.next.ListWeeklyScores(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	return cloneScores(items), nil
}

func (r *StandingsRepository) ListWeeklyScoresBySeason(ctx context.Context, season int) ([]standings.WeeklyScore, error) {
	items, err := r.scores.GetOrLoad(ctx, seasonCacheKey(season), func(ctx context.Context) ([]standings.WeeklyScore, error) {
		return r.next.ListWeeklyScoresBySeason(ctx, season)
	})
	if err != nil {
		return nil, err
	}
	return cloneScores(items), nil
}

func (r *StandingsRepository) ReplaceWeeklyScores(ctx context.Context, key game.WeekKey, scores []standings.WeeklyScore) error {
	err := r.next.ReplaceWeeklyScores(ctx, key, scores)
	r.invalidate(ctx, key)
	return err
}

func (r *StandingsRepository) ListWeeklyWinners(ctx context.Context, key game.WeekKey) ([]standings.WeeklyWinner, error) {
	items, err := r.winners.GetOrLoad(ctx, weekCacheKey(key), func(ctx context.Context) ([]standings.WeeklyWinner, error) {
		return r.next.ListWeeklyWinners(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	return append([]standings.WeeklyWinner(nil), items...), nil
}

func (r *StandingsRepository) ListWeeklyWinnersBySeason(ctx context.Context, season int) ([]standings.WeeklyWinner, error) {
	items, err := r.winners.GetOrLoad(ctx, seasonCacheKey(season), func(ctx context.Context) ([]standings.WeeklyWinner, error) {
		return r.next.ListWeeklyWinnersBySeason(ctx, season)
	})
	if err != nil {
		return nil, err
	}
	return append([]standings.WeeklyWinner(nil), items...), nil
}

func (r *StandingsRepository) ReplaceWeeklyWinners(ctx context.Context, key game.WeekKey, winners []standings.WeeklyWinner) error {
	err := r.next.ReplaceWeeklyWinners(ctx, key, winners)
	r.invalidate(ctx, key)
	return err
}

// invalidate drops scores and winners together. A recalculation replaces
// scores and then reads winners, so a winner entry must never outlive the
// scores it was resolved from.
func (r *StandingsRepository) invalidate(ctx context.Context, key game.WeekKey) {
	for _, k := range []string{weekCacheKey(key), seasonCacheKey(key.Season)} {
		r.scores.Delete(ctx, k)
		r.winners.Delete(ctx, k)
	}
}

// cloneScores copies the records so callers cannot mutate cached slices. The
// tiebreaker pointers are shared; nothing writes through them.
func cloneScores(items []standings.WeeklyScore) []standings.WeeklyScore {
	if items == nil {
		return nil
	}
	return append([]standings.WeeklyScore(nil), items...)
}
