package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	"github.com/riskibarqy/pickem-standings/internal/domain/standings"
)

type StandingsRepository struct {
	mu      sync.RWMutex
	scores  map[game.WeekKey][]standings.WeeklyScore
	winners map[game.WeekKey][]standings.WeeklyWinner
}

func NewStandingsRepository() *StandingsRepository {
	return &StandingsRepository{
		scores:  make(map[game.WeekKey][]standings.WeeklyScore),
		winners: make(map[game.WeekKey][]standings.WeeklyWinner),
	}
}

func (r *StandingsRepository) ListWeeklyScores(_ context.Context, key game.WeekKey) ([]standings.WeeklyScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return cloneScores(r.scores[key]), nil
}

func (r *StandingsRepository) ListWeeklyScoresBySeason(_ context.Context, season int) ([]standings.WeeklyScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]standings.WeeklyScore, 0)
	for _, key := range r.seasonKeys(season) {
		out = append(out, cloneScores(r.scores[key])...)
	}
	return out, nil
}

func (r *StandingsRepository) ReplaceWeeklyScores(_ context.Context, key game.WeekKey, scores []standings.WeeklyScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(scores) == 0 {
		delete(r.scores, key)
		return nil
	}
	items := cloneScores(scores)
	sort.Slice(items, func(i, j int) bool { return items[i].UserID < items[j].UserID })
	r.scores[key] = items
	return nil
}

func (r *StandingsRepository) ListWeeklyWinners(_ context.Context, key game.WeekKey) ([]standings.WeeklyWinner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return cloneWinners(r.winners[key]), nil
}

func (r *StandingsRepository) ListWeeklyWinnersBySeason(_ context.Context, season int) ([]standings.WeeklyWinner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]standings.WeeklyWinner, 0)
	for _, key := range r.seasonKeys(season) {
		out = append(out, cloneWinners(r.winners[key])...)
	}
	return out, nil
}

func (r *StandingsRepository) ReplaceWeeklyWinners(_ context.Context, key game.WeekKey, winners []standings.WeeklyWinner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(winners) == 0 {
		delete(r.winners, key)
		return nil
	}
	r.winners[key] = cloneWinners(winners)
	return nil
}

// seasonKeys must be called with the lock held.
func (r *StandingsRepository) seasonKeys(season int) []game.WeekKey {
	seen := make(map[game.WeekKey]struct{})
	out := make([]game.WeekKey, 0)
	for key := range r.scores {
		if key.Season == season {
			seen[key] = struct{}{}
			out = append(out, key)
		}
	}
	for key := range r.winners {
		if _, ok := seen[key]; !ok && key.Season == season {
			out = append(out, key)
		}
	}
	sort.Slice(out, func(i, j int) bool { return game.CompareWeekKeys(out[i], out[j]) < 0 })
	return out
}

func cloneScores(items []standings.WeeklyScore) []standings.WeeklyScore {
	out := make([]standings.WeeklyScore, 0, len(items))
	for _, item := range items {
		copied := item
		copied.TiebreakerPrediction = cloneInt(item.TiebreakerPrediction)
		copied.TiebreakerActual = cloneInt(item.TiebreakerActual)
		copied.TiebreakerDiff = cloneInt(item.TiebreakerDiff)
		out = append(out, copied)
	}
	return out
}

func cloneWinners(items []standings.WeeklyWinner) []standings.WeeklyWinner {
	out := make([]standings.WeeklyWinner, 0, len(items))
	for _, item := range items {
		copied := item
		copied.TiebreakerDiff = cloneInt(item.TiebreakerDiff)
		out = append(out, copied)
	}
	return out
}
