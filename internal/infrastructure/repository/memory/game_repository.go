package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
)

type GameRepository struct {
	mu    sync.RWMutex
	games map[string]game.Game
}

func NewGameRepository(games []game.Game) *GameRepository {
	items := make(map[string]game.Game, len(games))
	for _, item := range games {
		items[item.ID] = cloneGame(item)
	}
	return &GameRepository{games: items}
}

func (r *GameRepository) ListByWeek(_ context.Context, key game.WeekKey) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0)
	for _, item := range r.games {
		if item.Season == key.Season && item.Week == key.Week {
			out = append(out, cloneGame(item))
		}
	}
	sortGames(out)
	return out, nil
}

func (r *GameRepository) ListBySeason(_ context.Context, season int) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0)
	for _, item := range r.games {
		if item.Season == season {
			out = append(out, cloneGame(item))
		}
	}
	sortGames(out)
	return out, nil
}

// Upsert replaces a game by id, the way a schedule feed update would.
func (r *GameRepository) Upsert(_ context.Context, item game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.games[item.ID] = cloneGame(item)
	return nil
}

func sortGames(items []game.Game) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Week != items[j].Week {
			return items[i].Week < items[j].Week
		}
		if !items[i].KickoffAt.Equal(items[j].KickoffAt) {
			return items[i].KickoffAt.Before(items[j].KickoffAt)
		}
		return items[i].ID < items[j].ID
	})
}

func cloneGame(g game.Game) game.Game {
	copied := g
	copied.HomeScore = cloneInt(g.HomeScore)
	copied.VisitorScore = cloneInt(g.VisitorScore)
	return copied
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
