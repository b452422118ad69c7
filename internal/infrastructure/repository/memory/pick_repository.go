package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	"github.com/riskibarqy/pickem-standings/internal/domain/pick"
)

type PickRepository struct {
	mu    sync.RWMutex
	picks map[string]pick.Pick
}

func NewPickRepository(picks []pick.Pick) *PickRepository {
	items := make(map[string]pick.Pick, len(picks))
	for _, item := range picks {
		items[item.ID] = clonePick(item)
	}
	return &PickRepository{picks: items}
}

func (r *PickRepository) ListByWeek(_ context.Context, key game.WeekKey) ([]pick.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pick.Pick, 0)
	for _, item := range r.picks {
		if item.Season == key.Season && item.Week == key.Week {
			out = append(out, clonePick(item))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		if out[i].GameID != out[j].GameID {
			return out[i].GameID < out[j].GameID
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *PickRepository) Upsert(_ context.Context, item pick.Pick) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.picks[item.ID] = clonePick(item)
	return nil
}

func (r *PickRepository) Delete(_ context.Context, pickID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.picks, pickID)
	return nil
}

func clonePick(p pick.Pick) pick.Pick {
	copied := p
	copied.TiebreakerPrediction = cloneInt(p.TiebreakerPrediction)
	return copied
}
