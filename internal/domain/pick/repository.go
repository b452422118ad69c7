package pick

import (
	"context"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
)

// Repository exposes read access to submitted picks.
type Repository interface {
	ListByWeek(ctx context.Context, key game.WeekKey) ([]Pick, error)
}
