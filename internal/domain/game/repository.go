package game

import "context"

// Repository exposes read access to the schedule snapshot.
type Repository interface {
	ListByWeek(ctx context.Context, key WeekKey) ([]Game, error)
	ListBySeason(ctx context.Context, season int) ([]Game, error)
}
