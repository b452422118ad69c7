package standings

import (
	"context"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
)

// Repository persists score and winner records. Replace operations swap the
// whole set for a week in one atomic step; rows missing from the new set are
// removed.
type Repository interface {
	ListWeeklyScores(ctx context.Context, key game.WeekKey) ([]WeeklyScore, error)
	ListWeeklyScoresBySeason(ctx context.Context, season int) ([]WeeklyScore, error)
	ReplaceWeeklyScores(ctx context.Context, key game.WeekKey, scores []WeeklyScore) error

	ListWeeklyWinners(ctx context.Context, key game.WeekKey) ([]WeeklyWinner, error)
	ListWeeklyWinnersBySeason(ctx context.Context, season int) ([]WeeklyWinner, error)
	ReplaceWeeklyWinners(ctx context.Context, key game.WeekKey, winners []WeeklyWinner) error
}
