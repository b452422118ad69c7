package recalc

import (
	"context"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
)

// Store keeps run bookkeeping. Records are last-write-wins per week key and
// the error log drops its oldest entries once full.
type Store interface {
	SaveRun(ctx context.Context, record RunRecord) error
	ListLatestRuns(ctx context.Context) ([]RunRecord, error)

	AppendError(ctx context.Context, entry ErrorEntry) error
	ListRecentErrors(ctx context.Context) ([]ErrorEntry, error)

	Flag(ctx context.Context, week FlaggedWeek) error
	Unflag(ctx context.Context, key game.WeekKey) error
	ListFlagged(ctx context.Context) ([]FlaggedWeek, error)
}
