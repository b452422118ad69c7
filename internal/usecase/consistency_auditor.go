package usecase

import (
	"context"
	"sort"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	"github.com/riskibarqy/pickem-standings/internal/domain/pick"
	"github.com/riskibarqy/pickem-standings/internal/domain/standings"
	"github.com/riskibarqy/pickem-standings/internal/platform/logging"
)

// ConsistencyAuditor compares stored scores against a fresh evaluation of the
// current games and picks. It never writes.
type ConsistencyAuditor struct {
	gameRepo      game.Repository
	pickRepo      pick.Repository
	standingsRepo standings.Repository
	logger        *logging.Logger
}

// AuditReport is what the coordinator needs to decide whether a week must be
// recalculated.
type AuditReport struct {
	HasPicks            bool
	WeekComplete        bool
	MissingParticipants []string
	Discrepancies       []standings.Discrepancy
	// StaleRecords lists users whose correct picks match but whose bonus,
	// pick count or tiebreaker fields no longer do.
	StaleRecords []string
	// StaleWinners is set when the winner rows disagree with week completion.
	StaleWinners bool
}

func (r AuditReport) NeedsRecalculation() bool {
	return len(r.MissingParticipants) > 0 ||
		len(r.Discrepancies) > 0 ||
		len(r.StaleRecords) > 0 ||
		r.StaleWinners
}

func NewConsistencyAuditor(
	gameRepo game.Repository,
	pickRepo pick.Repository,
	standingsRepo standings.Repository,
	logger *logging.Logger,
) *ConsistencyAuditor {
	if logger == nil {
		logger = logging.Default()
	}
	return &ConsistencyAuditor{
		gameRepo:      gameRepo,
		pickRepo:      pickRepo,
		standingsRepo: standingsRepo,
		logger:        logger,
	}
}

// Verify reports every stored record whose correct pick count differs from a
// recomputation. A stored user without picks recomputes to zero.
func (a *ConsistencyAuditor) Verify(ctx context.Context, key game.WeekKey) ([]standings.Discrepancy, error) {
	report, err := a.Inspect(ctx, key)
	if err != nil {
		return nil, err
	}
	return report.Discrepancies, nil
}

func (a *ConsistencyAuditor) Inspect(ctx context.Context, key game.WeekKey) (AuditReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ConsistencyAuditor.Inspect")
	defer span.End()

	if err := validateWeekKey(key); err != nil {
		return AuditReport{}, err
	}

	games, err := a.gameRepo.ListByWeek(ctx, key)
	if err != nil {
		return AuditReport{}, crerr.Wrapf(err, "list games for audit week=%s", key)
	}
	picks, err := a.pickRepo.ListByWeek(ctx, key)
	if err != nil {
		return AuditReport{}, crerr.Wrapf(err, "list picks for audit week=%s", key)
	}
	stored, err := a.standingsRepo.ListWeeklyScores(ctx, key)
	if err != nil {
		return AuditReport{}, crerr.Wrapf(err, "list weekly scores for audit week=%s", key)
	}
	winners, err := a.standingsRepo.ListWeeklyWinners(ctx, key)
	if err != nil {
		return AuditReport{}, crerr.Wrapf(err, "list weekly winners for audit week=%s", key)
	}

	completion := game.Summarize(games)
	report := AuditReport{
		HasPicks:      len(picks) > 0,
		WeekComplete:  completion.Complete(),
		Discrepancies: make([]standings.Discrepancy, 0),
	}
	switch {
	case report.WeekComplete && len(stored) > 0 && len(winners) == 0:
		report.StaleWinners = true
	case !report.WeekComplete && len(winners) > 0:
		report.StaleWinners = true
	}

	storedByUser := make(map[string]standings.WeeklyScore, len(stored))
	for _, item := range stored {
		storedByUser[item.UserID] = item
	}
	for _, userID := range pick.Participants(picks) {
		if _, ok := storedByUser[userID]; !ok {
			report.MissingParticipants = append(report.MissingParticipants, userID)
		}
	}

	gamesByID := game.IndexByID(games)
	byUser := pick.GroupByUser(picks)

	scores := append([]standings.WeeklyScore(nil), stored...)
	sort.Slice(scores, func(i, j int) bool { return scores[i].UserID < scores[j].UserID })
	for _, item := range scores {
		outcome, err := standings.Evaluate(byUser[item.UserID], gamesByID)
		if err != nil {
			return AuditReport{}, crerr.Wrapf(markInputError(err), "recompute week=%s user=%s", key, item.UserID)
		}
		if outcome.CorrectPicks == item.CorrectPicks {
			fresh := standings.NewWeeklyScore(item.UserID, key, outcome, completion)
			if !sameScore(fresh, item) {
				report.StaleRecords = append(report.StaleRecords, item.UserID)
			}
			continue
		}
		report.Discrepancies = append(report.Discrepancies, standings.Discrepancy{
			UserID:                 item.UserID,
			StoredCorrectPicks:     item.CorrectPicks,
			RecomputedCorrectPicks: outcome.CorrectPicks,
		})
	}

	if len(report.Discrepancies) > 0 {
		a.logger.WarnContext(ctx, "weekly score drift detected",
			"week", key.String(),
			"discrepancies", len(report.Discrepancies),
		)
	}

	return report, nil
}

func sameScore(a, b standings.WeeklyScore) bool {
	return a.CorrectPicks == b.CorrectPicks &&
		a.TotalPicksMade == b.TotalPicksMade &&
		a.BonusPoints == b.BonusPoints &&
		a.TotalPoints == b.TotalPoints &&
		a.IsPerfectWeek == b.IsPerfectWeek &&
		sameIntPtr(a.TiebreakerPrediction, b.TiebreakerPrediction) &&
		sameIntPtr(a.TiebreakerActual, b.TiebreakerActual) &&
		sameIntPtr(a.TiebreakerDiff, b.TiebreakerDiff)
}

func sameIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
