package standings

import (
	"sort"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
)

// CompareScores orders scores by points descending, then tiebreaker diff
// ascending with a missing diff sorted last, then user id.
func CompareScores(a, b WeeklyScore) int {
	if a.TotalPoints != b.TotalPoints {
		if a.TotalPoints > b.TotalPoints {
			return -1
		}
		return 1
	}
	if c := compareDiff(a.TiebreakerDiff, b.TiebreakerDiff); c != 0 {
		return c
	}
	switch {
	case a.UserID < b.UserID:
		return -1
	case a.UserID > b.UserID:
		return 1
	default:
		return 0
	}
}

func compareDiff(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	default:
		return 0
	}
}

func SortScores(scores []WeeklyScore) {
	sort.SliceStable(scores, func(i, j int) bool {
		return CompareScores(scores[i], scores[j]) < 0
	})
}

// ResolveWinners picks the winners among a week's scores. The caller must
// only call it for a complete week.
//
// When several participants share the top score every winner row carries
// IsTie, even if the tiebreaker narrows them down to one. Candidates without a
// usable tiebreaker diff are dropped as soon as any candidate has one; when
// none has a diff all candidates stay co-winners.
func ResolveWinners(key game.WeekKey, scores []WeeklyScore) []WeeklyWinner {
	if len(scores) == 0 {
		return nil
	}

	maxPoints := scores[0].TotalPoints
	for _, item := range scores[1:] {
		if item.TotalPoints > maxPoints {
			maxPoints = item.TotalPoints
		}
	}

	candidates := make([]WeeklyScore, 0, 1)
	for _, item := range scores {
		if item.TotalPoints == maxPoints {
			candidates = append(candidates, item)
		}
	}

	isTie := len(candidates) > 1
	if isTie {
		candidates = applyTiebreak(candidates)
	}
	SortScores(candidates)

	out := make([]WeeklyWinner, 0, len(candidates))
	for _, item := range candidates {
		out = append(out, WeeklyWinner{
			Season:         key.Season,
			Week:           key.Week,
			UserID:         item.UserID,
			Points:         maxPoints,
			IsTie:          isTie,
			TiebreakerDiff: copyInt(item.TiebreakerDiff),
		})
	}
	return out
}

func applyTiebreak(candidates []WeeklyScore) []WeeklyScore {
	var minDiff *int
	for _, item := range candidates {
		if item.TiebreakerDiff == nil {
			continue
		}
		if minDiff == nil || *item.TiebreakerDiff < *minDiff {
			v := *item.TiebreakerDiff
			minDiff = &v
		}
	}
	if minDiff == nil {
		return candidates
	}

	out := make([]WeeklyScore, 0, len(candidates))
	for _, item := range candidates {
		if item.TiebreakerDiff != nil && *item.TiebreakerDiff == *minDiff {
			out = append(out, item)
		}
	}
	return out
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
