package standings

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	"github.com/riskibarqy/pickem-standings/internal/domain/pick"
)

var (
	ErrUnknownGame   = errors.New("pick references unknown game")
	ErrDuplicatePick = errors.New("duplicate pick for game")
)

// Outcome is the evaluation of one participant's picks against the week's games.
type Outcome struct {
	CorrectPicks         int
	TotalPicksMade       int
	TiebreakerPrediction *int
	TiebreakerActual     *int
	TiebreakerDiff       *int
}

// Evaluate scores one participant's picks. Every submitted pick counts toward
// TotalPicksMade. A pick is correct only when its game is final and the
// selected team strictly outscored the opponent, so a tied final is never
// correct.
func Evaluate(picks []pick.Pick, gamesByID map[string]game.Game) (Outcome, error) {
	var out Outcome
	seen := make(map[string]struct{}, len(picks))

	for _, item := range picks {
		g, ok := gamesByID[item.GameID]
		if !ok {
			return Outcome{}, fmt.Errorf("%w: pick=%s user=%s game=%s", ErrUnknownGame, item.ID, item.UserID, item.GameID)
		}
		if _, dup := seen[item.GameID]; dup {
			return Outcome{}, fmt.Errorf("%w: user=%s game=%s", ErrDuplicatePick, item.UserID, item.GameID)
		}
		seen[item.GameID] = struct{}{}

		out.TotalPicksMade++
		if winner, decided := g.WinningTeamID(); decided && winner == item.SelectedTeamID {
			out.CorrectPicks++
		}

		if !g.IsTiebreaker {
			continue
		}
		if item.TiebreakerPrediction != nil {
			prediction := *item.TiebreakerPrediction
			out.TiebreakerPrediction = &prediction
		}
		if actual, final := g.CombinedScore(); final {
			out.TiebreakerActual = &actual
			if out.TiebreakerPrediction != nil {
				diff := absInt(*out.TiebreakerPrediction - actual)
				out.TiebreakerDiff = &diff
			}
		}
	}

	return out, nil
}

// NewWeeklyScore applies the perfect week bonus and builds the full record.
func NewWeeklyScore(userID string, key game.WeekKey, outcome Outcome, completion game.Completion) WeeklyScore {
	perfect := completion.Complete() &&
		outcome.TotalPicksMade == completion.Total &&
		outcome.CorrectPicks == completion.Total

	bonus := 0
	if perfect {
		bonus = PerfectWeekBonus
	}

	return WeeklyScore{
		UserID:               userID,
		Season:               key.Season,
		Week:                 key.Week,
		CorrectPicks:         outcome.CorrectPicks,
		TotalPicksMade:       outcome.TotalPicksMade,
		BonusPoints:          bonus,
		TotalPoints:          outcome.CorrectPicks + bonus,
		TiebreakerPrediction: outcome.TiebreakerPrediction,
		TiebreakerActual:     outcome.TiebreakerActual,
		TiebreakerDiff:       outcome.TiebreakerDiff,
		IsPerfectWeek:        perfect,
	}
}

// ScoreWeek computes one score per participant with at least one pick,
// ordered by user id. Any malformed pick fails the whole week.
func ScoreWeek(key game.WeekKey, games []game.Game, picks []pick.Pick) ([]WeeklyScore, game.Completion, error) {
	completion := game.Summarize(games)
	gamesByID := game.IndexByID(games)
	byUser := pick.GroupByUser(picks)

	scores := make([]WeeklyScore, 0, len(byUser))
	for _, userID := range pick.Participants(picks) {
		outcome, err := Evaluate(byUser[userID], gamesByID)
		if err != nil {
			return nil, completion, err
		}
		scores = append(scores, NewWeeklyScore(userID, key, outcome, completion))
	}
	return scores, completion, nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
