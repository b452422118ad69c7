package pick

import "sort"

// Pick is one participant's selection for a single game.
type Pick struct {
	ID                   string
	UserID               string
	GameID               string
	SelectedTeamID       string
	TiebreakerPrediction *int
	Season               int
	Week                 int
}

func GroupByUser(picks []Pick) map[string][]Pick {
	out := make(map[string][]Pick)
	for _, item := range picks {
		out[item.UserID] = append(out[item.UserID], item)
	}
	return out
}

// Participants lists users with at least one pick, sorted.
func Participants(picks []Pick) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, item := range picks {
		if _, ok := seen[item.UserID]; ok {
			continue
		}
		seen[item.UserID] = struct{}{}
		out = append(out, item.UserID)
	}
	sort.Strings(out)
	return out
}
