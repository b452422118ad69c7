package standings

import "sort"

// WeeklyStanding is one ranked row of a week's table.
type WeeklyStanding struct {
	Rank     int         `json:"rank"`
	Score    WeeklyScore `json:"score"`
	IsWinner bool        `json:"is_winner"`
}

// RankWeek orders scores with CompareScores. Rows that tie on points and
// tiebreaker diff share a rank; the next rank skips accordingly.
func RankWeek(scores []WeeklyScore, winners []WeeklyWinner) []WeeklyStanding {
	ordered := append([]WeeklyScore(nil), scores...)
	SortScores(ordered)

	winnerSet := make(map[string]struct{}, len(winners))
	for _, item := range winners {
		winnerSet[item.UserID] = struct{}{}
	}

	out := make([]WeeklyStanding, 0, len(ordered))
	for i, item := range ordered {
		rank := i + 1
		if i > 0 {
			prev := ordered[i-1]
			if prev.TotalPoints == item.TotalPoints && compareDiff(prev.TiebreakerDiff, item.TiebreakerDiff) == 0 {
				rank = out[i-1].Rank
			}
		}
		_, isWinner := winnerSet[item.UserID]
		out = append(out, WeeklyStanding{
			Rank:     rank,
			Score:    item,
			IsWinner: isWinner,
		})
	}
	return out
}

// SeasonStanding aggregates a participant's weekly records over a season.
type SeasonStanding struct {
	Rank         int    `json:"rank"`
	UserID       string `json:"user_id"`
	Season       int    `json:"season"`
	TotalPoints  int    `json:"total_points"`
	CorrectPicks int    `json:"correct_picks"`
	WeeksPlayed  int    `json:"weeks_played"`
	PerfectWeeks int    `json:"perfect_weeks"`
	WeeklyWins   int    `json:"weekly_wins"`
}

// AggregateSeason sums weekly scores per participant. Ordering is total points
// descending, then weekly wins descending, then user id. Rank is shared on
// equal points and wins.
func AggregateSeason(season int, scores []WeeklyScore, winners []WeeklyWinner) []SeasonStanding {
	byUser := make(map[string]*SeasonStanding)
	get := func(userID string) *SeasonStanding {
		row, ok := byUser[userID]
		if !ok {
			row = &SeasonStanding{UserID: userID, Season: season}
			byUser[userID] = row
		}
		return row
	}

	for _, item := range scores {
		if item.Season != season {
			continue
		}
		row := get(item.UserID)
		row.TotalPoints += item.TotalPoints
		row.CorrectPicks += item.CorrectPicks
		row.WeeksPlayed++
		if item.IsPerfectWeek {
			row.PerfectWeeks++
		}
	}

	wonWeeks := make(map[string]map[int]struct{})
	for _, item := range winners {
		if item.Season != season {
			continue
		}
		weeks, ok := wonWeeks[item.UserID]
		if !ok {
			weeks = make(map[int]struct{})
			wonWeeks[item.UserID] = weeks
		}
		if _, dup := weeks[item.Week]; dup {
			continue
		}
		weeks[item.Week] = struct{}{}
		get(item.UserID).WeeklyWins++
	}

	out := make([]SeasonStanding, 0, len(byUser))
	for _, row := range byUser {
		out = append(out, *row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		if out[i].WeeklyWins != out[j].WeeklyWins {
			return out[i].WeeklyWins > out[j].WeeklyWins
		}
		return out[i].UserID < out[j].UserID
	})

	for i := range out {
		out[i].Rank = i + 1
		if i > 0 && out[i].TotalPoints == out[i-1].TotalPoints && out[i].WeeklyWins == out[i-1].WeeklyWins {
			out[i].Rank = out[i-1].Rank
		}
	}
	return out
}
