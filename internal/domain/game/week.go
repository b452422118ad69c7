package game

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidWeekKey = errors.New("invalid week key")

// WeekKey identifies one scoring unit.
type WeekKey struct {
	Season int `json:"season"`
	Week   int `json:"week"`
}

func (k WeekKey) Validate() error {
	if k.Season <= 0 {
		return fmt.Errorf("%w: season must be > 0, got %d", ErrInvalidWeekKey, k.Season)
	}
	if k.Week <= 0 {
		return fmt.Errorf("%w: week must be > 0, got %d", ErrInvalidWeekKey, k.Week)
	}
	return nil
}

func (k WeekKey) String() string {
	return fmt.Sprintf("%d-W%02d", k.Season, k.Week)
}

func ParseWeekKey(raw string) (WeekKey, error) {
	season, week, ok := strings.Cut(strings.TrimSpace(raw), "-W")
	if !ok {
		return WeekKey{}, fmt.Errorf("%w: %q", ErrInvalidWeekKey, raw)
	}
	s, err := strconv.Atoi(season)
	if err != nil {
		return WeekKey{}, fmt.Errorf("%w: season in %q: %v", ErrInvalidWeekKey, raw, err)
	}
	w, err := strconv.Atoi(week)
	if err != nil {
		return WeekKey{}, fmt.Errorf("%w: week in %q: %v", ErrInvalidWeekKey, raw, err)
	}
	key := WeekKey{Season: s, Week: w}
	if err := key.Validate(); err != nil {
		return WeekKey{}, err
	}
	return key, nil
}

func CompareWeekKeys(a, b WeekKey) int {
	if a.Season != b.Season {
		return a.Season - b.Season
	}
	return a.Week - b.Week
}

// Weeks returns the distinct weeks present in games, ascending.
func Weeks(games []Game) []int {
	seen := make(map[int]struct{})
	out := make([]int, 0)
	for _, item := range games {
		if _, ok := seen[item.Week]; ok {
			continue
		}
		seen[item.Week] = struct{}{}
		out = append(out, item.Week)
	}
	sort.Ints(out)
	return out
}

// ActiveWeeks returns weeks worth polling while games are being played: a
// week with a live game, or a started week whose last kickoff is inside the
// lookback window so the transition to complete is picked up.
func ActiveWeeks(games []Game, now time.Time, lookback time.Duration) []int {
	type weekState struct {
		live        bool
		started     bool
		lastKickoff time.Time
	}

	states := make(map[int]*weekState)
	for _, item := range games {
		state, ok := states[item.Week]
		if !ok {
			state = &weekState{}
			states[item.Week] = state
		}
		if item.IsLive() {
			state.live = true
		}
		if item.IsLive() || item.IsFinal() || (!item.KickoffAt.IsZero() && !item.KickoffAt.After(now)) {
			state.started = true
		}
		if item.KickoffAt.After(state.lastKickoff) {
			state.lastKickoff = item.KickoffAt
		}
	}

	out := make([]int, 0, len(states))
	for week, state := range states {
		switch {
		case state.live:
			out = append(out, week)
		case state.started && !state.lastKickoff.Before(now.Add(-lookback)):
			out = append(out, week)
		}
	}
	sort.Ints(out)
	return out
}
