package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	"github.com/riskibarqy/pickem-standings/internal/domain/recalc"
)

const defaultErrorLogSize = 50

// RunStore keeps run bookkeeping in process memory. The error log is a
// bounded FIFO; the oldest entry is dropped once it is full.
type RunStore struct {
	mu        sync.RWMutex
	latest    map[game.WeekKey]recalc.RunRecord
	errors    []recalc.ErrorEntry
	errorsCap int
	flagged   map[game.WeekKey]recalc.FlaggedWeek
}

func NewRunStore(errorLogSize int) *RunStore {
	if errorLogSize < 1 {
		errorLogSize = defaultErrorLogSize
	}
	return &RunStore{
		latest:    make(map[game.WeekKey]recalc.RunRecord),
		errors:    make([]recalc.ErrorEntry, 0, errorLogSize),
		errorsCap: errorLogSize,
		flagged:   make(map[game.WeekKey]recalc.FlaggedWeek),
	}
}

func (s *RunStore) SaveRun(_ context.Context, record recalc.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest[record.Key] = record
	return nil
}

func (s *RunStore) ListLatestRuns(_ context.Context) ([]recalc.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]recalc.RunRecord, 0, len(s.latest))
	for _, record := range s.latest {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return game.CompareWeekKeys(out[i].Key, out[j].Key) < 0 })
	return out, nil
}

func (s *RunStore) AppendError(_ context.Context, entry recalc.ErrorEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.errors) == s.errorsCap {
		copy(s.errors, s.errors[1:])
		s.errors = s.errors[:len(s.errors)-1]
	}
	s.errors = append(s.errors, entry)
	return nil
}

// ListRecentErrors returns the error log oldest first.
func (s *RunStore) ListRecentErrors(_ context.Context) ([]recalc.ErrorEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]recalc.ErrorEntry, 0, len(s.errors))
	return append(out, s.errors...), nil
}

func (s *RunStore) Flag(_ context.Context, week recalc.FlaggedWeek) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flagged[week.Key] = week
	return nil
}

func (s *RunStore) Unflag(_ context.Context, key game.WeekKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.flagged, key)
	return nil
}

func (s *RunStore) ListFlagged(_ context.Context) ([]recalc.FlaggedWeek, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]recalc.FlaggedWeek, 0, len(s.flagged))
	for _, week := range s.flagged {
		out = append(out, week)
	}
	sort.Slice(out, func(i, j int) bool { return game.CompareWeekKeys(out[i].Key, out[j].Key) < 0 })
	return out, nil
}
