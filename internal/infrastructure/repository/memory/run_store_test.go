package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	"github.com/riskibarqy/pickem-standings/internal/domain/recalc"
)

func TestRunStore_ErrorLogDropsOldest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewRunStore(3)
	key := game.WeekKey{Season: 2025, Week: 1}

	for i := 0; i < 5; i++ {
		if err := store.AppendError(ctx, recalc.ErrorEntry{Key: key, Message: fmt.Sprintf("err-%d", i)}); err != nil {
			t.Fatalf("append error: %v", err)
		}
	}

	entries, err := store.ListRecentErrors(ctx)
	if err != nil {
		t.Fatalf("list errors: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("unexpected error log size: got=%d want=3", len(entries))
	}
	for i, want := range []string{"err-2", "err-3", "err-4"} {
		if entries[i].Message != want {
			t.Fatalf("unexpected entry %d: got=%s want=%s", i, entries[i].Message, want)
		}
	}
}

func TestRunStore_LatestRunPerKeyAndFlags(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewRunStore(0)
	week1 := game.WeekKey{Season: 2025, Week: 1}
	week2 := game.WeekKey{Season: 2025, Week: 2}
	now := time.Date(2025, 9, 14, 20, 0, 0, 0, time.UTC)

	_ = store.SaveRun(ctx, recalc.RunRecord{RunID: "a", Key: week2, State: recalc.StateFailed, StartedAt: now})
	_ = store.SaveRun(ctx, recalc.RunRecord{RunID: "b", Key: week1, State: recalc.StateSucceeded, StartedAt: now})
	_ = store.SaveRun(ctx, recalc.RunRecord{RunID: "c", Key: week2, State: recalc.StateSucceeded, StartedAt: now.Add(time.Minute)})

	runs, err := store.ListLatestRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 || runs[0].RunID != "b" || runs[1].RunID != "c" {
		t.Fatalf("unexpected latest runs: %+v", runs)
	}

	_ = store.Flag(ctx, recalc.FlaggedWeek{Key: week2, Reason: recalc.FlagReasonDrift})
	_ = store.Flag(ctx, recalc.FlaggedWeek{Key: week1, Reason: recalc.FlagReasonRunFailed})
	_ = store.Unflag(ctx, week1)

	flagged, err := store.ListFlagged(ctx)
	if err != nil {
		t.Fatalf("list flagged: %v", err)
	}
	if len(flagged) != 1 || flagged[0].Key != week2 {
		t.Fatalf("unexpected flagged weeks: %+v", flagged)
	}
}
