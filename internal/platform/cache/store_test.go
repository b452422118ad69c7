package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

var errLoad = errors.New("load failed")

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if v != "value" {
				errCh <- errors.New("unexpected loaded value")
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore[int](time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) (int, error) {
		if calls.Add(1) == 1 {
			return 0, errLoad
		}
		return 7, nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); !errors.Is(err, errLoad) {
		t.Fatalf("unexpected first error: %v", err)
	}
	got, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil {
		t.Fatalf("unexpected second error: %v", err)
	}
	if got != 7 {
		t.Fatalf("unexpected value: got=%d want=7", got)
	}
}

func TestStore_EntriesExpire(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	now := time.Date(2025, time.September, 7, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "k", "v")
	if _, ok := store.Get(context.Background(), "k"); !ok {
		t.Fatalf("expected fresh entry")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatalf("expected expired entry")
	}
	if got := store.Len(); got != 0 {
		t.Fatalf("unexpected len after expiry: got=%d want=0", got)
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore[int](0)
	ctx := context.Background()
	store.Set(ctx, "scores:2025-W01", 1)
	store.Set(ctx, "scores:2025-W02", 2)
	store.Set(ctx, "winners:2025-W01", 3)

	store.DeletePrefix(ctx, "scores:")

	if got := store.Len(); got != 1 {
		t.Fatalf("unexpected len: got=%d want=1", got)
	}
	if _, ok := store.Get(ctx, "winners:2025-W01"); !ok {
		t.Fatalf("expected unrelated key to survive")
	}
}

func TestStore_InvalidationDuringLoadIsNotOverwritten(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	ctx := context.Background()
	loading := make(chan struct{})
	release := make(chan struct{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = store.GetOrLoad(ctx, "k", func(context.Context) (string, error) {
			close(loading)
			<-release
			return "stale", nil
		})
	}()

	<-loading
	store.Delete(ctx, "k")
	close(release)
	<-done

	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatalf("load that raced an invalidation must not be cached")
	}
}
