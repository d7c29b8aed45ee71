package cache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"vfaq/internal/platform/cache"
	perr "vfaq/internal/platform/errors"
	"vfaq/internal/platform/testkit"
)

func TestGetCachesWithinTTL(t *testing.T) {
	calls := 0
	c := cache.New(func(context.Context) (int, error) {
		calls++
		return 42, nil
	}, time.Minute)

	for i := 0; i < 5; i++ {
		v, err := c.Get(context.Background())
		testkit.MustNoErr(t, err)
		if v != 42 {
			t.Fatalf("expected 42, got %d", v)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one supplier call, got %d", calls)
	}
}

func TestGetReloadsAfterExpiry(t *testing.T) {
	now := time.Now()
	calls := 0
	c := cache.New(func(context.Context) (int, error) {
		calls++
		return calls, nil
	}, time.Minute, cache.WithClock[int](func() time.Time { return now }))

	v, err := c.Get(context.Background())
	testkit.MustNoErr(t, err)
	if v != 1 {
		t.Fatalf("first load: got %d", v)
	}

	// step past the deadline and read again
	now = now.Add(2 * time.Minute)
	v, err = c.Get(context.Background())
	testkit.MustNoErr(t, err)
	if v != 2 || calls != 2 {
		t.Fatalf("expected reload, got v=%d calls=%d", v, calls)
	}
}

func TestInvalidateForcesReload(t *testing.T) {
	calls := 0
	c := cache.New(func(context.Context) (int, error) {
		calls++
		return calls, nil
	}, time.Hour)

	_, _ = c.Get(context.Background())
	c.Invalidate()
	v, err := c.Get(context.Background())
	testkit.MustNoErr(t, err)
	if v != 2 || calls != 2 {
		t.Fatalf("expected supplier re-invocation, got v=%d calls=%d", v, calls)
	}
}

func TestInvalidateAndGet(t *testing.T) {
	calls := 0
	c := cache.New(func(context.Context) (int, error) {
		calls++
		return calls, nil
	}, time.Hour)

	_, _ = c.Get(context.Background())
	v, err := c.InvalidateAndGet(context.Background())
	testkit.MustNoErr(t, err)
	if v != 2 {
		t.Fatalf("expected fresh value, got %d", v)
	}
}

func TestSupplierErrorNotCached(t *testing.T) {
	calls := 0
	c := cache.New(func(context.Context) ([]string, error) {
		calls++
		if calls == 1 {
			return nil, perr.Upstreamf("boom")
		}
		return []string{"ok"}, nil
	}, time.Hour)

	_, err := c.Get(context.Background())
	testkit.MustErr(t, err)

	v, err := c.Get(context.Background())
	testkit.MustNoErr(t, err)
	if len(v) != 1 || calls != 2 {
		t.Fatalf("expected recovery on second call, got v=%v calls=%d", v, calls)
	}
}

func TestRejectedValueNotCached(t *testing.T) {
	calls := 0
	c := cache.New(func(context.Context) ([]string, error) {
		calls++
		return nil, nil
	}, time.Hour, cache.Reject(func(v []string) bool { return v == nil }))

	_, err := c.Get(context.Background())
	testkit.MustErr(t, err)
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}

	_, _ = c.Get(context.Background())
	if calls != 2 {
		t.Fatalf("rejected value must not be cached; calls=%d", calls)
	}
}

func TestNilSupplierPanics(t *testing.T) {
	testkit.MustPanic(t, func() { cache.New[int](nil, time.Minute) })
}

func TestConcurrentGets(t *testing.T) {
	c := cache.New(func(context.Context) (int, error) { return 7, nil }, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Get(context.Background())
			if err != nil || v != 7 {
				t.Errorf("got v=%d err=%v", v, err)
			}
		}()
	}
	wg.Wait()
}
