package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type widget struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestTypedCacheRoundTrip(t *testing.T) {
	mem := NewMemoryCache(time.Minute)
	defer mem.Close()
	tc := NewTypedCache[widget](mem, time.Minute)
	ctx := context.Background()

	if _, ok := tc.Get(ctx, "w"); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	want := widget{Name: "gear", Count: 3}
	if err := tc.Set(ctx, "w", &want); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok := tc.Get(ctx, "w")
	if !ok {
		t.Fatal("expected hit")
	}
	if *got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestTypedCacheGetOrSet(t *testing.T) {
	mem := NewMemoryCache(time.Minute)
	defer mem.Close()
	tc := NewTypedCache[widget](mem, time.Minute)
	ctx := context.Background()

	calls := 0
	load := func() (*widget, error) {
		calls++
		return &widget{Name: "sprocket"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := tc.GetOrSet(ctx, "w", load)
		if err != nil {
			t.Fatalf("GetOrSet: %v", err)
		}
		if got.Name != "sprocket" {
			t.Errorf("got %q", got.Name)
		}
	}
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}
}

func TestTypedCacheGetOrSetError(t *testing.T) {
	mem := NewMemoryCache(time.Minute)
	defer mem.Close()
	tc := NewTypedCache[widget](mem, time.Minute)

	wantErr := errors.New("boom")
	_, err := tc.GetOrSet(context.Background(), "w", func() (*widget, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("got %v, want %v", err, wantErr)
	}
}

func TestTypedCacheCorruptEntryIsMiss(t *testing.T) {
	mem := NewMemoryCache(time.Minute)
	defer mem.Close()
	ctx := context.Background()

	_ = mem.Set(ctx, "w", []byte("{not json"), 0)

	tc := NewTypedCache[widget](mem, time.Minute)
	if _, ok := tc.Get(ctx, "w"); ok {
		t.Error("corrupt entry should be a miss")
	}
}
