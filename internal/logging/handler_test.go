package logging

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/futurnod/siteapi/internal/store/local"
)

func testKV(t *testing.T) *local.KV {
	t.Helper()

	db, err := local.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := local.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return local.NewKV(db)
}

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func TestEventHandlerCapturesWarnAndError(t *testing.T) {
	kv := testKV(t)
	logger := slog.New(NewEventHandler(discardHandler{}, kv))

	logger.Error("remote store unreachable", "host", "db.example.com")
	logger.Warn("slow query detected", "duration_ms", 5000)
	logger.Info("server started", "port", 8080)

	events, err := Events(context.Background(), kv)
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	// Newest first.
	if events[0].Level != EventLevelWarning {
		t.Errorf("Level = %q, want %q", events[0].Level, EventLevelWarning)
	}
	if events[1].Level != EventLevelError {
		t.Errorf("Level = %q, want %q", events[1].Level, EventLevelError)
	}
	if events[1].Metadata["host"] != "db.example.com" {
		t.Errorf("Metadata = %v, want host entry", events[1].Metadata)
	}
}

func TestEventHandlerCustomLevel(t *testing.T) {
	kv := testKV(t)
	logger := slog.New(NewEventHandlerWithLevel(discardHandler{}, kv, slog.LevelInfo))

	logger.Info("server started", "port", 8080)

	events, err := Events(context.Background(), kv)
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Level != EventLevelInfo {
		t.Errorf("Level = %q, want %q", events[0].Level, EventLevelInfo)
	}
}

func TestCategoryInference(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"login attempt blocked", EventCategoryAuth},
		{"failed to publish scheduled post", EventCategoryPost},
		{"notification queue full", EventCategoryContact},
		{"migration step failed", EventCategoryMigration},
		{"cache invalidation failed", EventCategoryCache},
		{"unknown failure", EventCategorySystem},
	}

	for _, tc := range tests {
		kv := testKV(t)
		logger := slog.New(NewEventHandler(discardHandler{}, kv))

		logger.Error(tc.message)

		events, err := Events(context.Background(), kv)
		if err != nil {
			t.Fatalf("Events: %v", err)
		}
		if len(events) != 1 {
			t.Fatalf("message %q: expected 1 event, got %d", tc.message, len(events))
		}
		if events[0].Category != tc.want {
			t.Errorf("message %q: Category = %q, want %q", tc.message, events[0].Category, tc.want)
		}
	}
}

func TestExplicitCategoryWins(t *testing.T) {
	kv := testKV(t)
	logger := slog.New(NewEventHandler(discardHandler{}, kv))

	logger.Error("something happened", "category", EventCategoryCache)

	events, err := Events(context.Background(), kv)
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Category != EventCategoryCache {
		t.Errorf("Category = %q, want %q", events[0].Category, EventCategoryCache)
	}
	if _, ok := events[0].Metadata["category"]; ok {
		t.Error("category attribute should not appear in metadata")
	}
}

func TestEventCollectionCapped(t *testing.T) {
	kv := testKV(t)
	logger := slog.New(NewEventHandler(discardHandler{}, kv))

	for i := 0; i < maxEvents+10; i++ {
		logger.Warn("event overflow check")
	}

	events, err := Events(context.Background(), kv)
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != maxEvents {
		t.Errorf("expected %d events after cap, got %d", maxEvents, len(events))
	}
}
