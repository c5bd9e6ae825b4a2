// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors WARN and above
// into an event collection in the local store, so operational problems
// survive restarts and are inspectable through the admin API.
package logging

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/futurnod/siteapi/internal/store/local"
)

// Event levels.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories.
const (
	EventCategoryAuth      = "auth"
	EventCategoryPost      = "post"
	EventCategoryContact   = "contact"
	EventCategoryMigration = "migration"
	EventCategoryCache     = "cache"
	EventCategorySystem    = "system"
)

// maxEvents caps the stored event collection. Older events are dropped
// first.
const maxEvents = 500

// Event is one captured log record.
type Event struct {
	Level     string            `json:"level"`
	Category  string            `json:"category"`
	Message   string            `json:"message"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// EventHandler is a slog.Handler that wraps another handler and also
// writes records at or above a threshold level to the event collection.
type EventHandler struct {
	inner slog.Handler
	kv    *local.KV
	level slog.Level
}

// NewEventHandler creates a handler that captures WARN and above.
func NewEventHandler(inner slog.Handler, kv *local.KV) *EventHandler {
	return NewEventHandlerWithLevel(inner, kv, slog.LevelWarn)
}

// NewEventHandlerWithLevel creates a handler with a custom threshold.
func NewEventHandlerWithLevel(inner slog.Handler, kv *local.KV, level slog.Level) *EventHandler {
	return &EventHandler{inner: inner, kv: kv, level: level}
}

// Enabled implements slog.Handler.
func (h *EventHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.writeEvent(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EventHandler{inner: h.inner.WithAttrs(attrs), kv: h.kv, level: h.level}
}

// WithGroup implements slog.Handler.
func (h *EventHandler) WithGroup(name string) slog.Handler {
	return &EventHandler{inner: h.inner.WithGroup(name), kv: h.kv, level: h.level}
}

// Events returns stored events, newest first.
func Events(ctx context.Context, kv *local.KV) ([]Event, error) {
	events, err := local.Collection[Event](ctx, kv, local.KeyEvents)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}

// writeEvent appends a record to the event collection. A background
// context is used so the event is captured even when the request
// context is already cancelled. Storage failures are dropped; logging
// from here would recurse.
func (h *EventHandler) writeEvent(r slog.Record) {
	ctx := context.Background()

	unlock := h.kv.Lock(local.KeyEvents)
	defer unlock()

	events, err := local.Collection[Event](ctx, h.kv, local.KeyEvents)
	if err != nil {
		return
	}

	events = append(events, Event{
		Level:     levelString(r.Level),
		Category:  extractCategory(r),
		Message:   r.Message,
		Metadata:  extractMetadata(r),
		CreatedAt: r.Time,
	})
	if len(events) > maxEvents {
		events = events[len(events)-maxEvents:]
	}

	_ = local.SaveCollection(ctx, h.kv, local.KeyEvents, events)
}

func levelString(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return EventLevelError
	case level >= slog.LevelWarn:
		return EventLevelWarning
	default:
		return EventLevelInfo
	}
}

// extractCategory uses an explicit "category" attribute when present
// and otherwise infers one from the message.
func extractCategory(r slog.Record) string {
	var category string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			category = a.Value.String()
			return false
		}
		return true
	})
	if category != "" {
		return category
	}

	msg := strings.ToLower(r.Message)
	switch {
	case strings.Contains(msg, "auth") || strings.Contains(msg, "login") || strings.Contains(msg, "logout"):
		return EventCategoryAuth
	case strings.Contains(msg, "post"):
		return EventCategoryPost
	case strings.Contains(msg, "contact") || strings.Contains(msg, "notification"):
		return EventCategoryContact
	case strings.Contains(msg, "migrat"):
		return EventCategoryMigration
	case strings.Contains(msg, "cache"):
		return EventCategoryCache
	default:
		return EventCategorySystem
	}
}

func extractMetadata(r slog.Record) map[string]string {
	if r.NumAttrs() == 0 {
		return nil
	}
	meta := make(map[string]string, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		if a.Key != "category" {
			meta[a.Key] = a.Value.String()
		}
		return true
	})
	if len(meta) == 0 {
		return nil
	}
	return meta
}
