// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Collection keys. These match the browser-local storage keys of the
// system this store replaces, so existing exports remain readable.
const (
	KeyPosts      = "blog_posts"
	KeyCategories = "blog_categories"
	KeyTags       = "blog_tags"
	KeyUseCases   = "usecases"
	KeyContacts   = "contactSubmissions"
	KeyUsers      = "admin_users"
	KeyEvents     = "events"
	KeyMigration  = "migration_state"
)

// KV is a synchronous string-keyed store persisted in SQLite. Writers
// perform read-modify-write cycles over whole collections, so a
// per-key mutex serializes them; without it two near-simultaneous
// writers would overwrite each other's snapshot.
type KV struct {
	db    *sql.DB
	locks sync.Map // key -> *sync.Mutex
}

// NewKV wraps an opened local database.
func NewKV(db *sql.DB) *KV {
	return &KV{db: db}
}

// Lock acquires the mutex for a collection key and returns its release
// function.
func (kv *KV) Lock(key string) func() {
	v, _ := kv.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Get returns the raw value stored under key. The second return is
// false when the key is absent. Values holding the literal strings
// "undefined" or "null" are treated as corrupted: the key is deleted
// and reported as absent so the collection reinitializes empty.
func (kv *KV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := kv.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading key %q: %w", key, err)
	}

	if value == "undefined" || value == "null" {
		slog.Warn("corrupted local storage value, resetting key", "key", key)
		if err := kv.Delete(ctx, key); err != nil {
			return "", false, err
		}
		return "", false, nil
	}

	return value, true, nil
}

// Put stores a raw value under key, replacing any previous value.
func (kv *KV) Put(ctx context.Context, key, value string) error {
	_, err := kv.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting an absent key is a no-op.
func (kv *KV) Delete(ctx context.Context, key string) error {
	if _, err := kv.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting key %q: %w", key, err)
	}
	return nil
}

// Collection unmarshals the JSON array stored under key. An absent key
// yields an empty slice.
func Collection[T any](ctx context.Context, kv *KV, key string) ([]T, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decoding collection %q: %w", key, err)
	}
	return items, nil
}

// SaveCollection marshals items as a JSON array under key.
func SaveCollection[T any](ctx context.Context, kv *KV, key string, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding collection %q: %w", key, err)
	}
	return kv.Put(ctx, key, string(raw))
}

var (
	idMu   sync.Mutex
	lastID int64
)

// newID synthesizes a local record id from the entity prefix and the
// current epoch milliseconds, kept strictly monotonic so rapid
// successive creates never collide.
func newID(prefix string) string {
	idMu.Lock()
	defer idMu.Unlock()
	now := time.Now().UnixMilli()
	if now <= lastID {
		now = lastID + 1
	}
	lastID = now
	return fmt.Sprintf("%s%d", prefix, now)
}
