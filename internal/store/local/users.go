// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package local

import (
	"context"
	"log/slog"
	"strings"

	"github.com/futurnod/siteapi/internal/model"
	"github.com/futurnod/siteapi/internal/store"
)

// storedUser is the persisted shape of an admin user. AdminUser hides
// its hash from JSON encoding, so the collection uses its own record
// type that keeps the hash.
type storedUser struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
	Role         string `json:"role"`
}

func (u storedUser) toModel() model.AdminUser {
	return model.AdminUser{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
	}
}

// UserStore implements store.Users over the local key-value store.
type UserStore struct {
	kv *KV
}

// NewUserStore creates a local admin user repository.
func NewUserStore(kv *KV) *UserStore {
	return &UserStore{kv: kv}
}

// List returns all admin users in insertion order.
func (s *UserStore) List(ctx context.Context) ([]model.AdminUser, error) {
	stored, err := Collection[storedUser](ctx, s.kv, KeyUsers)
	if err != nil {
		return nil, store.Failf("fetch admin users", err)
	}
	users := make([]model.AdminUser, len(stored))
	for i, u := range stored {
		users[i] = u.toModel()
	}
	return users, nil
}

// GetByUsername returns the user with the given username, matched
// case-insensitively, or ErrNotFound.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	stored, err := Collection[storedUser](ctx, s.kv, KeyUsers)
	if err != nil {
		return nil, store.Failf("fetch admin user", err)
	}
	for _, u := range stored {
		if strings.EqualFold(u.Username, username) {
			user := u.toModel()
			return &user, nil
		}
	}
	return nil, store.ErrNotFound
}

// Create appends a new admin user. The caller supplies the password
// hash; duplicate usernames are rejected as a validation failure.
func (s *UserStore) Create(ctx context.Context, user model.AdminUser) (*model.AdminUser, error) {
	unlock := s.kv.Lock(KeyUsers)
	defer unlock()

	stored, err := Collection[storedUser](ctx, s.kv, KeyUsers)
	if err != nil {
		return nil, store.Failf("create admin user", err)
	}

	for _, u := range stored {
		if strings.EqualFold(u.Username, user.Username) {
			return nil, store.Validationf("username", "Username already exists")
		}
	}

	if user.ID == "" {
		user.ID = newID("user-")
	}
	stored = append(stored, storedUser{
		ID:           user.ID,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
	})

	if err := SaveCollection(ctx, s.kv, KeyUsers, stored); err != nil {
		slog.Error("saving user collection", "error", err)
		return nil, store.Failf("create admin user", err)
	}
	return &user, nil
}

// Delete removes an admin user by id.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	unlock := s.kv.Lock(KeyUsers)
	defer unlock()

	stored, err := Collection[storedUser](ctx, s.kv, KeyUsers)
	if err != nil {
		return store.Failf("delete admin user", err)
	}

	remaining := stored[:0:0]
	for _, u := range stored {
		if u.ID != id {
			remaining = append(remaining, u)
		}
	}
	if len(remaining) == len(stored) {
		return store.ErrNotFound
	}

	if err := SaveCollection(ctx, s.kv, KeyUsers, remaining); err != nil {
		slog.Error("saving user collection", "error", err)
		return store.Failf("delete admin user", err)
	}
	return nil
}
