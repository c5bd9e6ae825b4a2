// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/futurnod/siteapi/internal/model"
	"github.com/futurnod/siteapi/internal/store"
)

// ErrInvalidCredentials is returned for a bad username or password.
// Both cases map to the same error so responses cannot be used to
// probe for valid usernames.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Service verifies credentials against the active user store.
type Service struct {
	users store.Users
}

// NewService creates an authentication service.
func NewService(users store.Users) *Service {
	return &Service{users: users}
}

// Login checks a username and password pair and returns the matching
// user.
func (s *Service) Login(ctx context.Context, username, password string) (*model.AdminUser, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		// Burn a hash verification anyway so the response time does
		// not reveal whether the username exists.
		_, _ = CheckPassword(password, dummyHash)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.Error("verifying password", "error", err, "username", username)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// dummyHash is a valid argon2id hash of a throwaway value, used to
// equalize login timing for unknown usernames.
const dummyHash = "$argon2id$v=19$m=19456,t=2,p=1$AAAAAAAAAAAAAAAAAAAAAA$t0B9Pnc4P6bDpLJ1dNCn0rlvrYdFXOi2eFXnlSNT2Dc"
