// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Admin user roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// AdminUser represents an account that can sign in to the admin area.
// Credentials are stored as argon2id hashes, never in cleartext.
type AdminUser struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

// IsAdmin returns true if the user has admin role.
func (u *AdminUser) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AdminUserForm carries the fields needed to create an admin user.
type AdminUserForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}
