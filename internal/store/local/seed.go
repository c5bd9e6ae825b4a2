// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package local

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/futurnod/siteapi/internal/auth"
	"github.com/futurnod/siteapi/internal/model"
	"github.com/futurnod/siteapi/internal/util"
)

// Seed initializes empty collections with starter content: a default
// admin account and a small set of categories and tags. Collections
// that already hold data are left alone, so Seed is safe to run on
// every startup.
func Seed(ctx context.Context, kv *KV) error {
	if err := seedUsers(ctx, kv); err != nil {
		return err
	}
	if err := seedTaxonomy(ctx, kv); err != nil {
		return err
	}
	return nil
}

// seedUsers creates the default admin account when no users exist.
// The default credentials are meant for first login only and should be
// rotated immediately in any shared deployment.
func seedUsers(ctx context.Context, kv *KV) error {
	unlock := kv.Lock(KeyUsers)
	defer unlock()

	users, err := Collection[storedUser](ctx, kv, KeyUsers)
	if err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}
	if len(users) > 0 {
		return nil
	}

	hash, err := auth.HashPassword("admin123")
	if err != nil {
		return fmt.Errorf("hashing default password: %w", err)
	}

	users = append(users, storedUser{
		ID:           newID("user-"),
		Username:     "admin",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	})
	if err := SaveCollection(ctx, kv, KeyUsers, users); err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}

	slog.Warn("created default admin account, change its password", "username", "admin")
	return nil
}

// seedTaxonomy populates starter categories and tags when both
// collections are empty.
func seedTaxonomy(ctx context.Context, kv *KV) error {
	unlockCategories := kv.Lock(KeyCategories)
	defer unlockCategories()
	unlockTags := kv.Lock(KeyTags)
	defer unlockTags()

	categories, err := Collection[model.Category](ctx, kv, KeyCategories)
	if err != nil {
		return fmt.Errorf("seeding categories: %w", err)
	}
	tags, err := Collection[model.Tag](ctx, kv, KeyTags)
	if err != nil {
		return fmt.Errorf("seeding tags: %w", err)
	}
	if len(categories) > 0 || len(tags) > 0 {
		return nil
	}

	for _, name := range []string{"Technology", "Business", "Design"} {
		categories = append(categories, model.Category{
			ID:   newID("category_"),
			Name: name,
			Slug: util.Slugify(name),
		})
	}
	for _, name := range []string{"AI", "Automation", "Web Development", "Strategy"} {
		tags = append(tags, model.Tag{
			ID:   newID("tag_"),
			Name: name,
			Slug: util.Slugify(name),
		})
	}

	if err := SaveCollection(ctx, kv, KeyCategories, categories); err != nil {
		return fmt.Errorf("seeding categories: %w", err)
	}
	if err := SaveCollection(ctx, kv, KeyTags, tags); err != nil {
		return fmt.Errorf("seeding tags: %w", err)
	}

	slog.Info("seeded starter taxonomy", "categories", len(categories), "tags", len(tags))
	return nil
}
