// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

// Package migrate copies content from the local key-value store into
// the remote database. The copy runs as a sequence of per-collection
// steps with completion markers persisted locally, so an interrupted
// run resumes where it stopped instead of starting over. Records keep
// their local ids and timestamps; rows already present remotely are
// left untouched.
package migrate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/futurnod/siteapi/internal/model"
	"github.com/futurnod/siteapi/internal/store/local"
)

// Step names, in execution order. Categories and tags go first so the
// post foreign keys resolve.
const (
	StepCategories = "categories"
	StepTags       = "tags"
	StepPosts      = "blogPosts"
	StepContacts   = "contactSubmissions"
)

var stepOrder = []string{StepCategories, StepTags, StepPosts, StepContacts}

// Stats counts migrated records per collection.
type Stats struct {
	Categories         int `json:"categories"`
	Tags               int `json:"tags"`
	BlogPosts          int `json:"blogPosts"`
	ContactSubmissions int `json:"contactSubmissions"`
}

// Status reports migration progress.
type Status struct {
	InProgress bool   `json:"inProgress"`
	Completed  bool   `json:"completed"`
	Error      string `json:"error,omitempty"`
	Stats      Stats  `json:"stats"`
}

// ProgressFunc receives a status snapshot after every completed step.
type ProgressFunc func(Status)

// state is the persisted migration marker record.
type state struct {
	Completed map[string]bool `json:"completed"`
	Stats     Stats           `json:"stats"`
}

func loadState(ctx context.Context, kv *local.KV) (*state, error) {
	raw, ok, err := kv.Get(ctx, local.KeyMigration)
	if err != nil {
		return nil, err
	}
	st := &state{Completed: map[string]bool{}}
	if !ok {
		return st, nil
	}
	if err := json.Unmarshal([]byte(raw), st); err != nil {
		return nil, fmt.Errorf("decoding migration state: %w", err)
	}
	if st.Completed == nil {
		st.Completed = map[string]bool{}
	}
	return st, nil
}

func saveState(ctx context.Context, kv *local.KV, st *state) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding migration state: %w", err)
	}
	return kv.Put(ctx, local.KeyMigration, string(raw))
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Migrator copies local collections to the remote database.
type Migrator struct {
	kv   *local.KV
	pool *pgxpool.Pool
}

// New creates a migrator. The pool must point at a migrated remote
// schema.
func New(kv *local.KV, pool *pgxpool.Pool) *Migrator {
	return &Migrator{kv: kv, pool: pool}
}

// HasMigratableData reports whether any local collection holds records.
func (m *Migrator) HasMigratableData(ctx context.Context) (bool, error) {
	for _, key := range []string{local.KeyPosts, local.KeyCategories, local.KeyTags, local.KeyContacts} {
		items, err := local.Collection[json.RawMessage](ctx, m.kv, key)
		if err != nil {
			return false, err
		}
		if len(items) > 0 {
			return true, nil
		}
	}
	return false, nil
}

// Status reports persisted migration progress without running anything.
func (m *Migrator) Status(ctx context.Context) (Status, error) {
	st, err := loadState(ctx, m.kv)
	if err != nil {
		return Status{}, err
	}
	return statusOf(st, true), nil
}

// Run executes the migration, skipping steps already marked complete.
// The first failing step stops the run; completed steps stay marked so
// the next run resumes after them.
func (m *Migrator) Run(ctx context.Context, onProgress ProgressFunc) (Status, error) {
	st, err := m.loadAndReport(ctx, onProgress)
	if err != nil {
		return Status{Error: err.Error()}, err
	}

	steps := map[string]func(context.Context) (int, error){
		StepCategories: m.migrateCategories,
		StepTags:       m.migrateTags,
		StepPosts:      m.migratePosts,
		StepContacts:   m.migrateContacts,
	}

	for _, name := range stepOrder {
		if st.Completed[name] {
			slog.Info("migration step already complete, skipping", "step", name)
			continue
		}

		count, err := steps[name](ctx)
		if err != nil {
			slog.Error("migration step failed", "step", name, "error", err)
			status := statusOf(st, false)
			status.Error = err.Error()
			report(onProgress, status)
			return status, fmt.Errorf("migrating %s: %w", name, err)
		}

		st.Completed[name] = true
		setStat(&st.Stats, name, count)
		if err := saveState(ctx, m.kv, st); err != nil {
			return statusOf(st, false), err
		}

		slog.Info("migration step complete", "step", name, "records", count)
		report(onProgress, statusOf(st, false))
	}

	status := statusOf(st, true)
	report(onProgress, status)
	return status, nil
}

func (m *Migrator) loadAndReport(ctx context.Context, onProgress ProgressFunc) (*state, error) {
	st, err := loadState(ctx, m.kv)
	if err != nil {
		return nil, err
	}
	initial := statusOf(st, false)
	initial.InProgress = true
	report(onProgress, initial)
	return st, nil
}

func statusOf(st *state, done bool) Status {
	completed := true
	for _, name := range stepOrder {
		if !st.Completed[name] {
			completed = false
			break
		}
	}
	return Status{
		InProgress: !done && !completed,
		Completed:  completed,
		Stats:      st.Stats,
	}
}

func setStat(stats *Stats, step string, count int) {
	switch step {
	case StepCategories:
		stats.Categories = count
	case StepTags:
		stats.Tags = count
	case StepPosts:
		stats.BlogPosts = count
	case StepContacts:
		stats.ContactSubmissions = count
	}
}

func report(onProgress ProgressFunc, status Status) {
	if onProgress != nil {
		onProgress(status)
	}
}

func (m *Migrator) migrateCategories(ctx context.Context) (int, error) {
	categories, err := local.Collection[model.Category](ctx, m.kv, local.KeyCategories)
	if err != nil {
		return 0, err
	}
	for _, c := range categories {
		if err := m.upsertCategory(ctx, c); err != nil {
			return 0, err
		}
	}
	return len(categories), nil
}

func (m *Migrator) migrateTags(ctx context.Context) (int, error) {
	tags, err := local.Collection[model.Tag](ctx, m.kv, local.KeyTags)
	if err != nil {
		return 0, err
	}
	for _, t := range tags {
		if err := m.upsertTag(ctx, t); err != nil {
			return 0, err
		}
	}
	return len(tags), nil
}

// migratePosts copies posts with their embedded author, category and
// tag copies. Embedded taxonomy entries are reinserted defensively: a
// locally deleted category still lives on inside older posts and must
// exist remotely for the foreign key to hold.
func (m *Migrator) migratePosts(ctx context.Context) (int, error) {
	posts, err := local.Collection[model.Post](ctx, m.kv, local.KeyPosts)
	if err != nil {
		return 0, err
	}

	for _, p := range posts {
		if err := m.upsertAuthor(ctx, p.Author); err != nil {
			return 0, err
		}
		if err := m.upsertCategory(ctx, p.Category); err != nil {
			return 0, err
		}
		for _, t := range p.Tags {
			if err := m.upsertTag(ctx, t); err != nil {
				return 0, err
			}
		}

		sql, args, err := psql.Insert("blog_posts").
			Columns("id", "title", "slug", "excerpt", "content", "author_id", "category_id",
				"featured_image", "status", "created_at", "updated_at", "published_at", "read_time").
			Values(p.ID, p.Title, p.Slug, p.Excerpt, p.Content, p.Author.ID, p.Category.ID,
				p.FeaturedImage, p.Status, p.CreatedAt, p.UpdatedAt, p.PublishedAt, p.ReadTime).
			Suffix("ON CONFLICT (id) DO NOTHING").
			ToSql()
		if err != nil {
			return 0, err
		}
		if _, err := m.pool.Exec(ctx, sql, args...); err != nil {
			return 0, fmt.Errorf("inserting post %s: %w", p.ID, err)
		}

		for _, t := range p.Tags {
			if _, err := m.pool.Exec(ctx,
				`INSERT INTO blog_posts_tags (post_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				p.ID, t.ID); err != nil {
				return 0, fmt.Errorf("inserting post tag %s/%s: %w", p.ID, t.ID, err)
			}
		}
	}
	return len(posts), nil
}

func (m *Migrator) migrateContacts(ctx context.Context) (int, error) {
	subs, err := local.Collection[model.ContactSubmission](ctx, m.kv, local.KeyContacts)
	if err != nil {
		return 0, err
	}
	for _, s := range subs {
		sql, args, err := psql.Insert("contact_submissions").
			Columns("id", "name", "email", "phone", "website", "budget", "company",
				"message", "created_at", "status").
			Values(s.ID, s.Name, s.Email, s.Phone, s.Website, s.Budget, s.Company,
				s.Message, s.CreatedAt, s.Status).
			Suffix("ON CONFLICT (id) DO NOTHING").
			ToSql()
		if err != nil {
			return 0, err
		}
		if _, err := m.pool.Exec(ctx, sql, args...); err != nil {
			return 0, fmt.Errorf("inserting contact submission %s: %w", s.ID, err)
		}
	}
	return len(subs), nil
}

func (m *Migrator) upsertCategory(ctx context.Context, c model.Category) error {
	_, err := m.pool.Exec(ctx,
		`INSERT INTO blog_categories (id, name, slug) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
		c.ID, c.Name, c.Slug)
	if err != nil {
		return fmt.Errorf("inserting category %s: %w", c.ID, err)
	}
	return nil
}

func (m *Migrator) upsertTag(ctx context.Context, t model.Tag) error {
	_, err := m.pool.Exec(ctx,
		`INSERT INTO blog_tags (id, name, slug) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
		t.ID, t.Name, t.Slug)
	if err != nil {
		return fmt.Errorf("inserting tag %s: %w", t.ID, err)
	}
	return nil
}

func (m *Migrator) upsertAuthor(ctx context.Context, a model.Author) error {
	_, err := m.pool.Exec(ctx,
		`INSERT INTO authors (id, name, avatar) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
		a.ID, a.Name, a.Avatar)
	if err != nil {
		return fmt.Errorf("inserting author %s: %w", a.ID, err)
	}
	return nil
}
