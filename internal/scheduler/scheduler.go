// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler publishes blog posts whose scheduled time has
// arrived. It runs against whichever post store is active.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/futurnod/siteapi/internal/model"
	"github.com/futurnod/siteapi/internal/store"
)

// Scheduler handles scheduled tasks like publishing posts.
type Scheduler struct {
	posts  store.Posts
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates a new scheduler instance.
func New(posts store.Posts, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		posts:  posts,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start begins the scheduler with a job to check for due posts every minute.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("* * * * *", func() {
		if err := s.ProcessDuePosts(context.Background()); err != nil {
			s.logger.Error("failed to process scheduled posts", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// ProcessDuePosts publishes every scheduled post whose publish time has
// passed. A failure on one post does not block the others.
func (s *Scheduler) ProcessDuePosts(ctx context.Context) error {
	posts, err := s.posts.List(ctx, model.PostFilter{Status: model.PostStatusScheduled})
	if err != nil {
		return err
	}

	now := time.Now()
	for i := range posts {
		post := &posts[i]
		if post.PublishedAt == nil || post.PublishedAt.After(now) {
			continue
		}

		status := model.PostStatusPublished
		if _, err := s.posts.Update(ctx, post.ID, model.PostPatch{Status: &status}); err != nil {
			s.logger.Error("failed to publish scheduled post",
				"post_id", post.ID,
				"post_title", post.Title,
				"error", err,
			)
			continue
		}

		s.logger.Info("published scheduled post",
			"post_id", post.ID,
			"post_title", post.Title,
			"scheduled_at", post.PublishedAt,
		)
	}

	return nil
}
