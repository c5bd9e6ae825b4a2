package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futurnod/siteapi/internal/model"
	"github.com/futurnod/siteapi/internal/store"
)

type stubPosts struct {
	store.Posts
	posts     []model.Post
	listErr   error
	updateErr map[string]error
	published []string
}

func (s *stubPosts) List(_ context.Context, filter model.PostFilter) ([]model.Post, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]model.Post, 0, len(s.posts))
	for i := range s.posts {
		if filter.Matches(&s.posts[i]) {
			out = append(out, s.posts[i])
		}
	}
	return out, nil
}

func (s *stubPosts) Update(_ context.Context, id string, patch model.PostPatch) (*model.Post, error) {
	if err := s.updateErr[id]; err != nil {
		return nil, err
	}
	if patch.Status != nil && *patch.Status == model.PostStatusPublished {
		s.published = append(s.published, id)
	}
	return &model.Post{ID: id}, nil
}

func timePtr(t time.Time) *time.Time { return &t }

func TestProcessDuePosts(t *testing.T) {
	now := time.Now()
	posts := &stubPosts{posts: []model.Post{
		{ID: "due", Status: model.PostStatusScheduled, PublishedAt: timePtr(now.Add(-time.Minute))},
		{ID: "future", Status: model.PostStatusScheduled, PublishedAt: timePtr(now.Add(time.Hour))},
		{ID: "notime", Status: model.PostStatusScheduled},
		{ID: "draft", Status: model.PostStatusDraft, PublishedAt: timePtr(now.Add(-time.Hour))},
	}}

	s := New(posts, slog.Default())
	require.NoError(t, s.ProcessDuePosts(context.Background()))
	assert.Equal(t, []string{"due"}, posts.published)
}

func TestProcessDuePostsContinuesOnFailure(t *testing.T) {
	now := time.Now()
	posts := &stubPosts{
		posts: []model.Post{
			{ID: "bad", Status: model.PostStatusScheduled, PublishedAt: timePtr(now.Add(-time.Minute))},
			{ID: "good", Status: model.PostStatusScheduled, PublishedAt: timePtr(now.Add(-time.Minute))},
		},
		updateErr: map[string]error{"bad": errors.New("backend down")},
	}

	s := New(posts, slog.Default())
	require.NoError(t, s.ProcessDuePosts(context.Background()))
	assert.Equal(t, []string{"good"}, posts.published)
}

func TestProcessDuePostsListError(t *testing.T) {
	posts := &stubPosts{listErr: errors.New("unavailable")}
	s := New(posts, slog.Default())
	assert.Error(t, s.ProcessDuePosts(context.Background()))
}

func TestStartStop(t *testing.T) {
	s := New(&stubPosts{}, slog.Default())
	require.NoError(t, s.Start())
	s.Stop()
}
