// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application including Post, UseCase, ContactSubmission and AdminUser.
package model

import "time"

// Post statuses
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusScheduled = "scheduled"
)

// DefaultFeaturedImage is used when a post or use case is created without one.
const DefaultFeaturedImage = "https://images.unsplash.com/photo-1579546929518-9e396f3cc809?w=800&q=80"

// Author identifies the writer of a blog post.
type Author struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// DefaultAuthor is the author attached to posts created through the local
// fallback store, which has no authors collection.
func DefaultAuthor() Author {
	return Author{
		ID:     "current_user",
		Name:   "Current User",
		Avatar: "https://api.dicebear.com/7.x/avataaars/svg?seed=currentuser",
	}
}

// Post represents a blog post.
type Post struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content"`
	Author        Author     `json:"author"`
	Category      Category   `json:"category"`
	Tags          []Tag      `json:"tags"`
	FeaturedImage string     `json:"featuredImage"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	PublishedAt   *time.Time `json:"publishedAt"`
	ReadTime      int        `json:"readTime"`
}

// IsPublished returns true if the post is published.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// HasTag returns true if the post carries any of the given tag ids.
func (p *Post) HasTag(tagIDs []string) bool {
	for _, t := range p.Tags {
		for _, id := range tagIDs {
			if t.ID == id {
				return true
			}
		}
	}
	return false
}

// PostForm carries the fields needed to create a post.
type PostForm struct {
	Title         string     `json:"title"`
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content"`
	CategoryID    string     `json:"categoryId"`
	TagIDs        []string   `json:"tagIds"`
	FeaturedImage string     `json:"featuredImage"`
	Status        string     `json:"status"`
	PublishedAt   *time.Time `json:"publishedAt"`
}

// PostPatch carries a partial update; nil fields are left unchanged.
type PostPatch struct {
	Title         *string    `json:"title,omitempty"`
	Excerpt       *string    `json:"excerpt,omitempty"`
	Content       *string    `json:"content,omitempty"`
	CategoryID    *string    `json:"categoryId,omitempty"`
	TagIDs        *[]string  `json:"tagIds,omitempty"`
	FeaturedImage *string    `json:"featuredImage,omitempty"`
	Status        *string    `json:"status,omitempty"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
}

// PostFilter narrows List results. Zero values mean "no constraint".
type PostFilter struct {
	Search     string
	CategoryID string
	TagIDs     []string
	Status     string
	AuthorID   string
	Page       int
	Limit      int
}

// Matches reports whether a post satisfies every non-zero filter field
// except pagination. Used by the local store and for tag filtering after
// a remote fetch.
func (f PostFilter) Matches(p *Post) bool {
	if f.Search != "" {
		term := toLower(f.Search)
		if !containsFold(p.Title, term) && !containsFold(p.Excerpt, term) &&
			!containsFold(p.Content, term) && !tagNameMatches(p.Tags, term) {
			return false
		}
	}
	if f.CategoryID != "" && p.Category.ID != f.CategoryID {
		return false
	}
	if len(f.TagIDs) > 0 && !p.HasTag(f.TagIDs) {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.AuthorID != "" && p.Author.ID != f.AuthorID {
		return false
	}
	return true
}
