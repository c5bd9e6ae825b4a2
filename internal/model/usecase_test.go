// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUseCaseNormalize(t *testing.T) {
	tests := []struct {
		name           string
		in             UseCase
		wantIndustries []string
		wantIndustry   string
	}{
		{
			name:           "legacy value promoted to array",
			in:             UseCase{Industry: "Healthcare"},
			wantIndustries: []string{"Healthcare"},
			wantIndustry:   "Healthcare",
		},
		{
			name:           "array wins over stale legacy value",
			in:             UseCase{Industries: []string{"Fintech", "Retail"}, Industry: "Healthcare"},
			wantIndustries: []string{"Fintech", "Retail"},
			wantIndustry:   "Fintech",
		},
		{
			name:           "legacy mirror filled from array",
			in:             UseCase{Industries: []string{"Logistics"}},
			wantIndustries: []string{"Logistics"},
			wantIndustry:   "Logistics",
		},
		{
			name:           "both empty stays empty",
			in:             UseCase{},
			wantIndustries: nil,
			wantIndustry:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := tt.in
			uc.Normalize()
			assert.Equal(t, tt.wantIndustries, uc.Industries)
			assert.Equal(t, tt.wantIndustry, uc.Industry)
		})
	}
}

func TestUseCaseNormalizeCategories(t *testing.T) {
	uc := UseCase{Category: "Automation"}
	uc.Normalize()
	assert.Equal(t, []string{"Automation"}, uc.Categories)
	assert.Equal(t, "Automation", uc.Category)

	uc.Categories = []string{"AI", "Automation"}
	uc.Normalize()
	assert.Equal(t, "AI", uc.Category, "legacy field must mirror element zero")
}

func TestUseCaseFormNormalized(t *testing.T) {
	f := UseCaseForm{Industry: "Retail", Categories: []string{"Web"}}
	assert.Equal(t, []string{"Retail"}, f.NormalizedIndustries())
	assert.Equal(t, []string{"Web"}, f.NormalizedCategories())
}

func TestPostFilterMatches(t *testing.T) {
	post := &Post{
		Title:    "Voice Interfaces in 2026",
		Excerpt:  "Where voice UI is heading",
		Content:  "Conversational design is maturing.",
		Category: Category{ID: "cat-1"},
		Tags:     []Tag{{ID: "tag-1", Name: "Voice UI"}},
		Status:   PostStatusPublished,
		Author:   Author{ID: "author-1"},
	}

	assert.True(t, PostFilter{}.Matches(post))
	assert.True(t, PostFilter{Search: "voice"}.Matches(post))
	assert.True(t, PostFilter{Search: "VOICE ui"}.Matches(post), "tag names are searched")
	assert.False(t, PostFilter{Search: "blockchain"}.Matches(post))
	assert.True(t, PostFilter{CategoryID: "cat-1"}.Matches(post))
	assert.False(t, PostFilter{CategoryID: "cat-2"}.Matches(post))
	assert.True(t, PostFilter{TagIDs: []string{"tag-1", "tag-9"}}.Matches(post))
	assert.False(t, PostFilter{TagIDs: []string{"tag-9"}}.Matches(post))
	assert.False(t, PostFilter{Status: PostStatusDraft}.Matches(post))
	assert.True(t, PostFilter{AuthorID: "author-1"}.Matches(post))
}
