// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strings"
	"testing"
)

func TestReadTime(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected int
	}{
		{
			name:     "empty content",
			content:  "",
			expected: 1,
		},
		{
			name:     "single word",
			content:  "hello",
			expected: 1,
		},
		{
			name:     "forty words",
			content:  strings.Repeat("word ", 40),
			expected: 1,
		},
		{
			name:     "exactly 200 words",
			content:  strings.Repeat("word ", 200),
			expected: 1,
		},
		{
			name:     "201 words rounds up",
			content:  strings.Repeat("word ", 201),
			expected: 2,
		},
		{
			name:     "1000 words",
			content:  strings.Repeat("word ", 1000),
			expected: 5,
		},
		{
			name:     "whitespace only",
			content:  "   \n\t  ",
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReadTime(tt.content); got != tt.expected {
				t.Errorf("ReadTime() = %d, want %d", got, tt.expected)
			}
		})
	}
}
