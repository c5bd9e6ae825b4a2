// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "strings"

// WordsPerMinute is the assumed reading speed for read-time estimates.
const WordsPerMinute = 200

// ReadTime estimates the reading time of content in whole minutes.
// The result is ceil(wordCount/200) with a minimum of one minute.
func ReadTime(content string) int {
	words := len(strings.Fields(content))
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
