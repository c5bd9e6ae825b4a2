// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package local

import (
	"database/sql"

	"github.com/futurnod/siteapi/internal/store"
)

// NewStores assembles the full local repository set over one database.
func NewStores(db *sql.DB) (store.Stores, *KV) {
	kv := NewKV(db)
	return store.Stores{
		Posts:    NewPostStore(kv),
		Taxonomy: NewTaxonomyStore(kv),
		UseCases: NewUseCaseStore(kv),
		Contacts: NewContactStore(kv),
		Users:    NewUserStore(kv),
	}, kv
}
