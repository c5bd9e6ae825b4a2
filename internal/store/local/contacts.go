// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package local

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/futurnod/siteapi/internal/model"
	"github.com/futurnod/siteapi/internal/store"
)

// ContactStore implements store.Contacts over the local key-value store.
// Form shape validation happens in the contact pipeline before the
// store is touched; the store only persists.
type ContactStore struct {
	kv *KV
}

// NewContactStore creates a local contact submission repository.
func NewContactStore(kv *KV) *ContactStore {
	return &ContactStore{kv: kv}
}

// List returns all submissions newest-first.
func (s *ContactStore) List(ctx context.Context) ([]model.ContactSubmission, error) {
	subs, err := Collection[model.ContactSubmission](ctx, s.kv, KeyContacts)
	if err != nil {
		return nil, store.Failf("fetch contact submissions", err)
	}
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].CreatedAt.After(subs[j].CreatedAt)
	})
	return subs, nil
}

// Create persists a submission with status "new".
func (s *ContactStore) Create(ctx context.Context, form model.ContactForm) (*model.ContactSubmission, error) {
	unlock := s.kv.Lock(KeyContacts)
	defer unlock()

	subs, err := Collection[model.ContactSubmission](ctx, s.kv, KeyContacts)
	if err != nil {
		return nil, store.Failf("save contact submission", err)
	}

	sub := model.ContactSubmission{
		ID:        newID("contact-"),
		Name:      form.Name,
		Email:     form.Email,
		Phone:     form.Phone,
		Website:   form.Website,
		Budget:    form.Budget,
		Company:   form.Company,
		Message:   form.Message,
		CreatedAt: time.Now().UTC(),
		Status:    model.ContactStatusNew,
	}

	subs = append(subs, sub)
	if err := SaveCollection(ctx, s.kv, KeyContacts, subs); err != nil {
		slog.Error("saving contact collection", "error", err)
		return nil, store.Failf("save contact submission", err)
	}
	return &sub, nil
}

// UpdateStatus changes the workflow status of a submission.
func (s *ContactStore) UpdateStatus(ctx context.Context, id, status string) error {
	unlock := s.kv.Lock(KeyContacts)
	defer unlock()

	subs, err := Collection[model.ContactSubmission](ctx, s.kv, KeyContacts)
	if err != nil {
		return store.Failf("update contact submission", err)
	}

	for i := range subs {
		if subs[i].ID == id {
			subs[i].Status = status
			if err := SaveCollection(ctx, s.kv, KeyContacts, subs); err != nil {
				slog.Error("saving contact collection", "error", err)
				return store.Failf("update contact submission", err)
			}
			return nil
		}
	}
	return store.ErrNotFound
}

// Delete removes a submission.
func (s *ContactStore) Delete(ctx context.Context, id string) error {
	unlock := s.kv.Lock(KeyContacts)
	defer unlock()

	subs, err := Collection[model.ContactSubmission](ctx, s.kv, KeyContacts)
	if err != nil {
		return store.Failf("delete contact submission", err)
	}

	remaining := subs[:0:0]
	for i := range subs {
		if subs[i].ID != id {
			remaining = append(remaining, subs[i])
		}
	}
	if len(remaining) == len(subs) {
		return store.ErrNotFound
	}

	if err := SaveCollection(ctx, s.kv, KeyContacts, remaining); err != nil {
		slog.Error("saving contact collection", "error", err)
		return store.Failf("delete contact submission", err)
	}
	return nil
}
