// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/futurnod/siteapi/internal/logging"
)

// ListEvents returns captured log events, newest first. Events always
// live in the local store, whichever content backend is active.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := logging.Events(r.Context(), h.kv)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}
