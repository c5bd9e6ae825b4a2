// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// ContactStatusNew is the status assigned to fresh submissions.
const ContactStatusNew = "new"

// ContactSubmission represents a captured contact form submission.
type ContactSubmission struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Website   string    `json:"website,omitempty"`
	Budget    string    `json:"budget"`
	Company   string    `json:"company,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	Status    string    `json:"status"`
}

// ContactForm carries the fields of an incoming contact form.
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Website string `json:"website,omitempty"`
	Budget  string `json:"budget"`
	Company string `json:"company,omitempty"`
	Message string `json:"message"`
}
