// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

// Package contact implements the contact form pipeline: validate the
// form, persist the submission, then queue the admin notification.
// Notification failure never fails the submission.
package contact

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/futurnod/siteapi/internal/model"
	"github.com/futurnod/siteapi/internal/notify"
	"github.com/futurnod/siteapi/internal/store"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate checks the shape of an incoming contact form. The first
// violation wins.
func Validate(form model.ContactForm) error {
	if len(strings.TrimSpace(form.Name)) < 2 {
		return store.Validationf("name", "Name is required")
	}
	if !emailPattern.MatchString(form.Email) {
		return store.Validationf("email", "Please enter a valid email address")
	}
	if len(strings.TrimSpace(form.Phone)) < 6 {
		return store.Validationf("phone", "Phone number is required")
	}
	if strings.TrimSpace(form.Budget) == "" {
		return store.Validationf("budget", "Please select a budget range")
	}
	if len(strings.TrimSpace(form.Message)) < 10 {
		return store.Validationf("message", "Please tell us how we can help you (min 10 characters)")
	}
	return nil
}

// Service handles contact form submissions.
type Service struct {
	contacts   store.Contacts
	dispatcher *notify.Dispatcher
	adminEmail string
	fromEmail  string
}

// NewService creates the contact submission service.
func NewService(contacts store.Contacts, dispatcher *notify.Dispatcher, adminEmail, fromEmail string) *Service {
	return &Service{
		contacts:   contacts,
		dispatcher: dispatcher,
		adminEmail: adminEmail,
		fromEmail:  fromEmail,
	}
}

// Submit runs the pipeline for one submission. Validation failures
// stop the pipeline before any persistence; once the submission is
// saved, delivery problems are the dispatcher's concern.
func (s *Service) Submit(ctx context.Context, form model.ContactForm) (*model.ContactSubmission, error) {
	if err := Validate(form); err != nil {
		return nil, err
	}

	sub, err := s.contacts.Create(ctx, form)
	if err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(s.formatNotification(form, sub.CreatedAt))
	return sub, nil
}

// formatNotification renders the admin notification for a submission.
func (s *Service) formatNotification(form model.ContactForm, submittedAt time.Time) notify.Message {
	website := orNotProvided(form.Website)
	company := orNotProvided(form.Company)
	stamp := submittedAt.Format(time.RFC1123)

	text := fmt.Sprintf(`New Contact Form Submission
--------------------------
Name: %s
Email: %s
Phone: %s
Website: %s
Budget: %s
Company: %s

Message:
%s

Submitted at: %s
`, form.Name, form.Email, form.Phone, website, form.Budget, company, form.Message, stamp)

	htmlBody := fmt.Sprintf(`<h2>New Contact Form Submission</h2>
<table border="0" cellpadding="5">
<tr><td><strong>Name:</strong></td><td>%s</td></tr>
<tr><td><strong>Email:</strong></td><td>%s</td></tr>
<tr><td><strong>Phone:</strong></td><td>%s</td></tr>
<tr><td><strong>Website:</strong></td><td>%s</td></tr>
<tr><td><strong>Budget:</strong></td><td>%s</td></tr>
<tr><td><strong>Company:</strong></td><td>%s</td></tr>
</table>
<h3>Message:</h3>
<p>%s</p>
<p><em>Submitted at: %s</em></p>
`,
		html.EscapeString(form.Name),
		html.EscapeString(form.Email),
		html.EscapeString(form.Phone),
		html.EscapeString(website),
		html.EscapeString(form.Budget),
		html.EscapeString(company),
		strings.ReplaceAll(html.EscapeString(form.Message), "\n", "<br>"),
		stamp,
	)

	return notify.Message{
		To:      s.adminEmail,
		From:    s.fromEmail,
		Subject: "New Contact Form Submission from " + form.Name,
		Text:    text,
		HTML:    htmlBody,
	}
}

func orNotProvided(v string) string {
	if strings.TrimSpace(v) == "" {
		return "Not provided"
	}
	return v
}
