// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

// Package notify delivers outbound notification messages. Delivery is
// asynchronous and best-effort: a failed or dropped notification never
// fails the operation that produced it.
package notify

import (
	"context"
	"log/slog"
)

// Message is an outbound notification. ID is assigned at dispatch and
// correlates delivery log lines with the operation that queued it.
type Message struct {
	ID      string `json:"id"`
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the application log instead of
// delivering them. It is the default sender until a mail provider is
// configured.
type LogSender struct{}

// Send logs the message.
func (LogSender) Send(_ context.Context, msg Message) error {
	slog.Info("notification",
		"id", msg.ID,
		"to", msg.To,
		"from", msg.From,
		"subject", msg.Subject,
		"bytes", len(msg.Text),
	)
	return nil
}
