// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// sendTimeout bounds a single delivery attempt.
const sendTimeout = 15 * time.Second

// Dispatcher queues messages and delivers them through a Sender from a
// small worker pool.
type Dispatcher struct {
	sender  Sender
	logger  *slog.Logger
	queue   chan Message
	workers int
	wg      sync.WaitGroup
	done    chan struct{}
	mu      sync.RWMutex
	running bool
}

// Config holds dispatcher configuration.
type Config struct {
	Workers int
}

// NewDispatcher creates a notification dispatcher.
func NewDispatcher(sender Sender, logger *slog.Logger, cfg Config) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		sender:  sender,
		logger:  logger,
		queue:   make(chan Message, 100),
		workers: cfg.Workers,
		done:    make(chan struct{}),
	}
}

// Start starts the delivery workers.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.mu.Unlock()

	d.logger.Info("starting notification dispatcher", "workers", d.workers)
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}
}

// Stop stops the dispatcher and waits for workers to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.mu.Unlock()

	close(d.done)
	d.wg.Wait()
	d.logger.Info("notification dispatcher stopped")
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()

	for {
		select {
		case <-d.done:
			return
		case <-ctx.Done():
			return
		case msg := <-d.queue:
			sendCtx, cancel := context.WithTimeout(context.Background(), sendTimeout)
			if err := d.sender.Send(sendCtx, msg); err != nil {
				d.logger.Error("notification delivery failed",
					"worker_id", id,
					"id", msg.ID,
					"to", msg.To,
					"subject", msg.Subject,
					"error", err,
				)
			}
			cancel()
		}
	}
}

// Dispatch queues a message for delivery, assigning it a delivery id.
// When the queue is full or the dispatcher is not running the message
// is dropped with a warning.
func (d *Dispatcher) Dispatch(msg Message) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	d.mu.RLock()
	running := d.running
	d.mu.RUnlock()

	if !running {
		d.logger.Warn("dispatcher not running, dropping notification",
			"id", msg.ID, "subject", msg.Subject)
		return
	}

	select {
	case d.queue <- msg:
	default:
		d.logger.Warn("notification queue full, dropping message", "subject", msg.Subject)
	}
}
