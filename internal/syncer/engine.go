// Package syncer decides what happens to a submission: delivered now,
// parked in the durable queue for later, or rejected back to the caller.
// It is the only place a connectivity failure turns into a recoverable
// queued state.
package syncer

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/hoitkn/processqa/internal/logging"
	"github.com/hoitkn/processqa/internal/queue"
	"github.com/hoitkn/processqa/internal/remote"
	"github.com/hoitkn/processqa/internal/submission"
)

// Status is the terminal state of one submit attempt.
type Status string

const (
	// StatusCommitted means the remote store confirmed the record.
	StatusCommitted Status = "committed"
	// StatusQueued means the remote was unreachable and the record is
	// saved locally, to be synced when connectivity returns.
	StatusQueued Status = "queued"
)

// Result reports one accepted submission.
type Result struct {
	Status    Status
	RemoteID  string // set when Status is StatusCommitted
	ClientRef string // client-generated idempotency key
}

// Engine orchestrates translation, delivery and the offline queue.
type Engine struct {
	writer   remote.Writer
	queue    *queue.Queue
	interval time.Duration
	online   atomic.Bool
}

// New builds an engine. interval is how often Run retries the queue while
// online; zero disables the periodic retry (drains then happen only on
// connectivity-restore events).
func New(writer remote.Writer, q *queue.Queue, interval time.Duration) *Engine {
	e := &Engine{writer: writer, queue: q, interval: interval}
	e.online.Store(true)
	return e
}

// Submit validates and delivers one submission. A validation failure is
// returned to the caller and never queued. A connectivity failure parks the
// submission in the durable queue and reports StatusQueued, which callers
// present as "saved offline, will sync" rather than an error. Any other
// remote failure is terminal and surfaces unchanged.
func (e *Engine) Submit(ctx context.Context, sub submission.Submission) (Result, error) {
	if err := sub.Validate(); err != nil {
		return Result{}, err
	}

	sub = sub.Clone()
	if sub.Get(submission.FieldClientRef) == "" {
		// The idempotency key is attached before the first send and kept
		// across retries, so an ambiguous failure can be deduplicated
		// remotely if the deployment ever grows a dedup key.
		sub.Set(submission.FieldClientRef, uuid.NewString())
	}
	ref := sub.Get(submission.FieldClientRef)

	id, err := e.writer.Submit(ctx, sub)
	switch {
	case err == nil:
		return Result{Status: StatusCommitted, RemoteID: id, ClientRef: ref}, nil
	case remote.IsConnectivity(err):
		if _, qerr := e.queue.Enqueue(sub); qerr != nil {
			return Result{}, qerr
		}
		logging.WithFields(ctx, "client_ref", ref).
			Info("remote unreachable, submission saved offline", "error", err)
		return Result{Status: StatusQueued, ClientRef: ref}, nil
	default:
		return Result{}, err
	}
}

// SetOnline records a connectivity change. A transition to online triggers
// a drain pass.
func (e *Engine) SetOnline(ctx context.Context, online bool) {
	was := e.online.Swap(online)
	if online && !was {
		logging.FromContext(ctx).Info("connectivity restored, draining submission queue")
		if _, err := e.Drain(ctx); err != nil {
			logging.FromContext(ctx).Warn("queue drain incomplete", "error", err)
		}
	}
}

// Online reports the last known connectivity state.
func (e *Engine) Online() bool { return e.online.Load() }

// Drain attempts to deliver every queued submission in enqueue order,
// stopping at the first failure so the remote store never sees records out
// of order. Entries are removed only after confirmed remote success.
func (e *Engine) Drain(ctx context.Context) (queue.DrainResult, error) {
	res, err := e.queue.Drain(ctx, func(ctx context.Context, entry queue.Entry) error {
		_, err := e.writer.Submit(ctx, entry.Fields)
		return err
	})
	if res.Sent > 0 {
		logging.FromContext(ctx).Info("queued submissions synced",
			"sent", res.Sent, "remaining", res.Remaining)
	}
	if err != nil && remote.IsConnectivity(err) {
		e.online.Store(false)
	}
	return res, err
}

// Run retries the queue on a fixed interval while the engine believes it is
// online. It blocks until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	if e.interval <= 0 {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := e.queue.Len()
			if err != nil || n == 0 {
				continue
			}
			if _, err := e.Drain(ctx); err != nil && !remote.IsConnectivity(err) {
				logging.FromContext(ctx).Warn("periodic drain stopped", "error", err)
			}
		}
	}
}
