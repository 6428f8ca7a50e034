package storage

import (
	"log/slog"
	"time"

	"github.com/karbar/resumeforge/pkg/record"
)

const (
	// DefaultAttempts bounds how many times one save is tried.
	DefaultAttempts = 3
	// DefaultBackoff separates consecutive attempts.
	DefaultBackoff = 500 * time.Millisecond
)

// Retrier wraps a Store so that transient save failures are retried and
// final failures are reported as a boolean rather than an error. The
// conversation must never stall on persistence.
type Retrier struct {
	store    Store
	attempts int
	backoff  time.Duration
	logger   *slog.Logger
}

// NewRetrier wraps store. Non-positive attempts or backoff take defaults.
func NewRetrier(store Store, attempts int, backoff time.Duration, logger *slog.Logger) (r *Retrier) {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	if logger == nil {
		logger = slog.Default()
	}
	r = &Retrier{store: store, attempts: attempts, backoff: backoff, logger: logger}
	return r
}

// SaveSnapshot tries the save with backoff and reports whether it stuck.
func (r *Retrier) SaveSnapshot(snap record.Snapshot) (saved bool) {
	saved = r.try("save snapshot", func() error {
		return r.store.SaveSnapshot(snap)
	})
	return saved
}

// SaveFeedback tries the feedback update with backoff.
func (r *Retrier) SaveFeedback(userID, feedbackJSON string, completedAt time.Time) (saved bool) {
	saved = r.try("save feedback", func() error {
		return r.store.SaveFeedback(userID, feedbackJSON, completedAt)
	})
	return saved
}

// UpdateAnalytics tries the counter bump with backoff.
func (r *Retrier) UpdateAnalytics(event string) (saved bool) {
	saved = r.try("update analytics", func() error {
		return r.store.UpdateAnalytics(event)
	})
	return saved
}

func (r *Retrier) try(op string, fn func() error) (ok bool) {
	var err error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		err = fn()
		if err == nil {
			ok = true
			return ok
		}
		r.logger.Warn("storage operation failed",
			"operation", op, "attempt", attempt, "error", err)
		if attempt < r.attempts {
			time.Sleep(r.backoff)
		}
	}

	r.logger.Error("storage operation gave up", "operation", op, "attempts", r.attempts, "error", err)
	return ok
}
