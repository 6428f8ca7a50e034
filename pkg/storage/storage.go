package storage

import (
	"time"

	"github.com/karbar/resumeforge/pkg/record"
)

// Store persists resume snapshots and usage counters. Implementations must
// make SaveSnapshot an upsert keyed by user identifier.
type Store interface {
	SaveSnapshot(snap record.Snapshot) error

	SaveFeedback(userID, feedbackJSON string, completedAt time.Time) error

	ListSnapshots(status string) ([]record.Snapshot, error)

	GetSnapshot(userID string) (*record.Snapshot, error)

	UpdateAnalytics(event string) error

	Close() error
}
