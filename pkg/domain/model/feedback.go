package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
)

// MaxSelections is the intended number of metrics per feedback list. It is advisory.
const MaxSelections = 3

// FeedbackID is a unique identifier assigned when feedback is stored
type FeedbackID string

// NewFeedbackID creates a new random FeedbackID
func NewFeedbackID() FeedbackID {
	return FeedbackID(uuid.New().String())
}

// Feedback is a metric evaluation submitted by a user
type Feedback struct {
	ID            FeedbackID         `json:"id,omitempty"`
	Valuable      []types.MetricName `json:"valuable"`
	NotValuable   []types.MetricName `json:"not_valuable"`
	Justification string             `json:"justification"`
	Timestamp     time.Time          `json:"timestamp"`
	ReceivedAt    time.Time          `json:"received_at,omitzero"`
}

// Validate checks metric names in both lists
func (f *Feedback) Validate() error {
	for _, m := range f.Valuable {
		if err := m.Validate(); err != nil {
			return goerr.Wrap(err, "invalid valuable metric")
		}
	}
	for _, m := range f.NotValuable {
		if err := m.Validate(); err != nil {
			return goerr.Wrap(err, "invalid not-valuable metric")
		}
	}
	return nil
}

// ExceedsIntended reports whether either list holds more than MaxSelections metrics
func (f *Feedback) ExceedsIntended() bool {
	return len(f.Valuable) > MaxSelections || len(f.NotValuable) > MaxSelections
}

// Copy returns a deep copy of the feedback
func (f *Feedback) Copy() *Feedback {
	copied := *f
	copied.Valuable = append([]types.MetricName(nil), f.Valuable...)
	copied.NotValuable = append([]types.MetricName(nil), f.NotValuable...)
	return &copied
}
