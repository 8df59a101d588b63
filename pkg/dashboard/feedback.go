package dashboard

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
	"github.com/secmon-lab/qaboard/pkg/utils/logging"
)

// Toggle adds the metric to the chosen list or removes it when already there.
// The two lists are independent; a metric may appear in both.
func (c *Controller) Toggle(sel Selection, m types.MetricName) error {
	if err := m.Validate(); err != nil {
		return goerr.Wrap(err, "cannot toggle metric")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch sel {
	case SelectionNotValuable:
		c.notValuable = toggle(c.notValuable, m)
	default:
		c.valuable = toggle(c.valuable, m)
	}
	return nil
}

// IsSelected reports whether the metric is in the chosen list
func (c *Controller) IsSelected(sel Selection, m types.MetricName) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sel == SelectionNotValuable {
		return contains(c.notValuable, m)
	}
	return contains(c.valuable, m)
}

func (c *Controller) SetJustification(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.justification = text
}

// SubmittingFeedback is true while a feedback submission is in flight
func (c *Controller) SubmittingFeedback() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submittingFeedback
}

// SubmitFeedback posts the current selections and justification stamped with the current time.
// On success the form is reset; on failure it is left untouched.
func (c *Controller) SubmitFeedback(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return goerr.Wrap(ErrClosed, "feedback")
	}
	if c.submittingFeedback {
		c.mu.Unlock()
		return goerr.Wrap(ErrSubmissionInFlight, "feedback")
	}
	feedback := &model.Feedback{
		Valuable:      append([]types.MetricName{}, c.valuable...),
		NotValuable:   append([]types.MetricName{}, c.notValuable...),
		Justification: c.justification,
		Timestamp:     c.now().UTC(),
	}
	c.submittingFeedback = true
	c.mu.Unlock()

	if feedback.ExceedsIntended() {
		logging.From(ctx).Warn("feedback selects more metrics than intended",
			"valuable", len(feedback.Valuable),
			"not_valuable", len(feedback.NotValuable),
		)
	}

	err := c.api.SubmitFeedback(ctx, feedback)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submittingFeedback = false
	if err != nil {
		return goerr.Wrap(err, "failed to submit feedback")
	}

	c.valuable = nil
	c.notValuable = nil
	c.justification = ""
	return nil
}
