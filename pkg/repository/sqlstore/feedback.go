package sqlstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
)

type feedbackRepository struct {
	db *sqlx.DB
}

type feedbackRow struct {
	ID            string `db:"id"`
	Valuable      string `db:"valuable"`
	NotValuable   string `db:"not_valuable"`
	Justification string `db:"justification"`
	SubmittedAt   int64  `db:"submitted_at"`
	ReceivedAt    int64  `db:"received_at"`
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *model.Feedback) (*model.Feedback, error) {
	created := feedback.Copy()
	if created.ID == "" {
		created.ID = model.NewFeedbackID()
	}
	if created.ReceivedAt.IsZero() {
		created.ReceivedAt = time.Now().UTC()
	}
	if created.Timestamp.IsZero() {
		created.Timestamp = created.ReceivedAt
	}

	valuable, err := json.Marshal(nonNil(created.Valuable))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode valuable metrics")
	}
	notValuable, err := json.Marshal(nonNil(created.NotValuable))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode not-valuable metrics")
	}

	row := feedbackRow{
		ID:            string(created.ID),
		Valuable:      string(valuable),
		NotValuable:   string(notValuable),
		Justification: created.Justification,
		SubmittedAt:   created.Timestamp.UnixNano(),
		ReceivedAt:    created.ReceivedAt.UnixNano(),
	}
	query := `INSERT INTO feedback (id, valuable, not_valuable, justification, submitted_at, received_at)
		VALUES (:id, :valuable, :not_valuable, :justification, :submitted_at, :received_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return nil, goerr.Wrap(err, "failed to insert feedback", goerr.V("id", created.ID))
	}

	return row.toModel()
}

func (r *feedbackRepository) List(ctx context.Context) ([]*model.Feedback, error) {
	var rows []feedbackRow
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT id, valuable, not_valuable, justification, submitted_at, received_at FROM feedback ORDER BY received_at, id`); err != nil {
		return nil, goerr.Wrap(err, "failed to select feedback")
	}

	list := make([]*model.Feedback, 0, len(rows))
	for i := range rows {
		f, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, nil
}

func (row *feedbackRow) toModel() (*model.Feedback, error) {
	f := &model.Feedback{
		ID:            model.FeedbackID(row.ID),
		Justification: row.Justification,
		Timestamp:     time.Unix(0, row.SubmittedAt).UTC(),
		ReceivedAt:    time.Unix(0, row.ReceivedAt).UTC(),
	}
	if err := json.Unmarshal([]byte(row.Valuable), &f.Valuable); err != nil {
		return nil, goerr.Wrap(err, "failed to decode valuable metrics", goerr.V("id", row.ID))
	}
	if err := json.Unmarshal([]byte(row.NotValuable), &f.NotValuable); err != nil {
		return nil, goerr.Wrap(err, "failed to decode not-valuable metrics", goerr.V("id", row.ID))
	}
	return f, nil
}

func nonNil(names []types.MetricName) []types.MetricName {
	if names == nil {
		return []types.MetricName{}
	}
	return names
}
