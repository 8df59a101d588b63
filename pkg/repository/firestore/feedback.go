package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type feedbackDocument struct {
	ID            string    `firestore:"id"`
	Valuable      []string  `firestore:"valuable"`
	NotValuable   []string  `firestore:"not_valuable"`
	Justification string    `firestore:"justification"`
	Timestamp     time.Time `firestore:"timestamp"`
	ReceivedAt    time.Time `firestore:"received_at"`
}

type feedbackRepository struct {
	client      *firestore.Client
	collections collections
}

func (r *feedbackRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collections.name("feedback"))
}

func toStrings(names []types.MetricName) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = n.String()
	}
	return out
}

func toMetricNames(names []string) []types.MetricName {
	out := make([]types.MetricName, len(names))
	for i, n := range names {
		out[i] = types.MetricName(n)
	}
	return out
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *model.Feedback) (*model.Feedback, error) {
	created := feedback.Copy()
	if created.ID == "" {
		created.ID = model.NewFeedbackID()
	}
	if created.ReceivedAt.IsZero() {
		created.ReceivedAt = time.Now().UTC()
	}

	doc := &feedbackDocument{
		ID:            string(created.ID),
		Valuable:      toStrings(created.Valuable),
		NotValuable:   toStrings(created.NotValuable),
		Justification: created.Justification,
		Timestamp:     created.Timestamp,
		ReceivedAt:    created.ReceivedAt,
	}
	if _, err := r.collection().Doc(doc.ID).Create(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create feedback", goerr.V("id", doc.ID))
	}
	return created, nil
}

func (r *feedbackRepository) List(ctx context.Context) ([]*model.Feedback, error) {
	iter := r.collection().OrderBy("received_at", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var list []*model.Feedback
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate feedback")
		}

		var d feedbackDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal feedback", goerr.V("doc", doc.Ref.ID))
		}
		list = append(list, &model.Feedback{
			ID:            model.FeedbackID(d.ID),
			Valuable:      toMetricNames(d.Valuable),
			NotValuable:   toMetricNames(d.NotValuable),
			Justification: d.Justification,
			Timestamp:     d.Timestamp,
			ReceivedAt:    d.ReceivedAt,
		})
	}
	return list, nil
}
