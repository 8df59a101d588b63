package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/interfaces"
)

type Firestore struct {
	client   *firestore.Client
	kpi      *kpiRepository
	risk     *riskRepository
	feedback *feedbackRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// collections holds collection names shared by the sub-repositories
type collections struct {
	prefix string
}

func (c *collections) name(base string) string {
	if c.prefix != "" {
		return c.prefix + "_" + base
	}
	return base
}

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.kpi.collections.prefix = prefix
		f.risk.collections.prefix = prefix
		f.feedback.collections.prefix = prefix
	}
}

// New connects to Firestore. An empty databaseID selects the default database.
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:   client,
		kpi:      &kpiRepository{client: client},
		risk:     &riskRepository{client: client},
		feedback: &feedbackRepository{client: client},
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) KPI() interfaces.KPIRepository {
	return f.kpi
}

func (f *Firestore) Risk() interfaces.RiskRepository {
	return f.risk
}

func (f *Firestore) Feedback() interfaces.FeedbackRepository {
	return f.feedback
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
