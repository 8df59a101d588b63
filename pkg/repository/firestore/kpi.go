package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type seriesDocument struct {
	Metric  string    `firestore:"metric"`
	Samples []float64 `firestore:"samples"`
}

type targetDocument struct {
	Metric string  `firestore:"metric"`
	Target float64 `firestore:"target"`
}

type kpiRepository struct {
	client      *firestore.Client
	collections collections
}

func (r *kpiRepository) seriesCollection() *firestore.CollectionRef {
	return r.client.Collection(r.collections.name("kpi_series"))
}

func (r *kpiRepository) targetsCollection() *firestore.CollectionRef {
	return r.client.Collection(r.collections.name("kpi_targets"))
}

func (r *kpiRepository) GetSeries(ctx context.Context) (model.KPISeries, error) {
	iter := r.seriesCollection().Documents(ctx)
	defer iter.Stop()

	series := model.KPISeries{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate KPI series")
		}

		var d seriesDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal KPI series", goerr.V("doc", doc.Ref.ID))
		}
		series[types.MetricName(d.Metric)] = d.Samples
	}
	return series, nil
}

func (r *kpiRepository) PutSeries(ctx context.Context, series model.KPISeries) error {
	col := r.seriesCollection()
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(col).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to read KPI series")
		}
		for _, doc := range existing {
			if _, keep := series[types.MetricName(doc.Ref.ID)]; !keep {
				if err := tx.Delete(doc.Ref); err != nil {
					return goerr.Wrap(err, "failed to delete KPI series", goerr.V(model.MetricKey, doc.Ref.ID))
				}
			}
		}
		for name, samples := range series {
			d := &seriesDocument{Metric: name.String(), Samples: samples}
			if err := tx.Set(col.Doc(name.String()), d); err != nil {
				return goerr.Wrap(err, "failed to set KPI series", goerr.V(model.MetricKey, name))
			}
		}
		return nil
	})
}

func (r *kpiRepository) GetTargets(ctx context.Context) (model.KPITargets, error) {
	iter := r.targetsCollection().Documents(ctx)
	defer iter.Stop()

	targets := model.KPITargets{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate KPI targets")
		}

		var d targetDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal KPI target", goerr.V("doc", doc.Ref.ID))
		}
		targets[types.MetricName(d.Metric)] = d.Target
	}
	return targets, nil
}

func (r *kpiRepository) PutTargets(ctx context.Context, targets model.KPITargets) error {
	col := r.targetsCollection()
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(col).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to read KPI targets")
		}
		for _, doc := range existing {
			if _, keep := targets[types.MetricName(doc.Ref.ID)]; !keep {
				if err := tx.Delete(doc.Ref); err != nil {
					return goerr.Wrap(err, "failed to delete KPI target", goerr.V(model.MetricKey, doc.Ref.ID))
				}
			}
		}
		for name, target := range targets {
			d := &targetDocument{Metric: name.String(), Target: target}
			if err := tx.Set(col.Doc(name.String()), d); err != nil {
				return goerr.Wrap(err, "failed to set KPI target", goerr.V(model.MetricKey, name))
			}
		}
		return nil
	})
}
