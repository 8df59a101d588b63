package sqlstore

import (
	"context"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
)

type kpiRepository struct {
	db *sqlx.DB
}

type sampleRow struct {
	Metric string  `db:"metric"`
	Sprint int     `db:"sprint"`
	Value  float64 `db:"value"`
}

type targetRow struct {
	Metric string  `db:"metric"`
	Target float64 `db:"target"`
}

func (r *kpiRepository) GetSeries(ctx context.Context) (model.KPISeries, error) {
	var rows []sampleRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT metric, sprint, value FROM kpi_samples`); err != nil {
		return nil, goerr.Wrap(err, "failed to select KPI samples")
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Metric != rows[j].Metric {
			return rows[i].Metric < rows[j].Metric
		}
		return rows[i].Sprint < rows[j].Sprint
	})

	series := model.KPISeries{}
	for _, row := range rows {
		name := types.MetricName(row.Metric)
		series[name] = append(series[name], row.Value)
	}
	return series, nil
}

func (r *kpiRepository) PutSeries(ctx context.Context, series model.KPISeries) error {
	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kpi_samples`); err != nil {
			return goerr.Wrap(err, "failed to clear KPI samples")
		}
		query := tx.Rebind(`INSERT INTO kpi_samples (metric, sprint, value) VALUES (?, ?, ?)`)
		for name, samples := range series {
			for i, v := range samples {
				if _, err := tx.ExecContext(ctx, query, name.String(), i, v); err != nil {
					return goerr.Wrap(err, "failed to insert KPI sample", goerr.V(model.MetricKey, name))
				}
			}
		}
		return nil
	})
}

func (r *kpiRepository) GetTargets(ctx context.Context) (model.KPITargets, error) {
	var rows []targetRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT metric, target FROM kpi_targets`); err != nil {
		return nil, goerr.Wrap(err, "failed to select KPI targets")
	}

	targets := make(model.KPITargets, len(rows))
	for _, row := range rows {
		targets[types.MetricName(row.Metric)] = row.Target
	}
	return targets, nil
}

func (r *kpiRepository) PutTargets(ctx context.Context, targets model.KPITargets) error {
	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kpi_targets`); err != nil {
			return goerr.Wrap(err, "failed to clear KPI targets")
		}
		query := tx.Rebind(`INSERT INTO kpi_targets (metric, target) VALUES (?, ?)`)
		for name, target := range targets {
			if _, err := tx.ExecContext(ctx, query, name.String(), target); err != nil {
				return goerr.Wrap(err, "failed to insert KPI target", goerr.V(model.MetricKey, name))
			}
		}
		return nil
	})
}
