package model_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
)

func TestKPISeries(t *testing.T) {
	series := model.KPISeries{
		"build_time":              {9, 8, 7, 6},
		types.MetricTestCoverage:  {70, 75, 80, 82},
		types.MetricDefectDensity: {5, 4, 3, 2},
	}

	t.Run("latest returns last sample", func(t *testing.T) {
		v, ok := series.Latest(types.MetricTestCoverage)
		gt.Bool(t, ok).True()
		gt.Value(t, v).Equal(82.0)

		_, ok = series.Latest(types.MetricMTTD)
		gt.Bool(t, ok).False()
	})

	t.Run("metrics are ordered known first", func(t *testing.T) {
		gt.Value(t, series.Metrics()).Equal([]types.MetricName{
			types.MetricDefectDensity,
			types.MetricTestCoverage,
			"build_time",
		})
	})

	t.Run("clone is independent", func(t *testing.T) {
		cloned := series.Clone()
		cloned[types.MetricTestCoverage][0] = 0
		gt.Value(t, series[types.MetricTestCoverage][0]).Equal(70.0)
	})

	t.Run("validate requires one sample per sprint", func(t *testing.T) {
		gt.NoError(t, series.Validate())

		bad := model.KPISeries{types.MetricMTTD: {1, 2}}
		gt.Bool(t, errors.Is(bad.Validate(), model.ErrInvalidSeries)).True()
	})
}

func TestNewKPIChart(t *testing.T) {
	series := model.KPISeries{types.MetricMTTD: {12, 10, 9, 8}}
	targets := model.KPITargets{types.MetricMTTD: 8}

	cfg, ok := model.NewKPIChart(series, targets, types.MetricMTTD)
	gt.Bool(t, ok).True()
	gt.Value(t, cfg.Type).Equal(model.ChartTypeLine)
	gt.Value(t, cfg.Labels).Equal([]string{"Sprint 1", "Sprint 2", "Sprint 3", "Sprint 4"})
	gt.Array(t, cfg.Datasets).Length(1).Required()
	gt.Value(t, cfg.Datasets[0].Label).Equal("mttd")
	gt.Value(t, cfg.Datasets[0].Data).Equal([]float64{12, 10, 9, 8})
	gt.Value(t, cfg.Target).NotNil().Required()
	gt.Value(t, *cfg.Target).Equal(8.0)

	_, ok = model.NewKPIChart(series, targets, types.MetricTestCoverage)
	gt.Bool(t, ok).False()
}

func TestMetricDefinitions_Validate(t *testing.T) {
	gt.NoError(t, model.DefaultMetricDefinitions().Validate())

	dup := model.MetricDefinitions{
		{Name: types.MetricMTTD, Direction: types.DirectionLower},
		{Name: types.MetricMTTD, Direction: types.DirectionHigher},
	}
	gt.Error(t, dup.Validate()).Is(model.ErrDuplicateMetric)

	bad := model.MetricDefinitions{{Name: types.MetricMTTD, Direction: "up"}}
	gt.Value(t, bad.Validate()).NotNil()
}

func TestFeedback(t *testing.T) {
	fb := &model.Feedback{
		Valuable:    []types.MetricName{types.MetricTestCoverage, types.MetricMTTD, types.MetricDefectDensity, types.MetricInjectionRate},
		NotValuable: []types.MetricName{types.MetricChecklistAdherence},
	}
	gt.NoError(t, fb.Validate())
	gt.Bool(t, fb.ExceedsIntended()).True()

	copied := fb.Copy()
	copied.Valuable[0] = types.MetricDetectionRate
	gt.Value(t, fb.Valuable[0]).Equal(types.MetricTestCoverage)

	bad := &model.Feedback{Valuable: []types.MetricName{"Not Valid"}}
	gt.Value(t, bad.Validate()).NotNil()
}

func TestPredefinedRisk_Assess(t *testing.T) {
	catalog := []*model.PredefinedRisk{
		{ID: "R1", Description: "Key developer leaves"},
		{ID: "R2", Description: "Flaky test suite"},
	}
	p, ok := model.FindPredefinedRisk(catalog, "R2")
	gt.Bool(t, ok).True()

	r := p.Assess(3, 4)
	gt.Value(t, r.ID).Equal(types.RiskID("R2"))
	gt.Value(t, r.Description).Equal("Flaky test suite")
	gt.Value(t, r.Score()).Equal(12)
	gt.Value(t, r.Severity()).Equal(types.SeverityOrange)
	gt.NoError(t, r.Validate())

	_, ok = model.FindPredefinedRisk(catalog, "R9")
	gt.Bool(t, ok).False()
}
