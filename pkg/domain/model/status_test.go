package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
)

func TestGetStatus(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		target float64
		higher bool
		want   types.Status
	}{
		{"higher meets", 82, 80, true, types.StatusGreen},
		{"higher equal", 80, 80, true, types.StatusGreen},
		{"higher misses", 79.9, 80, true, types.StatusRed},
		{"lower meets", 2, 3, false, types.StatusGreen},
		{"lower equal", 3, 3, false, types.StatusGreen},
		{"lower misses", 3.1, 3, false, types.StatusRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, model.GetStatus(tt.value, tt.target, tt.higher)).Equal(tt.want)
		})
	}
}

func TestEvaluateStatus(t *testing.T) {
	defs := model.DefaultMetricDefinitions()

	t.Run("test coverage is higher-is-better", func(t *testing.T) {
		series := model.KPISeries{types.MetricTestCoverage: {70, 75, 80, 82}}
		targets := model.KPITargets{types.MetricTestCoverage: 80}

		report, ok := model.EvaluateStatus(series, targets, defs, types.MetricTestCoverage)
		gt.Bool(t, ok).True()
		gt.Value(t, report.Current).Equal(82.0)
		gt.Value(t, report.Target).Equal(80.0)
		gt.Value(t, report.Status).Equal(types.StatusGreen)
	})

	t.Run("defect density is lower-is-better", func(t *testing.T) {
		series := model.KPISeries{types.MetricDefectDensity: {5, 4, 3, 2}}
		targets := model.KPITargets{types.MetricDefectDensity: 3}

		report, ok := model.EvaluateStatus(series, targets, defs, types.MetricDefectDensity)
		gt.Bool(t, ok).True()
		gt.Value(t, report.Status).Equal(types.StatusGreen)
	})

	t.Run("every metric follows its direction", func(t *testing.T) {
		series := model.KPISeries{}
		targets := model.KPITargets{}
		for i, m := range types.KnownMetrics() {
			series[m] = []float64{1, 2, 3, float64(10 + i)}
			targets[m] = float64(12)
		}

		for _, m := range types.KnownMetrics() {
			report, ok := model.EvaluateStatus(series, targets, defs, m)
			gt.Bool(t, ok).True()

			latest, _ := series.Latest(m)
			higher := m == types.MetricTestCoverage
			green := (higher && latest >= targets[m]) || (!higher && latest <= targets[m])
			gt.Value(t, report.Status == types.StatusGreen).Equal(green)
		}
	})

	t.Run("missing target yields no status", func(t *testing.T) {
		series := model.KPISeries{types.MetricMTTD: {4, 3, 2, 1}}
		_, ok := model.EvaluateStatus(series, model.KPITargets{}, defs, types.MetricMTTD)
		gt.Bool(t, ok).False()
	})

	t.Run("missing series yields no status", func(t *testing.T) {
		targets := model.KPITargets{types.MetricMTTD: 3}
		_, ok := model.EvaluateStatus(model.KPISeries{}, targets, defs, types.MetricMTTD)
		gt.Bool(t, ok).False()
	})

	t.Run("configured direction overrides default", func(t *testing.T) {
		custom := model.MetricDefinitions{
			{Name: types.MetricDetectionRate, Direction: types.DirectionHigher},
		}
		series := model.KPISeries{types.MetricDetectionRate: {60, 65, 70, 76}}
		targets := model.KPITargets{types.MetricDetectionRate: 75}

		report, ok := model.EvaluateStatus(series, targets, custom, types.MetricDetectionRate)
		gt.Bool(t, ok).True()
		gt.Value(t, report.Status).Equal(types.StatusGreen)
	})
}
