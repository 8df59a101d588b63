package model

import "github.com/secmon-lab/qaboard/pkg/domain/types"

// ChartType is the kind of chart to draw
type ChartType string

const ChartTypeLine ChartType = "line"

// ChartDataset is one plotted series
type ChartDataset struct {
	Label           string
	Data            []float64
	BorderColor     string
	BackgroundColor string
	Tension         float64
}

// ChartConfig describes a chart independently of how it is rendered
type ChartConfig struct {
	Type     ChartType
	Metric   types.MetricName
	Labels   []string
	Datasets []ChartDataset
	// Target is drawn as a reference line when set
	Target *float64
}

// NewKPIChart builds the line chart of one metric. It returns false when the metric has no samples.
func NewKPIChart(series KPISeries, targets KPITargets, m types.MetricName) (*ChartConfig, bool) {
	samples, ok := series[m]
	if !ok || len(samples) == 0 {
		return nil, false
	}
	data := make([]float64, len(samples))
	copy(data, samples)

	cfg := &ChartConfig{
		Type:   ChartTypeLine,
		Metric: m,
		Labels: SprintLabels(),
		Datasets: []ChartDataset{
			{
				Label:           m.String(),
				Data:            data,
				BorderColor:     "blue",
				BackgroundColor: "lightblue",
				Tension:         0.3,
			},
		},
	}
	if target, ok := targets.Get(m); ok {
		cfg.Target = &target
	}
	return cfg, true
}
