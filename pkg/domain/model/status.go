package model

import "github.com/secmon-lab/qaboard/pkg/domain/types"

// GetStatus is green when value meets target in the preferred direction, red otherwise
func GetStatus(value, target float64, higherIsBetter bool) types.Status {
	if higherIsBetter {
		if value >= target {
			return types.StatusGreen
		}
		return types.StatusRed
	}
	if value <= target {
		return types.StatusGreen
	}
	return types.StatusRed
}

// StatusReport is the status line of the selected metric
type StatusReport struct {
	Metric  types.MetricName
	Current float64
	Target  float64
	Status  types.Status
}

// EvaluateStatus computes the status of a metric. It returns false unless both the
// latest sample and the target exist.
func EvaluateStatus(series KPISeries, targets KPITargets, defs MetricDefinitions, m types.MetricName) (StatusReport, bool) {
	current, ok := series.Latest(m)
	if !ok {
		return StatusReport{}, false
	}
	target, ok := targets.Get(m)
	if !ok {
		return StatusReport{}, false
	}
	return StatusReport{
		Metric:  m,
		Current: current,
		Target:  target,
		Status:  GetStatus(current, target, defs.Direction(m).HigherIsBetter()),
	}, true
}
