package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// MetricName identifies a tracked quality metric, e.g. "defect_density"
type MetricName string

// Known metrics tracked by the dashboard
const (
	MetricDefectDensity      MetricName = "defect_density"
	MetricTestCoverage       MetricName = "test_coverage"
	MetricMTTD               MetricName = "mttd"
	MetricInjectionRate      MetricName = "injection_rate"
	MetricDetectionRate      MetricName = "detection_rate"
	MetricReviewEfficiency   MetricName = "review_efficiency"
	MetricChecklistAdherence MetricName = "checklist_adherence"
)

// DefaultMetric is selected when a dashboard opens
const DefaultMetric = MetricDefectDensity

var metricPattern = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)

// KnownMetrics returns the enumerated metrics in display order
func KnownMetrics() []MetricName {
	return []MetricName{
		MetricDefectDensity,
		MetricTestCoverage,
		MetricMTTD,
		MetricInjectionRate,
		MetricDetectionRate,
		MetricReviewEfficiency,
		MetricChecklistAdherence,
	}
}

// Validate checks if the MetricName is well-formed. Unknown but well-formed names are accepted.
func (m MetricName) Validate() error {
	if m == "" {
		return goerr.Wrap(ErrEmptyID, "metric name cannot be empty")
	}
	if !metricPattern.MatchString(string(m)) {
		return goerr.New("metric name must be lowercase alphanumeric with underscores", goerr.V("metric", m))
	}
	return nil
}

// Known reports whether the metric is one of the enumerated metrics
func (m MetricName) Known() bool {
	for _, k := range KnownMetrics() {
		if k == m {
			return true
		}
	}
	return false
}

// String returns the string representation of MetricName
func (m MetricName) String() string {
	return string(m)
}
