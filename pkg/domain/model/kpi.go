package model

import (
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
)

// SprintCount is the number of samples in every KPI series, one per sprint
const SprintCount = 4

// SprintLabels returns the fixed x-axis labels of KPI charts
func SprintLabels() []string {
	return []string{"Sprint 1", "Sprint 2", "Sprint 3", "Sprint 4"}
}

// KPISeries maps a metric to its per-sprint samples. It is replaced wholesale on refetch.
type KPISeries map[types.MetricName][]float64

// Latest returns the last sample of a metric
func (s KPISeries) Latest(m types.MetricName) (float64, bool) {
	samples, ok := s[m]
	if !ok || len(samples) == 0 {
		return 0, false
	}
	return samples[len(samples)-1], true
}

// Has reports whether samples exist for the metric
func (s KPISeries) Has(m types.MetricName) bool {
	samples, ok := s[m]
	return ok && len(samples) > 0
}

// Metrics returns the metric names in a stable order: known metrics first, then the rest alphabetically
func (s KPISeries) Metrics() []types.MetricName {
	names := make([]types.MetricName, 0, len(s))
	for _, k := range types.KnownMetrics() {
		if _, ok := s[k]; ok {
			names = append(names, k)
		}
	}
	var extra []types.MetricName
	for name := range s {
		if !name.Known() {
			extra = append(extra, name)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(names, extra...)
}

// Clone returns a deep copy
func (s KPISeries) Clone() KPISeries {
	if s == nil {
		return nil
	}
	copied := make(KPISeries, len(s))
	for k, v := range s {
		samples := make([]float64, len(v))
		copy(samples, v)
		copied[k] = samples
	}
	return copied
}

// Validate checks metric names and that every series has one sample per sprint
func (s KPISeries) Validate() error {
	for name, samples := range s {
		if err := name.Validate(); err != nil {
			return goerr.Wrap(err, "invalid KPI series")
		}
		if len(samples) != SprintCount {
			return goerr.Wrap(ErrInvalidSeries, "KPI series must have one sample per sprint",
				goerr.V(MetricKey, name), goerr.V("samples", len(samples)))
		}
	}
	return nil
}

// KPITargets maps a metric to its threshold
type KPITargets map[types.MetricName]float64

// Get returns the target of a metric
func (t KPITargets) Get(m types.MetricName) (float64, bool) {
	v, ok := t[m]
	return v, ok
}

// Clone returns a copy
func (t KPITargets) Clone() KPITargets {
	if t == nil {
		return nil
	}
	copied := make(KPITargets, len(t))
	for k, v := range t {
		copied[k] = v
	}
	return copied
}

// Validate checks metric names
func (t KPITargets) Validate() error {
	for name := range t {
		if err := name.Validate(); err != nil {
			return goerr.Wrap(err, "invalid KPI target")
		}
	}
	return nil
}
