package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
)

// MetricDefinition describes a metric and which side of its target is preferred
type MetricDefinition struct {
	Name        types.MetricName `json:"name"`
	Description string           `json:"description"`
	Direction   types.Direction  `json:"direction"`
}

// MetricDefinitions is the per-metric direction table
type MetricDefinitions []MetricDefinition

// DefaultMetricDefinitions returns the built-in table. Only test coverage is higher-is-better.
func DefaultMetricDefinitions() MetricDefinitions {
	return MetricDefinitions{
		{Name: types.MetricDefectDensity, Description: "Defects per 1000 lines of code.", Direction: types.DirectionLower},
		{Name: types.MetricTestCoverage, Description: "Percentage of code tested by automated tests.", Direction: types.DirectionHigher},
		{Name: types.MetricMTTD, Description: "Mean Time to Detect: Average time to find a defect.", Direction: types.DirectionLower},
		{Name: types.MetricInjectionRate, Description: "How frequently defects are introduced during development.", Direction: types.DirectionLower},
		{Name: types.MetricDetectionRate, Description: "How effectively developers detect their own defects.", Direction: types.DirectionLower},
		{Name: types.MetricReviewEfficiency, Description: "How effective peer reviews are at catching issues.", Direction: types.DirectionLower},
		{Name: types.MetricChecklistAdherence, Description: "Extent to which developers follow process checklists.", Direction: types.DirectionLower},
	}
}

// Find returns the definition of a metric
func (d MetricDefinitions) Find(name types.MetricName) (MetricDefinition, bool) {
	for _, def := range d {
		if def.Name == name {
			return def, true
		}
	}
	return MetricDefinition{}, false
}

// Direction returns the preferred direction of a metric; undefined metrics are lower-is-better
func (d MetricDefinitions) Direction(name types.MetricName) types.Direction {
	if def, ok := d.Find(name); ok {
		return def.Direction
	}
	return types.DirectionLower
}

// Names returns the metric names in table order
func (d MetricDefinitions) Names() []types.MetricName {
	names := make([]types.MetricName, len(d))
	for i, def := range d {
		names[i] = def.Name
	}
	return names
}

// Validate checks every definition and rejects duplicates
func (d MetricDefinitions) Validate() error {
	seen := make(map[types.MetricName]bool)
	for _, def := range d {
		if err := def.Name.Validate(); err != nil {
			return goerr.Wrap(err, "invalid metric definition")
		}
		if !def.Direction.IsValid() {
			return goerr.New("invalid metric direction", goerr.V(MetricKey, def.Name), goerr.V("direction", def.Direction))
		}
		if seen[def.Name] {
			return goerr.Wrap(ErrDuplicateMetric, "duplicate metric definition", goerr.V(MetricKey, def.Name))
		}
		seen[def.Name] = true
	}
	return nil
}
