package model

import "github.com/m-mizutani/goerr/v2"

// Dataset is the initial content loaded into an empty repository
type Dataset struct {
	Series     KPISeries
	Targets    KPITargets
	Risks      []*Risk
	Predefined []*PredefinedRisk
}

// Validate checks every part of the dataset
func (d *Dataset) Validate() error {
	if err := d.Series.Validate(); err != nil {
		return err
	}
	if err := d.Targets.Validate(); err != nil {
		return err
	}
	if err := ValidateRisks(d.Risks); err != nil {
		return err
	}
	if err := RejectNil(d.Predefined); err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, p := range d.Predefined {
		if err := p.Validate(); err != nil {
			return err
		}
		if seen[string(p.ID)] {
			return goerr.New("duplicate predefined risk", goerr.V(RiskIDKey, p.ID))
		}
		seen[string(p.ID)] = true
	}
	return nil
}

// RejectNil fails on the first null element of a decoded list
func RejectNil[T any](list []*T) error {
	for i, v := range list {
		if v == nil {
			return goerr.Wrap(ErrNilEntry, "invalid list", goerr.V("index", i))
		}
	}
	return nil
}
