package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
)

// Risk is an entry placed in the risk matrix
type Risk struct {
	ID          types.RiskID     `json:"id"`
	Description string           `json:"description"`
	Likelihood  types.Likelihood `json:"likelihood"`
	Impact      types.Impact     `json:"impact"`
	CreatedAt   time.Time        `json:"created_at,omitzero"`
}

// Score returns likelihood × impact
func (r *Risk) Score() int {
	return types.Score(r.Likelihood, r.Impact)
}

// Severity returns the color band of the risk
func (r *Risk) Severity() types.Severity {
	return types.SeverityOf(r.Score())
}

// Validate checks the identifier and both matrix axes
func (r *Risk) Validate() error {
	if err := r.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid risk")
	}
	if err := r.Likelihood.Validate(); err != nil {
		return goerr.Wrap(err, "invalid risk", goerr.V(RiskIDKey, r.ID))
	}
	if err := r.Impact.Validate(); err != nil {
		return goerr.Wrap(err, "invalid risk", goerr.V(RiskIDKey, r.ID))
	}
	return nil
}

// Copy returns a copy of the risk
func (r *Risk) Copy() *Risk {
	copied := *r
	return &copied
}

// PredefinedRisk is a catalog entry that can be promoted into the matrix once
type PredefinedRisk struct {
	ID          types.RiskID `json:"id"`
	Description string       `json:"description"`
}

// Validate checks the identifier
func (p *PredefinedRisk) Validate() error {
	if err := p.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid predefined risk")
	}
	return nil
}

// Copy returns a copy of the predefined risk
func (p *PredefinedRisk) Copy() *PredefinedRisk {
	copied := *p
	return &copied
}

// Assess merges a catalog entry with chosen likelihood and impact
func (p *PredefinedRisk) Assess(l types.Likelihood, i types.Impact) *Risk {
	return &Risk{
		ID:          p.ID,
		Description: p.Description,
		Likelihood:  l,
		Impact:      i,
	}
}

// FindPredefinedRisk returns the catalog entry with the given ID
func FindPredefinedRisk(catalog []*PredefinedRisk, id types.RiskID) (*PredefinedRisk, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// ValidateRisks checks every entry of a stored risk list
func ValidateRisks(risks []*Risk) error {
	if err := RejectNil(risks); err != nil {
		return err
	}
	for i, r := range risks {
		if err := r.Validate(); err != nil {
			return goerr.Wrap(err, "invalid risk list", goerr.V("index", i))
		}
	}
	return nil
}

// ValidatePredefinedRisks checks every entry of a decoded catalog
func ValidatePredefinedRisks(catalog []*PredefinedRisk) error {
	if err := RejectNil(catalog); err != nil {
		return err
	}
	for i, p := range catalog {
		if err := p.Validate(); err != nil {
			return goerr.Wrap(err, "invalid predefined risk list", goerr.V("index", i))
		}
	}
	return nil
}
