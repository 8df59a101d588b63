package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// RiskID identifies a risk, shared between a predefined catalog entry and the risk it becomes
type RiskID string

// Validate checks if the RiskID is usable
func (r RiskID) Validate() error {
	if strings.TrimSpace(string(r)) == "" {
		return goerr.Wrap(ErrEmptyID, "risk ID cannot be empty")
	}
	return nil
}

// String returns the string representation of RiskID
func (r RiskID) String() string {
	return string(r)
}
