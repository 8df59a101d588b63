package types

import (
	"github.com/m-mizutani/goerr/v2"
)

// Impact is the consequence axis of the risk matrix, from 1 (low impact) to 5 (high impact)
type Impact int

// Validate checks if the Impact is within the matrix scale
func (i Impact) Validate() error {
	if i < ScaleMin || i > ScaleMax {
		return goerr.Wrap(ErrOutOfRange, "impact must be between 1 and 5", goerr.V("impact", int(i)))
	}
	return nil
}

// Index returns the zero-based column of the risk matrix
func (i Impact) Index() int {
	return int(i) - 1
}

// ParseImpact parses form input such as "4" into an Impact.
// Empty input yields ErrNotChosen.
func ParseImpact(s string) (Impact, error) {
	n, err := parseScale(s)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid impact", goerr.V("input", s))
	}
	i := Impact(n)
	if err := i.Validate(); err != nil {
		return 0, err
	}
	return i, nil
}
