package types

import (
	"errors"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Scale bounds shared by likelihood and impact
const (
	ScaleMin = 1
	ScaleMax = 5
)

// Likelihood is the probability axis of the risk matrix, from 1 (low chance) to 5 (high chance)
type Likelihood int

// Validate checks if the Likelihood is within the matrix scale
func (l Likelihood) Validate() error {
	if l < ScaleMin || l > ScaleMax {
		return goerr.Wrap(ErrOutOfRange, "likelihood must be between 1 and 5", goerr.V("likelihood", int(l)))
	}
	return nil
}

// Index returns the zero-based row of the risk matrix
func (l Likelihood) Index() int {
	return int(l) - 1
}

// ParseLikelihood parses form input such as "3" into a Likelihood.
// Empty input yields ErrNotChosen.
func ParseLikelihood(s string) (Likelihood, error) {
	n, err := parseScale(s)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid likelihood", goerr.V("input", s))
	}
	l := Likelihood(n)
	if err := l.Validate(); err != nil {
		return 0, err
	}
	return l, nil
}

func parseScale(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrNotChosen
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, goerr.Wrap(errors.Join(ErrNotNumeric, err), "failed to parse scale")
	}
	return n, nil
}
