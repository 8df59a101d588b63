package types

import "github.com/m-mizutani/goerr/v2"

// Direction tells which side of the target a metric should land on
type Direction string

const (
	DirectionHigher Direction = "higher"
	DirectionLower  Direction = "lower"
)

// AllDirections returns all valid directions
func AllDirections() []Direction {
	return []Direction{
		DirectionHigher,
		DirectionLower,
	}
}

// IsValid checks if the direction is valid
func (d Direction) IsValid() bool {
	switch d {
	case DirectionHigher, DirectionLower:
		return true
	default:
		return false
	}
}

// HigherIsBetter reports whether larger values are preferred
func (d Direction) HigherIsBetter() bool {
	return d == DirectionHigher
}

// String returns the string representation of the direction
func (d Direction) String() string {
	return string(d)
}

// ParseDirection parses a string into a Direction. Empty input means lower-is-better.
func ParseDirection(s string) (Direction, error) {
	if s == "" {
		return DirectionLower, nil
	}
	d := Direction(s)
	if !d.IsValid() {
		return "", goerr.New("invalid direction", goerr.V("direction", s))
	}
	return d, nil
}
