package types

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for value validation
var (
	ErrOutOfRange = goerr.New("value out of range")
	ErrNotNumeric = goerr.New("value is not numeric")
	ErrNotChosen  = goerr.New("value not chosen")
	ErrEmptyID    = goerr.New("identifier is empty")
)
