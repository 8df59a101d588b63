package tui

import "github.com/m-mizutani/goerr/v2"

var ErrIncompleteRiskForm = goerr.New("choose a risk, a likelihood and an impact first")
