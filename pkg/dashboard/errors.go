package dashboard

import "github.com/m-mizutani/goerr/v2"

var (
	ErrSubmissionInFlight = goerr.New("submission already in flight")
	ErrUnknownMetric      = goerr.New("metric has no KPI series")
	ErrRiskNotChosen      = goerr.New("no predefined risk chosen")
	ErrUnknownRisk        = goerr.New("chosen risk is not in the catalog")
	ErrInvalidRiskInput   = goerr.New("invalid risk input")
	ErrClosed             = goerr.New("dashboard closed")
	ErrMalformedDataset   = goerr.New("backend returned a malformed dataset")
)
