package interfaces

import "github.com/secmon-lab/qaboard/pkg/domain/model"

// ChartRenderer draws a chart configuration into a renderer-owned resource
type ChartRenderer interface {
	Render(cfg *model.ChartConfig) (ChartHandle, error)
}

// ChartHandle is a rendered chart. It must be disposed before another chart replaces it.
type ChartHandle interface {
	Dispose() error
}
