package chart

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/interfaces"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
)

const (
	markerSample = '●'
	markerTarget = '┄'
)

// Text renders chart configurations as terminal line charts
type Text struct {
	rows     int
	colWidth int
}

var _ interfaces.ChartRenderer = &Text{}

type TextOption func(*Text)

// WithTextSize sets the plot height in rows and the width of each sprint column
func WithTextSize(rows, colWidth int) TextOption {
	return func(t *Text) {
		t.rows = max(rows, 2)
		t.colWidth = max(colWidth, 3)
	}
}

func NewText(opts ...TextOption) *Text {
	t := &Text{rows: 8, colWidth: 10}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TextChart is a rendered terminal chart
type TextChart struct {
	mu       sync.Mutex
	view     string
	disposed bool
}

func (t *Text) Render(cfg *model.ChartConfig) (interfaces.ChartHandle, error) {
	return t.RenderText(cfg)
}

// RenderText is Render with the concrete handle type
func (t *Text) RenderText(cfg *model.ChartConfig) (*TextChart, error) {
	if cfg == nil || len(cfg.Datasets) == 0 || len(cfg.Datasets[0].Data) == 0 {
		return nil, goerr.Wrap(ErrEmptyChart, "nothing to plot")
	}
	if cfg.Type != model.ChartTypeLine {
		return nil, goerr.Wrap(ErrUnsupported, "only line charts are supported", goerr.V("type", cfg.Type))
	}

	data := cfg.Datasets[0].Data
	lo, hi := data[0], data[0]
	for _, v := range data {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if cfg.Target != nil {
		lo = math.Min(lo, *cfg.Target)
		hi = math.Max(hi, *cfg.Target)
	}
	if hi == lo {
		hi = lo + 1
	}

	rowOf := func(v float64) int {
		return int(math.Round((v - lo) / (hi - lo) * float64(t.rows-1)))
	}

	cols := len(data)
	grid := make([][]rune, t.rows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", cols*t.colWidth))
	}
	if cfg.Target != nil {
		r := rowOf(*cfg.Target)
		for c := range grid[r] {
			grid[r][c] = markerTarget
		}
	}
	for i, v := range data {
		grid[rowOf(v)][i*t.colWidth+t.colWidth/2] = markerSample
	}

	labelWidth := max(len(formatValue(hi)), len(formatValue(lo)))
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", cfg.Datasets[0].Label)
	for r := t.rows - 1; r >= 0; r-- {
		label := ""
		switch r {
		case t.rows - 1:
			label = formatValue(hi)
		case 0:
			label = formatValue(lo)
		}
		fmt.Fprintf(&b, "%*s │%s\n", labelWidth, label, strings.TrimRight(string(grid[r]), " "))
	}
	fmt.Fprintf(&b, "%*s └%s\n", labelWidth, "", strings.Repeat("─", cols*t.colWidth))

	fmt.Fprintf(&b, "%*s  ", labelWidth, "")
	for i := 0; i < cols; i++ {
		label := ""
		if i < len(cfg.Labels) {
			label = cfg.Labels[i]
		}
		if len(label) > t.colWidth-1 {
			label = label[:t.colWidth-1]
		}
		fmt.Fprintf(&b, "%-*s", t.colWidth, label)
	}
	b.WriteString("\n")

	values := make([]string, len(data))
	for i, v := range data {
		values[i] = formatValue(v)
	}
	fmt.Fprintf(&b, "values: %s", strings.Join(values, ", "))
	if cfg.Target != nil {
		fmt.Fprintf(&b, "  target: %s", formatValue(*cfg.Target))
	}

	return &TextChart{view: b.String()}, nil
}

func formatValue(v float64) string {
	return fmt.Sprintf("%g", v)
}

// View returns the rendered chart, or an empty string once disposed
func (c *TextChart) View() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return ""
	}
	return c.view
}

func (c *TextChart) Dispose() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disposed = true
	c.view = ""
	return nil
}

func (c *TextChart) Disposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}
