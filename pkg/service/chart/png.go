package chart

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/interfaces"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/utils/safe"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PNG renders chart configurations to PNG images with gonum/plot
type PNG struct {
	width  vg.Length
	height vg.Length
}

var _ interfaces.ChartRenderer = &PNG{}

type PNGOption func(*PNG)

func WithPNGSize(width, height vg.Length) PNGOption {
	return func(p *PNG) {
		p.width = width
		p.height = height
	}
}

func NewPNG(opts ...PNGOption) *PNG {
	p := &PNG{
		width:  vg.Points(600),
		height: vg.Points(400),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PNGChart holds an encoded image until disposed
type PNGChart struct {
	mu   sync.Mutex
	data []byte
}

func (p *PNG) Render(cfg *model.ChartConfig) (interfaces.ChartHandle, error) {
	return p.RenderPNG(cfg)
}

// RenderPNG is Render with the concrete handle type
func (p *PNG) RenderPNG(cfg *model.ChartConfig) (*PNGChart, error) {
	if cfg == nil || len(cfg.Datasets) == 0 {
		return nil, goerr.Wrap(ErrEmptyChart, "nothing to plot")
	}
	if cfg.Type != model.ChartTypeLine {
		return nil, goerr.Wrap(ErrUnsupported, "only line charts are supported", goerr.V("type", cfg.Type))
	}

	pl := plot.New()
	pl.Title.Text = cfg.Metric.String()
	pl.X.Label.Text = "Sprint"
	pl.Y.Label.Text = "Value"
	pl.Add(plotter.NewGrid())
	pl.NominalX(cfg.Labels...)

	for _, ds := range cfg.Datasets {
		pts := make(plotter.XYs, len(ds.Data))
		for i, v := range ds.Data {
			pts[i].X = float64(i)
			pts[i].Y = v
		}

		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create line plotter", goerr.V("label", ds.Label))
		}
		line.Color = colorOf(ds.BorderColor)
		line.Width = vg.Points(2)
		points.Color = colorOf(ds.BorderColor)
		points.FillColor = colorOf(ds.BackgroundColor)

		pl.Add(line, points)
		pl.Legend.Add(ds.Label, line, points)
	}

	if cfg.Target != nil && len(cfg.Labels) > 0 {
		last := float64(len(cfg.Labels) - 1)
		target, err := plotter.NewLine(plotter.XYs{{X: 0, Y: *cfg.Target}, {X: last, Y: *cfg.Target}})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create target line")
		}
		target.Color = colorOf("red")
		target.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
		pl.Add(target)
		pl.Legend.Add("target", target)
	}

	wt, err := pl.WriterTo(p.width, p.height, "png")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create PNG writer")
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, goerr.Wrap(err, "failed to encode PNG")
	}

	return &PNGChart{data: buf.Bytes()}, nil
}

// WriteTo writes the encoded image
func (c *PNGChart) WriteTo(w io.Writer) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.data == nil {
		return 0, ErrDisposed
	}
	n, err := w.Write(c.data)
	if err != nil {
		return int64(n), goerr.Wrap(err, "failed to write PNG")
	}
	return int64(n), nil
}

// Save writes the image to path atomically
func (c *PNGChart) Save(ctx context.Context, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.data == nil {
		return ErrDisposed
	}
	return safe.WriteFile(ctx, path, c.data, 0o644)
}

// Dispose releases the image. Disposing twice is a no-op.
func (c *PNGChart) Dispose() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = nil
	return nil
}

func (c *PNGChart) Disposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data == nil
}
