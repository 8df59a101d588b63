package chart

import (
	"image/color"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrDisposed    = goerr.New("chart already disposed")
	ErrEmptyChart  = goerr.New("chart has no data")
	ErrUnsupported = goerr.New("unsupported chart type")
)

var namedColors = map[string]color.RGBA{
	"blue":      {R: 0x00, G: 0x00, B: 0xff, A: 0xff},
	"lightblue": {R: 0xad, G: 0xd8, B: 0xe6, A: 0xff},
	"red":       {R: 0xff, G: 0x00, B: 0x00, A: 0xff},
	"green":     {R: 0x00, G: 0x80, B: 0x00, A: 0xff},
	"gray":      {R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	"black":     {R: 0x00, G: 0x00, B: 0x00, A: 0xff},
}

// colorOf resolves a CSS-style color name, falling back to black
func colorOf(name string) color.RGBA {
	if c, ok := namedColors[strings.ToLower(name)]; ok {
		return c
	}
	return namedColors["black"]
}
