// Package render exports dashboard figures as PNG images with go-chart.
package render

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/okian/medalboard/internal/domain/chart"
)

const (
	defaultWidth  = 1024
	defaultHeight = 400
	barWidth      = 20
	barSpacing    = 6
	sidePadding   = 120
)

// Sentinel kinds for rendering errors.
var (
	ErrNoData = errors.New("figure has no bars")
	ErrRender = errors.New("render failed")
)

// Renderer turns figures into PNG images.
type Renderer struct {
	width  int
	height int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSize sets the minimum image size in pixels. A non-positive dimension
// keeps its default.
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
		if height > 0 {
			r.height = height
		}
	}
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{width: defaultWidth, height: defaultHeight}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// PNG draws the first bar trace of fig to w. Per-bar marker colours are kept.
// Figures with no bar, or a bar trace with no points, return ErrNoData.
func (r *Renderer) PNG(fig chart.Figure, w io.Writer) error {
	trace, ok := firstBar(fig)
	if !ok || len(trace.X) == 0 {
		return ErrNoData
	}

	bars := make([]gochart.Value, len(trace.X))
	peak := 1.0
	for i, x := range trace.X {
		v := 0.0
		if i < len(trace.Y) {
			v = float64(trace.Y[i])
		}
		if v > peak {
			peak = v
		}
		bars[i] = gochart.Value{Label: fmt.Sprint(x), Value: v}
		if trace.Marker != nil && i < len(trace.Marker.Color) {
			if c, ok := ParseColor(trace.Marker.Color[i]); ok {
				bars[i].Style = gochart.Style{FillColor: c, StrokeColor: c}
			}
		}
	}

	width := r.width
	if need := len(bars)*(barWidth+barSpacing) + sidePadding; need > width {
		width = need
	}
	bc := gochart.BarChart{
		Title:      fig.Layout.Title,
		Width:      width,
		Height:     r.height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 10, Right: 10, Bottom: 20}},
		YAxis:      gochart.YAxis{Range: &gochart.ContinuousRange{Min: 0, Max: peak}},
		Bars:       bars,
	}
	if err := bc.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}

func firstBar(fig chart.Figure) (chart.Trace, bool) {
	for _, t := range fig.Data {
		if t.Type == "bar" {
			return t, true
		}
	}
	return chart.Trace{}, false
}

// ParseColor understands the rgb(r, g, b) and rgba(r, g, b, a) strings used by
// the chart descriptors.
func ParseColor(s string) (drawing.Color, bool) {
	s = strings.TrimSpace(s)
	var body string
	switch {
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		body = s[len("rgba(") : len(s)-1]
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		body = s[len("rgb(") : len(s)-1]
	default:
		return drawing.Color{}, false
	}
	parts := strings.Split(body, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return drawing.Color{}, false
	}
	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || n < 0 || n > 255 {
			return drawing.Color{}, false
		}
		rgb[i] = uint8(n)
	}
	alpha := uint8(255)
	if len(parts) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return drawing.Color{}, false
		}
		alpha = uint8(a*255 + 0.5)
	}
	return drawing.Color{R: rgb[0], G: rgb[1], B: rgb[2], A: alpha}, true
}
