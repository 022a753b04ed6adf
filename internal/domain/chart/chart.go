// Package chart builds declarative chart descriptors in the Plotly figure
// shape ({data, layout}). It knows nothing about HTTP or rendering.
package chart

// Figure is a complete chart: traces plus layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one series of a figure. X holds years (ints) or names (strings).
type Trace struct {
	Type      string   `json:"type"`
	Mode      string   `json:"mode,omitempty"`
	Name      string   `json:"name,omitempty"`
	X         []any    `json:"x"`
	Y         []int    `json:"y"`
	Opacity   *float64 `json:"opacity,omitempty"`
	HoverInfo string   `json:"hoverinfo,omitempty"`
	Marker    *Marker  `json:"marker,omitempty"`
}

// Marker carries per-point colours.
type Marker struct {
	Color []string `json:"color,omitempty"`
}

// Margin is the plot margin in pixels.
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	B int `json:"b"`
	T int `json:"t"`
}

// Font configures legend text.
type Font struct {
	Size int `json:"size"`
}

// Legend configures the legend box.
type Legend struct {
	Font        Font   `json:"font"`
	Orientation string `json:"orientation"`
}

// Axis configures an axis title.
type Axis struct {
	Title string `json:"title,omitempty"`
}

// Layout is the figure layout. Zero-valued optional fields are omitted.
type Layout struct {
	Title        string `json:"title,omitempty"`
	AutoSize     bool   `json:"autosize"`
	AutoMargin   bool   `json:"automargin"`
	Margin       Margin `json:"margin"`
	HoverMode    string `json:"hovermode"`
	PlotBGColor  string `json:"plot_bgcolor"`
	PaperBGColor string `json:"paper_bgcolor"`
	Legend       Legend `json:"legend"`
	ShowLegend   *bool  `json:"showlegend,omitempty"`
	DragMode     string `json:"dragmode,omitempty"`
	XAxis        *Axis  `json:"xaxis,omitempty"`
	YAxis        *Axis  `json:"yaxis,omitempty"`
}

// BaseLayout is the layout every dashboard chart starts from. Each call
// returns a fresh value so callers can edit it freely.
func BaseLayout() Layout {
	return Layout{
		AutoSize:     true,
		AutoMargin:   true,
		Margin:       Margin{L: 30, R: 30, B: 20, T: 40},
		HoverMode:    "closest",
		PlotBGColor:  "#F9F9F9",
		PaperBGColor: "#F9F9F9",
		Legend:       Legend{Font: Font{Size: 10}, Orientation: "h"},
	}
}

func ptr[T any](v T) *T { return &v }
