package chart

import "github.com/okian/medalboard/internal/domain/medals"

// Bar colours for the yearly chart. Years outside the selected window use the
// faded variant of the same colour.
const (
	MedalColor        = "rgb(123, 199, 255)"
	MedalColorFaded   = "rgba(123, 199, 255, 0.2)"
	AthleteColor      = "rgb(199, 255, 123)"
	AthleteColorFaded = "rgba(199, 255, 123, 0.2)"
)

const (
	YearlyTitle      = "Nombre d'athlètes et de médailles"
	TopAthletesTitle = "Meilleurs athlètes"
)

// YearlyFigure builds the four-trace yearly chart. Every year in counts is
// plotted; years outside window are only faded, not dropped. The two
// invisible scatter traces exist so box selection has points to grab.
func YearlyFigure(counts []medals.YearCount, window medals.Window) Figure {
	x := make([]any, len(counts))
	medalY := make([]int, len(counts))
	athleteY := make([]int, len(counts))
	medalColors := make([]string, len(counts))
	athleteColors := make([]string, len(counts))
	for i, c := range counts {
		x[i] = c.Year
		medalY[i] = c.Medals
		athleteY[i] = c.Athletes
		if window.Contains(c.Year) {
			medalColors[i] = MedalColor
			athleteColors[i] = AthleteColor
		} else {
			medalColors[i] = MedalColorFaded
			athleteColors[i] = AthleteColorFaded
		}
	}

	layout := BaseLayout()
	layout.Title = YearlyTitle
	layout.DragMode = "select"
	layout.ShowLegend = ptr(true)

	return Figure{
		Data: []Trace{
			hoverTrace("Medals", x, medalY),
			{Type: "bar", Name: "Medals", X: x, Y: medalY, Marker: &Marker{Color: medalColors}},
			hoverTrace("Athletes", x, athleteY),
			{Type: "bar", Name: "Athletes", X: x, Y: athleteY, Marker: &Marker{Color: athleteColors}},
		},
		Layout: layout,
	}
}

func hoverTrace(name string, x []any, y []int) Trace {
	return Trace{
		Type:      "scatter",
		Mode:      "markers",
		Name:      name,
		X:         x,
		Y:         y,
		Opacity:   ptr(0.0),
		HoverInfo: "skip",
	}
}

// TopAthletesFigure builds the single-trace bar chart of the best athletes,
// one bar per athlete labelled with its display name.
func TopAthletesFigure(athletes []medals.AthleteCount) Figure {
	x := make([]any, len(athletes))
	y := make([]int, len(athletes))
	for i, a := range athletes {
		x[i] = a.Name
		y[i] = a.Medals
	}

	layout := BaseLayout()
	layout.Title = TopAthletesTitle
	layout.ShowLegend = ptr(false)
	layout.XAxis = &Axis{Title: "athlete"}
	layout.YAxis = &Axis{Title: "medal_type"}

	return Figure{
		Data:   []Trace{{Type: "bar", X: x, Y: y}},
		Layout: layout,
	}
}
