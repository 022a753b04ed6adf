// Package view describes the dashboard page as data: a component tree and the
// callback bindings between input controls and outputs. The browser builds the
// page from this description; aggregation lives elsewhere.
package view

import (
	"strconv"

	"github.com/okian/medalboard/internal/domain/medals"
)

// Component kinds understood by the page renderer.
const (
	KindContainer = "container"
	KindHeading   = "heading"
	KindText      = "text"
	KindRange     = "range-slider"
	KindRadio     = "radio"
	KindDropdown  = "dropdown"
	KindGraph     = "graph"
	KindValue     = "value"
)

// Component ids. Outputs share their id with the update response keys.
const (
	YearSlider   = "year-slider"
	CountryMenu  = "country-menu"
	SexSelector  = "sex-selector"
	YearlyChart  = "yearly_chart"
	MedalText    = "medal_text"
	TopAthletes  = "top_athletes"
	propValue    = "value"
	propFigure   = "figure"
	propChildren = "children"
)

// Component is one node of the page tree.
type Component struct {
	ID        string         `json:"id,omitempty"`
	Kind      string         `json:"kind"`
	ClassName string         `json:"className,omitempty"`
	Props     map[string]any `json:"props,omitempty"`
	Children  []Component    `json:"children,omitempty"`
}

// Ref points at a property of a component.
type Ref struct {
	ID       string `json:"id"`
	Property string `json:"property"`
}

// Binding recomputes Output whenever any of Inputs changes.
type Binding struct {
	Output Ref   `json:"output"`
	Inputs []Ref `json:"inputs"`
}

// Description is the full page.
type Description struct {
	Title    string    `json:"title"`
	Root     Component `json:"root"`
	Bindings []Binding `json:"bindings"`
	Defaults Selection `json:"defaults"`
}

// Selection is the value of the three input controls.
type Selection struct {
	Years     [2]int   `json:"years"`
	Countries []string `json:"countries"`
	Sex       string   `json:"sex"`
}

// Option is one choice of a radio or dropdown.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Settings tune how controls are seeded from the dataset.
type Settings struct {
	Title            string
	Subtitle         string
	MarkStart        int
	MarkStep         int
	DefaultCountries []string
}

// DefaultSettings returns the page settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Title:            "Dashboard des JO",
		Subtitle:         "Dashboard pour le brief Dessine moi les JO.",
		MarkStart:        1896,
		MarkStep:         16,
		DefaultCountries: []string{"Greece", "Australia", "Russia"},
	}
}

// SexOptions are the radio choices, in display order.
var SexOptions = []Option{
	{Label: "Total ", Value: string(medals.SexAll)},
	{Label: "Homme ", Value: string(medals.SexMan)},
	{Label: "Femme ", Value: string(medals.SexWoman)},
}

// Build describes the dashboard for ds.
func Build(ds *medals.Dataset, s Settings) Description {
	span := ds.YearSpan()
	countries := ds.Countries()
	defaults := DefaultCountries(countries, s.DefaultCountries)

	countryOptions := make([]Option, len(countries))
	for i, c := range countries {
		countryOptions[i] = Option{Label: c, Value: c}
	}

	controls := Component{
		ID:        "cross-filter-options",
		Kind:      KindContainer,
		ClassName: "pretty_container four columns",
		Children: []Component{
			{Kind: KindText, ClassName: "control_label", Props: map[string]any{propChildren: "Filtrer les résultats par date:"}},
			{ID: YearSlider, Kind: KindRange, Props: map[string]any{
				"min":     span.Min,
				"max":     span.Max,
				propValue: []int{span.Min, span.Max},
				"marks":   Marks(span, s.MarkStart, s.MarkStep),
				"step":    1,
			}},
			{Kind: KindText, ClassName: "control_label", Props: map[string]any{propChildren: "Sexe à afficher :"}},
			{ID: SexSelector, Kind: KindRadio, ClassName: "dcc_control", Props: map[string]any{
				"options": SexOptions,
				propValue: string(medals.SexAll),
			}},
			{ID: CountryMenu, Kind: KindDropdown, ClassName: "dcc_control", Props: map[string]any{
				"options": countryOptions,
				"multi":   true,
				propValue: defaults,
			}},
		},
	}

	outputs := Component{
		ID:        "right-column",
		Kind:      KindContainer,
		ClassName: "eight columns",
		Children: []Component{
			{
				ID:        "info-container",
				Kind:      KindContainer,
				ClassName: "row container-display",
				Children: []Component{
					{ID: "medals", Kind: KindContainer, ClassName: "mini_container", Children: []Component{
						{ID: MedalText, Kind: KindValue},
						{Kind: KindText, Props: map[string]any{propChildren: "Nombre de médailles"}},
					}},
					{Kind: KindContainer, ClassName: "pretty_container five columns", Children: []Component{
						{ID: TopAthletes, Kind: KindGraph},
					}},
				},
			},
			{ID: "countGraphContainer", Kind: KindContainer, ClassName: "pretty_container", Children: []Component{
				{ID: YearlyChart, Kind: KindGraph},
			}},
		},
	}

	root := Component{
		Kind: KindContainer,
		Children: []Component{
			{Kind: KindHeading, Props: map[string]any{propChildren: s.Title}},
			{Kind: KindText, Props: map[string]any{propChildren: s.Subtitle}},
			{Kind: KindContainer, ClassName: "row flex-display", Children: []Component{controls, outputs}},
		},
	}

	inputs := []Ref{
		{ID: YearSlider, Property: propValue},
		{ID: CountryMenu, Property: propValue},
		{ID: SexSelector, Property: propValue},
	}
	return Description{
		Title: s.Title,
		Root:  root,
		Bindings: []Binding{
			{Output: Ref{ID: YearlyChart, Property: propFigure}, Inputs: inputs},
			{Output: Ref{ID: MedalText, Property: propChildren}, Inputs: inputs},
			{Output: Ref{ID: TopAthletes, Property: propFigure}, Inputs: inputs},
		},
		Defaults: Selection{
			Years:     [2]int{span.Min, span.Max},
			Countries: defaults,
			Sex:       string(medals.SexAll),
		},
	}
}

// Marks labels the slider every step years from start up to the end of span.
func Marks(span medals.Window, start, step int) map[string]string {
	marks := map[string]string{}
	if step <= 0 || span.Empty() {
		return marks
	}
	for y := start; y <= span.Max; y += step {
		marks[strconv.Itoa(y)] = strconv.Itoa(y)
	}
	return marks
}

// DefaultCountries keeps the wanted countries that exist in available, in
// wanted order. Repeats are dropped.
func DefaultCountries(available, wanted []string) []string {
	have := make(map[string]struct{}, len(available))
	for _, c := range available {
		have[c] = struct{}{}
	}
	out := []string{}
	for _, c := range wanted {
		if _, ok := have[c]; ok {
			out = append(out, c)
			delete(have, c)
		}
	}
	return out
}
