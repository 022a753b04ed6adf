package chart_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/medalboard/internal/domain/chart"
	"github.com/okian/medalboard/internal/domain/medals"
	. "github.com/smartystreets/goconvey/convey"
)

func TestYearlyFigure(t *testing.T) {
	Convey("Given yearly counts and a window", t, func() {
		counts := []medals.YearCount{
			{Year: 1896, Medals: 3, Athletes: 3},
			{Year: 1900, Medals: 5, Athletes: 4},
			{Year: 1904, Medals: 2, Athletes: 2},
		}
		fig := chart.YearlyFigure(counts, medals.Window{Min: 1900, Max: 1904})

		Convey("Then it should have two hidden and two bar traces", func() {
			So(len(fig.Data), ShouldEqual, 4)
			So(fig.Data[0].Type, ShouldEqual, "scatter")
			So(*fig.Data[0].Opacity, ShouldEqual, 0.0)
			So(fig.Data[0].HoverInfo, ShouldEqual, "skip")
			So(fig.Data[1].Type, ShouldEqual, "bar")
			So(fig.Data[1].Name, ShouldEqual, "Medals")
			So(fig.Data[3].Name, ShouldEqual, "Athletes")
		})

		Convey("And every year should be plotted", func() {
			So(fig.Data[1].X, ShouldResemble, []any{1896, 1900, 1904})
			So(fig.Data[1].Y, ShouldResemble, []int{3, 5, 2})
			So(fig.Data[3].Y, ShouldResemble, []int{3, 4, 2})
		})

		Convey("And years outside the window should be faded", func() {
			So(fig.Data[1].Marker.Color, ShouldResemble, []string{chart.MedalColorFaded, chart.MedalColor, chart.MedalColor})
			So(fig.Data[3].Marker.Color, ShouldResemble, []string{chart.AthleteColorFaded, chart.AthleteColor, chart.AthleteColor})
		})

		Convey("And the layout should enable selection and the legend", func() {
			So(fig.Layout.Title, ShouldEqual, chart.YearlyTitle)
			So(fig.Layout.DragMode, ShouldEqual, "select")
			So(*fig.Layout.ShowLegend, ShouldBeTrue)
			So(fig.Layout.PlotBGColor, ShouldEqual, "#F9F9F9")
		})

		Convey("And it should serialize to the Plotly figure shape", func() {
			raw, err := json.Marshal(fig)
			So(err, ShouldBeNil)
			var decoded map[string]any
			So(json.Unmarshal(raw, &decoded), ShouldBeNil)
			So(decoded, ShouldContainKey, "data")
			So(decoded, ShouldContainKey, "layout")
			first := decoded["data"].([]any)[0].(map[string]any)
			So(first["opacity"], ShouldEqual, 0.0)
		})
	})

	Convey("Given no counts", t, func() {
		fig := chart.YearlyFigure(nil, medals.Window{Min: 1896, Max: 2020})

		Convey("Then the traces should be empty", func() {
			So(len(fig.Data), ShouldEqual, 4)
			for _, tr := range fig.Data {
				So(tr.X, ShouldBeEmpty)
				So(tr.Y, ShouldBeEmpty)
			}
		})
	})
}

func TestTopAthletesFigure(t *testing.T) {
	Convey("Given a list of athletes", t, func() {
		fig := chart.TopAthletesFigure([]medals.AthleteCount{
			{URL: "a/michael-phelps", Name: "phelps", Medals: 8},
			{URL: "a/mark-spitz", Name: "spitz", Medals: 7},
		})

		Convey("Then it should have a single bar trace labelled by name", func() {
			So(len(fig.Data), ShouldEqual, 1)
			So(fig.Data[0].Type, ShouldEqual, "bar")
			So(fig.Data[0].X, ShouldResemble, []any{"phelps", "spitz"})
			So(fig.Data[0].Y, ShouldResemble, []int{8, 7})
			So(fig.Layout.YAxis.Title, ShouldEqual, "medal_type")
		})
	})

	Convey("Given base layouts", t, func() {
		a := chart.BaseLayout()
		a.Title = "changed"

		Convey("Then each call should be independent", func() {
			So(chart.BaseLayout().Title, ShouldEqual, "")
		})
	})
}
