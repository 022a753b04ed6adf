package render_test

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/okian/medalboard/internal/adapters/render"
	"github.com/okian/medalboard/internal/domain/chart"
	"github.com/okian/medalboard/internal/domain/medals"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseColor(t *testing.T) {
	Convey("Given chart colour strings", t, func() {
		c, ok := render.ParseColor(chart.MedalColor)
		So(ok, ShouldBeTrue)
		So(c, ShouldResemble, drawing.Color{R: 123, G: 199, B: 255, A: 255})

		c, ok = render.ParseColor(chart.AthleteColorFaded)
		So(ok, ShouldBeTrue)
		So(c, ShouldResemble, drawing.Color{R: 199, G: 255, B: 123, A: 51})

		for _, bad := range []string{"", "#F9F9F9", "rgb(1,2)", "rgb(300,0,0)", "rgba(1,2,3,2)"} {
			_, ok := render.ParseColor(bad)
			So(ok, ShouldBeFalse)
		}
	})
}

func TestRendererPNG(t *testing.T) {
	Convey("Given a renderer", t, func() {
		r := render.New(render.WithSize(640, 320))

		Convey("When rendering a yearly figure", func() {
			fig := chart.YearlyFigure([]medals.YearCount{
				{Year: 1896, Medals: 3, Athletes: 3},
				{Year: 1900, Medals: 0, Athletes: 0},
				{Year: 1904, Medals: 7, Athletes: 6},
			}, medals.Window{Min: 1900, Max: 1904})
			var buf bytes.Buffer
			err := r.PNG(fig, &buf)

			Convey("Then a valid PNG should be written", func() {
				So(err, ShouldBeNil)
				img, err := png.Decode(&buf)
				So(err, ShouldBeNil)
				So(img.Bounds().Dx(), ShouldEqual, 640)
				So(img.Bounds().Dy(), ShouldEqual, 320)
			})
		})

		Convey("When rendering a figure with many bars", func() {
			athletes := make([]medals.AthleteCount, 40)
			for i := range athletes {
				athletes[i] = medals.AthleteCount{Name: "a", Medals: 40 - i}
			}
			var buf bytes.Buffer
			So(r.PNG(chart.TopAthletesFigure(athletes), &buf), ShouldBeNil)

			Convey("Then the image should widen to fit them", func() {
				img, err := png.Decode(&buf)
				So(err, ShouldBeNil)
				So(img.Bounds().Dx(), ShouldBeGreaterThan, 640)
			})
		})

		Convey("When the figure is empty", func() {
			var buf bytes.Buffer
			err := r.PNG(chart.TopAthletesFigure(nil), &buf)

			Convey("Then ErrNoData should be returned", func() {
				So(errors.Is(err, render.ErrNoData), ShouldBeTrue)
				So(buf.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestWithSize(t *testing.T) {
	Convey("Given a renderer sized with only a height", t, func() {
		r := render.New(render.WithSize(0, 300))
		fig := chart.TopAthletesFigure([]medals.AthleteCount{{Name: "louis", Medals: 2}})
		var buf bytes.Buffer
		So(r.PNG(fig, &buf), ShouldBeNil)

		Convey("Then the width should keep its default", func() {
			img, err := png.Decode(&buf)
			So(err, ShouldBeNil)
			So(img.Bounds().Dx(), ShouldEqual, 1024)
			So(img.Bounds().Dy(), ShouldEqual, 300)
		})
	})
}
