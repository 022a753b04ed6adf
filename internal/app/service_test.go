package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	service "github.com/okian/medalboard/internal/app"
	"github.com/okian/medalboard/internal/domain/medals"
	"github.com/okian/medalboard/internal/domain/view"
	"github.com/okian/medalboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// olympics builds 100 rows: 40 Greece, 35 Australia, 25 Russia, spread over
// 1896..1912 with alternating sexes and twelve athletes per country.
func olympics() *medals.Dataset {
	countries := []struct {
		name string
		n    int
	}{{"Greece", 40}, {"Australia", 35}, {"Russia", 25}}
	years := []int{1896, 1900, 1904, 1908, 1912}

	var rows []medals.Record
	for _, c := range countries {
		for k := 0; k < c.n; k++ {
			sex := medals.SexMan
			if k%2 == 1 {
				sex = medals.SexWoman
			}
			rows = append(rows, medals.Record{
				Country:    c.name,
				Sex:        sex,
				Year:       years[k%len(years)],
				MedalType:  "GOLD",
				AthleteURL: fmt.Sprintf("https://olympics.com/en/athletes/%s-athlete-%d", c.name, k%12),
			})
		}
	}
	return medals.NewDataset(rows)
}

func TestNew(t *testing.T) {
	Convey("Given no options", t, func() {
		svc := service.New()

		Convey("Then defaults should be reported", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["topAthletes"], ShouldEqual, 10)
			So(stats["cycleOffset"], ShouldEqual, 4)
			So(stats, ShouldNotContainKey, "rows")
		})

		Convey("When starting without a dataset or source", func() {
			err := svc.Start(context.Background())

			Convey("Then it should fail with ErrNoDataset", func() {
				So(errors.Is(err, service.ErrNoDataset), ShouldBeTrue)
			})
		})

		Convey("When asking for the layout", func() {
			_, err := svc.Layout(context.Background())

			Convey("Then it should fail with ErrNoDataset", func() {
				So(errors.Is(err, service.ErrNoDataset), ShouldBeTrue)
			})
		})
	})

	Convey("Given custom options", t, func() {
		svc := service.New(
			service.WithDataset(olympics()),
			service.WithTopAthletes(3),
			service.WithCycleOffset(0),
		)

		Convey("Then they should be applied", func() {
			stats := svc.GetStats()
			So(stats["topAthletes"], ShouldEqual, 3)
			So(stats["cycleOffset"], ShouldEqual, 0)
			So(stats["rows"], ShouldEqual, 100)
			So(stats["countries"], ShouldEqual, 3)
			So(stats["yearMin"], ShouldEqual, 1896)
			So(stats["yearMax"], ShouldEqual, 1912)
		})
	})
}

func TestStartStop(t *testing.T) {
	Convey("Given a service with an injected dataset", t, func() {
		svc := service.New(service.WithDataset(olympics()))
		ctx := context.Background()

		Convey("When starting twice", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then it should be started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats, ShouldContainKey, "loadedAt")
			})

			Convey("And stopping should keep the table readable", func() {
				svc.Stop()
				svc.Stop()
				So(svc.GetStats()["started"], ShouldEqual, false)
				total, err := svc.MedalTotal(ctx, service.Selection{
					Years:     medals.Window{Min: 1896, Max: 1912},
					Countries: []string{"Greece"},
					Sex:       medals.SexAll,
				})
				So(err, ShouldBeNil)
				So(total, ShouldEqual, 40)
			})
		})
	})
}

func TestCallbacks(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithDataset(olympics()))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		greece := service.Selection{
			Years:     medals.Window{Min: 1896, Max: 1912},
			Countries: []string{"Greece"},
			Sex:       medals.SexAll,
		}

		Convey("When computing the yearly chart for Greece", func() {
			fig, err := svc.YearlyChart(ctx, greece)

			Convey("Then every year should have eight medals", func() {
				So(err, ShouldBeNil)
				So(len(fig.Data), ShouldEqual, 4)
				So(fig.Data[1].X, ShouldResemble, []any{1896, 1900, 1904, 1908, 1912})
				So(fig.Data[1].Y, ShouldResemble, []int{8, 8, 8, 8, 8})
			})
		})

		Convey("When narrowing the window of the yearly chart", func() {
			sel := greece
			sel.Years = medals.Window{Min: 1904, Max: 1904}
			fig, err := svc.YearlyChart(ctx, sel)

			Convey("Then every year should still be plotted", func() {
				So(err, ShouldBeNil)
				So(len(fig.Data[1].X), ShouldEqual, 5)
			})
		})

		Convey("When the window is reversed", func() {
			sel := greece
			sel.Years = medals.Window{Min: 1912, Max: 1896}
			fig, err := svc.YearlyChart(ctx, sel)
			So(err, ShouldBeNil)
			total, err := svc.MedalTotal(ctx, sel)
			So(err, ShouldBeNil)

			Convey("Then nothing should match", func() {
				So(fig.Data[1].X, ShouldBeEmpty)
				So(total, ShouldEqual, 0)
			})
		})

		Convey("When counting medals for men only", func() {
			sel := greece
			sel.Sex = medals.SexMan
			total, err := svc.MedalTotal(ctx, sel)

			Convey("Then half of the rows should count", func() {
				So(err, ShouldBeNil)
				So(total, ShouldEqual, 20)
			})
		})

		Convey("When counting medals with no country selected", func() {
			sel := greece
			sel.Countries = nil
			total, err := svc.MedalTotal(ctx, sel)

			Convey("Then the total should be zero", func() {
				So(err, ShouldBeNil)
				So(total, ShouldEqual, 0)
			})
		})

		Convey("When ranking the best athletes of Greece", func() {
			fig, err := svc.TopAthletes(ctx, greece)

			Convey("Then ten athletes should be shown, best first", func() {
				So(err, ShouldBeNil)
				So(len(fig.Data), ShouldEqual, 1)
				So(len(fig.Data[0].X), ShouldEqual, 10)
				So(fig.Data[0].X[0], ShouldEqual, "0")
				So(fig.Data[0].Y[0], ShouldEqual, 4)
				So(fig.Data[0].Y[9], ShouldEqual, 3)
			})
		})

		Convey("When running every callback at once", func() {
			u := svc.Update(ctx, greece)

			Convey("Then every output should be present", func() {
				So(u.Errors, ShouldBeEmpty)
				So(u.YearlyChart, ShouldNotBeNil)
				So(u.TopAthletes, ShouldNotBeNil)
				So(u.MedalText, ShouldNotBeNil)
				So(*u.MedalText, ShouldEqual, "40")
			})
		})

		Convey("When asking for the layout", func() {
			desc, err := svc.Layout(ctx)

			Convey("Then defaults should come from the table", func() {
				So(err, ShouldBeNil)
				So(desc.Defaults.Years, ShouldResemble, [2]int{1896, 1912})
				So(len(desc.Bindings), ShouldEqual, 3)
			})

			Convey("And unconfigured page settings should match the config defaults", func() {
				want := view.DefaultSettings()
				So(desc.Title, ShouldEqual, want.Title)
				So(desc.Defaults.Countries, ShouldResemble, []string{"Greece", "Australia", "Russia"})
				So(desc.Root.Children[1].Props["children"], ShouldEqual, want.Subtitle)
			})
		})
	})
}

func TestChartPNG(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithDataset(olympics()))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)

		sel := service.Selection{
			Years:     medals.Window{Min: 1896, Max: 1912},
			Countries: []string{"Greece", "Russia"},
			Sex:       medals.SexAll,
		}

		Convey("When rendering the yearly chart", func() {
			var buf bytes.Buffer
			err := svc.ChartPNG(ctx, service.ChartYearly, sel, &buf)

			Convey("Then a PNG image should be written", func() {
				So(err, ShouldBeNil)
				So(buf.Len(), ShouldBeGreaterThan, 8)
				So(buf.Bytes()[:4], ShouldResemble, []byte{0x89, 'P', 'N', 'G'})
			})
		})

		Convey("When rendering an unknown chart", func() {
			var buf bytes.Buffer
			err := svc.ChartPNG(ctx, "pie", sel, &buf)

			Convey("Then it should fail with ErrUnknownChart", func() {
				So(errors.Is(err, service.ErrUnknownChart), ShouldBeTrue)
				So(buf.Len(), ShouldEqual, 0)
			})
		})
	})
}
