package spine_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/okian/spinematch/internal/domain/model"
	"github.com/okian/spinematch/internal/domain/spine"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeCharts map[string]model.SpineChart

func (f fakeCharts) GetChart(_ context.Context, id string) (model.SpineChart, error) {
	for _, c := range f {
		if c.ID == id || strings.EqualFold(c.Manufacturer, id) {
			return c, nil
		}
	}
	return model.SpineChart{}, model.ErrChartNotFound
}

func testCharts() fakeCharts {
	return fakeCharts{
		"target": {
			ID:           "target",
			Manufacturer: "Arrowsmith",
			Units:        model.UnitDeflection,
			Rows: []model.ChartRow{
				{BowType: model.BowRecurve, DrawWeightMin: 30, DrawWeightMax: 35, Spine: 800},
				{BowType: model.BowRecurve, DrawWeightMin: 35, DrawWeightMax: 40, Spine: 700},
				{BowType: model.BowRecurve, DrawWeightMin: 40, DrawWeightMax: 45, Spine: 600, SpineMin: 580, SpineMax: 640},
				{BowType: model.BowCompound, DrawWeightMin: 50, DrawWeightMax: 60, DrawLength: 28, Spine: 400},
				{BowType: model.BowCompound, DrawWeightMin: 60, DrawWeightMax: 70, DrawLength: 28, Spine: 340},
				{BowType: model.BowCompound, DrawWeightMin: 50, DrawWeightMax: 60, DrawLength: 30, Spine: 350},
				{BowType: model.BowCompound, DrawWeightMin: 60, DrawWeightMax: 70, DrawLength: 30, Spine: 300},
			},
		},
		"gapped": {
			ID: "gapped",
			Rows: []model.ChartRow{
				{BowType: model.BowRecurve, DrawWeightMin: 30, DrawWeightMax: 35, Spine: 800},
				{BowType: model.BowRecurve, DrawWeightMin: 40, DrawWeightMax: 45, Spine: 600},
			},
		},
		"cedar": {
			ID:    "cedar",
			Units: model.UnitWoodPounds,
			Rows: []model.ChartRow{
				{BowType: model.BowTraditional, DrawWeightMin: 35, DrawWeightMax: 40, Spine: 40},
				{BowType: model.BowTraditional, DrawWeightMin: 45, DrawWeightMax: 50, Spine: 50},
			},
		},
	}
}

func TestChartLookup(t *testing.T) {
	Convey("Given a chart lookup", t, func() {
		ctx := context.Background()
		lookup := spine.NewChartLookup(testCharts())

		Convey("When the draw weight lies inside a bracket", func() {
			m, err := lookup.Lookup(ctx, "target", recurve(37), 28)

			Convey("Then the containing row is used", func() {
				So(err, ShouldBeNil)
				So(m.CalculatedSpine, ShouldEqual, 700)
				So(m.Exact, ShouldBeTrue)
				So(m.SourceChart.ID, ShouldEqual, "target")
			})
		})

		Convey("When the draw weight is above every bracket", func() {
			m, err := lookup.Lookup(ctx, "target", recurve(47.5), 28)

			Convey("Then the nearest bracket is used", func() {
				So(err, ShouldBeNil)
				So(m.CalculatedSpine, ShouldEqual, 600)
				So(m.Exact, ShouldBeFalse)
			})
		})

		Convey("When the draw weight is equally far from two brackets", func() {
			m, err := lookup.Lookup(ctx, "gapped", recurve(37.5), 28)

			Convey("Then the stiffer recommendation wins", func() {
				So(err, ShouldBeNil)
				So(m.CalculatedSpine, ShouldEqual, 600)
				So(m.SourceChart.Units, ShouldEqual, model.UnitDeflection)
			})
		})

		Convey("When a wood chart ties between two brackets", func() {
			bow := model.BowConfiguration{DrawWeight: 42.5, DrawLength: 28, BowType: model.BowTraditional}
			m, err := lookup.Lookup(ctx, "cedar", bow, 28)

			Convey("Then the higher pound-test row is stiffer", func() {
				So(err, ShouldBeNil)
				So(m.CalculatedSpine, ShouldEqual, 50)
			})
		})

		Convey("When rows are split by draw length", func() {
			bow := model.BowConfiguration{DrawWeight: 55, DrawLength: 29.5, BowType: model.BowCompound, IBOSpeed: 320}

			Convey("Then the nearest draw length is used", func() {
				m, err := lookup.Lookup(ctx, "target", bow, 29.5)
				So(err, ShouldBeNil)
				So(m.CalculatedSpine, ShouldEqual, 350)
			})

			Convey("Then draw length ties prefer the shorter length", func() {
				m, err := lookup.Lookup(ctx, "target", bow, 29)
				So(err, ShouldBeNil)
				So(m.CalculatedSpine, ShouldEqual, 400)
			})
		})

		Convey("When the chart is resolved by manufacturer", func() {
			m, err := lookup.Lookup(ctx, "arrowsmith", recurve(42), 28)

			Convey("Then it resolves the same chart", func() {
				So(err, ShouldBeNil)
				So(m.SourceChart.ID, ShouldEqual, "target")
			})
		})

		Convey("When the chart does not exist", func() {
			_, err := lookup.Lookup(ctx, "missing", recurve(40), 28)

			Convey("Then it fails with ChartNotFound", func() {
				So(errors.Is(err, model.ErrChartNotFound), ShouldBeTrue)
			})
		})

		Convey("When the chart has no row for the bow type", func() {
			bow := model.BowConfiguration{DrawWeight: 40, DrawLength: 28, BowType: model.BowTraditional}
			_, err := lookup.Lookup(ctx, "target", bow, 28)

			Convey("Then it fails with NoMatchingRow", func() {
				So(errors.Is(err, model.ErrNoMatchingRow), ShouldBeTrue)
			})
		})
	})
}

func TestCalculator_Chart(t *testing.T) {
	Convey("Given a calculator with a chart source", t, func() {
		ctx := context.Background()
		calc := spine.NewCalculator(spine.WithChartSource(testCharts()))

		Convey("When the row defines a spine range", func() {
			res, err := calc.Calculate(ctx, spine.Request{Bow: recurve(42), Method: spine.MethodChart, ChartSelection: "target"})

			Convey("Then the range comes from the row", func() {
				So(err, ShouldBeNil)
				So(res.Method, ShouldEqual, spine.MethodChart)
				So(res.CalculatedSpine, ShouldEqual, 600)
				So(res.Range.Minimum, ShouldEqual, 580)
				So(res.Range.Maximum, ShouldEqual, 640)
				So(res.Chart, ShouldNotBeNil)
				So(res.Adjustments, ShouldNotBeEmpty)
			})
		})

		Convey("When the row has a single spine", func() {
			res, err := calc.Calculate(ctx, spine.Request{Bow: recurve(37), Method: spine.MethodChart, ChartSelection: "target"})

			Convey("Then a symmetric range surrounds it", func() {
				So(err, ShouldBeNil)
				So(res.Range.Minimum, ShouldEqual, 675)
				So(res.Range.Maximum, ShouldEqual, 725)
			})
		})

		Convey("When the chart is a wood chart", func() {
			bow := model.BowConfiguration{DrawWeight: 37, DrawLength: 28, BowType: model.BowTraditional}
			res, err := calc.Calculate(ctx, spine.Request{Bow: bow, Method: spine.MethodChart, ChartSelection: "cedar"})

			Convey("Then the chart units are carried through", func() {
				So(err, ShouldBeNil)
				So(res.Units, ShouldEqual, model.UnitWoodPounds)
				So(res.Range.Minimum, ShouldEqual, 35)
				So(res.Range.Maximum, ShouldEqual, 45)
			})
		})

		Convey("When the chart lookup fails", func() {
			_, err := calc.Calculate(ctx, spine.Request{Bow: recurve(37), Method: spine.MethodChart, ChartSelection: "nope"})

			Convey("Then the chart error is returned", func() {
				So(errors.Is(err, model.ErrChartNotFound), ShouldBeTrue)
			})
		})
	})
}
