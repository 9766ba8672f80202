package model

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func strPtr(s string) *string { return &s }

func TestParseBowType(t *testing.T) {
	Convey("Given bow type spellings", t, func() {
		cases := map[string]BowType{
			"compound":            BowCompound,
			" Recurve ":           BowRecurve,
			"TRADITIONAL":         BowTraditional,
			"longbow":             BowTraditional,
			"traditional/longbow": BowTraditional,
		}
		for in, want := range cases {
			got, err := ParseBowType(in)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, want)
		}

		_, err := ParseBowType("crossbow")
		So(errors.Is(err, ErrInvalidConfiguration), ShouldBeTrue)
	})
}

func TestBowConfiguration_Validate(t *testing.T) {
	Convey("Given a recurve configuration", t, func() {
		bow := BowConfiguration{DrawWeight: 45, DrawLength: 28, BowType: BowRecurve}
		So(bow.Validate(), ShouldBeNil)

		Convey("Then non-positive draw values are rejected", func() {
			b := bow
			b.DrawWeight = 0
			So(errors.Is(b.Validate(), ErrInvalidConfiguration), ShouldBeTrue)
			b = bow
			b.DrawLength = -1
			So(errors.Is(b.Validate(), ErrInvalidConfiguration), ShouldBeTrue)
		})

		Convey("Then NaN and infinite draw values are rejected", func() {
			for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
				b := bow
				b.DrawWeight = v
				So(errors.Is(b.Validate(), ErrInvalidConfiguration), ShouldBeTrue)
				b = bow
				b.DrawLength = v
				So(errors.Is(b.Validate(), ErrInvalidConfiguration), ShouldBeTrue)
				b = BowConfiguration{DrawWeight: 60, DrawLength: 29, BowType: BowCompound, IBOSpeed: v}
				So(errors.Is(b.Validate(), ErrInvalidConfiguration), ShouldBeTrue)
			}
		})

		Convey("Then compound-only fields are rejected", func() {
			b := bow
			b.CamType = "hybrid"
			So(errors.Is(b.Validate(), ErrInvalidConfiguration), ShouldBeTrue)
			b = bow
			b.IBOSpeed = 320
			So(errors.Is(b.Validate(), ErrInvalidConfiguration), ShouldBeTrue)
		})

		Convey("Then an unknown string material is rejected", func() {
			b := bow
			b.StringMaterial = "hemp"
			So(errors.Is(b.Validate(), ErrInvalidConfiguration), ShouldBeTrue)
		})

		Convey("Then a compound may carry cam type and IBO speed", func() {
			b := BowConfiguration{DrawWeight: 60, DrawLength: 29, BowType: BowCompound, CamType: "binary", IBOSpeed: 330}
			So(b.Validate(), ShouldBeNil)
		})
	})
}

func TestArcherProfile(t *testing.T) {
	Convey("Given an archer profile", t, func() {
		p := ArcherProfile{
			Bow:         BowConfiguration{DrawWeight: 45, DrawLength: 28, BowType: BowRecurve},
			ArrowLength: 29, PointWeight: 100, FletchingWeight: 6,
		}

		Convey("Then fletching weight is per vane only when a count is given", func() {
			So(p.TotalFletchingWeight(), ShouldEqual, 6)
			p.FletchingCount = 3
			So(p.TotalFletchingWeight(), ShouldEqual, 18)
		})

		Convey("Then negative build values are rejected", func() {
			p.NockWeight = -1
			So(errors.Is(p.Validate(), ErrInvalidConfiguration), ShouldBeTrue)
		})

		Convey("Then a NaN arrow length is rejected", func() {
			p.ArrowLength = math.NaN()
			So(errors.Is(p.Validate(), ErrInvalidConfiguration), ShouldBeTrue)
		})
	})
}

func TestSpineUnitsAndRanges(t *testing.T) {
	Convey("Given the two spine conventions", t, func() {
		So(UnitDeflection.Stiffer(400, 500), ShouldBeTrue)
		So(UnitWoodPounds.Stiffer(55, 45), ShouldBeTrue)
		So(SpineUnit("").OrDefault(), ShouldEqual, UnitDeflection)

		Convey("Then a range validates its bounds", func() {
			So(SpineRange{Minimum: 500, Maximum: 600}.Validate(), ShouldBeNil)
			So(errors.Is(SpineRange{Minimum: 600, Maximum: 500}.Validate(), ErrInvalidTarget), ShouldBeTrue)
			So(errors.Is(SpineRange{Minimum: 0, Maximum: 500}.Validate(), ErrInvalidTarget), ShouldBeTrue)
			So(errors.Is(SpineRange{Minimum: 1, Maximum: 5, Units: "grams"}.Validate(), ErrInvalidTarget), ShouldBeTrue)
		})

		Convey("Then Contains is inclusive", func() {
			r := SpineRange{Minimum: 500, Maximum: 600}
			So(r.Contains(500), ShouldBeTrue)
			So(r.Contains(600), ShouldBeTrue)
			So(r.Contains(601), ShouldBeFalse)
		})

		Convey("Then spec units fall back to the product material", func() {
			spec := SpineSpecification{Spine: 45}
			So(ArrowProduct{Material: strPtr("Port Orford Cedar wood")}.UnitsFor(spec), ShouldEqual, UnitWoodPounds)
			So(ArrowProduct{Material: strPtr("carbon")}.UnitsFor(spec), ShouldEqual, UnitDeflection)
			So(ArrowProduct{}.UnitsFor(spec), ShouldEqual, UnitDeflection)
			spec.Units = UnitWoodPounds
			So(ArrowProduct{}.UnitsFor(spec), ShouldEqual, UnitWoodPounds)
		})
	})
}

func TestFilters_Accepts(t *testing.T) {
	Convey("Given catalog products with and without material data", t, func() {
		carbon := ArrowProduct{Manufacturer: "Gold Tip", ArrowType: "Hunting", Material: strPtr("Carbon")}
		unknown := ArrowProduct{Manufacturer: "Acme"}
		spec := SpineSpecification{Spine: 500, OuterDiameter: 0.3}

		Convey("Then an empty filter accepts everything", func() {
			So(Filters{}.Accepts(unknown, SpineSpecification{}), ShouldBeTrue)
		})

		Convey("Then a material filter excludes products without material", func() {
			f := Filters{Material: "wood"}
			So(func() { f.Accepts(unknown, spec) }, ShouldNotPanic)
			So(f.Accepts(unknown, spec), ShouldBeFalse)
			So(Filters{Material: "carbon"}.Accepts(carbon, spec), ShouldBeTrue)
		})

		Convey("Then manufacturer is a case-insensitive substring", func() {
			So(Filters{Manufacturer: "gold"}.Accepts(carbon, spec), ShouldBeTrue)
			So(Filters{Manufacturer: "easton"}.Accepts(carbon, spec), ShouldBeFalse)
		})

		Convey("Then arrow type must match exactly", func() {
			So(Filters{ArrowType: "hunting"}.Accepts(carbon, spec), ShouldBeTrue)
			So(Filters{ArrowType: "hunt"}.Accepts(carbon, spec), ShouldBeFalse)
		})

		Convey("Then the diameter range needs a known diameter", func() {
			f := Filters{DiameterRange: &DiameterRange{Min: 0.25, Max: 0.31}}
			So(f.Accepts(carbon, spec), ShouldBeTrue)
			So(f.Accepts(carbon, SpineSpecification{Spine: 500}), ShouldBeFalse)
			So(f.Accepts(carbon, SpineSpecification{Spine: 500, OuterDiameter: 0.2}), ShouldBeFalse)
		})
	})
}

func TestChartRow(t *testing.T) {
	Convey("Given a 40-45 lb bracket", t, func() {
		r := ChartRow{DrawWeightMin: 40, DrawWeightMax: 45}

		So(r.Contains(40), ShouldBeTrue)
		So(r.Contains(45.5), ShouldBeFalse)
		So(r.Distance(42), ShouldEqual, 0)
		So(r.Distance(37), ShouldEqual, 3)
		So(r.Distance(47), ShouldEqual, 2)
	})
}
