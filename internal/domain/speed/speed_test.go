package speed_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/spinematch/internal/domain/model"
	"github.com/okian/spinematch/internal/domain/speed"
	. "github.com/smartystreets/goconvey/convey"
)

func compound() model.BowConfiguration {
	return model.BowConfiguration{
		DrawWeight:     60,
		DrawLength:     29,
		BowType:        model.BowCompound,
		IBOSpeed:       330,
		StringMaterial: model.StringFastflight,
	}
}

func TestEstimator_Chronograph(t *testing.T) {
	Convey("Given an estimator and a verified chronograph record", t, func() {
		est := speed.NewEstimator()
		rec := &model.ChronographRecord{SetupID: "setup", ArrowID: "x10", MeasuredSpeedFPS: 197.35, Verified: true}

		Convey("When the record diverges wildly from the physics model", func() {
			rec.MeasuredSpeedFPS = 612.125
			res, err := est.Estimate(compound(), 400, rec)

			Convey("Then the measurement is returned unchanged", func() {
				So(err, ShouldBeNil)
				So(res.Source, ShouldEqual, speed.SourceChronograph)
				So(res.SpeedFPS, ShouldEqual, 612.125)
				So(res.Clamped, ShouldBeFalse)
			})
		})

		Convey("When the bow has no ibo speed", func() {
			bow := compound()
			bow.IBOSpeed = 0
			res, err := est.Estimate(bow, 400, rec)

			Convey("Then the measurement still wins", func() {
				So(err, ShouldBeNil)
				So(res.SpeedFPS, ShouldEqual, 197.35)
			})
		})

		Convey("When the record is not verified", func() {
			rec.Verified = false
			res, err := est.Estimate(compound(), 400, rec)

			Convey("Then the physics estimate is used", func() {
				So(err, ShouldBeNil)
				So(res.Source, ShouldEqual, speed.SourceEstimated)
			})
		})
	})
}

func TestEstimator_Compound(t *testing.T) {
	Convey("Given an estimator", t, func() {
		est := speed.NewEstimator()

		Convey("When estimating a 60 lb, 29 in compound with a 400 gr arrow", func() {
			res, err := est.Estimate(compound(), 400, nil)

			Convey("Then the gentle weight coefficient and arrow weight ratio apply", func() {
				So(err, ShouldBeNil)
				So(res.Source, ShouldEqual, speed.SourceEstimated)
				So(res.SpeedFPS, ShouldAlmostEqual, 285.30, 0.05)
			})
		})

		Convey("When the arrow is lighter", func() {
			heavy, err := est.Estimate(compound(), 450, nil)
			So(err, ShouldBeNil)
			light, err := est.Estimate(compound(), 350, nil)
			So(err, ShouldBeNil)

			Convey("Then it flies faster", func() {
				So(light.SpeedFPS, ShouldBeGreaterThan, heavy.SpeedFPS)
			})
		})

		Convey("When the string is dacron", func() {
			bow := compound()
			bow.StringMaterial = model.StringDacron
			slow, err := est.Estimate(bow, 400, nil)
			So(err, ShouldBeNil)
			fast, err := est.Estimate(compound(), 400, nil)
			So(err, ShouldBeNil)

			Convey("Then the string modifier slows the arrow", func() {
				So(slow.SpeedFPS, ShouldAlmostEqual, fast.SpeedFPS*0.95, 1e-9)
			})
		})

		Convey("When the inputs are pathological", func() {
			bow := compound()
			bow.IBOSpeed = 360
			res, err := est.Estimate(bow, 60, nil)

			Convey("Then the estimate is clamped to the ceiling", func() {
				So(err, ShouldBeNil)
				So(res.SpeedFPS, ShouldEqual, 450)
				So(res.Clamped, ShouldBeTrue)
			})
		})

		Convey("When the compound has no ibo speed", func() {
			bow := compound()
			bow.IBOSpeed = 0
			_, err := est.Estimate(bow, 400, nil)

			Convey("Then it fails with InvalidConfiguration", func() {
				So(errors.Is(err, model.ErrInvalidConfiguration), ShouldBeTrue)
			})
		})

		Convey("When the draw weight is NaN", func() {
			bow := compound()
			bow.DrawWeight = math.NaN()
			res, err := est.Estimate(bow, 400, nil)

			Convey("Then it fails instead of producing a NaN speed", func() {
				So(errors.Is(err, model.ErrInvalidConfiguration), ShouldBeTrue)
				So(math.IsNaN(res.SpeedFPS), ShouldBeFalse)
			})
		})

		Convey("When a verified record carries an infinite speed", func() {
			rec := &model.ChronographRecord{MeasuredSpeedFPS: math.Inf(1), Verified: true}
			res, err := est.Estimate(compound(), 400, rec)

			Convey("Then the record is ignored", func() {
				So(err, ShouldBeNil)
				So(res.Source, ShouldEqual, speed.SourceEstimated)
			})
		})

		Convey("When the arrow weight is not positive", func() {
			_, err := est.Estimate(compound(), 0, nil)

			Convey("Then it fails with InvalidConfiguration", func() {
				So(errors.Is(err, model.ErrInvalidConfiguration), ShouldBeTrue)
			})
		})
	})
}

func TestEstimator_Recurve(t *testing.T) {
	Convey("Given an estimator", t, func() {
		est := speed.NewEstimator()

		Convey("When estimating a 45 lb recurve without ibo speed", func() {
			bow := model.BowConfiguration{DrawWeight: 45, DrawLength: 28, BowType: model.BowRecurve}
			res, err := est.Estimate(bow, 350, nil)

			Convey("Then the fixed efficiency model gives a plausible speed", func() {
				So(err, ShouldBeNil)
				So(res.Source, ShouldEqual, speed.SourceEstimated)
				So(res.SpeedFPS, ShouldBeBetween, 185, 200)
			})
		})

		Convey("When a longbow is compared with a recurve", func() {
			recurve := model.BowConfiguration{DrawWeight: 50, DrawLength: 28, BowType: model.BowRecurve}
			longbow := model.BowConfiguration{DrawWeight: 50, DrawLength: 28, BowType: model.BowTraditional}
			r, err := est.Estimate(recurve, 400, nil)
			So(err, ShouldBeNil)
			l, err := est.Estimate(longbow, 400, nil)
			So(err, ShouldBeNil)

			Convey("Then the less efficient longbow is slower", func() {
				So(l.SpeedFPS, ShouldBeLessThan, r.SpeedFPS)
			})
		})

		Convey("When a very light bow shoots a heavy arrow", func() {
			bow := model.BowConfiguration{DrawWeight: 20, DrawLength: 26, BowType: model.BowRecurve}
			res, err := est.Estimate(bow, 600, nil)

			Convey("Then the estimate is raised to the floor", func() {
				So(err, ShouldBeNil)
				So(res.SpeedFPS, ShouldEqual, 150)
				So(res.Clamped, ShouldBeTrue)
			})
		})

		Convey("When custom bounds are configured", func() {
			custom := speed.NewEstimator(speed.WithBounds(100, 300))
			bow := model.BowConfiguration{DrawWeight: 20, DrawLength: 26, BowType: model.BowRecurve}
			res, err := custom.Estimate(bow, 600, nil)

			Convey("Then they replace the defaults", func() {
				So(err, ShouldBeNil)
				So(res.SpeedFPS, ShouldBeLessThan, 150)
				So(res.SpeedFPS, ShouldBeGreaterThanOrEqualTo, 100)
			})
		})
	})
}
