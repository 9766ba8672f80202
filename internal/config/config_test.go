package config_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/okian/spinematch/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.DefaultMethod, convey.ShouldEqual, "universal")
			convey.So(cfg.DefaultLimit, convey.ShouldEqual, 20)
			convey.So(cfg.MaxLimit, convey.ShouldEqual, 100)
			convey.So(cfg.MaxDeviation, convey.ShouldEqual, 100)
			convey.So(cfg.MaxWoodDeviation, convey.ShouldEqual, 15)
			convey.So(cfg.SpeedFloorFPS, convey.ShouldEqual, 150)
			convey.So(cfg.SpeedCeilingFPS, convey.ShouldEqual, 450)
			convey.So(cfg.BatchWorkers, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.MaxBatch, convey.ShouldEqual, 100)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()

		cases := map[string]func(*config.Config){
			"empty addr":            func(c *config.Config) { c.Addr = "" },
			"zero default limit":    func(c *config.Config) { c.DefaultLimit = 0 },
			"max below default":     func(c *config.Config) { c.MaxLimit = 5 },
			"zero deviation":        func(c *config.Config) { c.MaxDeviation = 0 },
			"zero wood deviation":   func(c *config.Config) { c.MaxWoodDeviation = 0 },
			"inverted speed bounds": func(c *config.Config) { c.SpeedCeilingFPS = 100 },
			"no batch workers":      func(c *config.Config) { c.BatchWorkers = 0 },
			"no batch cap":          func(c *config.Config) { c.MaxBatch = 0 },
			"unknown method":        func(c *config.Config) { c.DefaultMethod = "archers_paradox" },
		}
		for name, mutate := range cases {
			convey.Convey("When it has "+name, func() {
				mutate(cfg)

				convey.Convey("Then validation fails with ErrInvalidConfig", func() {
					convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}

		convey.Convey("When the method is spelled in any case", func() {
			cfg.DefaultMethod = " German_Industry "

			convey.Convey("Then it is accepted like a request method", func() {
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})
	})
}
