package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/powerteam/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.DefaultLimit, convey.ShouldEqual, config.DefaultLimit)
			convey.So(cfg.MaxLimit, convey.ShouldEqual, config.DefaultMaxLimit)
			convey.So(cfg.StrictCounters, convey.ShouldBeFalse)
			convey.So(cfg.Concurrency, convey.ShouldEqual, 4)
			convey.So(cfg.Backend.Timeout, convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.Weights.Conversion, convey.ShouldEqual, 25.0)
		})

		convey.Convey("Then the defaults should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When the default limit exceeds the maximum", func() {
			cfg.DefaultLimit = cfg.MaxLimit + 1

			convey.Convey("Then validation should fail", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When concurrency is zero", func() {
			cfg.Concurrency = 0

			convey.Convey("Then validation should fail", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
