package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/spinematch/internal/adapters/repository"
	service "github.com/okian/spinematch/internal/app"
	"github.com/okian/spinematch/internal/config"
	"github.com/okian/spinematch/pkg/logger"
)

const testCatalog = `
products:
  - id: x10
    manufacturer: Easton
    model_name: X10
    material: carbon
    specs:
      - spine: 600
        gpi_weight: 7.4
charts:
  - id: easton-target
    manufacturer: Easton
    rows:
      - bow_type: recurve
        draw_weight_min: 40
        draw_weight_max: 45
        spine: 600
`

func TestNewService(t *testing.T) {
	convey.Convey("Given a configuration", t, func() {
		ctx := context.Background()
		cfg := config.New()

		convey.Convey("When the catalog path points at a YAML catalog", func() {
			cfg.CatalogPath = filepath.Join(t.TempDir(), "catalog.yaml")
			convey.So(os.WriteFile(cfg.CatalogPath, []byte(testCatalog), 0o600), convey.ShouldBeNil)

			svc, err := newService(ctx, cfg, logger.Nop())

			convey.Convey("Then the service serves the catalog", func() {
				convey.So(err, convey.ShouldBeNil)
				stats := svc.GetStats()
				convey.So(stats["products"], convey.ShouldEqual, 1)
				convey.So(stats["charts"], convey.ShouldEqual, 1)
				convey.So(stats["maxLimit"], convey.ShouldEqual, cfg.MaxLimit)
			})
		})

		convey.Convey("When the catalog file is missing", func() {
			cfg.CatalogPath = filepath.Join(t.TempDir(), "missing.yaml")
			svc, err := newService(ctx, cfg, logger.Nop())

			convey.Convey("Then ErrLoadCatalog is returned", func() {
				convey.So(svc, convey.ShouldBeNil)
				convey.So(errors.Is(err, repository.ErrLoadCatalog), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When no catalog is configured", func() {
			svc, err := newService(ctx, cfg, logger.Nop())

			convey.Convey("Then the service starts empty", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(svc.GetStats()["products"], convey.ShouldEqual, 0)
			})
		})
	})
}

func TestNewMux(t *testing.T) {
	convey.Convey("Given the assembled mux", t, func() {
		ctx := context.Background()
		cfg := config.New()
		svc := service.New()
		mux := newMux(ctx, cfg, svc)

		serve := func(method, path, body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(method, path, strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			return w
		}

		convey.Convey("Then the health endpoint answers", func() {
			convey.So(serve(http.MethodGet, "/healthz", "").Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Then the API description is served", func() {
			w := serve(http.MethodGet, "/openapi.yaml", "")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "/recommendations")
		})

		convey.Convey("Then the batch cap comes from max_batch", func() {
			capped := config.New()
			capped.MaxBatch = 1
			capped.MaxLimit = 500
			m := newMux(ctx, capped, svc)
			item := `{"profile": {"bow": {"draw_weight": 45, "draw_length": 28, "bow_type": "recurve"}}}`
			req := httptest.NewRequest(http.MethodPost, "/recommendations/batch", strings.NewReader(`{"requests": [`+item+`,`+item+`]}`))
			w := httptest.NewRecorder()
			m.ServeHTTP(w, req)
			convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "batch_too_large")
		})

		convey.Convey("Then the spine route is wired to the service", func() {
			w := serve(http.MethodPost, "/spine", `{"bow": {"draw_weight": 45, "draw_length": 28, "bow_type": "recurve"}}`)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"calculated_spine"`)
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the background metrics updaters", t, func() {
		svc := service.New()

		convey.Convey("Then they return once the context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
			convey.So(func() { startServiceMetricsUpdater(ctx, svc) }, convey.ShouldNotPanic)
		})

		convey.Convey("Then a single update does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
		})
	})
}
