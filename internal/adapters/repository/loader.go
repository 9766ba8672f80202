package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/spinematch/internal/domain/model"
	"github.com/okian/spinematch/pkg/logger"
)

// catalogFile is the on-disk YAML layout of a catalog.
type catalogFile struct {
	Products    []model.ArrowProduct `koanf:"products"`
	Charts      []model.SpineChart   `koanf:"charts"`
	Chronograph []chronographEntry   `koanf:"chronograph"`
}

type chronographEntry struct {
	SetupID          string  `koanf:"setup_id"`
	ArrowID          string  `koanf:"arrow_id"`
	MeasuredSpeedFPS float64 `koanf:"measured_speed_fps"`
	ArrowWeight      float64 `koanf:"arrow_weight"`
	Verified         bool    `koanf:"verified"`
	// MeasuredAt is RFC 3339; empty means unknown.
	MeasuredAt string `koanf:"measured_at"`
}

// LoadFile reads a YAML catalog and adds everything in it to the store.
// The first invalid entry aborts the load; entries before it stay stored.
func (s *MemoryStore) LoadFile(ctx context.Context, path string) error {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLoadCatalog, path, err)
	}
	var cf catalogFile
	if err := k.UnmarshalWithConf("", &cf, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLoadCatalog, path, err)
	}

	for _, p := range cf.Products {
		if err := s.AddProduct(ctx, p); err != nil {
			return err
		}
	}
	for _, c := range cf.Charts {
		if err := s.AddChart(ctx, c); err != nil {
			return err
		}
	}
	for _, e := range cf.Chronograph {
		rec := model.ChronographRecord{
			SetupID:          e.SetupID,
			ArrowID:          e.ArrowID,
			MeasuredSpeedFPS: e.MeasuredSpeedFPS,
			ArrowWeight:      e.ArrowWeight,
			Verified:         e.Verified,
		}
		if e.MeasuredAt != "" {
			t, err := time.Parse(time.RFC3339, e.MeasuredAt)
			if err != nil {
				return fmt.Errorf("%w: %s: measured_at: %w", ErrInvalidRecord, e.SetupID, err)
			}
			rec.MeasuredAt = t
		}
		if err := s.AddChronograph(ctx, rec); err != nil {
			return err
		}
	}

	st := s.Stats()
	s.logger.Info(ctx, "catalog loaded",
		logger.String("path", path),
		logger.Int("products", st.Products),
		logger.Int("specifications", st.Specifications),
		logger.Int("charts", st.Charts),
		logger.Int("chronograph_records", st.ChronographRecords),
	)
	return nil
}
