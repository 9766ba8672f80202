package model

import (
	"strings"
)

// SpineSpecification is one spine-specific row of an arrow product.
type SpineSpecification struct {
	Spine int `json:"spine" koanf:"spine"`
	// Units is resolved from the parent product's material when empty.
	Units                 SpineUnit `json:"units,omitempty" koanf:"units"`
	OuterDiameter         float64   `json:"outer_diameter" koanf:"outer_diameter"`
	InnerDiameter         *float64  `json:"inner_diameter,omitempty" koanf:"inner_diameter"`
	GPIWeight             float64   `json:"gpi_weight" koanf:"gpi_weight"`
	LengthOptions         []float64 `json:"length_options,omitempty" koanf:"length_options"`
	StraightnessTolerance string    `json:"straightness_tolerance,omitempty" koanf:"straightness_tolerance"`
	WeightTolerance       string    `json:"weight_tolerance,omitempty" koanf:"weight_tolerance"`
}

// ArrowProduct is a catalog product. Material is nil when the catalog has
// no material data for it.
type ArrowProduct struct {
	ID           string               `json:"id" koanf:"id"`
	Manufacturer string               `json:"manufacturer" koanf:"manufacturer"`
	ModelName    string               `json:"model_name" koanf:"model_name"`
	Material     *string              `json:"material,omitempty" koanf:"material"`
	ArrowType    string               `json:"arrow_type,omitempty" koanf:"arrow_type"`
	Specs        []SpineSpecification `json:"specs,omitempty" koanf:"specs"`
}

// NormalizedMaterial returns the lower-cased, trimmed material and whether
// the product has material data at all.
func (p ArrowProduct) NormalizedMaterial() (string, bool) {
	if p.Material == nil {
		return "", false
	}
	m := normalize(*p.Material)
	return m, m != ""
}

// UnitsFor returns the units of spec, falling back to the product material:
// wood products use pound-test values, everything else deflection.
func (p ArrowProduct) UnitsFor(spec SpineSpecification) SpineUnit {
	if spec.Units != "" {
		return spec.Units
	}
	if m, ok := p.NormalizedMaterial(); ok && strings.Contains(m, "wood") {
		return UnitWoodPounds
	}
	return UnitDeflection
}

// CatalogEntry pairs a product with one of its spine specifications.
type CatalogEntry struct {
	Product ArrowProduct
	Spec    SpineSpecification
}

// DiameterRange bounds a shaft's outer diameter in inches. A zero bound is open.
type DiameterRange struct {
	Min float64 `json:"min,omitempty" koanf:"min"`
	Max float64 `json:"max,omitempty" koanf:"max"`
}

// Filters are the non-spine constraints of a catalog query. Empty fields
// are inactive.
type Filters struct {
	Manufacturer  string         `json:"manufacturer,omitempty" koanf:"manufacturer"`
	ArrowType     string         `json:"arrow_type,omitempty" koanf:"arrow_type"`
	Material      string         `json:"material,omitempty" koanf:"material"`
	DiameterRange *DiameterRange `json:"diameter_range,omitempty" koanf:"diameter_range"`
}

// Accepts reports whether the entry passes every active filter. Missing
// catalog data never satisfies a filter that asks about it.
func (f Filters) Accepts(p ArrowProduct, s SpineSpecification) bool {
	if want := normalize(f.Manufacturer); want != "" {
		if !strings.Contains(normalize(p.Manufacturer), want) {
			return false
		}
	}
	if want := normalize(f.ArrowType); want != "" {
		if normalize(p.ArrowType) != want {
			return false
		}
	}
	if want := normalize(f.Material); want != "" {
		m, ok := p.NormalizedMaterial()
		if !ok || !strings.Contains(m, want) {
			return false
		}
	}
	if dr := f.DiameterRange; dr != nil {
		if s.OuterDiameter <= 0 {
			return false
		}
		if dr.Min > 0 && s.OuterDiameter < dr.Min {
			return false
		}
		if dr.Max > 0 && s.OuterDiameter > dr.Max {
			return false
		}
	}
	return true
}

// SpecQuery is the catalog query contract: spine bounds plus filters.
type SpecQuery struct {
	SpineMin int
	SpineMax int
	Units    SpineUnit
	Filters  Filters
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
