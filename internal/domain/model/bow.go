// Package model contains the archery domain value objects shared by the
// spine calculator, the matching engine and the speed estimator.
package model

import (
	"fmt"
	"math"
	"strings"
)

// BowType identifies the bow family. Calculation curves and speed models
// differ per family.
type BowType string

const (
	BowCompound    BowType = "compound"
	BowRecurve     BowType = "recurve"
	BowTraditional BowType = "traditional"
)

// ParseBowType normalizes user input. "longbow" is an alias of traditional.
func ParseBowType(s string) (BowType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "compound":
		return BowCompound, nil
	case "recurve":
		return BowRecurve, nil
	case "traditional", "longbow", "traditional/longbow":
		return BowTraditional, nil
	default:
		return "", fmt.Errorf("%w: unknown bow type %q", ErrInvalidConfiguration, s)
	}
}

// Valid reports whether b is a known bow type.
func (b BowType) Valid() bool {
	switch b {
	case BowCompound, BowRecurve, BowTraditional:
		return true
	}
	return false
}

// StringMaterial is the bowstring material. The empty value means unknown.
type StringMaterial string

const (
	StringFastflight StringMaterial = "fastflight"
	StringDacron     StringMaterial = "dacron"
	StringDyneema    StringMaterial = "dyneema"
	StringSpectra    StringMaterial = "spectra"
	StringB50        StringMaterial = "b50"
	StringB55        StringMaterial = "b55"
)

// ParseStringMaterial normalizes user input; empty input yields the empty value.
func ParseStringMaterial(s string) (StringMaterial, error) {
	m := StringMaterial(strings.ToLower(strings.TrimSpace(s)))
	if m == "" || m.Valid() {
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown string material %q", ErrInvalidConfiguration, s)
}

// Valid reports whether m is a known string material.
func (m StringMaterial) Valid() bool {
	switch m {
	case StringFastflight, StringDacron, StringDyneema, StringSpectra, StringB50, StringB55:
		return true
	}
	return false
}

// BowConfiguration describes one bow setup. It is treated as an immutable
// value: every operation takes it by value.
type BowConfiguration struct {
	// SetupID identifies the setup for chronograph lookups. Optional.
	SetupID        string         `json:"setup_id,omitempty" koanf:"setup_id"`
	DrawWeight     float64        `json:"draw_weight" koanf:"draw_weight"`
	DrawLength     float64        `json:"draw_length" koanf:"draw_length"`
	BowType        BowType        `json:"bow_type" koanf:"bow_type"`
	CamType        string         `json:"cam_type,omitempty" koanf:"cam_type"`
	ArrowRestType  string         `json:"arrow_rest_type,omitempty" koanf:"arrow_rest_type"`
	StringMaterial StringMaterial `json:"string_material,omitempty" koanf:"string_material"`
	// IBOSpeed is the rated speed in fps, compound only. Zero means unknown.
	IBOSpeed float64 `json:"ibo_speed,omitempty" koanf:"ibo_speed"`
}

// Validate checks the configuration against the domain rules.
func (b BowConfiguration) Validate() error {
	if !finite(b.DrawWeight) || b.DrawWeight <= 0 {
		return fmt.Errorf("%w: draw weight must be a positive number, got %v", ErrInvalidConfiguration, b.DrawWeight)
	}
	if !finite(b.DrawLength) || b.DrawLength <= 0 {
		return fmt.Errorf("%w: draw length must be a positive number, got %v", ErrInvalidConfiguration, b.DrawLength)
	}
	if !b.BowType.Valid() {
		return fmt.Errorf("%w: unknown bow type %q", ErrInvalidConfiguration, b.BowType)
	}
	if b.StringMaterial != "" && !b.StringMaterial.Valid() {
		return fmt.Errorf("%w: unknown string material %q", ErrInvalidConfiguration, b.StringMaterial)
	}
	if !finite(b.IBOSpeed) || b.IBOSpeed < 0 {
		return fmt.Errorf("%w: ibo speed must be a non-negative number, got %v", ErrInvalidConfiguration, b.IBOSpeed)
	}
	if b.BowType != BowCompound {
		if b.CamType != "" {
			return fmt.Errorf("%w: cam type only applies to compound bows", ErrInvalidConfiguration)
		}
		if b.IBOSpeed > 0 {
			return fmt.Errorf("%w: ibo speed only applies to compound bows", ErrInvalidConfiguration)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
