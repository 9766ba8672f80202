package model

import "fmt"

// ArcherProfile wraps a bow setup with the archer's arrow build.
// Zero values of the optional weights mean "not supplied".
type ArcherProfile struct {
	Bow             BowConfiguration `json:"bow" koanf:"bow"`
	ArrowLength     float64          `json:"arrow_length" koanf:"arrow_length"`
	PointWeight     float64          `json:"point_weight" koanf:"point_weight"`
	ShootingStyle   string           `json:"shooting_style,omitempty" koanf:"shooting_style"`
	ExperienceLevel string           `json:"experience_level,omitempty" koanf:"experience_level"`
	NockWeight      float64          `json:"nock_weight,omitempty" koanf:"nock_weight"`
	FletchingWeight float64          `json:"fletching_weight,omitempty" koanf:"fletching_weight"`
	FletchingCount  int              `json:"fletching_count,omitempty" koanf:"fletching_count"`
	VaneLength      float64          `json:"vane_length,omitempty" koanf:"vane_length"`
	// ArrowWeight overrides the per-arrow computed total weight in grains.
	ArrowWeight float64 `json:"arrow_weight,omitempty" koanf:"arrow_weight"`
}

// Validate checks the bow and rejects negative arrow build values.
func (p ArcherProfile) Validate() error {
	if err := p.Bow.Validate(); err != nil {
		return err
	}
	checks := []struct {
		name  string
		value float64
	}{
		{"arrow length", p.ArrowLength},
		{"point weight", p.PointWeight},
		{"nock weight", p.NockWeight},
		{"fletching weight", p.FletchingWeight},
		{"vane length", p.VaneLength},
		{"arrow weight", p.ArrowWeight},
	}
	for _, c := range checks {
		if !finite(c.value) || c.value < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number, got %v", ErrInvalidConfiguration, c.name, c.value)
		}
	}
	if p.FletchingCount < 0 {
		return fmt.Errorf("%w: fletching count must not be negative", ErrInvalidConfiguration)
	}
	return nil
}

// TotalFletchingWeight returns the combined fletching weight in grains.
// FletchingWeight is per vane when a count is given.
func (p ArcherProfile) TotalFletchingWeight() float64 {
	if p.FletchingCount > 0 {
		return p.FletchingWeight * float64(p.FletchingCount)
	}
	return p.FletchingWeight
}
