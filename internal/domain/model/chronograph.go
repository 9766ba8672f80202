package model

import "time"

// ChronographRecord is a measured arrow speed for one bow setup and arrow.
type ChronographRecord struct {
	SetupID          string    `json:"setup_id" koanf:"setup_id"`
	ArrowID          string    `json:"arrow_id" koanf:"arrow_id"`
	MeasuredSpeedFPS float64   `json:"measured_speed_fps" koanf:"measured_speed_fps"`
	ArrowWeight      float64   `json:"arrow_weight,omitempty" koanf:"arrow_weight"`
	Verified         bool      `json:"verified" koanf:"verified"`
	MeasuredAt       time.Time `json:"measured_at,omitempty" koanf:"measured_at"`
}

// Usable reports whether the record may override a computed estimate.
func (r *ChronographRecord) Usable() bool {
	return r != nil && r.Verified && finite(r.MeasuredSpeedFPS) && r.MeasuredSpeedFPS > 0
}
