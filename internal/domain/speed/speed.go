// Package speed estimates arrow velocity for a bow and arrow pairing.
// Verified chronograph measurements always win over the physics model.
package speed

import (
	"fmt"
	"math"

	"github.com/okian/spinematch/internal/domain/model"
)

// Source tells where a speed value came from.
type Source string

const (
	SourceChronograph Source = "chronograph"
	SourceEstimated   Source = "estimated"
)

// Calibration constants. IBO ratings use a 70 lb, 30 in draw and a 350 gr arrow.
const (
	referenceDrawWeight  = 70.0
	referenceDrawLength  = 30.0
	referenceArrowWeight = 350.0

	// weightSpeedCoefficient is fps per pound of draw weight off the IBO
	// reference; gentler than the 10 fps/lb rule of thumb.
	weightSpeedCoefficient = 1.5
	lengthSpeedCoefficient = 10.0

	defaultFloorFPS   = 150.0
	defaultCeilingFPS = 450.0

	braceHeight      = 7.5
	grainsPerPound   = 7000.0
	gravityFtPerSec2 = 32.174
	inchesPerFoot    = 12.0
)

var stringModifiers = map[model.StringMaterial]float64{
	model.StringFastflight: 1.00,
	model.StringDyneema:    1.00,
	model.StringSpectra:    0.99,
	model.StringB55:        0.97,
	model.StringB50:        0.96,
	model.StringDacron:     0.95,
}

var bowEfficiency = map[model.BowType]float64{
	model.BowCompound:    1.00,
	model.BowRecurve:     0.75,
	model.BowTraditional: 0.70,
}

// Estimate is a speed value and its provenance.
type Estimate struct {
	SpeedFPS    float64 `json:"speed_fps"`
	Source      Source  `json:"speed_source"`
	ArrowWeight float64 `json:"arrow_weight_grains"`
	Clamped     bool    `json:"clamped,omitempty"`
}

// Option applies a configuration option to the Estimator.
type Option func(*Estimator)

// WithBounds sets the plausible speed band estimates are clamped into.
func WithBounds(floor, ceiling float64) Option {
	return func(e *Estimator) {
		if floor > 0 && ceiling > floor {
			e.floor = floor
			e.ceiling = ceiling
		}
	}
}

// Estimator computes arrow speeds. It is stateless after construction.
type Estimator struct {
	floor   float64
	ceiling float64
}

// NewEstimator creates an Estimator with the default 150-450 fps band.
func NewEstimator(opts ...Option) *Estimator {
	e := &Estimator{floor: defaultFloorFPS, ceiling: defaultCeilingFPS}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate returns the measured speed when rec is a verified record,
// otherwise the physics estimate for the bow and arrow weight.
func (e *Estimator) Estimate(bow model.BowConfiguration, arrowWeight float64, rec *model.ChronographRecord) (Estimate, error) {
	if rec.Usable() {
		return Estimate{SpeedFPS: rec.MeasuredSpeedFPS, Source: SourceChronograph, ArrowWeight: arrowWeight}, nil
	}
	if err := bow.Validate(); err != nil {
		return Estimate{}, err
	}
	if arrowWeight <= 0 || math.IsNaN(arrowWeight) || math.IsInf(arrowWeight, 0) {
		return Estimate{}, fmt.Errorf("%w: arrow weight must be positive, got %v", model.ErrInvalidConfiguration, arrowWeight)
	}

	var raw float64
	if bow.BowType == model.BowCompound {
		if bow.IBOSpeed <= 0 {
			return Estimate{}, fmt.Errorf("%w: compound speed estimate requires an ibo speed", model.ErrInvalidConfiguration)
		}
		raw = compoundSpeed(bow, arrowWeight)
	} else {
		raw = fixedEfficiencySpeed(bow, arrowWeight)
	}
	raw *= stringModifier(bow.StringMaterial)

	speed := math.Max(e.floor, math.Min(e.ceiling, raw))
	return Estimate{
		SpeedFPS:    speed,
		Source:      SourceEstimated,
		ArrowWeight: arrowWeight,
		Clamped:     speed != raw,
	}, nil
}

func compoundSpeed(bow model.BowConfiguration, arrowWeight float64) float64 {
	weightAdjustment := (bow.DrawWeight - referenceDrawWeight) * weightSpeedCoefficient
	lengthAdjustment := (bow.DrawLength - referenceDrawLength) * lengthSpeedCoefficient
	adjustedIBO := bow.IBOSpeed + weightAdjustment + lengthAdjustment
	weightRatio := math.Sqrt(referenceArrowWeight / arrowWeight)
	return adjustedIBO * weightRatio * bowEfficiency[model.BowCompound]
}

// fixedEfficiencySpeed models recurve and traditional bows: stored energy of
// a linear draw over the power stroke, a fixed share of which reaches the arrow.
func fixedEfficiencySpeed(bow model.BowConfiguration, arrowWeight float64) float64 {
	powerStroke := math.Max(bow.DrawLength-braceHeight, 0) / inchesPerFoot
	storedEnergy := 0.5 * bow.DrawWeight * powerStroke
	kinetic := storedEnergy * bowEfficiency[bow.BowType]
	return math.Sqrt(2 * kinetic * grainsPerPound * gravityFtPerSec2 / arrowWeight)
}

func stringModifier(m model.StringMaterial) float64 {
	if v, ok := stringModifiers[m]; ok {
		return v
	}
	return 1.0
}
