package model

import "fmt"

// SpineUnit tags a spine value with its numbering convention.
type SpineUnit string

const (
	// UnitDeflection is the carbon/aluminum static deflection convention
	// (thousandths of an inch; lower is stiffer).
	UnitDeflection SpineUnit = "deflection"
	// UnitWoodPounds is the wood arrow pound-test convention (higher is stiffer).
	UnitWoodPounds SpineUnit = "wood_pounds"
)

// Valid reports whether u is a known unit.
func (u SpineUnit) Valid() bool {
	return u == UnitDeflection || u == UnitWoodPounds
}

// OrDefault returns u, or UnitDeflection when u is empty.
func (u SpineUnit) OrDefault() SpineUnit {
	if u == "" {
		return UnitDeflection
	}
	return u
}

// Stiffer reports whether spine a is stiffer than spine b in unit u.
func (u SpineUnit) Stiffer(a, b int) bool {
	if u == UnitWoodPounds {
		return a > b
	}
	return a < b
}

// SpineRange is an inclusive interval of spine values in one unit.
type SpineRange struct {
	Minimum int       `json:"minimum"`
	Maximum int       `json:"maximum"`
	Units   SpineUnit `json:"units"`
}

// Contains reports whether spine falls inside the range.
func (r SpineRange) Contains(spine int) bool {
	return spine >= r.Minimum && spine <= r.Maximum
}

// Validate checks the range is positive and ordered.
func (r SpineRange) Validate() error {
	if r.Minimum <= 0 || r.Maximum <= 0 {
		return fmt.Errorf("%w: range bounds must be positive, got [%d,%d]", ErrInvalidTarget, r.Minimum, r.Maximum)
	}
	if r.Minimum > r.Maximum {
		return fmt.Errorf("%w: range minimum %d exceeds maximum %d", ErrInvalidTarget, r.Minimum, r.Maximum)
	}
	if !r.Units.OrDefault().Valid() {
		return fmt.Errorf("%w: unknown spine units %q", ErrInvalidTarget, r.Units)
	}
	return nil
}
