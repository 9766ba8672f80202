// Package spine computes the required arrow spine for a bow setup.
//
// Calculation methods are a closed set dispatched through a table of pure
// functions; each method produces the same Result shape with a full audit
// trail of the adjustments it applied.
package spine

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/okian/spinematch/internal/domain/model"
)

// Method selects the calculation method.
type Method string

const (
	MethodUniversal      Method = "universal"
	MethodGermanIndustry Method = "german_industry"
	MethodChart          Method = "chart"
)

// ParseMethod normalizes a method name. Empty input selects universal.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case "":
		return MethodUniversal, nil
	case MethodUniversal, MethodGermanIndustry, MethodChart:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", model.ErrInvalidMethod, s)
	}
}

// Request is the input of a spine calculation. ArrowLength and PointWeight
// of zero mean "not supplied"; defaults are used and the range widens.
type Request struct {
	Bow                model.BowConfiguration `json:"bow"`
	ArrowLength        float64                `json:"arrow_length,omitempty"`
	PointWeight        float64                `json:"point_weight,omitempty"`
	NockWeight         float64                `json:"nock_weight,omitempty"`
	FletchingWeight    float64                `json:"fletching_weight,omitempty"`
	MaterialPreference string                 `json:"material_preference,omitempty"`
	Method             Method                 `json:"calculation_method,omitempty"`
	ChartSelection     string                 `json:"chart_selection,omitempty"`
}

// Adjustment records one signed change applied to the spine.
type Adjustment struct {
	Field string  `json:"field"`
	Value float64 `json:"value"`
	Note  string  `json:"note"`
}

// Result is the output shared by every method.
type Result struct {
	CalculatedSpine int              `json:"calculated_spine"`
	Range           model.SpineRange `json:"spine_range"`
	BaseSpine       int              `json:"base_spine"`
	Units           model.SpineUnit  `json:"spine_units"`
	Method          Method           `json:"calculation_method"`
	Adjustments     []Adjustment     `json:"adjustments"`
	Notes           []string         `json:"notes"`
	Chart           *ChartMatch      `json:"chart,omitempty"`
}

type methodFunc func(ctx context.Context, c *Calculator, req Request) (Result, error)

// Option configures a Calculator.
type Option func(*Calculator)

// WithChartSource enables the chart method against src.
func WithChartSource(src model.ChartSource) Option {
	return func(c *Calculator) {
		if src != nil {
			c.charts = NewChartLookup(src)
		}
	}
}

// Calculator computes required spine values. It holds no mutable state and
// is safe for concurrent use.
type Calculator struct {
	charts  *ChartLookup
	methods map[Method]methodFunc
}

// NewCalculator builds a Calculator with every method registered.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		methods: map[Method]methodFunc{
			MethodUniversal:      universalMethod,
			MethodGermanIndustry: germanMethod,
			MethodChart:          chartMethod,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calculate validates req and dispatches it to the selected method.
func (c *Calculator) Calculate(ctx context.Context, req Request) (Result, error) {
	method, err := ParseMethod(string(req.Method))
	if err != nil {
		return Result{}, err
	}
	fn, ok := c.methods[method]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", model.ErrInvalidMethod, method)
	}
	if err := validateRequest(req); err != nil {
		return Result{}, err
	}
	req.Method = method
	return fn(ctx, c, req)
}

func validateRequest(req Request) error {
	if err := req.Bow.Validate(); err != nil {
		return err
	}
	inputs := []struct {
		name  string
		value float64
	}{
		{"arrow length", req.ArrowLength},
		{"point weight", req.PointWeight},
		{"nock weight", req.NockWeight},
		{"fletching weight", req.FletchingWeight},
	}
	for _, in := range inputs {
		if in.value < 0 || math.IsNaN(in.value) || math.IsInf(in.value, 0) {
			return fmt.Errorf("%w: %s must be a non-negative number, got %v", model.ErrInvalidConfiguration, in.name, in.value)
		}
	}
	return nil
}

func universalMethod(_ context.Context, _ *Calculator, req Request) (Result, error) {
	cv, ok := universalCurves[req.Bow.BowType]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", model.ErrUnsupportedBowType, req.Bow.BowType)
	}
	return compose(req, cv, universalCoefficients, nil), nil
}

func germanMethod(_ context.Context, _ *Calculator, req Request) (Result, error) {
	if req.Bow.BowType == model.BowCompound {
		return Result{}, fmt.Errorf("%w: %s method covers recurve and traditional bows only", model.ErrUnsupportedBowType, MethodGermanIndustry)
	}
	var extra []Adjustment
	if req.Bow.BowType == model.BowTraditional {
		extra = append(extra, Adjustment{
			Field: "bow_type",
			Value: germanTraditionalOffset,
			Note:  "traditional bow: weaker spine than the recurve reference table",
		})
	}
	return compose(req, germanCurve, germanCoefficients, extra), nil
}

// compose runs the shared skeleton: base curve, length, point, component
// weights, method extras, clamp, range, then the optional wood conversion.
func compose(req Request, cv curve, co coefficients, extra []Adjustment) Result {
	res := Result{Method: req.Method, Units: model.UnitDeflection}

	base := cv.lookup(req.Bow.DrawWeight)
	res.BaseSpine = base
	res.Notes = append(res.Notes, fmt.Sprintf("base spine %d from %s curve at %.1f lbs", base, cv.name, req.Bow.DrawWeight))

	defaulted := 0
	length := req.ArrowLength
	if length == 0 {
		length = DefaultArrowLength
		defaulted++
		res.Notes = append(res.Notes, fmt.Sprintf("arrow length not supplied; assumed %.0f in", DefaultArrowLength))
	}
	point := req.PointWeight
	if point == 0 {
		point = DefaultPointWeight
		defaulted++
		res.Notes = append(res.Notes, fmt.Sprintf("point weight not supplied; assumed %.0f gr", DefaultPointWeight))
	}

	res.Adjustments = append(res.Adjustments, Adjustment{
		Field: "arrow_length",
		Value: (length - DefaultArrowLength) * co.perInch,
		Note:  fmt.Sprintf("%.2f in against the %.0f in reference", length, DefaultArrowLength),
	})

	steps := math.Trunc((point - DefaultPointWeight) / co.pointStepGrains)
	res.Adjustments = append(res.Adjustments, Adjustment{
		Field: "point_weight",
		Value: steps * co.perPointStep,
		Note:  fmt.Sprintf("%.0f gr point against the %.0f gr reference (%+.0f steps of %.0f gr)", point, DefaultPointWeight, steps, co.pointStepGrains),
	})

	if req.NockWeight > 0 {
		res.Adjustments = append(res.Adjustments, Adjustment{
			Field: "nock_weight",
			Value: req.NockWeight * co.perNockGrain,
			Note:  fmt.Sprintf("%.1f gr nock", req.NockWeight),
		})
	}
	if req.FletchingWeight > 0 {
		res.Adjustments = append(res.Adjustments, Adjustment{
			Field: "fletching_weight",
			Value: req.FletchingWeight * co.perFletchGrain,
			Note:  fmt.Sprintf("%.1f gr fletching", req.FletchingWeight),
		})
	}
	res.Adjustments = append(res.Adjustments, extra...)

	total := float64(base)
	for _, a := range res.Adjustments {
		total += a.Value
	}
	spine := int(math.Round(total))
	if clamped := clampInt(spine, minDeflectionSpine, maxDeflectionSpine); clamped != spine {
		res.Adjustments = append(res.Adjustments, Adjustment{
			Field: "clamp",
			Value: float64(clamped - spine),
			Note:  fmt.Sprintf("clamped to the [%d, %d] spine domain", minDeflectionSpine, maxDeflectionSpine),
		})
		spine = clamped
	}

	half := rangeBaseHalfWidth + rangeDefaultedPenalty*defaulted
	res.CalculatedSpine = spine
	res.Range = model.SpineRange{
		Minimum: clampInt(spine-half, minDeflectionSpine, maxDeflectionSpine),
		Maximum: clampInt(spine+half, minDeflectionSpine, maxDeflectionSpine),
		Units:   model.UnitDeflection,
	}

	if isWoodPreference(req.MaterialPreference) {
		convertToWood(&res)
	}
	return res
}

// convertToWood switches a deflection result to pound-test units. The scale
// is inverted, so the range endpoints swap.
func convertToWood(res *Result) {
	deflection := res.CalculatedSpine
	pounds := toWoodPounds(deflection)
	res.Adjustments = append(res.Adjustments, Adjustment{
		Field: "material_preference",
		Value: float64(pounds - deflection),
		Note:  fmt.Sprintf("wood arrows: %d deflection expressed as %d lb pound-test spine", deflection, pounds),
	})
	res.Notes = append(res.Notes, "spine units changed to wood_pounds; higher values are stiffer")
	res.CalculatedSpine = pounds
	res.Units = model.UnitWoodPounds
	res.Range = model.SpineRange{
		Minimum: toWoodPounds(res.Range.Maximum),
		Maximum: toWoodPounds(res.Range.Minimum),
		Units:   model.UnitWoodPounds,
	}
}

func toWoodPounds(deflection int) int {
	if deflection <= 0 {
		return maxWoodPounds
	}
	return clampInt(int(math.Round(woodConversionFactor/float64(deflection))), minWoodPounds, maxWoodPounds)
}

var woodSpecies = map[string]struct{}{
	"cedar": {}, "pine": {}, "spruce": {}, "birch": {}, "ash": {}, "hickory": {},
}

func isWoodPreference(pref string) bool {
	p := strings.ToLower(strings.TrimSpace(pref))
	if p == "" {
		return false
	}
	if strings.Contains(p, "wood") {
		return true
	}
	_, ok := woodSpecies[p]
	return ok
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
