package spine

import "github.com/okian/spinematch/internal/domain/model"

// Domain bounds for calculated spine values.
const (
	minDeflectionSpine = 150
	maxDeflectionSpine = 2000
	minWoodPounds      = 20
	maxWoodPounds      = 100

	// woodConversionFactor converts static deflection (thousandths of an
	// inch over a 28" span) into pound-test wood spine: pounds ≈ 26000/deflection.
	woodConversionFactor = 26000.0

	rangeBaseHalfWidth    = 25
	rangeDefaultedPenalty = 15
	chartHalfWidth        = 25
	chartWoodHalfWidth    = 5
)

// Reference arrow used when a request leaves length or point weight unset.
const (
	DefaultArrowLength = 28.0
	DefaultPointWeight = 100.0
)

// bucket covers draw weights strictly below `below`.
type bucket struct {
	below float64
	spine int
}

// curve is a monotonically decreasing step function of draw weight.
// Adjacent buckets never differ by more than step.
type curve struct {
	name    string
	buckets []bucket
	top     int
	step    int
}

func (c curve) lookup(drawWeight float64) int {
	for _, b := range c.buckets {
		if drawWeight < b.below {
			return b.spine
		}
	}
	return c.top
}

// values returns the spine of every bucket in order, top last.
func (c curve) values() []int {
	out := make([]int, 0, len(c.buckets)+1)
	for _, b := range c.buckets {
		out = append(out, b.spine)
	}
	return append(out, c.top)
}

// coefficients hold the per-method adjustment calibration.
type coefficients struct {
	perInch         float64
	pointStepGrains float64
	perPointStep    float64
	perNockGrain    float64
	perFletchGrain  float64
}

var universalCurves = map[model.BowType]curve{
	model.BowCompound: {
		name: "universal compound",
		buckets: []bucket{
			{30, 800}, {35, 700}, {40, 600}, {45, 550}, {50, 500},
			{55, 460}, {60, 420}, {65, 380}, {70, 340}, {75, 300}, {80, 280},
		},
		top:  250,
		step: 100,
	},
	model.BowRecurve: {
		name: "universal recurve",
		buckets: []bucket{
			{25, 1000}, {30, 900}, {35, 800}, {40, 700}, {45, 620},
			{50, 550}, {55, 500}, {60, 450}, {65, 400},
		},
		top:  350,
		step: 100,
	},
	model.BowTraditional: {
		name: "universal traditional",
		buckets: []bucket{
			{25, 1100}, {30, 1000}, {35, 900}, {40, 800}, {45, 700},
			{50, 620}, {55, 550}, {60, 500}, {65, 450},
		},
		top:  400,
		step: 100,
	},
}

var universalCoefficients = coefficients{
	perInch:         25,
	pointStepGrains: 5,
	perPointStep:    -5,
	perNockGrain:    -0.5,
	perFletchGrain:  -0.25,
}

// germanCurve is the industry reference table for recurve and traditional bows.
var germanCurve = curve{
	name: "german industry",
	buckets: []bucket{
		{20, 1150}, {25, 1000}, {30, 880}, {35, 780}, {40, 700},
		{45, 630}, {50, 570}, {55, 520}, {60, 470},
	},
	top:  430,
	step: 150,
}

var germanCoefficients = coefficients{
	perInch:         30,
	pointStepGrains: 5,
	perPointStep:    -6,
	perNockGrain:    -0.5,
	perFletchGrain:  -0.25,
}

// germanTraditionalOffset weakens the German table for longbows and other
// traditional bows, which return less of their stored energy.
const germanTraditionalOffset = 30
