package spine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/okian/spinematch/internal/domain/model"
)

// ChartRef identifies the chart a lookup resolved against.
type ChartRef struct {
	ID           string          `json:"id"`
	Manufacturer string          `json:"manufacturer,omitempty"`
	Name         string          `json:"name,omitempty"`
	Units        model.SpineUnit `json:"units"`
}

// ChartMatch is the outcome of a chart lookup.
type ChartMatch struct {
	CalculatedSpine int            `json:"calculated_spine"`
	SourceChart     ChartRef       `json:"source_chart"`
	MatchedRow      model.ChartRow `json:"matched_row"`
	// Exact is false when the draw weight fell outside every bracket and
	// the nearest one was used.
	Exact bool `json:"exact"`
}

// ChartLookup resolves chart-based spine recommendations.
type ChartLookup struct {
	source model.ChartSource
}

// NewChartLookup creates a lookup over src.
func NewChartLookup(src model.ChartSource) *ChartLookup {
	return &ChartLookup{source: src}
}

// Lookup finds the chart row for bow. Rows for other bow types are ignored;
// when rows carry draw lengths only the nearest draw length is considered.
// A bracket containing the draw weight wins, otherwise the nearest bracket
// does, and ties go to the stiffer recommendation.
func (l *ChartLookup) Lookup(ctx context.Context, chartID string, bow model.BowConfiguration, drawLength float64) (ChartMatch, error) {
	if err := bow.Validate(); err != nil {
		return ChartMatch{}, err
	}
	chart, err := l.source.GetChart(ctx, chartID)
	if err != nil {
		if errors.Is(err, model.ErrChartNotFound) {
			return ChartMatch{}, err
		}
		return ChartMatch{}, fmt.Errorf("load chart %q: %w", chartID, err)
	}
	units := chart.Units.OrDefault()

	var rows []model.ChartRow
	for _, r := range chart.Rows {
		if r.BowType == bow.BowType {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return ChartMatch{}, fmt.Errorf("%w: chart %q has no %s rows", model.ErrNoMatchingRow, chart.ID, bow.BowType)
	}
	rows = nearestDrawLength(rows, drawLength)

	w := bow.DrawWeight
	sort.SliceStable(rows, func(i, j int) bool {
		di, dj := rows[i].Distance(w), rows[j].Distance(w)
		if di != dj {
			return di < dj
		}
		if rows[i].Spine != rows[j].Spine {
			return units.Stiffer(rows[i].Spine, rows[j].Spine)
		}
		return rows[i].DrawWeightMin < rows[j].DrawWeightMin
	})
	best := rows[0]

	return ChartMatch{
		CalculatedSpine: best.Spine,
		SourceChart: ChartRef{
			ID:           chart.ID,
			Manufacturer: chart.Manufacturer,
			Name:         chart.Name,
			Units:        units,
		},
		MatchedRow: best,
		Exact:      best.Contains(w),
	}, nil
}

// nearestDrawLength keeps rows without a draw length plus the rows whose
// draw length is closest to drawLength (ties go to the shorter length).
func nearestDrawLength(rows []model.ChartRow, drawLength float64) []model.ChartRow {
	if drawLength <= 0 {
		return rows
	}
	nearest := 0.0
	bestDist := math.Inf(1)
	for _, r := range rows {
		if r.DrawLength <= 0 {
			continue
		}
		d := math.Abs(r.DrawLength - drawLength)
		if d < bestDist || (d == bestDist && r.DrawLength < nearest) {
			bestDist = d
			nearest = r.DrawLength
		}
	}
	if math.IsInf(bestDist, 1) {
		return rows
	}
	out := make([]model.ChartRow, 0, len(rows))
	for _, r := range rows {
		if r.DrawLength <= 0 || r.DrawLength == nearest {
			out = append(out, r)
		}
	}
	return out
}

func chartMethod(ctx context.Context, c *Calculator, req Request) (Result, error) {
	if req.ChartSelection == "" {
		return Result{}, fmt.Errorf("%w: chart method requires a chart id or manufacturer", model.ErrMissingChartSelection)
	}
	if c.charts == nil {
		return Result{}, fmt.Errorf("%w: no chart source configured", model.ErrChartNotFound)
	}
	match, err := c.charts.Lookup(ctx, req.ChartSelection, req.Bow, req.Bow.DrawLength)
	if err != nil {
		return Result{}, err
	}

	units := match.SourceChart.Units
	spine := match.CalculatedSpine
	row := match.MatchedRow
	res := Result{
		CalculatedSpine: spine,
		BaseSpine:       spine,
		Units:           units,
		Method:          MethodChart,
		Chart:           &match,
		Adjustments: []Adjustment{{
			Field: "chart_row",
			Value: 0,
			Note: fmt.Sprintf("chart %s row %s %.0f-%.0f lbs", match.SourceChart.ID, row.BowType,
				row.DrawWeightMin, row.DrawWeightMax),
		}},
	}
	if !match.Exact {
		res.Notes = append(res.Notes, fmt.Sprintf("draw weight %.1f lbs outside every bracket; nearest bracket used", req.Bow.DrawWeight))
	}

	if row.SpineMin > 0 && row.SpineMax > 0 {
		res.Range = model.SpineRange{Minimum: min(row.SpineMin, spine), Maximum: max(row.SpineMax, spine), Units: units}
	} else {
		half := chartHalfWidth
		if units == model.UnitWoodPounds {
			half = chartWoodHalfWidth
		}
		res.Range = model.SpineRange{Minimum: max(spine-half, 1), Maximum: spine + half, Units: units}
	}

	if units == model.UnitDeflection && isWoodPreference(req.MaterialPreference) {
		convertToWood(&res)
	}
	return res, nil
}
