package model

// ChartRow maps a bow type and draw-weight bracket to a recommended spine.
// DrawLength is optional; zero rows apply to any draw length.
type ChartRow struct {
	BowType       BowType `json:"bow_type" koanf:"bow_type"`
	DrawWeightMin float64 `json:"draw_weight_min" koanf:"draw_weight_min"`
	DrawWeightMax float64 `json:"draw_weight_max" koanf:"draw_weight_max"`
	DrawLength    float64 `json:"draw_length,omitempty" koanf:"draw_length"`
	Spine         int     `json:"spine" koanf:"spine"`
	SpineMin      int     `json:"spine_min,omitempty" koanf:"spine_min"`
	SpineMax      int     `json:"spine_max,omitempty" koanf:"spine_max"`
}

// Contains reports whether the draw weight falls inside the row's bracket.
func (r ChartRow) Contains(drawWeight float64) bool {
	return drawWeight >= r.DrawWeightMin && drawWeight <= r.DrawWeightMax
}

// Distance is the absolute distance from drawWeight to the bracket, zero inside it.
func (r ChartRow) Distance(drawWeight float64) float64 {
	switch {
	case drawWeight < r.DrawWeightMin:
		return r.DrawWeightMin - drawWeight
	case drawWeight > r.DrawWeightMax:
		return drawWeight - r.DrawWeightMax
	default:
		return 0
	}
}

// SpineChart is a manufacturer or custom spine table.
type SpineChart struct {
	ID           string     `json:"id" koanf:"id"`
	Manufacturer string     `json:"manufacturer,omitempty" koanf:"manufacturer"`
	Name         string     `json:"name,omitempty" koanf:"name"`
	Units        SpineUnit  `json:"units,omitempty" koanf:"units"`
	Rows         []ChartRow `json:"rows" koanf:"rows"`
}
