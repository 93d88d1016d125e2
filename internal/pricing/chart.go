package pricing

import (
	"time"

	"price-intel/internal/catalog"
)

// SeriesPaint tells the rendering collaborator how to color a series.
type SeriesPaint string

const (
	PaintActive      SeriesPaint = "active"
	PaintMuted       SeriesPaint = "muted"
	PaintPlaceholder SeriesPaint = "placeholder"
)

// RenderPoint is a single chart point.
type RenderPoint struct {
	X time.Time `json:"x"`
	Y float64   `json:"y"`
}

// RenderSeries is one renderable chart line (or marker).
// Lower draw orders paint first, so active series draw on top of muted ones
// and the lowest-ever marker sits beneath everything.
type RenderSeries struct {
	Label              string           `json:"label"`
	Retailer           catalog.Retailer `json:"retailer,omitempty"`
	Points             []RenderPoint    `json:"points"`
	Paint              SeriesPaint      `json:"colorFlag"`
	Color              string           `json:"color"`
	Dashed             bool             `json:"dashed"`
	DrawOrder          int              `json:"drawOrder"`
	ExcludeFromTooltip bool             `json:"excludeFromTooltip"`
}

// Chart is a complete renderable dataset for one product with its axis bounds.
type Chart struct {
	Series []RenderSeries `json:"series"`
	Bounds DateRange      `json:"bounds"`
}

// ChartRequest captures the transient view state for one chart build.
type ChartRequest struct {
	Range       TimeRange
	Deactivated map[catalog.Retailer]bool
	Now         time.Time
}

const lowestEverLabel = "Lowest ever"

// BuildChart produces the renderable series for one product. One series is
// always emitted per roster member so the legend is stable across products:
// retailers without data get empty points and the placeholder flag (dashed
// line semantics). Deactivation is purely presentational; the series keeps
// its points but is muted and drawn beneath active ones. A lowest-ever marker
// is appended when its date falls within the active range's lower bound.
// Idempotent: identical inputs always yield identical output.
func BuildChart(p ProductPriceSeries, global DateRange, req ChartRequest) Chart {
	filtered := FilterToRange(p, req.Range, req.Now)

	chart := Chart{Series: make([]RenderSeries, 0, len(catalog.Roster())+1)}
	if filtered.Bounds != nil {
		chart.Bounds = *filtered.Bounds
	} else {
		chart.Bounds = global
	}

	byRetailer := make(map[catalog.Retailer]RetailerSeries, len(filtered.Series))
	for _, rs := range filtered.Series {
		byRetailer[rs.Retailer] = rs
	}

	for _, r := range catalog.Roster() {
		full, hasData := p.ByRetailer(r)
		hasData = hasData && len(full.Observations) > 0
		deactivated := req.Deactivated[r]

		rs := RenderSeries{
			Label:    catalog.DisplayName(r),
			Retailer: r,
			Dashed:   !hasData,
		}
		switch {
		case deactivated:
			rs.Paint = PaintMuted
			rs.Color = catalog.MutedColor
			rs.DrawOrder = 0
		case !hasData:
			rs.Paint = PaintPlaceholder
			rs.Color = catalog.MutedColor
			rs.DrawOrder = 1
		default:
			rs.Paint = PaintActive
			rs.Color = catalog.Color(r)
			rs.DrawOrder = 1
		}

		for _, o := range byRetailer[r].Observations {
			rs.Points = append(rs.Points, RenderPoint{X: o.Date, Y: o.Price})
		}
		chart.Series = append(chart.Series, rs)
	}

	if marker, ok := lowestEverMarker(p, req); ok {
		chart.Series = append(chart.Series, marker)
	}
	return chart
}

// lowestEverMarker builds the single-point lowest-ever series. Included only
// when the observation date is not before the active range's lower bound;
// there is no exclusion by upper bound. The marker never participates in
// tooltip or legend interactions.
func lowestEverMarker(p ProductPriceSeries, req ChartRequest) (RenderSeries, bool) {
	le := ComputeLowestEver(p)
	if !le.Available() {
		return RenderSeries{}, false
	}
	if !req.Range.All {
		cutoff := req.Now.AddDate(0, 0, -req.Range.Days)
		if le.Date.Before(cutoff) {
			return RenderSeries{}, false
		}
	}
	return RenderSeries{
		Label:              lowestEverLabel,
		Points:             []RenderPoint{{X: le.Date, Y: le.Price}},
		Paint:              PaintActive,
		Color:              catalog.Color(le.Retailer),
		DrawOrder:          -1,
		ExcludeFromTooltip: true,
	}, true
}
