package pricing

import "time"

// RangeResult is the output of FilterToRange: bounded per-retailer series and,
// for day-count ranges, the shared axis bounds. Bounds is nil for the "all"
// range and the caller falls back to the global date range.
type RangeResult struct {
	Series []RetailerSeries
	Bounds *DateRange
}

// FilterToRange bounds a product's series to the requested window. For a
// day-count range N the lower bound is now-N days, inclusive; there is no
// upper filtering since stored data never postdates now. The input is never
// mutated; observation slices are copied.
func FilterToRange(p ProductPriceSeries, rng TimeRange, now time.Time) RangeResult {
	out := RangeResult{Series: make([]RetailerSeries, 0, len(p.Series))}

	var cutoff time.Time
	if !rng.All {
		cutoff = now.AddDate(0, 0, -rng.Days)
		out.Bounds = &DateRange{Min: cutoff, Max: now}
	}

	for _, rs := range p.Series {
		filtered := RetailerSeries{Retailer: rs.Retailer, URL: rs.URL}
		for _, o := range rs.Observations {
			if rng.All || o.Date.After(cutoff) || o.Date.Equal(cutoff) {
				filtered.Observations = append(filtered.Observations, o)
			}
		}
		out.Series = append(out.Series, filtered)
	}
	return out
}
