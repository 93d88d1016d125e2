package pricing

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"price-intel/internal/catalog"
)

// PriceObservation is a single (date, price) point for one retailer.
// Immutable once recorded.
type PriceObservation struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// RetailerSeries holds one retailer's observations for a product, ordered by
// date ascending. An empty series is valid and means "no data for this
// retailer".
type RetailerSeries struct {
	Retailer     catalog.Retailer   `json:"retailer"`
	Observations []PriceObservation `json:"observations"`
	URL          string             `json:"url,omitempty"`
}

// ProductPriceSeries maps retailers to their series for one product.
// Series are kept in canonical roster order (unknown retailers after, in
// arrival order) so that every "first encountered wins" tie-break downstream
// is deterministic. Rebuilt wholesale on each data load, never mutated
// incrementally.
type ProductPriceSeries struct {
	ProductID string
	Series    []RetailerSeries
}

// NewProductPriceSeries builds a ProductPriceSeries with the series normalized
// to roster order.
func NewProductPriceSeries(productID string, series []RetailerSeries) ProductPriceSeries {
	sorted := make([]RetailerSeries, len(series))
	copy(sorted, series)
	sort.SliceStable(sorted, func(i, j int) bool {
		return catalog.RosterIndex(sorted[i].Retailer) < catalog.RosterIndex(sorted[j].Retailer)
	})
	return ProductPriceSeries{ProductID: productID, Series: sorted}
}

// ByRetailer returns the series for a retailer, if present.
func (p ProductPriceSeries) ByRetailer(r catalog.Retailer) (RetailerSeries, bool) {
	for _, rs := range p.Series {
		if rs.Retailer == r {
			return rs, true
		}
	}
	return RetailerSeries{}, false
}

// EmptyRetailers returns the roster members with zero observations for this
// product, in roster order. These seed the initial deactivation set.
func (p ProductPriceSeries) EmptyRetailers() []catalog.Retailer {
	var out []catalog.Retailer
	for _, r := range catalog.Roster() {
		rs, ok := p.ByRetailer(r)
		if !ok || len(rs.Observations) == 0 {
			out = append(out, r)
		}
	}
	return out
}

// RetailerStat holds derived per-retailer statistics. Recomputed whenever the
// owning ProductPriceSeries changes, never stored.
type RetailerStat struct {
	Retailer catalog.Retailer `json:"retailer"`
	High     float64          `json:"high"`
	HighDate time.Time        `json:"highDate"`
	Low      float64          `json:"low"`
	LowDate  time.Time        `json:"lowDate"`
	Avg      float64          `json:"avg"`
	URL      string           `json:"url,omitempty"`
}

// TodaysBest is the lowest most-recent observed price across retailers.
// When no retailer has any observation the Retailer is empty and Price is
// +Inf; callers must check Available before rendering.
type TodaysBest struct {
	Retailer catalog.Retailer
	Price    float64
}

// Available reports whether a real price was found.
func (t TodaysBest) Available() bool {
	return t.Retailer != "" && !math.IsInf(t.Price, 1)
}

// LowestEver is the lowest price ever observed for a product, across all
// retailers and all time. Same sentinel convention as TodaysBest.
type LowestEver struct {
	Retailer catalog.Retailer
	Price    float64
	Date     time.Time
}

// Available reports whether a real observation was found.
func (l LowestEver) Available() bool {
	return l.Retailer != "" && !math.IsInf(l.Price, 1)
}

// DateRange is an inclusive [Min, Max] span of observation dates.
type DateRange struct {
	Min time.Time `json:"min"`
	Max time.Time `json:"max"`
}

// IsZero reports whether the range is unset.
func (d DateRange) IsZero() bool {
	return d.Min.IsZero() && d.Max.IsZero()
}

// GlobalDateRange computes the earliest and latest observation date across
// all given products. Used to give independently rendered charts an identical
// x-axis span in the "all" view.
func GlobalDateRange(products []ProductPriceSeries) DateRange {
	var g DateRange
	for _, p := range products {
		for _, rs := range p.Series {
			for _, o := range rs.Observations {
				if g.Min.IsZero() || o.Date.Before(g.Min) {
					g.Min = o.Date
				}
				if g.Max.IsZero() || o.Date.After(g.Max) {
					g.Max = o.Date
				}
			}
		}
	}
	return g
}

// TimeRange is a UI-selected chart window: either everything or the trailing
// N days.
type TimeRange struct {
	All  bool
	Days int
}

// RangeAll is the unbounded time range.
var RangeAll = TimeRange{All: true}

// ParseTimeRange parses a range selector value: "all" or a positive day count
// such as "7", "30", "60", "90".
func ParseTimeRange(s string) (TimeRange, error) {
	if s == "" || s == "all" {
		return RangeAll, nil
	}
	days, err := strconv.Atoi(s)
	if err != nil || days <= 0 {
		return TimeRange{}, fmt.Errorf("invalid time range %q", s)
	}
	return TimeRange{Days: days}, nil
}

// String renders the range back to its selector value.
func (t TimeRange) String() string {
	if t.All {
		return "all"
	}
	return strconv.Itoa(t.Days)
}
