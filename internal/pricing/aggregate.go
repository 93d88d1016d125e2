package pricing

import (
	"math"
	"sort"

	"price-intel/internal/catalog"
)

// round2 rounds to 2 decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeRetailerStats derives high/low/avg statistics for one retailer.
// The series must be non-empty; callers exclude empty retailer series before
// computing stats. High and low dates are the first occurrence on ties.
// Avg is the arithmetic mean rounded to 2 decimal places.
func ComputeRetailerStats(rs RetailerSeries) RetailerStat {
	stat := RetailerStat{Retailer: rs.Retailer, URL: rs.URL}

	var sum float64
	for i, o := range rs.Observations {
		sum += o.Price
		if i == 0 || o.Price > stat.High {
			stat.High = o.Price
			stat.HighDate = o.Date
		}
		if i == 0 || o.Price < stat.Low {
			stat.Low = o.Price
			stat.LowDate = o.Date
		}
	}
	stat.Avg = round2(sum / float64(len(rs.Observations)))
	return stat
}

// RankStats returns the stats sorted ascending by average price. The sort is
// stable, so equal averages keep their original (roster) order; index 0 is the
// "Consistent Best Value" retailer.
func RankStats(stats []RetailerStat) []RetailerStat {
	ranked := make([]RetailerStat, len(stats))
	copy(ranked, stats)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Avg < ranked[j].Avg
	})
	return ranked
}

// ComputeProductStats computes and ranks the stats for every retailer of a
// product that has at least one observation.
func ComputeProductStats(p ProductPriceSeries) []RetailerStat {
	var stats []RetailerStat
	for _, rs := range p.Series {
		if len(rs.Observations) == 0 {
			continue
		}
		stats = append(stats, ComputeRetailerStats(rs))
	}
	return RankStats(stats)
}

// ComputeTodaysBest returns the minimum of each retailer's most recent
// observation. Ties go to the retailer first in roster order. If no retailer
// has any observation, the sentinel (empty retailer, +Inf) is returned and
// the caller must not render a price.
func ComputeTodaysBest(p ProductPriceSeries) TodaysBest {
	best := TodaysBest{Price: math.Inf(1)}
	for _, rs := range p.Series {
		if len(rs.Observations) == 0 {
			continue
		}
		latest := rs.Observations[len(rs.Observations)-1]
		if latest.Price < best.Price {
			best.Price = latest.Price
			best.Retailer = rs.Retailer
		}
	}
	return best
}

// ComputeLowestEver scans every observation of every retailer and returns the
// global minimum with its retailer and date. Ties go to the first occurrence
// in roster order, then chronological order. Sentinel convention matches
// ComputeTodaysBest.
func ComputeLowestEver(p ProductPriceSeries) LowestEver {
	lowest := LowestEver{Price: math.Inf(1)}
	for _, rs := range p.Series {
		for _, o := range rs.Observations {
			if o.Price < lowest.Price {
				lowest.Price = o.Price
				lowest.Retailer = rs.Retailer
				lowest.Date = o.Date
			}
		}
	}
	return lowest
}

// DaysTracked returns the span in days between a retailer's earliest and
// latest observation, rounded to the nearest day. Zero for fewer than two
// observations.
func DaysTracked(rs RetailerSeries) int {
	if len(rs.Observations) < 2 {
		return 0
	}
	first := rs.Observations[0].Date
	last := rs.Observations[len(rs.Observations)-1].Date
	return int(math.Round(last.Sub(first).Hours() / 24))
}

// Savings is the potential saving from buying at the best average price
// instead of the worst, per purchase and per year of monthly purchases.
type Savings struct {
	BestAvg     float64 `json:"bestAvg"`
	WorstAvg    float64 `json:"worstAvg"`
	PerPurchase float64 `json:"perPurchase"`
	Yearly      float64 `json:"yearly"`
}

// ComputeSavings derives the savings callout from ranked stats. Returns false
// when fewer than two retailers have data.
func ComputeSavings(ranked []RetailerStat) (Savings, bool) {
	if len(ranked) < 2 {
		return Savings{}, false
	}
	best := ranked[0].Avg
	worst := ranked[len(ranked)-1].Avg
	per := round2(worst - best)
	return Savings{
		BestAvg:     best,
		WorstAvg:    worst,
		PerPurchase: per,
		Yearly:      round2(per * 12),
	}, true
}

// ActiveRetailers returns the set of roster retailers with at least one
// observation.
func ActiveRetailers(p ProductPriceSeries) map[catalog.Retailer]bool {
	active := make(map[catalog.Retailer]bool)
	for _, rs := range p.Series {
		if len(rs.Observations) > 0 {
			active[rs.Retailer] = true
		}
	}
	return active
}
