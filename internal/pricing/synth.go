package pricing

import (
	"math"
	"math/rand"
	"time"

	"price-intel/internal/catalog"
)

// Price floor for synthesized data, as a fraction of the base price. Keeps
// negative-trending trajectories physically plausible.
const synthFloorRatio = 0.85

// Synthesizer generates plausible correlated fake price trajectories for
// catalog entries lacking real data. Demo only: it must never run against
// products that already have real observations. The random source is
// injectable so tests can fix the sequence.
type Synthesizer struct {
	rnd *rand.Rand
}

// NewSynthesizer creates a Synthesizer. A nil source gets time-based seeding.
func NewSynthesizer(src rand.Source) *Synthesizer {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Synthesizer{rnd: rand.New(src)}
}

// Synthesize produces one observation per day per retailer for the trailing
// days window ending today. The price model is
//
//	price = round2(base * (1 + trend(t) + retailerBias + noise))
//
// where trend is a smooth composite of two sine waves, retailerBias is a
// small fixed offset derived from the retailer identifier, and noise is
// bounded uniform jitter drawn independently per day. Prices are floored at
// 85% of the base price.
func (s *Synthesizer) Synthesize(productID string, basePrice float64, days int, retailers []catalog.Retailer, now time.Time) ProductPriceSeries {
	if days <= 0 {
		days = 90
	}
	today := now.Truncate(24 * time.Hour)
	floor := synthFloor(basePrice)

	series := make([]RetailerSeries, 0, len(retailers))
	for _, r := range retailers {
		bias := retailerBias(r)
		rs := RetailerSeries{Retailer: r}
		for t := 0; t < days; t++ {
			price := basePrice * (1 + synthTrend(t, days) + bias + s.noise())
			price = round2(price)
			if price < floor {
				price = floor
			}
			rs.Observations = append(rs.Observations, PriceObservation{
				Date:  today.AddDate(0, 0, -(days - 1 - t)),
				Price: price,
			})
		}
		series = append(series, rs)
	}
	return NewProductPriceSeries(productID, series)
}

// synthFloor is the lowest price the synthesizer may emit. Rounded up to the
// cent so the floor itself never dips below the ratio.
func synthFloor(basePrice float64) float64 {
	return math.Ceil(basePrice*synthFloorRatio*100) / 100
}

// synthTrend is a low-frequency drift: two superposed sines, one spanning the
// whole window and a faster three-week cycle.
func synthTrend(t, days int) float64 {
	x := float64(t)
	return 0.05*math.Sin(2*math.Pi*x/float64(days)) +
		0.03*math.Sin(2*math.Pi*x/21+0.7)
}

// noise is bounded uniform jitter in [-0.02, 0.02].
func (s *Synthesizer) noise() float64 {
	return (s.rnd.Float64()*2 - 1) * 0.02
}

// retailerBias derives a fixed per-retailer offset in [-0.04, +0.04] from the
// retailer identifier, so the same retailer always trends consistently
// cheaper or pricier.
func retailerBias(r catalog.Retailer) float64 {
	var h uint32
	for _, c := range []byte(r) {
		h = h*31 + uint32(c)
	}
	return float64(h%9)/100 - 0.04
}
