package pricing

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-intel/internal/catalog"
)

func TestSynthesize_FloorAndShape(t *testing.T) {
	now := day(2026, 8, 30)
	retailers := []catalog.Retailer{catalog.Amazon, catalog.Target, catalog.Walmart}
	base := 12.49

	p := NewSynthesizer(rand.NewSource(1)).Synthesize("demo", base, 90, retailers, now)

	require.Len(t, p.Series, 3)
	for _, rs := range p.Series {
		require.Len(t, rs.Observations, 90, "one observation per day for %s", rs.Retailer)
		for i, o := range rs.Observations {
			assert.GreaterOrEqual(t, o.Price, base*0.85, "price below floor for %s", rs.Retailer)
			if i > 0 {
				prev := rs.Observations[i-1].Date
				assert.Equal(t, prev.AddDate(0, 0, 1), o.Date, "dates must be consecutive days")
			}
		}
		last := rs.Observations[len(rs.Observations)-1].Date
		assert.Equal(t, now.Truncate(24*time.Hour), last, "series ends today")
	}
}

func TestSynthFloor_NeverBelowRatio(t *testing.T) {
	// Cent-rounding the floor down would break the >= 0.85*base guarantee
	// for bases like 10.04 (0.85*10.04 = 8.534); the floor must round up.
	for _, base := range []float64{10.04, 9.49, 12.49, 18.99, 44.99, 0.99} {
		floor := synthFloor(base)
		assert.GreaterOrEqual(t, floor, base*synthFloorRatio, "base %v", base)
		assert.Equal(t, round2(floor), floor, "floor must be a whole cent for base %v", base)
	}
}

func TestSynthesize_DeterministicUnderFixedSeed(t *testing.T) {
	now := day(2026, 8, 30)
	retailers := []catalog.Retailer{catalog.CVS, catalog.Walgreens}

	a := NewSynthesizer(rand.NewSource(42)).Synthesize("demo", 18.99, 30, retailers, now)
	b := NewSynthesizer(rand.NewSource(42)).Synthesize("demo", 18.99, 30, retailers, now)

	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed must produce identical series")
	}
}

func TestSynthesize_RetailerBiasIsStable(t *testing.T) {
	for _, r := range catalog.Roster() {
		b1 := retailerBias(r)
		b2 := retailerBias(r)
		assert.Equal(t, b1, b2)
		assert.GreaterOrEqual(t, b1, -0.04)
		assert.LessOrEqual(t, b1, 0.04)
	}
}

func TestSynthesize_SeriesInRosterOrder(t *testing.T) {
	now := day(2026, 8, 30)
	// Hand the synthesizer retailers out of roster order.
	p := NewSynthesizer(rand.NewSource(7)).Synthesize("demo", 10, 5,
		[]catalog.Retailer{catalog.Walmart, catalog.Amazon}, now)

	require.Len(t, p.Series, 2)
	assert.Equal(t, catalog.Amazon, p.Series[0].Retailer)
	assert.Equal(t, catalog.Walmart, p.Series[1].Retailer)
}
