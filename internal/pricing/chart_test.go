package pricing

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-intel/internal/catalog"
)

func sampleProduct(id string) ProductPriceSeries {
	return NewProductPriceSeries(id, []RetailerSeries{
		{Retailer: catalog.Amazon, Observations: []PriceObservation{
			obs(day(2026, 7, 1), 12.00), obs(day(2026, 8, 1), 11.50), obs(day(2026, 8, 25), 12.25),
		}},
		{Retailer: catalog.Walmart, Observations: []PriceObservation{
			obs(day(2026, 7, 1), 11.00), obs(day(2026, 8, 1), 10.25), obs(day(2026, 8, 25), 10.75),
		}},
	})
}

func TestBuildChart_OneSeriesPerRosterMember(t *testing.T) {
	p := sampleProduct("p")
	global := GlobalDateRange([]ProductPriceSeries{p})

	chart := BuildChart(p, global, ChartRequest{Range: RangeAll, Now: day(2026, 8, 30)})

	// 5 roster series plus the lowest-ever marker.
	require.Len(t, chart.Series, len(catalog.Roster())+1)

	for i, r := range catalog.Roster() {
		rs := chart.Series[i]
		assert.Equal(t, r, rs.Retailer)
		assert.Equal(t, catalog.DisplayName(r), rs.Label)
		switch r {
		case catalog.Amazon, catalog.Walmart:
			assert.Equal(t, PaintActive, rs.Paint)
			assert.False(t, rs.Dashed)
			assert.Len(t, rs.Points, 3)
		default:
			assert.Equal(t, PaintPlaceholder, rs.Paint)
			assert.True(t, rs.Dashed, "no-data series render dashed")
			assert.Empty(t, rs.Points)
		}
	}
}

func TestBuildChart_DeactivationMutesAndLowersDrawOrder(t *testing.T) {
	p := sampleProduct("p")
	global := GlobalDateRange([]ProductPriceSeries{p})
	req := ChartRequest{
		Range:       RangeAll,
		Deactivated: map[catalog.Retailer]bool{catalog.Amazon: true},
		Now:         day(2026, 8, 30),
	}

	chart := BuildChart(p, global, req)

	amazon := chart.Series[0]
	require.Equal(t, catalog.Amazon, amazon.Retailer)
	assert.Equal(t, PaintMuted, amazon.Paint)
	assert.Equal(t, catalog.MutedColor, amazon.Color)
	assert.Equal(t, 0, amazon.DrawOrder, "deactivated series draw first, beneath active ones")
	assert.Len(t, amazon.Points, 3, "deactivation keeps the data")

	walmart := chart.Series[4]
	require.Equal(t, catalog.Walmart, walmart.Retailer)
	assert.Equal(t, PaintActive, walmart.Paint)
	assert.Equal(t, 1, walmart.DrawOrder)
}

func TestBuildChart_LowestEverMarker(t *testing.T) {
	p := sampleProduct("p")
	global := GlobalDateRange([]ProductPriceSeries{p})
	now := day(2026, 8, 30)

	chart := BuildChart(p, global, ChartRequest{Range: RangeAll, Now: now})
	marker := chart.Series[len(chart.Series)-1]
	assert.True(t, marker.ExcludeFromTooltip)
	assert.Equal(t, -1, marker.DrawOrder, "marker draws beneath normal series")
	require.Len(t, marker.Points, 1)
	assert.Equal(t, day(2026, 8, 1), marker.Points[0].X, "lowest ever is walmart on Aug 1")
	assert.Equal(t, 10.25, marker.Points[0].Y)

	// A 7-day window ending Aug 30 excludes the Aug 1 lowest-ever point.
	chart = BuildChart(p, global, ChartRequest{Range: TimeRange{Days: 7}, Now: now})
	assert.Len(t, chart.Series, len(catalog.Roster()), "marker outside range lower bound is dropped")

	// A 30-day window includes it (Aug 1 >= Jul 31).
	chart = BuildChart(p, global, ChartRequest{Range: TimeRange{Days: 30}, Now: now})
	assert.Len(t, chart.Series, len(catalog.Roster())+1)
}

func TestBuildChart_AllModeSharesGlobalBounds(t *testing.T) {
	a := sampleProduct("a")
	b := NewProductPriceSeries("b", []RetailerSeries{
		{Retailer: catalog.CVS, Observations: []PriceObservation{
			obs(day(2026, 5, 10), 14.00), obs(day(2026, 6, 10), 13.50),
		}},
	})
	global := GlobalDateRange([]ProductPriceSeries{a, b})
	now := day(2026, 8, 30)

	chartA := BuildChart(a, global, ChartRequest{Range: RangeAll, Now: now})
	chartB := BuildChart(b, global, ChartRequest{Range: RangeAll, Now: now})

	assert.Equal(t, chartA.Bounds, chartB.Bounds, "all-mode charts share an identical horizontal scale")
	assert.Equal(t, day(2026, 5, 10), chartA.Bounds.Min)
	assert.Equal(t, day(2026, 8, 25), chartA.Bounds.Max)
}

func TestBuildChart_DayCountBoundsComeFromFilter(t *testing.T) {
	p := sampleProduct("p")
	global := GlobalDateRange([]ProductPriceSeries{p})
	now := day(2026, 8, 30)

	chart := BuildChart(p, global, ChartRequest{Range: TimeRange{Days: 60}, Now: now})
	assert.Equal(t, now.AddDate(0, 0, -60), chart.Bounds.Min)
	assert.Equal(t, now, chart.Bounds.Max)
}

func TestBuildChart_Idempotent(t *testing.T) {
	p := sampleProduct("p")
	global := GlobalDateRange([]ProductPriceSeries{p})
	req := ChartRequest{
		Range:       TimeRange{Days: 30},
		Deactivated: map[catalog.Retailer]bool{catalog.Target: true},
		Now:         day(2026, 8, 30),
	}

	first := BuildChart(p, global, req)
	second := BuildChart(p, global, req)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different charts:\n%+v\n%+v", first, second)
	}
}
