package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRosterIndex_OrderAndUnknowns(t *testing.T) {
	require.Len(t, Roster(), 5)
	for i, r := range Roster() {
		assert.Equal(t, i, RosterIndex(r))
		assert.True(t, IsKnown(r))
	}
	assert.Equal(t, len(Roster()), RosterIndex("sears"), "unknown retailers sort after the roster")
	assert.False(t, IsKnown("sears"))
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		retailer Retailer
		want     string
	}{
		{Amazon, "Amazon"},
		{CVS, "CVS"},
		{Target, "Target"},
		{Walgreens, "Walgreens"},
		{Walmart, "Walmart"},
		{"sears", "Sears"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayName(tt.retailer), "retailer %q", tt.retailer)
	}
}

func TestColor_KnownAndFallback(t *testing.T) {
	for _, r := range Roster() {
		c := Color(r)
		assert.NotEmpty(t, c)
		assert.NotEqual(t, "#666", c, "roster member %q must have a dedicated color", r)
		assert.NotEqual(t, MutedColor, c)
	}
	assert.Equal(t, "#666", Color("sears"))
}

func TestInsightsFor_FiltersAndSortsByConfidence(t *testing.T) {
	all := InsightsFor(map[Retailer]bool{
		Amazon: true, CVS: true, Target: true, Walgreens: true, Walmart: true,
	})
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].Confidence, all[i].Confidence)
	}

	subset := InsightsFor(map[Retailer]bool{Walmart: true, Target: true})
	require.Len(t, subset, 2)
	assert.Equal(t, Walmart, subset[0].Retailer, "higher confidence first")
	assert.Equal(t, Target, subset[1].Retailer)

	assert.Empty(t, InsightsFor(nil))
}

func TestFindProduct(t *testing.T) {
	p, brand, ok := FindProduct("eucerin-advanced-repair-16oz")
	require.True(t, ok)
	assert.Equal(t, "Eucerin", brand)
	assert.Equal(t, "Advanced Repair Lotion", p.Name)
	assert.Greater(t, p.BasePrice, 0.0)

	_, _, ok = FindProduct("nope")
	assert.False(t, ok)
}
