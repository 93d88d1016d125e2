package pricing

import (
	"sync"
	"time"

	"price-intel/internal/catalog"
)

// Session is the per-dataload view state for all product charts: selected
// time range and deactivation set per product, plus the global date range.
// The serving layer creates one on each data load and discards it wholesale
// on reload. Every state transition triggers a full chart rebuild from the
// ProductPriceSeries; recomputation is cheap at these input sizes and there
// is no incremental diffing.
type Session struct {
	mu          sync.Mutex
	products    map[string]ProductPriceSeries
	global      DateRange
	ranges      map[string]TimeRange
	deactivated map[string]map[catalog.Retailer]bool
	now         func() time.Time
}

// NewSession builds the view state for a loaded dataset. Each product starts
// at its default range ("all" unless overridden) with every zero-observation
// roster retailer deactivated, matching the legend's initial state.
func NewSession(products []ProductPriceSeries, defaultRanges map[string]TimeRange) *Session {
	s := &Session{
		products:    make(map[string]ProductPriceSeries, len(products)),
		ranges:      make(map[string]TimeRange, len(products)),
		deactivated: make(map[string]map[catalog.Retailer]bool, len(products)),
		now:         time.Now,
	}
	s.global = GlobalDateRange(products)
	for _, p := range products {
		s.products[p.ProductID] = p

		rng := RangeAll
		if override, ok := defaultRanges[p.ProductID]; ok {
			rng = override
		}
		s.ranges[p.ProductID] = rng

		off := make(map[catalog.Retailer]bool)
		for _, r := range p.EmptyRetailers() {
			off[r] = true
		}
		s.deactivated[p.ProductID] = off
	}
	return s
}

// Global returns the date range spanning every loaded observation.
func (s *Session) Global() DateRange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.global
}

// RangeFor returns a product's currently selected time range.
func (s *Session) RangeFor(productID string) (TimeRange, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rng, ok := s.ranges[productID]
	return rng, ok
}

// DeactivatedFor returns a product's deactivated retailers in roster order.
func (s *Session) DeactivatedFor(productID string) []catalog.Retailer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []catalog.Retailer
	for _, r := range catalog.Roster() {
		if s.deactivated[productID][r] {
			out = append(out, r)
		}
	}
	return out
}

// Chart rebuilds the chart for a product in its current state.
func (s *Session) Chart(productID string) (Chart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buildLocked(productID)
}

// SelectRange applies a range-button transition and rebuilds.
func (s *Session) SelectRange(productID string, rng TimeRange) (Chart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[productID]; !ok {
		return Chart{}, false
	}
	s.ranges[productID] = rng
	return s.buildLocked(productID)
}

// ToggleRetailer applies a legend-toggle transition and rebuilds. Toggling is
// non-destructive: reactivating a retailer restores the exact original series.
func (s *Session) ToggleRetailer(productID string, r catalog.Retailer) (Chart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[productID]; !ok {
		return Chart{}, false
	}
	off := s.deactivated[productID]
	if off[r] {
		delete(off, r)
	} else {
		off[r] = true
	}
	return s.buildLocked(productID)
}

func (s *Session) buildLocked(productID string) (Chart, bool) {
	p, ok := s.products[productID]
	if !ok {
		return Chart{}, false
	}

	// Copy the deactivation set so the build never aliases session state.
	off := make(map[catalog.Retailer]bool, len(s.deactivated[productID]))
	for r, v := range s.deactivated[productID] {
		off[r] = v
	}

	return BuildChart(p, s.global, ChartRequest{
		Range:       s.ranges[productID],
		Deactivated: off,
		Now:         s.now(),
	}), true
}
