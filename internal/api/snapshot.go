package api

import (
	"fmt"
	"time"

	"price-intel/internal/catalog"
	"price-intel/internal/config"
	"price-intel/internal/feed"
	"price-intel/internal/logger"
	"price-intel/internal/pricing"
	"price-intel/internal/report"

	"golang.org/x/sync/errgroup"
)

// productEntry is one product's fully derived state inside a snapshot.
type productEntry struct {
	ID      string
	Name    string
	Brand   string
	Size    string
	Series  pricing.ProductPriceSeries
	Ranked  []pricing.RetailerStat
	Best    pricing.TodaysBest
	Lowest  pricing.LowestEver
	Days    int
	Savings *pricing.Savings
}

// snapshot is the immutable result of one data load: derived stats per product
// plus a fresh chart session. Replaced wholesale on refresh, never patched.
type snapshot struct {
	Entries  []productEntry
	Session  *pricing.Session
	Source   string
	LoadedAt time.Time
}

// LoadData runs the full load pipeline: upstream fetch, falling back to the
// SQLite cache, falling back to synthesized demo data. On success the server's
// snapshot and session are replaced and ready flips true. Returns the data
// source used ("live", "cache" or "demo").
func (s *Server) LoadData() (string, error) {
	s.mu.RLock()
	cfg := *s.cfg
	s.mu.RUnlock()

	payload, source, err := s.acquirePayload(&cfg)
	if err != nil {
		return "", err
	}

	snap, err := s.buildSnapshot(payload, source, &cfg)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.snap = snap
	s.ready = true
	s.mu.Unlock()

	logger.Success("API", fmt.Sprintf("Loaded %d products (source: %s)", len(snap.Entries), source))
	return source, nil
}

func (s *Server) acquirePayload(cfg *config.Config) (*feed.Payload, string, error) {
	payload, err := s.feed.FetchDashboard()
	if err == nil {
		s.setLastErr(nil)
		if s.db != nil {
			if storeErr := s.db.StorePayload(payload, "live"); storeErr != nil {
				logger.Warn("DB", fmt.Sprintf("Failed to cache payload: %v", storeErr))
			}
		}
		return payload, "live", nil
	}

	s.setLastErr(err)
	logger.Warn("FEED", fmt.Sprintf("Upstream fetch failed: %v", err))

	// Any cached payload beats nothing, so ignore the freshness bound here.
	if s.db != nil {
		if cached, ok := s.db.LoadPayload(0); ok {
			logger.Info("DB", "Serving cached payload")
			return cached, "cache", nil
		}
	}

	if cfg.DemoEnabled {
		logger.Info("API", fmt.Sprintf("Synthesizing demo data (%d days)", cfg.DemoDays))
		demo := s.synthesizeDemo(cfg)
		if s.db != nil {
			s.db.StorePayload(demo, "demo")
		}
		return demo, "demo", nil
	}

	return nil, "", fmt.Errorf("upstream unavailable and no cached data: %w", err)
}

// buildSnapshot derives stats for every product concurrently, then seeds a
// fresh chart session from the converted series.
func (s *Server) buildSnapshot(payload *feed.Payload, source string, cfg *config.Config) (*snapshot, error) {
	var products []feed.Product
	var brandOf []string
	for _, b := range payload.Brands {
		for _, p := range b.Products {
			brand := p.Brand
			if brand == "" {
				brand = b.Name
			}
			products = append(products, p)
			brandOf = append(brandOf, brand)
		}
	}

	entries := make([]productEntry, len(products))
	var g errgroup.Group
	for i := range products {
		g.Go(func() error {
			p := products[i]
			series := p.Series()
			ranked := pricing.ComputeProductStats(series)

			e := productEntry{
				ID:     p.ID,
				Name:   p.Name,
				Brand:  brandOf[i],
				Size:   p.Size,
				Series: series,
				Ranked: ranked,
				Best:   pricing.ComputeTodaysBest(series),
				Lowest: pricing.ComputeLowestEver(series),
			}
			if len(ranked) > 0 {
				if rs, ok := series.ByRetailer(ranked[0].Retailer); ok {
					e.Days = pricing.DaysTracked(rs)
				}
			}
			if sav, ok := pricing.ComputeSavings(ranked); ok {
				e.Savings = &sav
			}
			entries[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	allSeries := make([]pricing.ProductPriceSeries, len(entries))
	for i, e := range entries {
		allSeries[i] = e.Series
	}

	ranges := make(map[string]pricing.TimeRange, len(cfg.DefaultRanges))
	for id, raw := range cfg.DefaultRanges {
		rng, err := pricing.ParseTimeRange(raw)
		if err != nil {
			logger.Warn("API", fmt.Sprintf("Ignoring bad default range for %s: %q", id, raw))
			continue
		}
		ranges[id] = rng
	}

	return &snapshot{
		Entries:  entries,
		Session:  pricing.NewSession(allSeries, ranges),
		Source:   source,
		LoadedAt: s.now(),
	}, nil
}

// synthesizeDemo builds a full payload from the product catalog. Each product
// gets three to five roster retailers so demo charts show both populated lines
// and placeholder legend entries.
func (s *Server) synthesizeDemo(cfg *config.Config) *feed.Payload {
	synth := pricing.NewSynthesizer(nil)
	now := s.now()

	payload := &feed.Payload{}
	i := 0
	for _, b := range catalog.Brands() {
		fb := feed.Brand{Name: b.Name}
		for _, p := range b.Products {
			series := synth.Synthesize(p.ID, p.BasePrice, cfg.DemoDays, demoRetailers(i), now)
			fb.Products = append(fb.Products, feed.FromSeries(p.ID, p.Name, b.Name, p.Size, series))
			i++
		}
		payload.Brands = append(payload.Brands, fb)
	}
	return payload
}

// demoRetailers picks a rotating 3-5 member roster subset for the i-th
// catalog product.
func demoRetailers(i int) []catalog.Retailer {
	roster := catalog.Roster()
	n := 3 + i%3
	out := make([]catalog.Retailer, 0, n)
	for j := 0; j < n; j++ {
		out = append(out, roster[(i+j)%len(roster)])
	}
	return out
}

func (s *Server) setLastErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

// installSnapshot replaces the current snapshot directly (tests and the
// synchronous report path).
func (s *Server) installSnapshot(payload *feed.Payload, source string) error {
	s.mu.RLock()
	cfg := *s.cfg
	s.mu.RUnlock()

	snap, err := s.buildSnapshot(payload, source, &cfg)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.snap = snap
	s.ready = true
	s.mu.Unlock()
	return nil
}

// Summaries returns the loaded products in payload order for terminal
// reporting. Empty until the first successful load.
func (s *Server) Summaries() []report.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil
	}
	out := make([]report.Product, 0, len(s.snap.Entries))
	for _, e := range s.snap.Entries {
		out = append(out, report.Product{
			Brand: e.Brand,
			Name:  e.Name,
			Size:  e.Size,
			Stats: e.Ranked,
			Best:  e.Best,
			Days:  e.Days,
		})
	}
	return out
}

// Source reports which pipeline stage supplied the current snapshot.
func (s *Server) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return ""
	}
	return s.snap.Source
}
