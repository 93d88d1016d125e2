package api

import (
	"encoding/csv"
	"fmt"
	"net/http"

	"price-intel/internal/catalog"
	"price-intel/internal/feed"
	"price-intel/internal/pricing"
)

// retailerStatView is one retailer's stats row as the dashboard renders it.
type retailerStatView struct {
	Retailer string  `json:"retailer"`
	Name     string  `json:"name"`
	High     float64 `json:"high"`
	HighDate string  `json:"highDate"`
	Low      float64 `json:"low"`
	LowDate  string  `json:"lowDate"`
	Avg      float64 `json:"avg"`
	URL      string  `json:"url,omitempty"`
}

// priceCallout is a single highlighted price (today's best, lowest ever).
// Omitted entirely when no retailer has data, never rendered as a sentinel.
type priceCallout struct {
	Retailer string  `json:"retailer"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Date     string  `json:"date,omitempty"`
}

type productView struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Brand       string             `json:"brand"`
	Size        string             `json:"size,omitempty"`
	Retailers   []retailerStatView `json:"retailers"`
	TodaysBest  *priceCallout      `json:"todaysBest,omitempty"`
	LowestEver  *priceCallout      `json:"lowestEver,omitempty"`
	DaysTracked int                `json:"daysTracked"`
	Savings     *pricing.Savings   `json:"savings,omitempty"`
	Insights    []catalog.Insight  `json:"insights"`
	Range       string             `json:"range"`
}

type brandView struct {
	Name     string        `json:"name"`
	Products []productView `json:"products"`
}

type dashboardView struct {
	Brands []brandView `json:"brands"`
	Source string      `json:"source"`
}

func (s *Server) currentSnapshot() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return nil
	}
	return s.snap
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap := s.currentSnapshot()
	if snap == nil {
		writeError(w, 503, "data not loaded yet")
		return
	}

	view := dashboardView{Source: snap.Source}
	index := make(map[string]int)
	for _, e := range snap.Entries {
		i, ok := index[e.Brand]
		if !ok {
			i = len(view.Brands)
			index[e.Brand] = i
			view.Brands = append(view.Brands, brandView{Name: e.Brand})
		}
		view.Brands[i].Products = append(view.Brands[i].Products, s.productView(snap, e))
	}
	writeJSON(w, view)
}

func (s *Server) productView(snap *snapshot, e productEntry) productView {
	pv := productView{
		ID:          e.ID,
		Name:        e.Name,
		Brand:       e.Brand,
		Size:        e.Size,
		DaysTracked: e.Days,
		Savings:     e.Savings,
		Insights:    catalog.InsightsFor(pricing.ActiveRetailers(e.Series)),
	}
	for _, st := range e.Ranked {
		pv.Retailers = append(pv.Retailers, retailerStatView{
			Retailer: string(st.Retailer),
			Name:     catalog.DisplayName(st.Retailer),
			High:     st.High,
			HighDate: st.HighDate.Format(feed.DateLayout),
			Low:      st.Low,
			LowDate:  st.LowDate.Format(feed.DateLayout),
			Avg:      st.Avg,
			URL:      st.URL,
		})
	}
	if e.Best.Available() {
		pv.TodaysBest = &priceCallout{
			Retailer: string(e.Best.Retailer),
			Name:     catalog.DisplayName(e.Best.Retailer),
			Price:    e.Best.Price,
		}
	}
	if e.Lowest.Available() {
		pv.LowestEver = &priceCallout{
			Retailer: string(e.Lowest.Retailer),
			Name:     catalog.DisplayName(e.Lowest.Retailer),
			Price:    e.Lowest.Price,
			Date:     e.Lowest.Date.Format(feed.DateLayout),
		}
	}
	if rng, ok := snap.Session.RangeFor(e.ID); ok {
		pv.Range = rng.String()
	}
	return pv
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{"brands": catalog.Brands()})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	snap := s.currentSnapshot()
	if snap == nil {
		writeError(w, 503, "data not loaded yet")
		return
	}
	id := r.PathValue("id")

	var chart pricing.Chart
	var ok bool
	if raw := r.URL.Query().Get("range"); raw != "" {
		rng, err := pricing.ParseTimeRange(raw)
		if err != nil {
			writeError(w, 400, err.Error())
			return
		}
		chart, ok = snap.Session.SelectRange(id, rng)
	} else {
		chart, ok = snap.Session.Chart(id)
	}
	if !ok {
		writeError(w, 404, "unknown product")
		return
	}
	writeJSON(w, chart)
}

func (s *Server) handleLegendToggle(w http.ResponseWriter, r *http.Request) {
	snap := s.currentSnapshot()
	if snap == nil {
		writeError(w, 503, "data not loaded yet")
		return
	}
	id := r.PathValue("id")
	retailer := catalog.Retailer(r.PathValue("retailer"))
	if !catalog.IsKnown(retailer) {
		writeError(w, 400, fmt.Sprintf("unknown retailer %q", retailer))
		return
	}

	chart, ok := snap.Session.ToggleRetailer(id, retailer)
	if !ok {
		writeError(w, 404, "unknown product")
		return
	}
	writeJSON(w, chart)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	snap := s.currentSnapshot()
	if snap == nil {
		writeError(w, 503, "data not loaded yet")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="price-history.csv"`)

	cw := csv.NewWriter(w)
	cw.Write([]string{"product_id", "product_name", "brand", "retailer", "date", "price"})
	for _, e := range snap.Entries {
		for _, rs := range e.Series.Series {
			for _, o := range rs.Observations {
				cw.Write([]string{
					e.ID,
					e.Name,
					e.Brand,
					string(rs.Retailer),
					o.Date.Format(feed.DateLayout),
					fmt.Sprintf("%.2f", o.Price),
				})
			}
		}
	}
	cw.Flush()
}
