package feed

import (
	"time"

	"price-intel/internal/catalog"
	"price-intel/internal/pricing"
)

// DateLayout is the calendar-date format used throughout the upstream feed.
const DateLayout = "2006-01-02"

// PricePoint is one upstream (date, price) observation.
type PricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// RetailerChart is one retailer's observation list for a product, ordered by
// date ascending.
type RetailerChart struct {
	Retailer string       `json:"retailer"`
	Prices   []PricePoint `json:"prices"`
}

// RetailerStat mirrors the upstream's precomputed per-retailer statistics.
// Only the URL is consumed; every statistic is recomputed locally from the
// chart data so all derived numbers come from one code path.
type RetailerStat struct {
	Name     string  `json:"name"`
	High     float64 `json:"high"`
	HighDate string  `json:"highDate"`
	Low      float64 `json:"low"`
	LowDate  string  `json:"lowDate"`
	Avg      float64 `json:"avg"`
	URL      string  `json:"url"`
}

// Product is one upstream product entry.
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	Size      string          `json:"size,omitempty"`
	Category  string          `json:"category,omitempty"`
	Retailers []RetailerStat  `json:"retailers"`
	ChartData []RetailerChart `json:"chartData"`
}

// Brand groups upstream products under a brand name.
type Brand struct {
	Name     string    `json:"name"`
	Products []Product `json:"products"`
}

// Payload is the full upstream dashboard-data response.
type Payload struct {
	Brands []Brand `json:"brands"`
}

// Series converts a product's chart data into the engine representation.
// Retailer URLs are attached from the stats block. Unparseable dates are
// skipped; the upstream guarantees well-formed data, so this mirrors how the
// feed is consumed rather than validating it.
func (p Product) Series() pricing.ProductPriceSeries {
	urls := make(map[string]string, len(p.Retailers))
	for _, rs := range p.Retailers {
		urls[rs.Name] = rs.URL
	}

	series := make([]pricing.RetailerSeries, 0, len(p.ChartData))
	for _, rc := range p.ChartData {
		rs := pricing.RetailerSeries{
			Retailer: catalog.Retailer(rc.Retailer),
			URL:      urls[rc.Retailer],
		}
		for _, pt := range rc.Prices {
			d, err := time.Parse(DateLayout, pt.Date)
			if err != nil {
				continue
			}
			rs.Observations = append(rs.Observations, pricing.PriceObservation{Date: d, Price: pt.Price})
		}
		series = append(series, rs)
	}
	return pricing.NewProductPriceSeries(p.ID, series)
}

// Products flattens the payload into (brand name, product) pairs in payload
// order.
func (p *Payload) Products() []Product {
	var out []Product
	for _, b := range p.Brands {
		out = append(out, b.Products...)
	}
	return out
}

// FromSeries rebuilds a feed Product from an engine series, recomputing the
// stats block. Used when synthesizing demo payloads and when serving cached
// data through the same pipeline as live data.
func FromSeries(id, name, brand, size string, series pricing.ProductPriceSeries) Product {
	prod := Product{ID: id, Name: name, Brand: brand, Size: size}
	for _, stat := range pricing.ComputeProductStats(series) {
		prod.Retailers = append(prod.Retailers, RetailerStat{
			Name:     string(stat.Retailer),
			High:     stat.High,
			HighDate: stat.HighDate.Format(DateLayout),
			Low:      stat.Low,
			LowDate:  stat.LowDate.Format(DateLayout),
			Avg:      stat.Avg,
			URL:      stat.URL,
		})
	}
	for _, rs := range series.Series {
		if len(rs.Observations) == 0 {
			continue
		}
		rc := RetailerChart{Retailer: string(rs.Retailer)}
		for _, o := range rs.Observations {
			rc.Prices = append(rc.Prices, PricePoint{Date: o.Date.Format(DateLayout), Price: o.Price})
		}
		prod.ChartData = append(prod.ChartData, rc)
	}
	return prod
}
