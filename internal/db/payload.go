package db

import (
	"sort"
	"time"

	"price-intel/internal/feed"
)

// StorePayload replaces the cached upstream payload wholesale. The cache is
// rebuilt on every successful fetch, never patched incrementally.
func (d *DB) StorePayload(p *feed.Payload, source string) error {
	tx, err := d.sql.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	tx.Exec("DELETE FROM price_history")
	tx.Exec("DELETE FROM retailer_urls")
	tx.Exec("DELETE FROM products")

	prodStmt, err := tx.Prepare("INSERT INTO products (id, name, brand, size, category) VALUES (?,?,?,?,?)")
	if err != nil {
		return err
	}
	defer prodStmt.Close()
	priceStmt, err := tx.Prepare("INSERT OR REPLACE INTO price_history (product_id, retailer, date, price) VALUES (?,?,?,?)")
	if err != nil {
		return err
	}
	defer priceStmt.Close()
	urlStmt, err := tx.Prepare("INSERT OR REPLACE INTO retailer_urls (product_id, retailer, url) VALUES (?,?,?)")
	if err != nil {
		return err
	}
	defer urlStmt.Close()

	for _, b := range p.Brands {
		for _, prod := range b.Products {
			brand := prod.Brand
			if brand == "" {
				brand = b.Name
			}
			if _, err := prodStmt.Exec(prod.ID, prod.Name, brand, prod.Size, prod.Category); err != nil {
				return err
			}
			for _, rs := range prod.Retailers {
				if rs.URL != "" {
					urlStmt.Exec(prod.ID, rs.Name, rs.URL)
				}
			}
			for _, rc := range prod.ChartData {
				for _, pt := range rc.Prices {
					if _, err := priceStmt.Exec(prod.ID, rc.Retailer, pt.Date, pt.Price); err != nil {
						return err
					}
				}
			}
		}
	}

	tx.Exec("DELETE FROM feed_meta")
	tx.Exec("INSERT INTO feed_meta (id, updated_at, source) VALUES (1, ?, ?)",
		time.Now().UTC().Format(time.RFC3339), source)

	return tx.Commit()
}

// LoadPayload reconstructs the cached payload. Returns false when the cache
// is empty or older than maxAge; maxAge <= 0 accepts any age (serving stale
// cache beats serving nothing when the upstream is down).
func (d *DB) LoadPayload(maxAge time.Duration) (*feed.Payload, bool) {
	var updatedAt string
	if err := d.sql.QueryRow("SELECT updated_at FROM feed_meta WHERE id = 1").Scan(&updatedAt); err != nil {
		return nil, false
	}
	if maxAge > 0 {
		t, err := time.Parse(time.RFC3339, updatedAt)
		if err != nil || time.Since(t) > maxAge {
			return nil, false
		}
	}

	rows, err := d.sql.Query("SELECT id, name, brand, size, category FROM products ORDER BY brand, id")
	if err != nil {
		return nil, false
	}
	defer rows.Close()

	var products []feed.Product
	for rows.Next() {
		var p feed.Product
		var size, category *string
		if err := rows.Scan(&p.ID, &p.Name, &p.Brand, &size, &category); err != nil {
			continue
		}
		if size != nil {
			p.Size = *size
		}
		if category != nil {
			p.Category = *category
		}
		products = append(products, p)
	}
	if len(products) == 0 {
		return nil, false
	}

	for i := range products {
		products[i].ChartData = d.loadChartData(products[i].ID)
		products[i].Retailers = d.loadRetailerURLs(products[i].ID)
	}

	// Regroup by brand in stored order.
	payload := &feed.Payload{}
	index := make(map[string]int)
	for _, p := range products {
		i, ok := index[p.Brand]
		if !ok {
			i = len(payload.Brands)
			index[p.Brand] = i
			payload.Brands = append(payload.Brands, feed.Brand{Name: p.Brand})
		}
		payload.Brands[i].Products = append(payload.Brands[i].Products, p)
	}
	return payload, true
}

func (d *DB) loadChartData(productID string) []feed.RetailerChart {
	rows, err := d.sql.Query(
		"SELECT retailer, date, price FROM price_history WHERE product_id = ? ORDER BY retailer, date",
		productID,
	)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var charts []feed.RetailerChart
	for rows.Next() {
		var retailer, date string
		var price float64
		if err := rows.Scan(&retailer, &date, &price); err != nil {
			continue
		}
		if len(charts) == 0 || charts[len(charts)-1].Retailer != retailer {
			charts = append(charts, feed.RetailerChart{Retailer: retailer})
		}
		last := &charts[len(charts)-1]
		last.Prices = append(last.Prices, feed.PricePoint{Date: date, Price: price})
	}
	return charts
}

func (d *DB) loadRetailerURLs(productID string) []feed.RetailerStat {
	rows, err := d.sql.Query("SELECT retailer, url FROM retailer_urls WHERE product_id = ?", productID)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var stats []feed.RetailerStat
	for rows.Next() {
		var s feed.RetailerStat
		if err := rows.Scan(&s.Name, &s.URL); err != nil {
			continue
		}
		stats = append(stats, s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })
	return stats
}

// CacheInfo returns when the cache was last written and from which source
// ("live" or "demo"). ok is false when the cache is empty.
func (d *DB) CacheInfo() (updatedAt time.Time, source string, ok bool) {
	var raw string
	if err := d.sql.QueryRow("SELECT updated_at, source FROM feed_meta WHERE id = 1").Scan(&raw, &source); err != nil {
		return time.Time{}, "", false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, "", false
	}
	return t, source, true
}
