package db

import (
	"database/sql"
	"testing"
	"time"

	"price-intel/internal/config"
	"price-intel/internal/feed"

	_ "modernc.org/sqlite"
)

// openTestDB opens an in-memory SQLite DB and runs migrations (for testing only).
func openTestDB(t *testing.T) *DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", ":memory:?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	d := &DB{sql: sqlDB}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		t.Fatalf("migrate: %v", err)
	}
	return d
}

func testPayload() *feed.Payload {
	return &feed.Payload{
		Brands: []feed.Brand{
			{
				Name: "Eucerin",
				Products: []feed.Product{
					{
						ID:    "eucerin-advanced-repair-16oz",
						Name:  "Advanced Repair Lotion",
						Brand: "Eucerin",
						Size:  "16 oz",
						Retailers: []feed.RetailerStat{
							{Name: "walmart", URL: "https://walmart.example/p"},
						},
						ChartData: []feed.RetailerChart{
							{Retailer: "amazon", Prices: []feed.PricePoint{
								{Date: "2026-08-01", Price: 12.50},
								{Date: "2026-08-02", Price: 12.75},
							}},
							{Retailer: "walmart", Prices: []feed.PricePoint{
								{Date: "2026-08-01", Price: 10.25},
							}},
						},
					},
				},
			},
			{
				Name: "Pataday",
				Products: []feed.Product{
					{
						ID:    "pataday-once-daily",
						Name:  "Once Daily Relief",
						Brand: "Pataday",
						ChartData: []feed.RetailerChart{
							{Retailer: "cvs", Prices: []feed.PricePoint{
								{Date: "2026-08-03", Price: 24.99},
							}},
						},
					},
				},
			},
		},
	}
}

func TestDB_PayloadRoundTrip(t *testing.T) {
	d := openTestDB(t)
	defer d.Close()

	if err := d.StorePayload(testPayload(), "live"); err != nil {
		t.Fatalf("StorePayload: %v", err)
	}

	got, ok := d.LoadPayload(0)
	if !ok {
		t.Fatal("LoadPayload returned ok=false")
	}
	if len(got.Brands) != 2 {
		t.Fatalf("brands = %d, want 2", len(got.Brands))
	}
	if got.Brands[0].Name != "Eucerin" || got.Brands[1].Name != "Pataday" {
		t.Errorf("brand names = %q/%q", got.Brands[0].Name, got.Brands[1].Name)
	}

	prod := got.Brands[0].Products[0]
	if prod.ID != "eucerin-advanced-repair-16oz" || prod.Size != "16 oz" {
		t.Errorf("product = %+v", prod)
	}
	if len(prod.ChartData) != 2 {
		t.Fatalf("chartData = %d, want 2", len(prod.ChartData))
	}
	var amazon *feed.RetailerChart
	for i := range prod.ChartData {
		if prod.ChartData[i].Retailer == "amazon" {
			amazon = &prod.ChartData[i]
		}
	}
	if amazon == nil || len(amazon.Prices) != 2 {
		t.Fatalf("amazon chart = %+v", amazon)
	}
	if amazon.Prices[0].Date != "2026-08-01" || amazon.Prices[0].Price != 12.50 {
		t.Errorf("amazon first point = %+v", amazon.Prices[0])
	}
	if len(prod.Retailers) != 1 || prod.Retailers[0].URL != "https://walmart.example/p" {
		t.Errorf("retailer urls = %+v", prod.Retailers)
	}
}

func TestDB_StorePayloadReplacesPrevious(t *testing.T) {
	d := openTestDB(t)
	defer d.Close()

	if err := d.StorePayload(testPayload(), "live"); err != nil {
		t.Fatalf("StorePayload: %v", err)
	}

	smaller := &feed.Payload{Brands: []feed.Brand{{
		Name: "Pataday",
		Products: []feed.Product{{
			ID: "pataday-once-daily", Name: "Once Daily Relief", Brand: "Pataday",
			ChartData: []feed.RetailerChart{
				{Retailer: "cvs", Prices: []feed.PricePoint{{Date: "2026-08-04", Price: 23.50}}},
			},
		}},
	}}}
	if err := d.StorePayload(smaller, "demo"); err != nil {
		t.Fatalf("StorePayload (replace): %v", err)
	}

	got, ok := d.LoadPayload(0)
	if !ok {
		t.Fatal("LoadPayload returned ok=false")
	}
	if len(got.Brands) != 1 || got.Brands[0].Name != "Pataday" {
		t.Fatalf("brands after replace = %+v", got.Brands)
	}

	_, source, ok := d.CacheInfo()
	if !ok || source != "demo" {
		t.Errorf("CacheInfo source = %q ok=%v, want demo", source, ok)
	}
}

func TestDB_LoadPayloadFreshness(t *testing.T) {
	d := openTestDB(t)
	defer d.Close()

	if _, ok := d.LoadPayload(0); ok {
		t.Fatal("LoadPayload on empty db should return ok=false")
	}

	if err := d.StorePayload(testPayload(), "live"); err != nil {
		t.Fatalf("StorePayload: %v", err)
	}
	if _, ok := d.LoadPayload(time.Hour); !ok {
		t.Error("fresh cache should satisfy maxAge=1h")
	}

	// Backdate the cache and check the freshness cutoff rejects it.
	stale := time.Now().UTC().Add(-48 * time.Hour).Format(time.RFC3339)
	if _, err := d.sql.Exec("UPDATE feed_meta SET updated_at = ? WHERE id = 1", stale); err != nil {
		t.Fatalf("backdate: %v", err)
	}
	if _, ok := d.LoadPayload(time.Hour); ok {
		t.Error("48h-old cache should fail maxAge=1h")
	}
	if _, ok := d.LoadPayload(0); !ok {
		t.Error("maxAge=0 should accept any age")
	}
}

func TestDB_ConfigRoundTrip(t *testing.T) {
	d := openTestDB(t)
	defer d.Close()

	cfg := &config.Config{
		FeedURL:          "http://feed.example/api/dashboard-data",
		CacheMaxAgeHours: 6,
		DemoEnabled:      false,
		DemoDays:         30,
		DefaultRanges:    map[string]string{"p1": "60"},
	}
	if err := d.SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got := d.LoadConfig()
	if got.FeedURL != cfg.FeedURL || got.CacheMaxAgeHours != 6 {
		t.Errorf("LoadConfig = %+v", got)
	}
	if got.DemoEnabled || got.DemoDays != 30 {
		t.Errorf("demo fields = %v/%d", got.DemoEnabled, got.DemoDays)
	}
	if got.DefaultRanges["p1"] != "60" {
		t.Errorf("DefaultRanges = %v", got.DefaultRanges)
	}
}

func TestDB_LoadConfigEmptyReturnsDefaults(t *testing.T) {
	d := openTestDB(t)
	defer d.Close()

	got := d.LoadConfig()
	want := config.Default()
	if got.FeedURL != want.FeedURL || got.CacheMaxAgeHours != want.CacheMaxAgeHours {
		t.Errorf("LoadConfig on empty db = %+v, want defaults", got)
	}
}
