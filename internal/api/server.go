package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"price-intel/internal/config"
	"price-intel/internal/db"
	"price-intel/internal/feed"

	"golang.org/x/sync/singleflight"
)

// Server is the HTTP API server that connects the feed client, pricing engine,
// and payload cache.
type Server struct {
	cfg  *config.Config
	feed *feed.Client
	db   *db.DB

	mu    sync.RWMutex
	ready bool
	snap  *snapshot

	// Coalesces concurrent refresh requests into one upstream fetch.
	refreshGroup singleflight.Group

	// lastErr holds the most recent upstream fetch failure, surfaced on the
	// status endpoint. Cleared on a successful fetch.
	lastErr error

	now func() time.Time
}

// NewServer creates a Server with the given config, feed client, and database.
// The database may be nil, in which case caching and config persistence are
// skipped.
func NewServer(cfg *config.Config, feedClient *feed.Client, database *db.DB) *Server {
	return &Server{
		cfg:  cfg,
		feed: feedClient,
		db:   database,
		now:  time.Now,
	}
}

func (s *Server) isReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Handler returns the HTTP handler with all API routes and CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/config", s.handleGetConfig)
	mux.HandleFunc("POST /api/config", s.handleSetConfig)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/catalog", s.handleCatalog)
	mux.HandleFunc("GET /api/products/{id}/chart", s.handleChart)
	mux.HandleFunc("POST /api/products/{id}/legend/{retailer}", s.handleLegendToggle)
	mux.HandleFunc("GET /api/export.csv", s.handleExportCSV)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(204)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	ready := s.ready
	var productCount int
	var source string
	var loadedAt time.Time
	if s.snap != nil {
		productCount = len(s.snap.Entries)
		source = s.snap.Source
		loadedAt = s.snap.LoadedAt
	}
	lastErr := s.lastErr
	s.mu.RUnlock()

	result := map[string]interface{}{
		"ready":    ready,
		"products": productCount,
		"source":   source,
	}
	if !loadedAt.IsZero() {
		result["last_refresh"] = loadedAt.Unix()
	}
	if lastErr != nil {
		result["upstream_error"] = lastErr.Error()
	}
	writeJSON(w, result)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, s.cfg)
}

func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, 400, "invalid json")
		return
	}

	s.mu.Lock()
	if v, ok := patch["feed_url"]; ok {
		json.Unmarshal(v, &s.cfg.FeedURL)
	}
	if v, ok := patch["cache_max_age_hours"]; ok {
		json.Unmarshal(v, &s.cfg.CacheMaxAgeHours)
	}
	if v, ok := patch["demo_enabled"]; ok {
		json.Unmarshal(v, &s.cfg.DemoEnabled)
	}
	if v, ok := patch["demo_days"]; ok {
		json.Unmarshal(v, &s.cfg.DemoDays)
	}
	if v, ok := patch["default_ranges"]; ok {
		json.Unmarshal(v, &s.cfg.DefaultRanges)
	}

	// Validate bounds
	if s.cfg.CacheMaxAgeHours < 0 {
		s.cfg.CacheMaxAgeHours = 0
	}
	if s.cfg.DemoDays < 1 {
		s.cfg.DemoDays = 1
	} else if s.cfg.DemoDays > 365 {
		s.cfg.DemoDays = 365
	}
	cfg := *s.cfg
	s.mu.Unlock()

	s.feed.SetURL(cfg.FeedURL)
	if s.db != nil {
		if err := s.db.SaveConfig(&cfg); err != nil {
			writeError(w, 500, "failed to persist config")
			return
		}
	}
	writeJSON(w, cfg)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	res, err, _ := s.refreshGroup.Do("refresh", func() (interface{}, error) {
		return s.LoadData()
	})
	if err != nil {
		writeError(w, 502, err.Error())
		return
	}
	writeJSON(w, map[string]interface{}{"source": res.(string)})
}
