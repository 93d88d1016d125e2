package main

import (
	"embed"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"price-intel/internal/api"
	"price-intel/internal/db"
	"price-intel/internal/feed"
	"price-intel/internal/logger"
	"price-intel/internal/report"
)

var version = "dev"

//go:embed web/dist/*
var frontendFS embed.FS

func main() {
	port := flag.Int("port", 8090, "HTTP server port")
	reportMode := flag.Bool("report", false, "print a terminal price report and exit")
	feedURL := flag.String("feed", "", "override upstream dashboard-data URL")
	flag.Parse()

	logger.Banner(version)

	// Open SQLite database
	database, err := db.Open()
	if err != nil {
		logger.Error("DB", fmt.Sprintf("Failed to open database: %v", err))
		os.Exit(1)
	}
	defer database.Close()

	// Load config from SQLite
	cfg := database.LoadConfig()
	if *feedURL != "" {
		cfg.FeedURL = *feedURL
	}

	feedClient := feed.NewClient(cfg.FeedURL)
	srv := api.NewServer(cfg, feedClient, database)

	if *reportMode {
		if _, err := srv.LoadData(); err != nil {
			logger.Error("API", fmt.Sprintf("Load failed: %v", err))
			os.Exit(1)
		}
		if err := report.Render(os.Stdout, srv.Source(), srv.Summaries()); err != nil {
			logger.Error("REPORT", fmt.Sprintf("Render failed: %v", err))
			os.Exit(1)
		}
		return
	}

	// Load data in background so the server is reachable immediately
	go func() {
		source, err := srv.LoadData()
		if err != nil {
			logger.Error("FEED", fmt.Sprintf("Initial load failed: %v", err))
			return
		}
		logger.Stats("source", source)
	}()

	// Combine API + embedded frontend into a single handler
	apiHandler := srv.Handler()
	frontendContent, _ := fs.Sub(frontendFS, "web/dist")
	fileServer := http.FileServer(http.FS(frontendContent))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// API routes
		if strings.HasPrefix(r.URL.Path, "/api/") {
			apiHandler.ServeHTTP(w, r)
			return
		}
		// Try static file, fall back to index.html (SPA)
		path := strings.TrimPrefix(r.URL.Path, "/")
		if path == "" {
			path = "index.html"
		}
		if _, err := fs.Stat(frontendContent, path); err == nil {
			fileServer.ServeHTTP(w, r)
			return
		}
		// SPA fallback
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})

	addr := fmt.Sprintf("127.0.0.1:%d", *port)
	logger.Server(addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Error("Server", fmt.Sprintf("Failed: %v", err))
		os.Exit(1)
	}
}
