package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"price-intel/internal/logger"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	sql *sql.DB
}

func dbPath() string {
	// Prefer working directory so the DB is stable across go run / go build.
	// Fall back to executable directory for deployed builds.
	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, "price-intel.db")
	}
	exe, _ := os.Executable()
	return filepath.Join(filepath.Dir(exe), "price-intel.db")
}

// Open opens (or creates) the SQLite database and runs migrations.
func Open() (*DB, error) {
	path := dbPath()
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	d := &DB{sql: sqlDB}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	logger.Success("DB", fmt.Sprintf("Opened %s", path))
	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate() error {
	version := 0
	// Try to read current version
	d.sql.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)

	if version < 1 {
		_, err := d.sql.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS config (
				key   TEXT PRIMARY KEY,
				value TEXT NOT NULL
			);

			INSERT OR IGNORE INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
		logger.Info("DB", "Applied migration v1")
	}

	if version < 2 {
		_, err := d.sql.Exec(`
			CREATE TABLE IF NOT EXISTS products (
				id       TEXT PRIMARY KEY,
				name     TEXT NOT NULL,
				brand    TEXT NOT NULL,
				size     TEXT,
				category TEXT
			);

			CREATE TABLE IF NOT EXISTS price_history (
				product_id TEXT NOT NULL REFERENCES products(id),
				retailer   TEXT NOT NULL,
				date       TEXT NOT NULL,
				price      REAL NOT NULL,
				PRIMARY KEY (product_id, retailer, date)
			);

			CREATE TABLE IF NOT EXISTS retailer_urls (
				product_id TEXT NOT NULL REFERENCES products(id),
				retailer   TEXT NOT NULL,
				url        TEXT NOT NULL,
				PRIMARY KEY (product_id, retailer)
			);

			CREATE TABLE IF NOT EXISTS feed_meta (
				id         INTEGER PRIMARY KEY DEFAULT 1,
				updated_at TEXT NOT NULL,
				source     TEXT NOT NULL
			);

			INSERT OR IGNORE INTO schema_version (version) VALUES (2);
		`)
		if err != nil {
			return fmt.Errorf("migration v2: %w", err)
		}
		logger.Info("DB", "Applied migration v2 (payload cache)")
	}

	return nil
}

// SqlDB returns the underlying *sql.DB for use by other packages.
func (d *DB) SqlDB() *sql.DB {
	return d.sql
}
