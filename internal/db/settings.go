package db

import (
	"encoding/json"
	"strconv"

	"price-intel/internal/config"
)

// LoadConfig reads config from SQLite. If empty, returns defaults.
func (d *DB) LoadConfig() *config.Config {
	cfg := config.Default()

	rows, err := d.sql.Query("SELECT key, value FROM config")
	if err != nil {
		return cfg
	}
	defer rows.Close()

	m := make(map[string]string)
	for rows.Next() {
		var k, v string
		rows.Scan(&k, &v)
		m[k] = v
	}

	if len(m) == 0 {
		return cfg
	}

	if v, ok := m["feed_url"]; ok {
		cfg.FeedURL = v
	}
	if v, ok := m["cache_max_age_hours"]; ok {
		cfg.CacheMaxAgeHours, _ = strconv.Atoi(v)
	}
	if v, ok := m["demo_enabled"]; ok {
		cfg.DemoEnabled, _ = strconv.ParseBool(v)
	}
	if v, ok := m["demo_days"]; ok {
		cfg.DemoDays, _ = strconv.Atoi(v)
	}
	if v, ok := m["default_ranges"]; ok {
		var ranges map[string]string
		if err := json.Unmarshal([]byte(v), &ranges); err == nil {
			cfg.DefaultRanges = ranges
		}
	}

	return cfg
}

// SaveConfig writes config to SQLite (upsert all fields).
func (d *DB) SaveConfig(cfg *config.Config) error {
	rangesJSON := "{}"
	if b, err := json.Marshal(cfg.DefaultRanges); err == nil {
		rangesJSON = string(b)
	}

	pairs := map[string]string{
		"feed_url":            cfg.FeedURL,
		"cache_max_age_hours": strconv.Itoa(cfg.CacheMaxAgeHours),
		"demo_enabled":        strconv.FormatBool(cfg.DemoEnabled),
		"demo_days":           strconv.Itoa(cfg.DemoDays),
		"default_ranges":      rangesJSON,
	}

	tx, err := d.sql.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT OR REPLACE INTO config (key, value) VALUES (?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for k, v := range pairs {
		if _, err := stmt.Exec(k, v); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
