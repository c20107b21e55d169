package model

import (
	"database/sql"
	"time"
)

// Selection is the single persisted selection row.
type Selection struct {
	ID        int       `db:"id"`
	Provider  string    `db:"provider"`
	UpdatedAt time.Time `db:"updated_at"`
}

// HealthLog is one recorded probe outcome.
type HealthLog struct {
	ID        string         `db:"id"`
	Provider  string         `db:"provider"`
	Healthy   bool           `db:"healthy"`
	LatencyMS int64          `db:"latency_ms"`
	Error     sql.NullString `db:"error"`
	CheckedAt time.Time      `db:"checked_at"`
}

// ProviderRow is one catalog entry as persisted. Models and capabilities are
// stored as JSON text; position preserves catalog order across restarts.
type ProviderRow struct {
	Name         string `db:"name"`
	DisplayName  string `db:"display_name"`
	Priority     int    `db:"priority"`
	Models       string `db:"models"`       // JSON array
	Capabilities string `db:"capabilities"` // JSON object
	Enabled      bool   `db:"enabled"`
	Position     int    `db:"position"`
}
