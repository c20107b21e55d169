package store

import (
	"context"
	"errors"

	"github.com/nulzo/provider-engine/internal/store/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Repository is the main contract for the data layer.
type Repository interface {
	Selection() SelectionRepository
	Health() HealthRepository
	Catalog() CatalogRepository

	// transaction support
	WithTx(ctx context.Context, fn func(repo Repository) error) error

	Close() error
}

// SelectionRepository persists the user's selected provider name. A single
// durable value: read once at startup, written through on every change.
type SelectionRepository interface {
	// Get returns the persisted provider name, or ErrNotFound if never set.
	Get(ctx context.Context) (string, error)
	// Set upserts the persisted provider name.
	Set(ctx context.Context, name string) error
}

// HealthRepository keeps an append-only log of probe outcomes.
type HealthRepository interface {
	// Log records the outcome of a single probe.
	Log(ctx context.Context, entry *model.HealthLog) error
	// Latest returns the most recent outcome per provider.
	Latest(ctx context.Context) ([]model.HealthLog, error)
	// Recent returns the last N outcomes for one provider, newest first.
	Recent(ctx context.Context, provider string, limit int) ([]model.HealthLog, error)
}

// CatalogRepository persists the last good catalog snapshot so a restart can
// come up with a working provider list even if the catalog source is down.
type CatalogRepository interface {
	// ReplaceSnapshot wholesale-replaces the stored snapshot.
	ReplaceSnapshot(ctx context.Context, providers []model.ProviderRow) error
	// LoadSnapshot returns the stored snapshot in catalog order.
	LoadSnapshot(ctx context.Context) ([]model.ProviderRow, error)
}
