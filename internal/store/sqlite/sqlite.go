package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nulzo/provider-engine/internal/store"
	"github.com/nulzo/provider-engine/internal/store/model"
)

// DB defines the interface for database operations (satisfied by *sqlx.DB and *sqlx.Tx)
type DB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SqliteRepository implements store.Repository
type SqliteRepository struct {
	db       *sqlx.DB // Required for starting new transactions
	executor DB       // Used for actual queries (can be *sqlx.DB or *sqlx.Tx)
}

func NewSqliteRepository(db *sqlx.DB) *SqliteRepository {
	return &SqliteRepository{
		db:       db,
		executor: db,
	}
}

func (r *SqliteRepository) Close() error {
	return r.db.Close()
}

func (r *SqliteRepository) WithTx(ctx context.Context, fn func(repo store.Repository) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	txRepo := &SqliteRepository{
		db:       r.db,
		executor: tx,
	}

	if err := fn(txRepo); err != nil {
		// attempt rollback, but prioritize original error
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *SqliteRepository) Selection() store.SelectionRepository {
	return &selectionRepo{db: r.executor}
}

func (r *SqliteRepository) Health() store.HealthRepository {
	return &healthRepo{db: r.executor}
}

func (r *SqliteRepository) Catalog() store.CatalogRepository {
	return &catalogRepo{db: r.executor}
}

type selectionRepo struct {
	db DB
}

func (r *selectionRepo) Get(ctx context.Context) (string, error) {
	var row model.Selection
	query := `SELECT id, provider, updated_at FROM selection WHERE id = 1`
	err := r.db.GetContext(ctx, &row, query)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return row.Provider, nil
}

func (r *selectionRepo) Set(ctx context.Context, name string) error {
	query := `
	INSERT INTO selection (id, provider, updated_at) VALUES (1, :provider, :updated_at)
	ON CONFLICT(id) DO UPDATE SET provider = excluded.provider, updated_at = excluded.updated_at`
	_, err := r.db.NamedExecContext(ctx, query, model.Selection{
		Provider:  name,
		UpdatedAt: time.Now().UTC(),
	})
	return err
}

type healthRepo struct {
	db DB
}

func (r *healthRepo) Log(ctx context.Context, entry *model.HealthLog) error {
	query := `
	INSERT INTO health_log (id, provider, healthy, latency_ms, error, checked_at)
	VALUES (:id, :provider, :healthy, :latency_ms, :error, :checked_at)`
	_, err := r.db.NamedExecContext(ctx, query, entry)
	return err
}

func (r *healthRepo) Latest(ctx context.Context) ([]model.HealthLog, error) {
	var rows []model.HealthLog
	// newest row per provider
	query := `
	SELECT h.id, h.provider, h.healthy, h.latency_ms, h.error, h.checked_at
	FROM health_log h
	JOIN (
		SELECT provider, MAX(checked_at) AS checked_at
		FROM health_log
		GROUP BY provider
	) latest ON latest.provider = h.provider AND latest.checked_at = h.checked_at
	ORDER BY h.provider`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *healthRepo) Recent(ctx context.Context, provider string, limit int) ([]model.HealthLog, error) {
	var rows []model.HealthLog
	query := `
	SELECT id, provider, healthy, latency_ms, error, checked_at
	FROM health_log WHERE provider = ?
	ORDER BY checked_at DESC LIMIT ?`
	if err := r.db.SelectContext(ctx, &rows, query, provider, limit); err != nil {
		return nil, err
	}
	return rows, nil
}

type catalogRepo struct {
	db DB
}

func (r *catalogRepo) ReplaceSnapshot(ctx context.Context, providers []model.ProviderRow) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM catalog_snapshot`); err != nil {
		return err
	}
	query := `
	INSERT INTO catalog_snapshot (name, display_name, priority, models, capabilities, enabled, position)
	VALUES (:name, :display_name, :priority, :models, :capabilities, :enabled, :position)`
	for _, p := range providers {
		if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *catalogRepo) LoadSnapshot(ctx context.Context) ([]model.ProviderRow, error) {
	var rows []model.ProviderRow
	query := `
	SELECT name, display_name, priority, models, capabilities, enabled, position
	FROM catalog_snapshot ORDER BY position`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}
	return rows, nil
}
