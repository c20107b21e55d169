package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nulzo/provider-engine/internal/catalog"
	"github.com/nulzo/provider-engine/internal/core/domain"
	"github.com/nulzo/provider-engine/internal/probe"
	"github.com/nulzo/provider-engine/internal/store"
	"github.com/nulzo/provider-engine/internal/store/cache"
	"github.com/nulzo/provider-engine/internal/store/model"
	"go.uber.org/zap"
)

// cacheProviderPrefix scopes downstream cache entries that depend on the
// selected provider. Entries under it are dropped on every selection change.
const cacheProviderPrefix = "provider:"

// Service is the single surface UI collaborators may call. It composes the
// catalog snapshot, the health monitor, and the selection state, and keeps
// their views consistent: every mutation re-runs the fallback rule before a
// caller can observe the result.
type Service interface {
	// Start performs the initial catalog load and selection read, kicks off
	// the first health cycle, and launches the periodic refresh loops.
	Start(ctx context.Context) error
	// Stop halts the periodic loops and waits for them to exit. In-flight
	// probes are allowed to complete; their writes are idempotent.
	Stop()

	Providers() []domain.ProviderDescriptor
	EnabledProviders() []domain.ProviderDescriptor
	ProviderHealth(name string) bool
	HealthRecord(name string) (domain.HealthRecord, bool)
	HealthLoading() bool

	// HealthHistory returns the last limit persisted probe outcomes for one
	// provider, newest first. Nil without durable storage.
	HealthHistory(ctx context.Context, name string, limit int) ([]model.HealthLog, error)
	// LatestHealth returns the newest persisted outcome per provider.
	LatestHealth(ctx context.Context) ([]model.HealthLog, error)

	Suggest(task domain.TaskType) domain.SuggestionResult

	SelectedProvider() *domain.ProviderDescriptor
	SetSelectedProvider(ctx context.Context, name string) error

	RefreshHealth(ctx context.Context)
	RefreshCatalog(ctx context.Context) error

	// Subscribe registers a change listener. The cancel func releases it.
	Subscribe() (<-chan ChangeEvent, func())
}

// Options tunes the periodic behavior of the engine.
type Options struct {
	HealthInterval  time.Duration // probe cadence, 0 disables the loop
	ProbeTimeout    time.Duration // per-probe ceiling, defaults to 5s
	CatalogInterval time.Duration // catalog re-fetch cadence, 0 disables
}

type service struct {
	logger   *zap.Logger
	source   catalog.Source
	repo     store.Repository // optional durable storage
	cache    cache.CacheService
	probers  map[string]probe.Prober
	opts     Options
	registry *snapshotHolder
	monitor  *healthMonitor
	sel      *selectionState
	notifier *notifier

	stopCh  chan struct{}
	stopped sync.Once
	wg      sync.WaitGroup
}

func NewService(logger *zap.Logger, source catalog.Source, repo store.Repository, cacheSvc cache.CacheService, probers map[string]probe.Prober, opts Options) Service {
	var healthRepo store.HealthRepository
	var selectionRepo store.SelectionRepository
	if repo != nil {
		healthRepo = repo.Health()
		selectionRepo = repo.Selection()
	}

	return &service{
		logger:   logger,
		source:   source,
		repo:     repo,
		cache:    cacheSvc,
		probers:  probers,
		opts:     opts,
		registry: newSnapshotHolder(),
		monitor:  newHealthMonitor(opts.ProbeTimeout, logger, healthRepo),
		sel:      newSelectionState(selectionRepo, logger),
		notifier: newNotifier(),
		stopCh:   make(chan struct{}),
	}
}

func (s *service) Start(ctx context.Context) error {
	if err := s.RefreshCatalog(ctx); err != nil {
		// a dead catalog source at boot falls back to the last good snapshot
		s.logger.Warn("Initial catalog fetch failed, loading persisted snapshot", zap.Error(err))
		if loadErr := s.loadPersistedCatalog(ctx); loadErr != nil {
			return fmt.Errorf("catalog unavailable and no persisted snapshot: %w", err)
		}
	}

	s.sel.load(ctx)

	// first health cycle runs in the background; reads are indeterminate
	// (HealthLoading) until it completes
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.RefreshHealth(context.WithoutCancel(ctx))
	}()

	if s.opts.HealthInterval > 0 {
		s.wg.Add(1)
		go s.healthLoop()
	}
	if s.opts.CatalogInterval > 0 {
		s.wg.Add(1)
		go s.catalogLoop()
	}

	return nil
}

func (s *service) Stop() {
	s.stopped.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
}

func (s *service) healthLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.opts.HealthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RefreshHealth(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

func (s *service) catalogLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.opts.CatalogInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.RefreshCatalog(context.Background()); err != nil {
				s.logger.Warn("Periodic catalog refresh failed, keeping previous snapshot", zap.Error(err))
			}
		case <-s.stopCh:
			return
		}
	}
}

func (s *service) Providers() []domain.ProviderDescriptor {
	return s.registry.current().Providers()
}

func (s *service) EnabledProviders() []domain.ProviderDescriptor {
	return s.registry.current().Enabled()
}

func (s *service) ProviderHealth(name string) bool {
	return s.monitor.Healthy(name)
}

func (s *service) HealthRecord(name string) (domain.HealthRecord, bool) {
	return s.monitor.Record(name)
}

func (s *service) HealthLoading() bool {
	return s.monitor.Loading()
}

func (s *service) HealthHistory(ctx context.Context, name string, limit int) ([]model.HealthLog, error) {
	if s.repo == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.Health().Recent(ctx, name, limit)
}

func (s *service) LatestHealth(ctx context.Context) ([]model.HealthLog, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.Health().Latest(ctx)
}

func (s *service) Suggest(task domain.TaskType) domain.SuggestionResult {
	return Suggest(s.registry.current(), s.monitor.Healthy, task)
}

func (s *service) SelectedProvider() *domain.ProviderDescriptor {
	return s.sel.resolve(s.registry.current())
}

func (s *service) SetSelectedProvider(ctx context.Context, name string) error {
	if err := s.sel.set(ctx, name, s.registry.current()); err != nil {
		return err
	}

	s.invalidateProviderCache(ctx)
	s.notifier.publish(ChangeSelection)

	// the new selection deserves fresh health data; joiners coalesce into
	// any cycle already in flight
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.RefreshHealth(context.WithoutCancel(ctx))
	}()

	return nil
}

// RefreshHealth runs (or joins) one probe cycle over the enabled providers.
func (s *service) RefreshHealth(ctx context.Context) {
	if ran := s.monitor.Refresh(ctx, s.probeTargets()); ran {
		s.notifier.publish(ChangeHealth)
	}
}

// RefreshCatalog fetches the catalog and swaps in the new snapshot wholesale.
// On failure the previous snapshot is retained and ErrCatalogUnavailable is
// surfaced; a transient fetch error never blanks out a working selection.
func (s *service) RefreshCatalog(ctx context.Context) error {
	descriptors, err := s.source.Fetch(ctx)
	if err != nil {
		s.logger.Warn("Catalog fetch failed", zap.Error(err))
		return fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	before := s.SelectedProvider()

	snap := domain.NewSnapshot(descriptors)
	s.registry.swap(snap)
	s.persistCatalog(ctx, snap)
	s.notifier.publish(ChangeCatalog)

	// re-run the fallback rule: if the swap changed the effective selection
	// (selected provider dropped or disabled), downstream caches are stale
	after := s.SelectedProvider()
	if !sameProvider(before, after) {
		s.invalidateProviderCache(ctx)
		s.notifier.publish(ChangeSelection)
	}

	return nil
}

func (s *service) Subscribe() (<-chan ChangeEvent, func()) {
	return s.notifier.subscribe()
}

// probeTargets maps the enabled providers of the current snapshot onto their
// probers. A provider without a prober still appears, and reads unhealthy.
func (s *service) probeTargets() []probeTarget {
	enabled := s.registry.current().Enabled()
	targets := make([]probeTarget, 0, len(enabled))
	for _, p := range enabled {
		targets = append(targets, probeTarget{name: p.Name, prober: s.probers[p.Name]})
	}
	return targets
}

func (s *service) invalidateProviderCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(ctx, cacheProviderPrefix); err != nil {
		s.logger.Warn("Cache invalidation failed", zap.Error(err))
	}
}

func (s *service) persistCatalog(ctx context.Context, snap *domain.Snapshot) {
	if s.repo == nil {
		return
	}

	providers := snap.Providers()
	rows := make([]model.ProviderRow, 0, len(providers))
	for i, p := range providers {
		models, _ := json.Marshal(p.Models)
		caps, _ := json.Marshal(p.Capabilities)
		rows = append(rows, model.ProviderRow{
			Name:         p.Name,
			DisplayName:  p.DisplayName,
			Priority:     p.Priority,
			Models:       string(models),
			Capabilities: string(caps),
			Enabled:      p.Enabled,
			Position:     i,
		})
	}

	err := s.repo.WithTx(ctx, func(repo store.Repository) error {
		return repo.Catalog().ReplaceSnapshot(ctx, rows)
	})
	if err != nil {
		s.logger.Warn("Failed to persist catalog snapshot", zap.Error(err))
	}
}

// loadPersistedCatalog restores the last good snapshot from durable storage.
func (s *service) loadPersistedCatalog(ctx context.Context) error {
	if s.repo == nil {
		return fmt.Errorf("no durable storage configured")
	}

	rows, err := s.repo.Catalog().LoadSnapshot(ctx)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("persisted snapshot is empty")
	}

	descriptors := make([]domain.ProviderDescriptor, 0, len(rows))
	for _, r := range rows {
		var models []string
		var caps map[domain.TaskType]bool
		_ = json.Unmarshal([]byte(r.Models), &models)
		_ = json.Unmarshal([]byte(r.Capabilities), &caps)
		descriptors = append(descriptors, domain.ProviderDescriptor{
			Name:         r.Name,
			DisplayName:  r.DisplayName,
			Priority:     r.Priority,
			Models:       models,
			Capabilities: caps,
			Enabled:      r.Enabled,
		})
	}

	s.registry.swap(domain.NewSnapshot(descriptors))
	s.notifier.publish(ChangeCatalog)
	return nil
}

func sameProvider(a, b *domain.ProviderDescriptor) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name == b.Name
}
