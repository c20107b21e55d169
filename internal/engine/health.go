package engine

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nulzo/provider-engine/internal/core/domain"
	"github.com/nulzo/provider-engine/internal/probe"
	"github.com/nulzo/provider-engine/internal/store"
	"github.com/nulzo/provider-engine/internal/store/model"
	"go.uber.org/zap"
)

var errNoProber = errors.New("no prober configured")

// probeTarget pairs a provider name with its prober. A nil prober records the
// provider as unhealthy — fail-closed, same as a failed probe.
type probeTarget struct {
	name   string
	prober probe.Prober
}

// healthMonitor tracks the last known probe outcome per provider. Unknown or
// never-probed providers read as unhealthy. A refresh cycle probes every
// target concurrently; concurrent refresh requests join the in-flight cycle
// instead of starting a second one, so each provider is contacted at most
// once per cycle.
type healthMonitor struct {
	mu       sync.Mutex
	records  map[string]domain.HealthRecord
	inflight chan struct{}

	timeout time.Duration
	logger  *zap.Logger
	repo    store.HealthRepository // optional probe audit log
}

func newHealthMonitor(timeout time.Duration, logger *zap.Logger, repo store.HealthRepository) *healthMonitor {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &healthMonitor{
		records: make(map[string]domain.HealthRecord),
		timeout: timeout,
		logger:  logger,
		repo:    repo,
	}
}

// Healthy returns the last known health for name. False for unknown names.
func (m *healthMonitor) Healthy(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[name].Healthy
}

// Record returns the full health record for name, if one exists.
func (m *healthMonitor) Record(name string) (domain.HealthRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[name]
	return rec, ok
}

// Loading reports whether a refresh cycle is currently in flight. Callers
// should treat all health reads as indeterminate while true.
func (m *healthMonitor) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inflight != nil
}

// Refresh runs one probe cycle over targets. If a cycle is already running,
// the call blocks until that cycle finishes (or ctx is cancelled) and returns
// false; the caller joined an existing cycle rather than starting one.
func (m *healthMonitor) Refresh(ctx context.Context, targets []probeTarget) bool {
	m.mu.Lock()
	if m.inflight != nil {
		done := m.inflight
		m.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
		}
		return false
	}
	done := make(chan struct{})
	m.inflight = done
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inflight = nil
		m.mu.Unlock()
		close(done)
	}()

	var wg sync.WaitGroup
	for _, t := range targets {
		wg.Add(1)
		go func(t probeTarget) {
			defer wg.Done()
			m.probeOne(ctx, t)
		}(t)
	}
	wg.Wait()

	return true
}

// probeOne runs a single probe and records the outcome. A failure is isolated
// to this provider; it never aborts the rest of the cycle.
func (m *healthMonitor) probeOne(ctx context.Context, t probeTarget) {
	start := time.Now()

	var err error
	if t.prober == nil {
		err = errNoProber
	} else {
		probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
		err = t.prober.Probe(probeCtx)
		cancel()
	}

	healthy := err == nil
	checkedAt := time.Now()

	m.mu.Lock()
	m.records[t.name] = domain.HealthRecord{Healthy: healthy, CheckedAt: checkedAt}
	m.mu.Unlock()

	if err != nil {
		m.logger.Warn("Provider probe failed",
			zap.String("provider", t.name),
			zap.Error(err),
		)
	}

	if m.repo == nil {
		return
	}

	entry := &model.HealthLog{
		ID:        uuid.New().String(),
		Provider:  t.name,
		Healthy:   healthy,
		LatencyMS: time.Since(start).Milliseconds(),
		CheckedAt: checkedAt,
	}
	if err != nil {
		entry.Error = sql.NullString{String: err.Error(), Valid: true}
	}

	// audit write is best-effort; the in-memory record is authoritative
	if logErr := m.repo.Log(context.WithoutCancel(ctx), entry); logErr != nil {
		m.logger.Warn("Failed to persist probe outcome",
			zap.String("provider", t.name),
			zap.Error(logErr),
		)
	}
}
