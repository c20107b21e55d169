package engine

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/nulzo/provider-engine/internal/core/domain"
	"github.com/nulzo/provider-engine/internal/store"
	"go.uber.org/zap"
)

// selectionState holds the user's provider choice. The stored name is a
// reference into the catalog, not ownership: it is resolved against the live
// snapshot on every read, so a provider that disappears or gets disabled is
// reflected immediately through the fallback rule.
type selectionState struct {
	mu   sync.RWMutex
	name string

	repo   store.SelectionRepository // optional durable storage
	logger *zap.Logger
}

func newSelectionState(repo store.SelectionRepository, logger *zap.Logger) *selectionState {
	return &selectionState{repo: repo, logger: logger}
}

// load reads the persisted name once at initialization. Persistence failures
// are non-fatal; selection simply starts from the fallback rule.
func (s *selectionState) load(ctx context.Context) {
	if s.repo == nil {
		return
	}
	name, err := s.repo.Get(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("Failed to read persisted selection", zap.Error(err))
		}
		return
	}
	s.mu.Lock()
	s.name = name
	s.mu.Unlock()
}

// set validates name against the snapshot and, when valid, stores it and
// writes it through to durable storage. A rejected write leaves the previous
// selection untouched. Persistence failure only affects the next session's
// default, never the in-session selection.
func (s *selectionState) set(ctx context.Context, name string, snap *domain.Snapshot) error {
	if name == "" {
		return domain.RejectSelection(domain.SelectionEmptyName, name)
	}

	p, ok := snap.Get(name)
	if !ok {
		return domain.RejectSelection(domain.SelectionUnknownProvider, name)
	}
	if !p.Enabled {
		return domain.RejectSelection(domain.SelectionProviderDisabled, name)
	}

	s.mu.Lock()
	s.name = name
	s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.Set(ctx, name); err != nil {
			s.logger.Warn("Failed to persist selection; in-session selection unaffected",
				zap.String("provider", name),
				zap.Error(err),
			)
		}
	}

	return nil
}

// stored returns the raw stored name, which may no longer resolve.
func (s *selectionState) stored() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// resolve applies the fallback rule: the stored name if it still names an
// enabled provider, otherwise the highest-priority enabled provider, or nil
// when the catalog has none. The stored name itself is left untouched; the
// persisted value only changes on the next explicit write.
func (s *selectionState) resolve(snap *domain.Snapshot) *domain.ProviderDescriptor {
	s.mu.RLock()
	name := s.name
	s.mu.RUnlock()

	if name != "" {
		if p, ok := snap.Get(name); ok && p.Enabled {
			return &p
		}
	}
	return fallbackProvider(snap)
}

// fallbackProvider picks the highest-priority enabled provider, catalog order
// breaking ties.
func fallbackProvider(snap *domain.Snapshot) *domain.ProviderDescriptor {
	enabled := snap.Enabled()
	if len(enabled) == 0 {
		return nil
	}
	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Priority < enabled[j].Priority
	})
	top := enabled[0]
	return &top
}
