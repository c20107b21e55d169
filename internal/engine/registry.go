package engine

import (
	"sync"

	"github.com/nulzo/provider-engine/internal/core/domain"
)

// snapshotHolder guards the current catalog snapshot. Replacement is a single
// pointer swap, so readers always see either the old snapshot or the new one,
// never a mix.
type snapshotHolder struct {
	mu   sync.RWMutex
	snap *domain.Snapshot
}

func newSnapshotHolder() *snapshotHolder {
	return &snapshotHolder{snap: domain.NewSnapshot(nil)}
}

func (h *snapshotHolder) current() *domain.Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap
}

func (h *snapshotHolder) swap(s *domain.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snap = s
}
