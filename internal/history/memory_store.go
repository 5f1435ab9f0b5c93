package history

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-memory snapshot store for demo/development mode.
type MemoryStore struct {
	byAddress map[string][]*Snapshot // newest first
	mu        sync.RWMutex
}

// NewMemoryStore creates a new in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byAddress: make(map[string][]*Snapshot)}
}

func (m *MemoryStore) Record(ctx context.Context, snap *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	addr := strings.ToLower(snap.Address)
	cp := *snap
	cp.Address = addr
	m.byAddress[addr] = append(m.byAddress[addr], &cp)
	sort.SliceStable(m.byAddress[addr], func(a, b int) bool {
		return m.byAddress[addr][a].RecordedAt.After(m.byAddress[addr][b].RecordedAt)
	})
	return nil
}

func (m *MemoryStore) ListByAddress(ctx context.Context, address string, limit int) ([]*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snaps := m.byAddress[strings.ToLower(address)]
	if len(snaps) == 0 {
		return nil, nil
	}
	if limit <= 0 || limit > len(snaps) {
		limit = len(snaps)
	}
	result := make([]*Snapshot, 0, limit)
	for _, s := range snaps[:limit] {
		cp := *s
		result = append(result, &cp)
	}
	return result, nil
}

func (m *MemoryStore) Latest(ctx context.Context, address string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snaps := m.byAddress[strings.ToLower(address)]
	if len(snaps) == 0 {
		return nil, ErrSnapshotNotFound
	}
	cp := *snaps[0]
	return &cp, nil
}

func (m *MemoryStore) Trend(ctx context.Context, address string, window time.Duration) (int, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snaps := m.byAddress[strings.ToLower(address)]
	cutoff := time.Now().Add(-window)

	var inWindow []*Snapshot
	for _, s := range snaps {
		if s.RecordedAt.After(cutoff) {
			inWindow = append(inWindow, s)
		}
	}
	if len(inWindow) == 0 {
		return 0, 0, ErrSnapshotNotFound
	}

	// inWindow is newest first.
	newest := inWindow[0]
	oldest := inWindow[len(inWindow)-1]
	return newest.TrustScore - oldest.TrustScore, len(inWindow), nil
}
