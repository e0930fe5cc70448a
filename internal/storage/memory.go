package storage

import (
	"context"
	"sort"
	"sync"

	"spendy/internal/core"
)

// MemoryStore is an in-process snapshot store. It backs the default backend
// and the tests; contents do not survive a restart.
type MemoryStore struct {
	mu        sync.Mutex
	snapshots map[string]Snapshot
	icons     map[core.Category]PersonaIcon
}

var (
	_ SnapshotStore = (*MemoryStore)(nil)
	_ IconStore     = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[string]Snapshot),
		icons:     make(map[core.Category]PersonaIcon),
	}
}

func (m *MemoryStore) Save(_ context.Context, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[snap.ID] = cloneSnapshot(snap)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.snapshots[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return cloneSnapshot(snap), nil
}

func (m *MemoryStore) List(_ context.Context) ([]Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Snapshot, 0, len(m.snapshots))
	for _, snap := range m.snapshots {
		out = append(out, cloneSnapshot(snap))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.snapshots[id]; !ok {
		return ErrNotFound
	}
	delete(m.snapshots, id)
	return nil
}

func (m *MemoryStore) SaveIcon(_ context.Context, icon PersonaIcon) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	img := make([]byte, len(icon.Image))
	copy(img, icon.Image)
	icon.Image = img
	m.icons[icon.Category] = icon
	return nil
}

func (m *MemoryStore) GetIcon(_ context.Context, category core.Category) (PersonaIcon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	icon, ok := m.icons[category]
	if !ok {
		return PersonaIcon{}, ErrNotFound
	}
	return icon, nil
}

func cloneSnapshot(snap Snapshot) Snapshot {
	out := snap
	out.Transactions = append([]core.Transaction(nil), snap.Transactions...)
	out.Totals = make(map[core.Category]int64, len(snap.Totals))
	for k, v := range snap.Totals {
		out.Totals[k] = v
	}
	return out
}
