package state

import (
	"context"
	"fmt"
	"sync"
)

type InMemoryStateManager struct {
	lock      sync.RWMutex
	snapshots map[string]*Snapshot
}

func NewInMemoryStateManager() *InMemoryStateManager {
	return &InMemoryStateManager{
		snapshots: make(map[string]*Snapshot),
	}
}

func (m *InMemoryStateManager) Get(ctx context.Context, playerID string) (*Snapshot, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	snapshot, ok := m.snapshots[playerID]
	if !ok {
		return nil, ErrNotFound
	}
	return snapshot.Copy(), nil
}

func (m *InMemoryStateManager) Set(ctx context.Context, snapshot *Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot is nil")
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	m.snapshots[snapshot.PlayerID] = snapshot.Copy()
	return nil
}

func (m *InMemoryStateManager) Delete(ctx context.Context, playerID string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.snapshots, playerID)
	return nil
}
