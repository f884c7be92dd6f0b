package state

import (
	"context"
	"fmt"
	"sort"
	"sync"

	gametypes "github.com/cbodonnell/breedadventure/pkg/game/types"
)

type ErrSessionNotFound struct {
	SessionID string
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("session %s not found", e.SessionID)
}

type InMemoryStateManager struct {
	lock      sync.RWMutex
	snapshots map[string]gametypes.Snapshot
}

func NewInMemoryStateManager() *InMemoryStateManager {
	return &InMemoryStateManager{
		snapshots: make(map[string]gametypes.Snapshot),
	}
}

func (m *InMemoryStateManager) Get(ctx context.Context, sessionID string) (gametypes.Snapshot, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	snapshot, ok := m.snapshots[sessionID]
	if !ok {
		return gametypes.Snapshot{}, &ErrSessionNotFound{SessionID: sessionID}
	}
	return snapshot, nil
}

func (m *InMemoryStateManager) Set(ctx context.Context, snapshot gametypes.Snapshot) error {
	if snapshot.SessionID == "" {
		return fmt.Errorf("snapshot has no session id")
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	if current, ok := m.snapshots[snapshot.SessionID]; ok && current.Sequence > snapshot.Sequence {
		return nil
	}
	m.snapshots[snapshot.SessionID] = snapshot
	return nil
}

func (m *InMemoryStateManager) Delete(ctx context.Context, sessionID string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.snapshots, sessionID)
	return nil
}

func (m *InMemoryStateManager) List(ctx context.Context) ([]string, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	ids := make([]string, 0, len(m.snapshots))
	for id := range m.snapshots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
