package snapshot

import (
	"sync"

	"github.com/alexanderramin/harborguide/internal/domain"
)

// Store holds keyed snapshots. Implementations must be safe for concurrent use
// and must store the pointer they are given without mutating it.
type Store interface {
	Load(key string) (*domain.Snapshot, bool)
	Save(key string, snap *domain.Snapshot)
	Len() int
}

type memoryStore struct {
	mu    sync.RWMutex
	items map[string]*domain.Snapshot
}

// NewMemoryStore returns a process-lifetime Store backed by a map.
func NewMemoryStore() Store {
	return &memoryStore{items: make(map[string]*domain.Snapshot)}
}

func (m *memoryStore) Load(key string) (*domain.Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.items[key]
	return s, ok
}

func (m *memoryStore) Save(key string, snap *domain.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = snap
}

func (m *memoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
