package topics

import (
	"context"
	"sync"
)

// Store keeps the ordered topic list configured by teachers.
type Store interface {
	List(ctx context.Context) ([]Topic, error)
	Replace(ctx context.Context, list []Topic) error
}

type memoryStore struct {
	mu     sync.RWMutex
	topics []Topic
}

func NewInMemoryStore(initial []Topic) Store {
	return &memoryStore{topics: Clean(initial)}
}

func (m *memoryStore) List(_ context.Context) ([]Topic, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Topic, len(m.topics))
	copy(out, m.topics)
	return out, nil
}

func (m *memoryStore) Replace(_ context.Context, list []Topic) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.topics = Clean(list)
	return nil
}
