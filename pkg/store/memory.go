package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps plans in process memory. Safe for concurrent use;
// contents are lost when the process exits.
type MemoryStore struct {
	mu    sync.RWMutex
	plans map[string]*StoredPlan
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{plans: make(map[string]*StoredPlan)}
}

func (s *MemoryStore) Create(_ context.Context, name string, document []byte) (*StoredPlan, error) {
	now := time.Now().UTC()
	p := &StoredPlan{
		ID:        uuid.NewString(),
		Name:      name,
		Document:  append([]byte(nil), document...),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.plans[p.ID] = p
	s.mu.Unlock()

	cp := *p
	return &cp, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*StoredPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.plans[id]
	if !ok {
		return nil, notFound(id)
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) List(_ context.Context) ([]*StoredPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*StoredPlan, 0, len(s.plans))
	for _, p := range s.plans {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, document []byte) (*StoredPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.plans[id]
	if !ok {
		return nil, notFound(id)
	}
	p.Document = append([]byte(nil), document...)
	p.UpdatedAt = time.Now().UTC()

	cp := *p
	return &cp, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.plans, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }
