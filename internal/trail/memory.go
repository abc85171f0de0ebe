package trail

import (
	"context"
	"sync"

	"compliancecore/pkg/domain"
)

// MemorySink keeps events in memory, keyed by tenant. Used in tests and
// single-process deployments.
type MemorySink struct {
	mu     sync.RWMutex
	events map[domain.TenantID][]Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{events: make(map[domain.TenantID][]Event)}
}

func (s *MemorySink) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.TenantID] = append(s.events[event.TenantID], event)
	return nil
}

func (s *MemorySink) ListByTenant(_ context.Context, tenantID domain.TenantID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[tenantID]...), nil
}

func (s *MemorySink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[domain.TenantID][]Event)
}
