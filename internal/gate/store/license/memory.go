// Package license persists tenant licenses.
package license

import (
	"context"
	"sync"

	"compliancecore/internal/gate"
	"compliancecore/pkg/domain"
	"compliancecore/pkg/platform/sentinel"
	"compliancecore/pkg/requestcontext"
)

// Memory is an in-memory license store for tests and local runs.
type Memory struct {
	mu       sync.RWMutex
	licenses map[domain.TenantID]*gate.License
}

func NewMemory() *Memory {
	return &Memory{licenses: make(map[domain.TenantID]*gate.License)}
}

func (s *Memory) FindByTenant(_ context.Context, tenantID domain.TenantID) (*gate.License, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lic, ok := s.licenses[tenantID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *lic
	return &copied, nil
}

func (s *Memory) Save(ctx context.Context, license *gate.License) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *license
	copied.UpdatedAt = requestcontext.Now(ctx)
	s.licenses[license.TenantID] = &copied
	return nil
}

func (s *Memory) IncrementUsage(ctx context.Context, tenantID domain.TenantID) (*gate.License, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lic, ok := s.licenses[tenantID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	lic.ReportsUsed++
	lic.UpdatedAt = requestcontext.Now(ctx)
	copied := *lic
	return &copied, nil
}

func (s *Memory) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.licenses = make(map[domain.TenantID]*gate.License)
}
