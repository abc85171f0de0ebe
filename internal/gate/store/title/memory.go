// Package title tracks report titles per tenant for duplicate detection.
package title

import (
	"context"
	"strings"
	"sync"

	"compliancecore/pkg/domain"
	"compliancecore/pkg/platform/sentinel"
)

type entry struct {
	tenantID domain.TenantID
	title    string
}

// Memory is an in-memory title store. Matching is exact on the trimmed
// title, scoped to the tenant.
type Memory struct {
	mu      sync.RWMutex
	entries map[domain.ReportID]entry
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[domain.ReportID]entry)}
}

func (s *Memory) Exists(_ context.Context, tenantID domain.TenantID, title string, exclude domain.ReportID) (bool, error) {
	title = strings.TrimSpace(title)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, e := range s.entries {
		if id == exclude {
			continue
		}
		if e.tenantID == tenantID && e.title == title {
			return true, nil
		}
	}
	return false, nil
}

func (s *Memory) Register(_ context.Context, tenantID domain.TenantID, reportID domain.ReportID, title string) error {
	title = strings.TrimSpace(title)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if id != reportID && e.tenantID == tenantID && e.title == title {
			return sentinel.ErrConflict
		}
	}
	s.entries[reportID] = entry{tenantID: tenantID, title: title}
	return nil
}

func (s *Memory) Release(_ context.Context, reportID domain.ReportID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, reportID)
	return nil
}

func (s *Memory) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[domain.ReportID]entry)
}
