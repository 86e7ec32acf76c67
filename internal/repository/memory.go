package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/triage"
)

// MemoryStore is an in-process store implementing both repository
// interfaces. It backs the service when POSTGRES_DSN is not configured
// (mirroring the optional-postgres startup path) and is what the test
// suite runs against. A single mutex serializes all writes, which is
// enough to uphold the increment-exactly-once invariants.
type MemoryStore struct {
	mu          sync.Mutex
	complaints  map[string]*domain.Complaint
	order       []string
	departments []*domain.Department
	history     map[string][]domain.StatusHistoryEntry
	historySeq  int64
}

var _ ComplaintRepository = (*MemoryStore)(nil)
var _ DepartmentRepository = (*MemoryStore)(nil)

// NewMemoryStore seeds the fixed department set and returns an empty store.
func NewMemoryStore() *MemoryStore {
	store := &MemoryStore{
		complaints: make(map[string]*domain.Complaint),
		history:    make(map[string][]domain.StatusHistoryEntry),
	}
	for i, name := range domain.DepartmentNames {
		store.departments = append(store.departments, &domain.Department{
			ID:   int64(i + 1),
			Name: name,
		})
	}
	return store
}

// Create persists the complaint and bumps the routed department total.
func (s *MemoryStore) Create(_ context.Context, complaint *domain.Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *complaint
	s.complaints[copied.ID] = &copied
	s.order = append(s.order, copied.ID)

	if dept := s.departmentByName(triage.RouteDepartment(copied.Category)); dept != nil {
		dept.TotalComplaints++
	}
	return nil
}

// GetByID returns a copy of the stored complaint or ErrNotFound.
func (s *MemoryStore) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	complaint, ok := s.complaints[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *complaint
	return &copied, nil
}

// ListAll returns complaints ordered by submission time, most recent first.
func (s *MemoryStore) ListAll(_ context.Context) ([]domain.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]domain.Complaint, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, *s.complaints[id])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SubmittedAt.After(result[j].SubmittedAt)
	})
	return result, nil
}

// UpdateStatus applies a transition with the same idempotence rules as
// the postgres implementation.
func (s *MemoryStore) UpdateStatus(_ context.Context, id string, status domain.ComplaintStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	complaint, ok := s.complaints[id]
	if !ok {
		return ErrNotFound
	}

	current := complaint.Status
	now := time.Now()
	switch {
	case status == domain.ComplaintStatusResolved && current == domain.ComplaintStatusResolved:
		return nil
	case status == domain.ComplaintStatusResolved:
		complaint.Status = status
		complaint.ResolvedAt = &now
		if dept := s.departmentByName(triage.RouteDepartment(complaint.Category)); dept != nil {
			dept.ComplaintsResolved++
		}
	default:
		complaint.Status = status
	}

	s.historySeq++
	s.history[id] = append(s.history[id], domain.StatusHistoryEntry{
		ID:          s.historySeq,
		ComplaintID: id,
		OldStatus:   current,
		NewStatus:   status,
		ChangedAt:   now,
	})
	return nil
}

// ListHistory returns recorded transitions in chronological order.
func (s *MemoryStore) ListHistory(_ context.Context, complaintID string) ([]domain.StatusHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.history[complaintID]
	result := make([]domain.StatusHistoryEntry, len(entries))
	copy(result, entries)
	return result, nil
}

// List returns the department aggregates.
func (s *MemoryStore) List(_ context.Context) ([]domain.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]domain.Department, 0, len(s.departments))
	for _, dept := range s.departments {
		result = append(result, *dept)
	}
	return result, nil
}

func (s *MemoryStore) departmentByName(name string) *domain.Department {
	for _, dept := range s.departments {
		if dept.Name == name {
			return dept
		}
	}
	return nil
}
