package service

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/persistence"
	"github.com/spec-kit/complaint-service/internal/repository"
)

const (
	leaderboardCacheKey = "complaints:leaderboard"
	leaderboardCacheTTL = 30 * time.Second
)

// DepartmentStanding is a leaderboard row.
type DepartmentStanding struct {
	Name               string  `json:"name"`
	TotalComplaints    int64   `json:"total_complaints"`
	ComplaintsResolved int64   `json:"complaints_resolved"`
	ResolutionRate     float64 `json:"resolution_rate"`
}

// Stats aggregates complaint counts by status.
type Stats struct {
	Total      int `json:"total"`
	Submitted  int `json:"submitted"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
}

// ReportService derives read-only views from the store.
type ReportService struct {
	complaints  repository.ComplaintRepository
	departments repository.DepartmentRepository
	cache       *persistence.Redis
	logger      *zap.Logger
}

// NewReportService constructs the reporter. cache may be nil; all cache
// interactions are fail-open.
func NewReportService(complaints repository.ComplaintRepository, departments repository.DepartmentRepository, cache *persistence.Redis, logger *zap.Logger) *ReportService {
	return &ReportService{
		complaints:  complaints,
		departments: departments,
		cache:       cache,
		logger:      logger,
	}
}

// Leaderboard ranks departments by resolved count, then resolution rate.
// Results are cached briefly since the board is the hottest read path.
func (s *ReportService) Leaderboard(ctx context.Context) ([]DepartmentStanding, error) {
	if cached := s.cachedLeaderboard(ctx); cached != nil {
		return cached, nil
	}

	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, err
	}

	standings := make([]DepartmentStanding, 0, len(departments))
	for _, dept := range departments {
		standings = append(standings, DepartmentStanding{
			Name:               dept.Name,
			TotalComplaints:    dept.TotalComplaints,
			ComplaintsResolved: dept.ComplaintsResolved,
			ResolutionRate:     resolutionRate(dept.ComplaintsResolved, dept.TotalComplaints),
		})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].ComplaintsResolved != standings[j].ComplaintsResolved {
			return standings[i].ComplaintsResolved > standings[j].ComplaintsResolved
		}
		return standings[i].ResolutionRate > standings[j].ResolutionRate
	})

	s.storeLeaderboard(ctx, standings)
	return standings, nil
}

// Stats recomputes status counts by scanning all complaints on each call.
func (s *ReportService) Stats(ctx context.Context) (Stats, error) {
	complaints, err := s.complaints.ListAll(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Total: len(complaints)}
	for _, complaint := range complaints {
		switch complaint.Status {
		case domain.ComplaintStatusSubmitted:
			stats.Submitted++
		case domain.ComplaintStatusInProgress:
			stats.InProgress++
		case domain.ComplaintStatusResolved:
			stats.Resolved++
		}
	}
	return stats, nil
}

// resolutionRate is resolved*100/total rounded to one decimal, 0 when the
// department has no complaints.
func resolutionRate(resolved, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(resolved)*1000/float64(total)) / 10
}

func (s *ReportService) cachedLeaderboard(ctx context.Context) []DepartmentStanding {
	if s.cache == nil || s.cache.Client == nil {
		return nil
	}
	raw, err := s.cache.Client.Get(ctx, leaderboardCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var standings []DepartmentStanding
	if err := json.Unmarshal(raw, &standings); err != nil {
		return nil
	}
	return standings
}

func (s *ReportService) storeLeaderboard(ctx context.Context, standings []DepartmentStanding) {
	if s.cache == nil || s.cache.Client == nil {
		return
	}
	raw, err := json.Marshal(standings)
	if err != nil {
		return
	}
	if err := s.cache.Client.Set(ctx, leaderboardCacheKey, raw, leaderboardCacheTTL).Err(); err != nil {
		s.logger.Debug("leaderboard cache write failed", zap.Error(err))
	}
}
