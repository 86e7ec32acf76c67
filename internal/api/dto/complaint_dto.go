package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// ComplaintResponse is the wire shape for a complaint record.
type ComplaintResponse struct {
	ID          string                   `json:"id"`
	Description string                   `json:"description"`
	ImagePath   *string                  `json:"image_path"`
	Category    string                   `json:"category"`
	Priority    domain.ComplaintPriority `json:"priority"`
	Location    string                   `json:"location"`
	Status      domain.ComplaintStatus   `json:"status"`
	SubmittedAt time.Time                `json:"submitted_at"`
	ResolvedAt  *time.Time               `json:"resolved_at"`
	Anonymous   bool                     `json:"anonymous"`
}

// ComplaintDetailResponse adds the transition history.
type ComplaintDetailResponse struct {
	ComplaintResponse
	History []StatusHistoryResponse `json:"history"`
}

// StatusHistoryResponse is one recorded transition.
type StatusHistoryResponse struct {
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
	ChangedAt time.Time              `json:"changed_at"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// LoginRequest payload for the admin gate.
type LoginRequest struct {
	Password string `json:"password"`
}

// FromComplaint maps the domain record onto the wire shape.
func FromComplaint(complaint *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:          complaint.ID,
		Description: complaint.Description,
		ImagePath:   complaint.ImagePath,
		Category:    complaint.Category,
		Priority:    complaint.Priority,
		Location:    complaint.Location,
		Status:      complaint.Status,
		SubmittedAt: complaint.SubmittedAt,
		ResolvedAt:  complaint.ResolvedAt,
		Anonymous:   complaint.Anonymous,
	}
}

// FromHistory maps recorded transitions.
func FromHistory(entries []domain.StatusHistoryEntry) []StatusHistoryResponse {
	result := make([]StatusHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, StatusHistoryResponse{
			OldStatus: entry.OldStatus,
			NewStatus: entry.NewStatus,
			ChangedAt: entry.ChangedAt,
		})
	}
	return result
}
