package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusSubmitted  ComplaintStatus = "Submitted"
	ComplaintStatusInProgress ComplaintStatus = "In Progress"
	ComplaintStatusResolved   ComplaintStatus = "Resolved"
)

// ComplaintPriority enumerates triage urgency.
type ComplaintPriority string

const (
	ComplaintPriorityLow    ComplaintPriority = "Low"
	ComplaintPriorityMedium ComplaintPriority = "Medium"
	ComplaintPriorityHigh   ComplaintPriority = "High"
)

// CategoryUncategorized is assigned when no image is provided or the
// categorizer cannot produce a label.
const CategoryUncategorized = "Uncategorized"

// LocationWhatsApp marks complaints filed through the chat channel.
const LocationWhatsApp = "WhatsApp"

// Complaint is the aggregate for citizen-reported issues.
type Complaint struct {
	ID          string
	Description string
	ImagePath   *string
	Category    string
	Priority    ComplaintPriority
	Location    string
	Status      ComplaintStatus
	SubmittedAt time.Time
	ResolvedAt  *time.Time
	Anonymous   bool
}

// StatusHistoryEntry records a single status transition.
type StatusHistoryEntry struct {
	ID          int64
	ComplaintID string
	OldStatus   ComplaintStatus
	NewStatus   ComplaintStatus
	ChangedAt   time.Time
}
