package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/triage"
)

// maxIDAttempts bounds the collision-check loop for complaint ids. The
// date+4-digit format only has 10k combinations per day, so generation is
// verified against the store instead of trusted blindly.
const maxIDAttempts = 5

// ErrIDExhausted is returned when no free complaint id could be generated.
var ErrIDExhausted = errors.New("could not generate a unique complaint id")

// IntakeService is the triage pipeline: it normalizes raw submissions
// from any channel into persisted, classified complaints.
type IntakeService struct {
	complaints  repository.ComplaintRepository
	categorizer triage.Categorizer
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// IntakeDependencies bundles collaborators for the intake pipeline.
type IntakeDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	Categorizer   triage.Categorizer
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// IntakeInput describes a raw submission before triage. ImagePath is the
// stored reference persisted on the complaint; ImageFile is the on-disk
// location handed to the categorizer.
type IntakeInput struct {
	Description string
	ImagePath   *string
	ImageFile   string
	Location    string
	Latitude    string
	Longitude   string
	Anonymous   bool
	Channel     events.Channel
	// ReplyTo is the chat sender for webhook submissions; it rides along
	// on the created event so confirmations stay best-effort.
	ReplyTo string
}

// NewIntakeService constructs the pipeline.
func NewIntakeService(deps IntakeDependencies) *IntakeService {
	return &IntakeService{
		complaints:  deps.ComplaintRepo,
		categorizer: deps.Categorizer,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
	}
}

// CreateComplaint classifies and persists a submission. Classification is
// fail-soft; persistence failures are returned to the caller. Outbound
// confirmation is event-driven and never gates the result.
func (s *IntakeService) CreateComplaint(ctx context.Context, input IntakeInput) (*domain.Complaint, error) {
	category := domain.CategoryUncategorized
	if input.ImageFile != "" {
		category = s.Categorize(ctx, input.ImageFile)
	}

	complaint := &domain.Complaint{
		Description: strings.TrimSpace(input.Description),
		ImagePath:   input.ImagePath,
		Category:    category,
		Priority:    triage.ClassifyPriority(input.Description),
		Location:    resolveLocation(input),
		Status:      domain.ComplaintStatusSubmitted,
		SubmittedAt: time.Now(),
		Anonymous:   input.Anonymous,
	}

	id, err := s.uniqueComplaintID(ctx)
	if err != nil {
		return nil, err
	}
	complaint.ID = id

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		Payload: events.ComplaintCreatedPayload{
			Category: complaint.Category,
			Priority: complaint.Priority,
			Channel:  input.Channel,
			ReplyTo:  input.ReplyTo,
		},
	})
	return complaint, nil
}

// UpdateStatus forwards a lifecycle transition to the store and emits the
// change event on success.
func (s *IntakeService) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) error {
	current, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.complaints.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: id,
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus: current.Status,
			NewStatus: status,
		},
	})
	return nil
}

// Categorize runs the pluggable classifier directly; used by the intake
// path and the standalone analyze endpoint.
func (s *IntakeService) Categorize(ctx context.Context, imagePath string) string {
	category := s.categorizer.Categorize(ctx, imagePath)
	s.logger.Info("image categorized",
		zap.String("image", imagePath),
		zap.String("category", category))
	return category
}

// resolveLocation applies the channel rules: chat submissions carry the
// literal channel marker, coordinates win over free text when both parts
// are present.
func resolveLocation(input IntakeInput) string {
	if input.Channel == events.ChannelWhatsApp {
		return domain.LocationWhatsApp
	}
	if input.Latitude != "" && input.Longitude != "" {
		return fmt.Sprintf("%s,%s", input.Latitude, input.Longitude)
	}
	return input.Location
}

func (s *IntakeService) uniqueComplaintID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := generateComplaintID()
		_, err := s.complaints.GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", err
		}
		s.logger.Warn("complaint id collision, retrying", zap.String("id", id))
	}
	return "", ErrIDExhausted
}

// generateComplaintID builds CMP + yyyymmdd + 4 random digits.
func generateComplaintID() string {
	return fmt.Sprintf("CMP%s%04d", time.Now().Format("20060102"), rand.Intn(10000))
}

func (s *IntakeService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
