package service

import (
	"context"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
)

type stubCategorizer struct {
	category string
	calls    int
}

func (s *stubCategorizer) Categorize(context.Context, string) string {
	s.calls++
	return s.category
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) published() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event{}, d.events...)
}

func newIntakeFixture(categorizer *stubCategorizer) (*IntakeService, *repository.MemoryStore, *recordingDispatcher) {
	store := repository.NewMemoryStore()
	dispatcher := &recordingDispatcher{}
	svc := NewIntakeService(IntakeDependencies{
		ComplaintRepo: store,
		Categorizer:   categorizer,
		Dispatcher:    dispatcher,
		Logger:        zap.NewNop(),
	})
	return svc, store, dispatcher
}

func TestCreateComplaint_WebSubmission(t *testing.T) {
	svc, store, dispatcher := newIntakeFixture(&stubCategorizer{category: "Pothole"})
	ctx := context.Background()

	imagePath := "uploads/20260101_120000_pothole.jpg"
	complaint, err := svc.CreateComplaint(ctx, IntakeInput{
		Description: "urgent broken streetlight",
		ImagePath:   &imagePath,
		ImageFile:   "static/uploads/20260101_120000_pothole.jpg",
		Location:    "5th Avenue",
		Anonymous:   true,
		Channel:     events.ChannelWeb,
	})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^CMP\d{12}$`), complaint.ID)
	assert.Equal(t, "urgent broken streetlight", complaint.Description)
	assert.Equal(t, "Pothole", complaint.Category)
	assert.Equal(t, domain.ComplaintPriorityHigh, complaint.Priority)
	assert.Equal(t, "5th Avenue", complaint.Location)
	assert.Equal(t, domain.ComplaintStatusSubmitted, complaint.Status)
	assert.True(t, complaint.Anonymous)
	assert.Nil(t, complaint.ResolvedAt)
	require.NotNil(t, complaint.ImagePath)
	assert.Equal(t, imagePath, *complaint.ImagePath)

	stored, err := store.GetByID(ctx, complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, complaint.ID, stored.ID)
	assert.Equal(t, complaint.Category, stored.Category)
	assert.Equal(t, complaint.Priority, stored.Priority)

	published := dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventComplaintCreated, published[0].Type)
	assert.Equal(t, complaint.ID, published[0].ComplaintID)
	assert.NotEmpty(t, published[0].ID)
}

func TestCreateComplaint_NoImageSkipsCategorizer(t *testing.T) {
	categorizer := &stubCategorizer{category: "Pothole"}
	svc, _, _ := newIntakeFixture(categorizer)

	complaint, err := svc.CreateComplaint(context.Background(), IntakeInput{
		Description: "trash piling up",
		Channel:     events.ChannelWeb,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.CategoryUncategorized, complaint.Category)
	assert.Zero(t, categorizer.calls)
}

func TestCreateComplaint_LocationRules(t *testing.T) {
	tests := []struct {
		name  string
		input IntakeInput
		want  string
	}{
		{
			name:  "chat channel overrides everything",
			input: IntakeInput{Channel: events.ChannelWhatsApp, Location: "ignored", Latitude: "1", Longitude: "2"},
			want:  domain.LocationWhatsApp,
		},
		{
			name:  "coordinates win over free text",
			input: IntakeInput{Channel: events.ChannelWeb, Location: "Main St", Latitude: "12.97", Longitude: "77.59"},
			want:  "12.97,77.59",
		},
		{
			name:  "latitude alone is not enough",
			input: IntakeInput{Channel: events.ChannelWeb, Location: "Main St", Latitude: "12.97"},
			want:  "Main St",
		},
		{
			name:  "free text fallback",
			input: IntakeInput{Channel: events.ChannelWeb, Location: "Main St"},
			want:  "Main St",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveLocation(tt.input))
		})
	}
}

func TestUpdateStatus_EndToEnd(t *testing.T) {
	svc, store, dispatcher := newIntakeFixture(&stubCategorizer{category: "Streetlight"})
	ctx := context.Background()

	complaint, err := svc.CreateComplaint(ctx, IntakeInput{
		Description: "urgent broken streetlight",
		ImageFile:   "ignored.jpg",
		Location:    "Park Road",
		Channel:     events.ChannelWeb,
	})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(ctx, complaint.ID, domain.ComplaintStatusResolved))

	stored, err := store.GetByID(ctx, complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusResolved, stored.Status)
	require.NotNil(t, stored.ResolvedAt)

	departments, err := store.List(ctx)
	require.NoError(t, err)
	for _, dept := range departments {
		if dept.Name == "Street Lighting" {
			assert.EqualValues(t, 1, dept.TotalComplaints)
			assert.EqualValues(t, 1, dept.ComplaintsResolved)
		}
	}

	published := dispatcher.published()
	require.Len(t, published, 2)
	assert.Equal(t, events.EventComplaintStatusChanged, published[1].Type)
	payload, ok := published[1].Payload.(events.ComplaintStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.ComplaintStatusSubmitted, payload.OldStatus)
	assert.Equal(t, domain.ComplaintStatusResolved, payload.NewStatus)
}

func TestUpdateStatus_UnknownComplaint(t *testing.T) {
	svc, _, dispatcher := newIntakeFixture(&stubCategorizer{category: "Pothole"})

	err := svc.UpdateStatus(context.Background(), "CMP000000000000", domain.ComplaintStatusResolved)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Empty(t, dispatcher.published())
}

func TestGenerateComplaintID_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^CMP\d{8}\d{4}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, pattern, generateComplaintID())
	}
}
