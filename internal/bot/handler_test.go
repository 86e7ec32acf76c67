package bot

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/service"
)

type fakeMessenger struct {
	mu        sync.Mutex
	texts     []string
	reactions []string
	reads     []string
}

func (m *fakeMessenger) SendText(_ context.Context, to, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = append(m.texts, to+": "+body)
	return nil
}

func (m *fakeMessenger) SendReaction(_ context.Context, to, messageID, emoji string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reactions = append(m.reactions, messageID+": "+emoji)
	return nil
}

func (m *fakeMessenger) MarkAsRead(_ context.Context, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads = append(m.reads, messageID)
	return nil
}

type fixedCategorizer struct{}

func (fixedCategorizer) Categorize(context.Context, string) string {
	return domain.CategoryUncategorized
}

func newWebhookApp(t *testing.T) (*fiber.App, *fakeMessenger, *repository.MemoryStore) {
	t.Helper()

	store := repository.NewMemoryStore()
	dispatcher := events.NewInMemoryDispatcher()
	messenger := &fakeMessenger{}
	logger := zap.NewNop()

	intake := service.NewIntakeService(service.IntakeDependencies{
		ComplaintRepo: store,
		Categorizer:   fixedCategorizer{},
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	service.NewNotificationService(dispatcher, messenger, logger).RegisterHandlers()

	handler := NewWebhookHandler(config.WhatsAppConfig{VerifyToken: "secret-token"}, intake, store, messenger, nil, logger)

	app := fiber.New()
	app.Get("/webhook", handler.Verify)
	app.Post("/webhook", handler.Receive)
	return app, messenger, store
}

func TestVerify_TokenMatch(t *testing.T) {
	app, _, _ := newWebhookApp(t)

	req := httptest.NewRequest("GET", "/webhook?hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=12345", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "12345", string(body))
}

func TestVerify_TokenMismatch(t *testing.T) {
	app, _, _ := newWebhookApp(t)

	req := httptest.NewRequest("GET", "/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func postWebhook(t *testing.T, app *fiber.App, body string) {
	t.Helper()
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func inboundTextPayload(messageID, from, text string) string {
	return `{
		"object": "whatsapp_business_account",
		"entry": [{"id": "entry-1", "changes": [{"field": "messages", "value": {
			"messages": [{"from": "` + from + `", "id": "` + messageID + `", "type": "text", "text": {"body": "` + text + `"}}]
		}}]}]
	}`
}

func TestReceive_GreetingCommand(t *testing.T) {
	app, messenger, _ := newWebhookApp(t)

	postWebhook(t, app, inboundTextPayload("wamid.1", "15551230000", "hello"))

	assert.Equal(t, []string{"wamid.1"}, messenger.reads)
	assert.Equal(t, []string{"wamid.1: 👋"}, messenger.reactions)
	require.Len(t, messenger.texts, 1)
	assert.Contains(t, messenger.texts[0], "Welcome to the Complaint Management System")
}

func TestReceive_FreeTextFilesComplaint(t *testing.T) {
	app, messenger, store := newWebhookApp(t)

	postWebhook(t, app, inboundTextPayload("wamid.2", "15551230000", "urgent pothole near the market"))

	complaints, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, complaints, 1)
	assert.Equal(t, "urgent pothole near the market", complaints[0].Description)
	assert.Equal(t, domain.ComplaintPriorityHigh, complaints[0].Priority)
	assert.Equal(t, domain.LocationWhatsApp, complaints[0].Location)

	require.Len(t, messenger.texts, 1)
	assert.Contains(t, messenger.texts[0], "Complaint registered! ID: "+complaints[0].ID)
}

func TestReceive_LookupKnownAndUnknown(t *testing.T) {
	app, messenger, store := newWebhookApp(t)
	require.NoError(t, store.Create(context.Background(), &domain.Complaint{
		ID:       "CMP202510041234",
		Category: "Pothole",
		Status:   domain.ComplaintStatusSubmitted,
	}))

	postWebhook(t, app, inboundTextPayload("wamid.3", "15551230000", "cmp202510041234"))
	postWebhook(t, app, inboundTextPayload("wamid.4", "15551230000", "CMP000000000000"))

	require.Len(t, messenger.texts, 2)
	assert.Contains(t, messenger.texts[0], "CMP202510041234")
	assert.Contains(t, messenger.texts[0], "Complaint Status")
	assert.Contains(t, messenger.texts[1], "No complaint found with ID CMP000000000000")
}

func TestReceive_ImageMessage(t *testing.T) {
	app, messenger, _ := newWebhookApp(t)

	postWebhook(t, app, `{
		"object": "whatsapp_business_account",
		"entry": [{"id": "entry-1", "changes": [{"field": "messages", "value": {
			"messages": [{"from": "15551230000", "id": "wamid.5", "type": "image",
				"image": {"id": "media-9", "caption": "big pothole", "mime_type": "image/jpeg"}}]
		}}]}]
	}`)

	assert.Equal(t, []string{"wamid.5: 📸"}, messenger.reactions)
	require.Len(t, messenger.texts, 1)
	assert.Contains(t, messenger.texts[0], "media-9")
	assert.Contains(t, messenger.texts[0], "big pothole")
}

func TestReceive_UnsupportedType(t *testing.T) {
	app, messenger, _ := newWebhookApp(t)

	postWebhook(t, app, `{
		"object": "whatsapp_business_account",
		"entry": [{"id": "entry-1", "changes": [{"field": "messages", "value": {
			"messages": [{"from": "15551230000", "id": "wamid.6", "type": "sticker"}]
		}}]}]
	}`)

	require.Len(t, messenger.texts, 1)
	assert.Equal(t, "15551230000: Sorry, sticker messages are not supported.", messenger.texts[0])
}

func TestReceive_IgnoresOtherObjects(t *testing.T) {
	app, messenger, store := newWebhookApp(t)

	postWebhook(t, app, `{"object": "page", "entry": []}`)

	complaints, err := store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, complaints)
	assert.Empty(t, messenger.texts)
}
