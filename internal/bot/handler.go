package bot

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/persistence"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/service"
)

// dedupeTTL keeps processed webhook message ids long enough to absorb
// provider redeliveries.
const dedupeTTL = 24 * time.Hour

// Messenger is the outbound side of the chat channel. All calls are
// best-effort; the webhook never fails because a reply could not be sent.
type Messenger interface {
	SendText(ctx context.Context, to, body string) error
	SendReaction(ctx context.Context, to, messageID, emoji string) error
	MarkAsRead(ctx context.Context, messageID string) error
}

// WebhookHandler terminates the WhatsApp Business webhook. Complaint
// filing goes through the shared intake pipeline so triage rules stay
// single-sourced.
type WebhookHandler struct {
	cfg        config.WhatsAppConfig
	intake     *service.IntakeService
	complaints repository.ComplaintRepository
	messenger  Messenger
	dedupe     *persistence.Redis
	logger     *zap.Logger
}

// NewWebhookHandler constructs the handler. dedupe may be nil, in which
// case redelivered messages are processed again (provider retries are
// rare and complaint creation is cheap).
func NewWebhookHandler(cfg config.WhatsAppConfig, intake *service.IntakeService, complaints repository.ComplaintRepository, messenger Messenger, dedupe *persistence.Redis, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		cfg:        cfg,
		intake:     intake,
		complaints: complaints,
		messenger:  messenger,
		dedupe:     dedupe,
		logger:     logger,
	}
}

// Verify GET /webhook: echo the challenge when the verify token matches.
func (h *WebhookHandler) Verify(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token != "" && token == h.cfg.VerifyToken {
		h.logger.Info("webhook verified")
		return c.SendString(challenge)
	}
	h.logger.Warn("webhook verification failed", zap.String("mode", mode))
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"success": false,
		"message": "Invalid verify token",
	})
}

// Receive POST /webhook: dispatch provider events.
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	var payload webhookPayload
	if err := c.BodyParser(&payload); err != nil {
		h.logger.Warn("unparseable webhook payload", zap.Error(err))
		return c.JSON(fiber.Map{"status": "ignored"})
	}

	if payload.Object == "whatsapp_business_account" {
		ctx := c.UserContext()
		for _, ent := range payload.Entry {
			for _, chg := range ent.Changes {
				for i := range chg.Value.Messages {
					h.processMessage(ctx, &chg.Value.Messages[i])
				}
				for _, status := range chg.Value.Statuses {
					h.logger.Info("message status update",
						zap.String("message_id", status.ID),
						zap.String("status", status.Status))
				}
			}
		}
	}
	return c.JSON(fiber.Map{"status": "success"})
}

func (h *WebhookHandler) processMessage(ctx context.Context, msg *inboundMessage) {
	if h.alreadyProcessed(ctx, msg.ID) {
		h.logger.Debug("duplicate webhook message skipped", zap.String("message_id", msg.ID))
		return
	}

	h.logger.Info("inbound message",
		zap.String("from", msg.From),
		zap.String("message_id", msg.ID),
		zap.String("type", msg.Type))

	if err := h.messenger.MarkAsRead(ctx, msg.ID); err != nil {
		h.logger.Debug("mark-as-read failed", zap.Error(err))
	}

	switch msg.Type {
	case "text":
		body := ""
		if msg.Text != nil {
			body = msg.Text.Body
		}
		h.handleText(ctx, msg, body)
	case "image":
		h.react(ctx, msg, "📸")
		if msg.Image != nil {
			h.reply(ctx, msg.From, imageReply(msg.Image))
		}
	case "location":
		h.react(ctx, msg, "📍")
		if msg.Location != nil {
			h.reply(ctx, msg.From, locationReply(msg.Location))
		}
	case "audio":
		h.reply(ctx, msg.From, audioReply)
	case "document":
		h.reply(ctx, msg.From, documentReply)
	default:
		h.reply(ctx, msg.From, unsupportedReply(msg.Type))
	}
}

func (h *WebhookHandler) handleText(ctx context.Context, msg *inboundMessage, body string) {
	switch parseCommand(body) {
	case commandGreeting:
		h.react(ctx, msg, "👋")
		h.reply(ctx, msg.From, greetingReply)
	case commandComplaint:
		h.reply(ctx, msg.From, complaintReply)
	case commandStatus:
		h.reply(ctx, msg.From, statusReply)
	case commandHelp:
		h.reply(ctx, msg.From, helpReply)
	case commandLookup:
		h.lookupComplaint(ctx, msg.From, body)
	default:
		h.fileComplaint(ctx, msg.From, body)
	}
}

// lookupComplaint answers a CMP-id query from the store.
func (h *WebhookHandler) lookupComplaint(ctx context.Context, from, body string) {
	id := strings.ToUpper(strings.TrimSpace(body))
	complaint, err := h.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.reply(ctx, from, lookupMissReply(id))
			return
		}
		h.logger.Error("complaint lookup failed", zap.String("id", id), zap.Error(err))
		h.reply(ctx, from, lookupMissReply(id))
		return
	}
	h.reply(ctx, from, lookupReply(complaint))
}

// fileComplaint registers free text as a new complaint through the
// shared intake pipeline; the confirmation rides on the created event.
func (h *WebhookHandler) fileComplaint(ctx context.Context, from, body string) {
	_, err := h.intake.CreateComplaint(ctx, service.IntakeInput{
		Description: body,
		Channel:     events.ChannelWhatsApp,
		ReplyTo:     from,
	})
	if err != nil {
		h.logger.Error("webhook complaint intake failed", zap.Error(err))
		h.reply(ctx, from, "⚠️ Something went wrong registering your complaint. Please try again.")
	}
}

func (h *WebhookHandler) reply(ctx context.Context, to, body string) {
	if err := h.messenger.SendText(ctx, to, body); err != nil {
		h.logger.Warn("reply delivery failed", zap.String("to", to), zap.Error(err))
	}
}

func (h *WebhookHandler) react(ctx context.Context, msg *inboundMessage, emoji string) {
	if err := h.messenger.SendReaction(ctx, msg.From, msg.ID, emoji); err != nil {
		h.logger.Debug("reaction delivery failed", zap.Error(err))
	}
}

// alreadyProcessed claims the message id in Redis; fail-open when the
// cache is unavailable.
func (h *WebhookHandler) alreadyProcessed(ctx context.Context, messageID string) bool {
	if h.dedupe == nil || h.dedupe.Client == nil || messageID == "" {
		return false
	}
	claimed, err := h.dedupe.Client.SetNX(ctx, "wa:msg:"+messageID, 1, dedupeTTL).Result()
	if err != nil {
		return false
	}
	return !claimed
}
