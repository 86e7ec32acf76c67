package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/events"
)

// ReplySender delivers outbound chat messages. Implemented by the
// WhatsApp client; nil or failing senders only cost a log line.
type ReplySender interface {
	SendText(ctx context.Context, to, body string) error
}

// NotificationService handles best-effort outbound delivery for domain
// events. Delivery failures are logged and never propagate to the
// request that triggered them.
type NotificationService struct {
	dispatcher events.Dispatcher
	sender     ReplySender
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, sender ReplySender, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		sender:     sender,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventComplaintCreated, n.handleComplaintCreated)
	n.dispatcher.Subscribe(events.EventComplaintStatusChanged, n.handleStatusChanged)
}

func (n *NotificationService) handleComplaintCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintCreated", zap.String("complaint_id", event.ComplaintID), zap.Any("payload", event.Payload))

	payload, ok := event.Payload.(events.ComplaintCreatedPayload)
	if !ok || payload.ReplyTo == "" || n.sender == nil {
		return nil
	}
	reply := fmt.Sprintf("✅ Complaint registered! ID: %s", event.ComplaintID)
	if err := n.sender.SendText(ctx, payload.ReplyTo, reply); err != nil {
		n.logger.Warn("confirmation delivery failed",
			zap.String("complaint_id", event.ComplaintID),
			zap.Error(err))
	}
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintStatusChanged", zap.String("complaint_id", event.ComplaintID), zap.Any("payload", event.Payload))
	return nil
}
