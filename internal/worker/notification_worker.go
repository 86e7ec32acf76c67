package worker

import (
	"github.com/spec-kit/complaint-service/internal/service"
)

// StartNotificationWorker registers notification handlers on the
// dispatcher at startup.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
