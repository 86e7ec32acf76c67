package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/service"
	"github.com/spec-kit/complaint-service/internal/storage"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// ComplaintsHandler serves the complaint REST endpoints.
type ComplaintsHandler struct {
	intake     *service.IntakeService
	complaints repository.ComplaintRepository
	uploads    *storage.UploadStore
	logger     *zap.Logger
}

// NewComplaintsHandler constructs the handler.
func NewComplaintsHandler(intake *service.IntakeService, complaints repository.ComplaintRepository, uploads *storage.UploadStore, logger *zap.Logger) *ComplaintsHandler {
	return &ComplaintsHandler{
		intake:     intake,
		complaints: complaints,
		uploads:    uploads,
		logger:     logger,
	}
}

// List GET /api/complaints.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	complaints, err := h.complaints.ListAll(c.UserContext())
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	items := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, dto.FromComplaint(&complaints[i]))
	}
	return c.JSON(fiber.Map{"success": true, "complaints": items})
}

// Get GET /api/complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	complaint, err := h.complaints.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("Complaint")
		}
		return apperrors.NewInternalError(err)
	}
	history, err := h.complaints.ListHistory(c.UserContext(), complaint.ID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	detail := dto.ComplaintDetailResponse{
		ComplaintResponse: dto.FromComplaint(complaint),
		History:           dto.FromHistory(history),
	}
	return c.JSON(fiber.Map{"success": true, "complaint": detail})
}

// Create POST /api/complaints (multipart form).
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	input := service.IntakeInput{
		Description: c.FormValue("description"),
		Location:    c.FormValue("location"),
		Latitude:    c.FormValue("latitude"),
		Longitude:   c.FormValue("longitude"),
		Anonymous:   c.FormValue("anonymous") == "true",
		Channel:     events.ChannelWeb,
	}

	if file, err := c.FormFile("image"); err == nil && file != nil && file.Filename != "" {
		if h.uploads.Allowed(file.Filename) {
			webPath, diskPath, err := h.uploads.Save(file)
			if err != nil {
				h.logger.Warn("image upload failed", zap.Error(err))
			} else {
				input.ImagePath = &webPath
				input.ImageFile = diskPath
			}
		}
	}

	complaint, err := h.intake.CreateComplaint(c.UserContext(), input)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"complaint_id": complaint.ID,
		"category":     complaint.Category,
		"priority":     complaint.Priority,
		"message":      "Complaint submitted successfully!",
	})
}

// UpdateStatus PUT /api/complaints/:id/status.
func (h *ComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if strings.TrimSpace(req.Status) == "" {
		return apperrors.NewValidationError("Status is required")
	}

	err := h.intake.UpdateStatus(c.UserContext(), c.Params("id"), domain.ComplaintStatus(req.Status))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("Complaint")
		}
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Status updated successfully"})
}

// AnalyzeImage POST /api/analyze-image. Classification only; nothing is
// persisted beyond the stored upload.
func (h *ComplaintsHandler) AnalyzeImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil || file == nil || file.Filename == "" {
		return apperrors.NewValidationError("No image provided")
	}
	if !h.uploads.Allowed(file.Filename) {
		return apperrors.NewValidationError("Invalid file type")
	}

	_, diskPath, err := h.uploads.Save(file)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	category := h.intake.Categorize(c.UserContext(), diskPath)
	return c.JSON(fiber.Map{"success": true, "category": category})
}

// WhatsAppIntake POST /api/whatsapp (Twilio-style form webhook).
func (h *ComplaintsHandler) WhatsAppIntake(c *fiber.Ctx) error {
	from := c.FormValue("From")
	body := c.FormValue("Body")

	_, err := h.intake.CreateComplaint(c.UserContext(), service.IntakeInput{
		Description: body,
		Channel:     events.ChannelWhatsApp,
		ReplyTo:     from,
	})
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{"success": true})
}
