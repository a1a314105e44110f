package handlers

import (
	"log/slog"
	"net/http"

	"survey-service/internal/models"
	"survey-service/internal/services"
	utils "survey-service/shared/utils"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ExportHandler struct {
	exportService *services.ExportService
}

func NewExportHandler(exportService *services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

func (h *ExportHandler) Register(app *fiber.App) {
	exportGr := app.Group(protectedPrefix).Group("/exports")

	exportGr.Post("/", h.RequestExport)
	exportGr.Get("/:id", h.GetExport)
}

// POST /exports
func (h *ExportHandler) RequestExport(c fiber.Ctx) error {
	userID := userIDFrom(c)
	if userID == "" {
		return unauthorized(c)
	}

	var req models.ExportRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("failed to parse request body", "error", err)
		return badRequest(c, "Invalid request body")
	}
	req = utils.TrimAllStringFields(req).(models.ExportRequest)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	job, err := h.exportService.RequestExport(c.Context(), userID, req)
	if err != nil {
		slog.Error("failed to request export", "user_id", userID, "kind", req.Kind, "error", err)
		return serviceError(c, err, "Failed to request export")
	}
	return c.Status(http.StatusAccepted).JSON(utils.CreateSuccessResponse(job))
}

// GET /exports/:id
func (h *ExportHandler) GetExport(c fiber.Ctx) error {
	userID := userIDFrom(c)
	if userID == "" {
		return unauthorized(c)
	}

	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid export job ID")
	}

	job, err := h.exportService.GetExport(c.Context(), jobID)
	if err != nil {
		return serviceError(c, err, "Failed to get export job")
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(job))
}
