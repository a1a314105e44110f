package handlers

import (
	"log/slog"
	"net/http"

	"survey-service/internal/models"
	"survey-service/internal/services"
	utils "survey-service/shared/utils"

	"github.com/gofiber/fiber/v3"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) Register(app *fiber.App) {
	protectedGr := app.Group(protectedPrefix)

	protectedGr.Post("/analytics", h.GetReport)
	protectedGr.Get("/analytics/filter-options", h.GetFilterOptions)
	protectedGr.Get("/dashboard/overview", h.GetOverview)
	protectedGr.Post("/reports/families", h.GetFamilyReport)
	protectedGr.Get("/mastersheet", h.GetMastersheet)
}

// POST /analytics
func (h *AnalyticsHandler) GetReport(c fiber.Ctx) error {
	userID := userIDFrom(c)
	if userID == "" {
		return unauthorized(c)
	}

	var req models.AnalyticsQuery
	if err := bindBody(c, &req); err != nil {
		slog.Error("failed to parse request body", "error", err)
		return badRequest(c, "Invalid request body")
	}
	req = utils.TrimAllStringFields(req).(models.AnalyticsQuery)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	report, err := h.analyticsService.GetReport(c.Context(), req.Filter)
	if err != nil {
		slog.Error("failed to build analytics report", "user_id", userID, "error", err)
		return serviceError(c, err, "Failed to build analytics report")
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(report))
}

// GET /analytics/filter-options
func (h *AnalyticsHandler) GetFilterOptions(c fiber.Ctx) error {
	userID := userIDFrom(c)
	if userID == "" {
		return unauthorized(c)
	}

	options, err := h.analyticsService.GetFilterOptions(c.Context())
	if err != nil {
		slog.Error("failed to get filter options", "user_id", userID, "error", err)
		return serviceError(c, err, "Failed to get filter options")
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(options))
}

// GET /dashboard/overview
func (h *AnalyticsHandler) GetOverview(c fiber.Ctx) error {
	userID := userIDFrom(c)
	if userID == "" {
		return unauthorized(c)
	}

	overview, err := h.analyticsService.GetOverview(c.Context())
	if err != nil {
		slog.Error("failed to get dashboard overview", "user_id", userID, "error", err)
		return serviceError(c, err, "Failed to get dashboard overview")
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(overview))
}

// POST /reports/families
func (h *AnalyticsHandler) GetFamilyReport(c fiber.Ctx) error {
	userID := userIDFrom(c)
	if userID == "" {
		return unauthorized(c)
	}

	var filter models.SurveyFilter
	if err := bindBody(c, &filter); err != nil {
		slog.Error("failed to parse request body", "error", err)
		return badRequest(c, "Invalid request body")
	}
	if errs := utils.ValidateStruct(filter); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	rows, err := h.analyticsService.GetFamilyRows(c.Context(), filter)
	if err != nil {
		slog.Error("failed to build family report", "user_id", userID, "error", err)
		return serviceError(c, err, "Failed to build family report")
	}
	return c.Status(http.StatusOK).JSON(utils.CreateListResponse(rows))
}

// GET /mastersheet
func (h *AnalyticsHandler) GetMastersheet(c fiber.Ctx) error {
	userID := userIDFrom(c)
	if userID == "" {
		return unauthorized(c)
	}

	filter := filterFromQuery(c)
	if errs := utils.ValidateStruct(filter); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	matrix, err := h.analyticsService.GetMastersheet(c.Context(), filter)
	if err != nil {
		slog.Error("failed to build mastersheet", "user_id", userID, "error", err)
		return serviceError(c, err, "Failed to build mastersheet")
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(matrix))
}
