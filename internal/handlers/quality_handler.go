package handlers

import (
	"log/slog"
	"net/http"

	"survey-service/internal/models"
	"survey-service/internal/services"
	utils "survey-service/shared/utils"

	"github.com/gofiber/fiber/v3"
)

type QualityHandler struct {
	qualityService *services.QualityService
}

func NewQualityHandler(qualityService *services.QualityService) *QualityHandler {
	return &QualityHandler{qualityService: qualityService}
}

func (h *QualityHandler) Register(app *fiber.App) {
	qualityGr := app.Group(protectedPrefix).Group("/quality")

	qualityGr.Get("/", h.GetSummary)
	qualityGr.Post("/evaluate", h.Evaluate)
	qualityGr.Get("/:id", h.GetReport)
}

// GET /quality?limit=N. The band counts and mean always cover every survey;
// limit only caps the per-survey reports returned.
func (h *QualityHandler) GetSummary(c fiber.Ctx) error {
	userID := userIDFrom(c)
	if userID == "" {
		return unauthorized(c)
	}

	limit, err := utils.GetQueryParamAsInt(c, "limit", 0)
	if err != nil {
		return badRequest(c, err.Error())
	}

	summary, err := h.qualityService.ScoreAll(c.Context())
	if err != nil {
		slog.Error("failed to score surveys", "user_id", userID, "error", err)
		return serviceError(c, err, "Failed to score surveys")
	}
	if limit > 0 && len(summary.Reports) > limit {
		summary.Reports = summary.Reports[:limit]
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(summary))
}

// GET /quality/:id
func (h *QualityHandler) GetReport(c fiber.Ctx) error {
	userID := userIDFrom(c)
	if userID == "" {
		return unauthorized(c)
	}

	surveyID := c.Params("id")
	report, err := h.qualityService.ScoreSurvey(c.Context(), surveyID)
	if err != nil {
		slog.Error("failed to score survey", "user_id", userID, "survey_id", surveyID, "error", err)
		return serviceError(c, err, "Failed to score survey")
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(report))
}

// POST /quality/evaluate scores a survey before it is submitted.
func (h *QualityHandler) Evaluate(c fiber.Ctx) error {
	userID := userIDFrom(c)
	if userID == "" {
		return unauthorized(c)
	}

	var rec models.SurveyRecord
	if err := c.Bind().Body(&rec); err != nil {
		slog.Error("failed to parse request body", "error", err)
		return badRequest(c, "Invalid request body")
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(h.qualityService.Evaluate(rec)))
}
