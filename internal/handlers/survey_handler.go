package handlers

import (
	"log/slog"
	"net/http"

	"survey-service/internal/models"
	"survey-service/internal/services"
	utils "survey-service/shared/utils"

	"github.com/gofiber/fiber/v3"
)

type SurveyHandler struct {
	surveyService *services.SurveyService
}

func NewSurveyHandler(surveyService *services.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveyService: surveyService}
}

func (h *SurveyHandler) Register(app *fiber.App) {
	surveyGr := app.Group(protectedPrefix).Group("/surveys")

	surveyGr.Get("/:id/health-card", h.GetHealthCard)
	surveyGr.Put("/:id/approval", h.SetApproval)
}

// GET /surveys/:id/health-card
func (h *SurveyHandler) GetHealthCard(c fiber.Ctx) error {
	userID := userIDFrom(c)
	if userID == "" {
		return unauthorized(c)
	}

	surveyID := c.Params("id")
	card, err := h.surveyService.GetHealthCard(c.Context(), surveyID)
	if err != nil {
		return serviceError(c, err, "Failed to build health card")
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(card))
}

// PUT /surveys/:id/approval
func (h *SurveyHandler) SetApproval(c fiber.Ctx) error {
	userID := userIDFrom(c)
	if userID == "" {
		return unauthorized(c)
	}

	var req models.ApprovalRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("failed to parse request body", "error", err)
		return badRequest(c, "Invalid request body")
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	surveyID := c.Params("id")
	if err := h.surveyService.SetApproval(c.Context(), surveyID, *req.Approved); err != nil {
		slog.Error("failed to update approval", "user_id", userID, "survey_id", surveyID, "error", err)
		return serviceError(c, err, "Failed to update approval")
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(fiber.Map{
		"survey_id": surveyID,
		"approved":  *req.Approved,
	}))
}
