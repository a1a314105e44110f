package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"survey-service/internal/models"
	"survey-service/internal/services"
	utils "survey-service/shared/utils"

	"github.com/gofiber/fiber/v3"
)

type AssignmentHandler struct {
	assignmentService *services.AssignmentService
}

func NewAssignmentHandler(assignmentService *services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

func (h *AssignmentHandler) Register(app *fiber.App) {
	assignmentGr := app.Group(protectedPrefix).Group("/assignments")

	assignmentGr.Post("/", h.CreateAssignments)
	assignmentGr.Get("/", h.ListAssignments)
	assignmentGr.Get("/progress", h.GetProgress)
}

// POST /assignments
func (h *AssignmentHandler) CreateAssignments(c fiber.Ctx) error {
	userID := userIDFrom(c)
	if userID == "" {
		return unauthorized(c)
	}

	var req models.AssignmentRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("failed to parse request body", "error", err)
		return badRequest(c, "Invalid request body")
	}
	req = utils.TrimAllStringFields(req).(models.AssignmentRequest)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationFailed(c, errs)
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.assignmentService.CreateAssignments(c.Context(), req)
	if err != nil {
		slog.Error("failed to create assignments", "user_id", userID, "error", err)
		return serviceError(c, err, "Failed to create assignments")
	}
	return c.Status(http.StatusCreated).JSON(utils.CreateListResponse(created))
}

// GET /assignments?surveyor_id=
// surveyor_id defaults to the caller.
func (h *AssignmentHandler) ListAssignments(c fiber.Ctx) error {
	userID := userIDFrom(c)
	if userID == "" {
		return unauthorized(c)
	}

	surveyorID := strings.TrimSpace(c.Query("surveyor_id"))
	if surveyorID == "" {
		surveyorID = userID
	}

	assignments, err := h.assignmentService.ListAssignments(c.Context(), surveyorID)
	if err != nil {
		slog.Error("failed to list assignments", "user_id", userID, "surveyor_id", surveyorID, "error", err)
		return serviceError(c, err, "Failed to list assignments")
	}
	return c.Status(http.StatusOK).JSON(utils.CreateListResponse(assignments))
}

// GET /assignments/progress
func (h *AssignmentHandler) GetProgress(c fiber.Ctx) error {
	userID := userIDFrom(c)
	if userID == "" {
		return unauthorized(c)
	}

	progress, err := h.assignmentService.GetProgress(c.Context())
	if err != nil {
		slog.Error("failed to build surveyor progress", "user_id", userID, "error", err)
		return serviceError(c, err, "Failed to build surveyor progress")
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(progress))
}
