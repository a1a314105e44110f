package handlers

import (
	"errors"
	"net/http"
	"strings"

	"survey-service/internal/models"
	"survey-service/internal/repository"
	"survey-service/internal/services"
	utils "survey-service/shared/utils"

	"github.com/gofiber/fiber/v3"
)

const protectedPrefix = "survey/protected/api/v1"

func userIDFrom(c fiber.Ctx) string {
	return strings.TrimSpace(c.Get("X-User-ID"))
}

func unauthorized(c fiber.Ctx) error {
	return c.Status(http.StatusUnauthorized).JSON(
		utils.CreateErrorResponse("UNAUTHORIZED", "User ID is required"))
}

// bindBody decodes a JSON body into req. An empty body leaves req untouched.
func bindBody(c fiber.Ctx, req any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.Bind().Body(req)
}

func badRequest(c fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("BAD_REQUEST", message))
}

func validationFailed(c fiber.Ctx, errs []utils.ValidationError) error {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" "+e.Message)
	}
	return badRequest(c, "Validation failed: "+strings.Join(parts, "; "))
}

// serviceError maps service errors onto the response envelope. fallback is
// the message used for unexpected failures.
func serviceError(c fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, models.ErrInvalidFilter):
		return badRequest(c, err.Error())
	case errors.Is(err, repository.ErrSurveyNotFound):
		return c.Status(http.StatusNotFound).JSON(utils.CreateErrorResponse("NOT_FOUND", "Survey not found"))
	case errors.Is(err, repository.ErrExportJobNotFound):
		return c.Status(http.StatusNotFound).JSON(utils.CreateErrorResponse("NOT_FOUND", "Export job not found"))
	case errors.Is(err, services.ErrExportQueueFull):
		return c.Status(http.StatusServiceUnavailable).JSON(
			utils.CreateErrorResponse("SERVICE_UNAVAILABLE", "Export queue is full, please retry later"))
	default:
		return c.Status(http.StatusInternalServerError).JSON(utils.CreateErrorResponse("INTERNAL_SERVER_ERROR", fallback))
	}
}

// filterFromQuery reads a SurveyFilter from GET query parameters.
func filterFromQuery(c fiber.Ctx) models.SurveyFilter {
	return models.SurveyFilter{
		StartDate:    c.Query("start_date"),
		EndDate:      c.Query("end_date"),
		AreaType:     c.Query("area_type"),
		AreaName:     c.Query("area_name"),
		IncomeClass:  c.Query("income_class"),
		FacilityType: c.Query("facility_type"),
		HasDisease:   c.Query("has_disease"),
		Search:       c.Query("search"),
	}
}

// RequireAPIKey rejects requests whose X-API-Key header does not match key.
// An empty key disables the check.
func RequireAPIKey(key string) fiber.Handler {
	return func(c fiber.Ctx) error {
		if key == "" || c.Get("X-API-Key") == key {
			return c.Next()
		}
		return c.Status(http.StatusUnauthorized).JSON(
			utils.CreateErrorResponse("UNAUTHORIZED", "Invalid API key"))
	}
}
