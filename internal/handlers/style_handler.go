package handlers

import (
	"errors"

	"personashop/internal/middleware"
	"personashop/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StyleHandler handles the style questionnaire and profile.
type StyleHandler struct {
	service *services.StyleService
	logger  *zap.Logger
}

// NewStyleHandler creates a StyleHandler.
func NewStyleHandler(service *services.StyleService, logger *zap.Logger) *StyleHandler {
	return &StyleHandler{service: service, logger: logger}
}

// RegisterRoutes registers the style routes; the profile needs auth.
func (h *StyleHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	styleRoutes := router.Group("/style")
	styleRoutes.Get("/questionnaire", h.HandleQuestionnaire)
	styleRoutes.Get("/profile", auth, h.HandleGetProfile)
	styleRoutes.Post("/profile", auth, h.HandleSaveProfile)
}

// HandleQuestionnaire returns the questions and their options.
func (h *StyleHandler) HandleQuestionnaire(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"questions": h.service.Questionnaire()})
}

// SaveProfileRequest is the body of POST /style/profile.
type SaveProfileRequest struct {
	Preferences map[string]string `json:"preferences"`
}

// HandleSaveProfile stores the user's answers and returns the analysis.
func (h *StyleHandler) HandleSaveProfile(c *fiber.Ctx) error {
	var req SaveProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	if len(req.Preferences) == 0 {
		return badRequest(c, "Missing preferences data", errors.New("preferences are required"))
	}

	profile, err := h.service.SaveProfile(c.UserContext(), middleware.UserID(c), req.Preferences)
	if err != nil {
		return respondError(c, h.logger, "Could not save style profile", err)
	}
	return c.JSON(fiber.Map{
		"message":     "Style profile saved successfully",
		"profile_id":  profile.ID,
		"ai_analysis": profile.Analysis,
	})
}

// HandleGetProfile returns the user's style profile, if any.
func (h *StyleHandler) HandleGetProfile(c *fiber.Ctx) error {
	profile, found, err := h.service.GetProfile(middleware.UserID(c))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve style profile", err)
	}
	if !found {
		return c.JSON(fiber.Map{
			"message":     "No style profile found",
			"has_profile": false,
		})
	}
	return c.JSON(fiber.Map{
		"profile":     profile,
		"has_profile": true,
	})
}
