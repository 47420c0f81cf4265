package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jcid-dev/MoodleLink/app/models"
	"github.com/jcid-dev/MoodleLink/app/repository"
)

// HandleGetSettings returns the operator-editable module settings.
func HandleGetSettings(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetSettingRepository()
	settings, err := repo.Get()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load settings")
	}
	return c.JSON(settings)
}

// HandleUpdateSettings replaces the module settings.
func HandleUpdateSettings(c *fiber.Ctx) error {
	var settings models.ModuleSettings
	if err := c.BodyParser(&settings); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	repo := repository.GetGlobalFactory().GetSettingRepository()
	if err := repo.Save(&settings); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save settings")
	}
	return c.JSON(settings)
}
