package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jcid-dev/MoodleLink/app/models"
	"github.com/jcid-dev/MoodleLink/app/repository"
)

type createLinkRequest struct {
	ProductID    uint  `json:"product_id" validate:"required"`
	VariantID    *uint `json:"variant_id"`
	CourseID     uint  `json:"course_id" validate:"required"`
	RoleID       uint  `json:"role_id" validate:"required"`
	DurationDays *uint `json:"duration_days"`
	Enabled      bool  `json:"enabled"`
}

// HandleListLinks returns every configured product-to-course link.
func HandleListLinks(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetLinkRepository()
	links, err := repo.GetAll()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load links")
	}
	return c.JSON(fiber.Map{"links": links})
}

// HandleGetLink returns a single link by ID.
func HandleGetLink(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid link id")
	}

	repo := repository.GetGlobalFactory().GetLinkRepository()
	link, err := repo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Link not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load link")
	}
	return c.JSON(link)
}

// HandleCreateLink creates a new link. Adding a link whose natural key
// already exists succeeds without creating a second row.
func HandleCreateLink(c *fiber.Ctx) error {
	var req createLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	link := &models.Link{
		ProductID:    req.ProductID,
		VariantID:    req.VariantID,
		CourseID:     req.CourseID,
		RoleID:       req.RoleID,
		DurationDays: req.DurationDays,
		Enabled:      req.Enabled,
	}

	repo := repository.GetGlobalFactory().GetLinkRepository()
	if err := repo.Create(link); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save link")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Link saved"})
}

// HandleEnableLink enables a link.
func HandleEnableLink(c *fiber.Ctx) error {
	return setLinkEnabled(c, true)
}

// HandleDisableLink disables a link.
func HandleDisableLink(c *fiber.Ctx) error {
	return setLinkEnabled(c, false)
}

func setLinkEnabled(c *fiber.Ctx, enabled bool) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid link id")
	}

	repo := repository.GetGlobalFactory().GetLinkRepository()
	if _, err := repo.GetByID(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Link not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load link")
	}

	if err := repo.SetEnabled(uint(id), enabled); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update link")
	}
	return c.JSON(fiber.Map{"id": id, "enabled": enabled})
}

// HandleDeleteLink deletes a link. Past enrolment rows keep referencing the
// deleted link id for audit purposes.
func HandleDeleteLink(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid link id")
	}

	repo := repository.GetGlobalFactory().GetLinkRepository()
	if _, err := repo.GetByID(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Link not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load link")
	}

	if err := repo.Delete(uint(id)); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete link")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
