package controllers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/jcid-dev/MoodleLink/app/models"
	"github.com/jcid-dev/MoodleLink/app/repository"
	"github.com/jcid-dev/MoodleLink/internal/pkg/enrolment"
	"github.com/jcid-dev/MoodleLink/internal/pkg/moodle"
	"github.com/jcid-dev/MoodleLink/internal/pkg/shop"
)

// EnrolmentController carries the collaborators of the enrolment endpoints.
// The Moodle client and order source are constructed once at startup and
// injected here instead of living in package globals.
type EnrolmentController struct {
	orchestrator *enrolment.Orchestrator
	notifier     *enrolment.Notifier
	orders       shop.OrderSource
	moodle       moodle.Client
}

// NewEnrolmentController wires the enrolment endpoints.
func NewEnrolmentController(orchestrator *enrolment.Orchestrator, notifier *enrolment.Notifier, orders shop.OrderSource, client moodle.Client) *EnrolmentController {
	return &EnrolmentController{
		orchestrator: orchestrator,
		notifier:     notifier,
		orders:       orders,
		moodle:       client,
	}
}

type orderStatusEvent struct {
	OrderID         uint `json:"order_id" validate:"required"`
	NewStatusIsPaid bool `json:"new_status_is_paid"`
}

// HandleOrderStatus consumes the shop's order-status webhook and performs the
// automatic enrolments when the new status means "paid".
func (ec *EnrolmentController) HandleOrderStatus(c *fiber.Ctx) error {
	var event orderStatusEvent
	if err := c.BodyParser(&event); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := validate.Struct(&event); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	if !models.GetModuleSettings().AutoEnrolEnabled {
		return c.JSON(fiber.Map{"processed": false, "reason": "auto_enrolment_disabled"})
	}
	if !event.NewStatusIsPaid {
		return c.JSON(fiber.Map{"processed": false, "reason": "order_not_paid"})
	}

	order, err := ec.orders.GetOrder(c.Context(), event.OrderID)
	if err != nil {
		if errors.Is(err, shop.ErrOrderNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Order not found")
		}
		log.Errorf("webhook: failed to load order %d: %v", event.OrderID, err)
		return jsonError(c, fiber.StatusBadGateway, "shop_unavailable", "Failed to load order from shop")
	}

	completed, fatal, err := ec.orchestrator.PerformEnrolments(c.Context(), order, models.ModeAuto)
	if err != nil {
		log.Errorf("webhook: enrolment run for order %d failed: %v", order.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Enrolment run failed")
	}

	if models.GetModuleSettings().EmailNotificationsEnabled {
		ec.notifier.NotifyCompleted(c.Context(), order, completed)
	}

	return c.JSON(fiber.Map{
		"processed": true,
		"completed": len(completed),
		"fatal":     fatal,
	})
}

// HandleManualEnrol performs the enrolments for an order on operator request.
// Unlike the automatic path it may be repeated; every run appends new audit
// rows.
func (ec *EnrolmentController) HandleManualEnrol(c *fiber.Ctx) error {
	if !models.GetModuleSettings().ManualEnrolEnabled {
		return jsonError(c, fiber.StatusForbidden, "manual_enrolment_disabled", "Manual enrolment is disabled")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid order id")
	}

	order, err := ec.orders.GetOrder(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, shop.ErrOrderNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Order not found")
		}
		return jsonError(c, fiber.StatusBadGateway, "shop_unavailable", "Failed to load order from shop")
	}
	if !order.Paid {
		return jsonError(c, fiber.StatusConflict, "order_not_paid", "Order is not paid")
	}

	completed, fatal, err := ec.orchestrator.PerformEnrolments(c.Context(), order, models.ModeManual)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Enrolment run failed")
	}
	if fatal {
		return jsonError(c, fiber.StatusBadGateway, "enrolment_failed", "There was an error while trying to perform enrolments. Check logs.")
	}
	if len(completed) == 0 {
		return c.JSON(fiber.Map{
			"enrolments": []models.Enrolment{},
			"message":    "No enrolments entitled for current order.",
		})
	}

	if models.GetModuleSettings().EmailNotificationsEnabled {
		ec.notifier.NotifyCompleted(c.Context(), order, completed)
	}

	messages := make([]string, 0, len(completed))
	for _, e := range completed {
		name, err := ec.moodle.GetCourseName(c.Context(), e.Link.CourseID)
		if err != nil || name == "" {
			name = fmt.Sprintf("course %d", e.Link.CourseID)
		}
		messages = append(messages, fmt.Sprintf("Enroled in course '%s'.", name))
	}

	return c.JSON(fiber.Map{
		"enrolments": completed,
		"messages":   messages,
	})
}

// HandlePreviewEntitlements computes what an order entitles to without
// performing or persisting anything. Used on the order confirmation page.
func (ec *EnrolmentController) HandlePreviewEntitlements(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid order id")
	}

	order, err := ec.orders.GetOrder(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, shop.ErrOrderNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Order not found")
		}
		return jsonError(c, fiber.StatusBadGateway, "shop_unavailable", "Failed to load order from shop")
	}

	links, err := repository.GetGlobalFactory().GetLinkRepository().GetEnabled()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load links")
	}

	candidates := enrolment.ComputeEntitlements(order, links)
	courses := make([]fiber.Map, 0, len(candidates))
	for _, candidate := range candidates {
		name, err := ec.moodle.GetCourseName(c.Context(), candidate.Link.CourseID)
		if err != nil || name == "" {
			name = fmt.Sprintf("course %d", candidate.Link.CourseID)
		}
		courses = append(courses, fiber.Map{
			"course_id":   candidate.Link.CourseID,
			"course_name": name,
		})
	}

	return c.JSON(fiber.Map{"order_id": order.ID, "courses": courses})
}

// HandleListEnrolments returns the enrolment audit trail, optionally filtered
// by order and mode.
func (ec *EnrolmentController) HandleListEnrolments(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetEnrolmentRepository()

	var cond repository.Condition
	if orderID := c.QueryInt("order_id"); orderID > 0 {
		cond = repository.Leaf{Field: "order_id", Op: "=", Value: uint(orderID), Kind: repository.KindNumeric}
	}
	if mode := c.Query("mode"); mode == models.ModeAuto || mode == models.ModeManual {
		leaf := repository.Leaf{Field: "mode", Op: "=", Value: mode, Kind: repository.KindString}
		if cond != nil {
			cond = repository.And(cond, leaf)
		} else {
			cond = leaf
		}
	}

	var enrolments []models.Enrolment
	var err error
	if cond != nil {
		enrolments, err = repo.Find(cond, "")
	} else {
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 50)
		enrolments, err = repo.GetAll(offset, limit)
	}
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load enrolments")
	}

	return c.JSON(fiber.Map{"enrolments": enrolments})
}

// HandleGetRoles returns the Moodle role list for the admin link form.
func (ec *EnrolmentController) HandleGetRoles(c *fiber.Ctx) error {
	roles, err := moodle.GetRolesCached(c.Context(), ec.moodle)
	if err != nil {
		return jsonError(c, fiber.StatusBadGateway, "moodle_unavailable", "Failed to load roles from Moodle")
	}
	return c.JSON(fiber.Map{"roles": roles})
}

// HandleTestConnection checks the configured Moodle endpoint and token.
func (ec *EnrolmentController) HandleTestConnection(c *fiber.Ctx) error {
	siteName, err := ec.moodle.TestConnection(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusBadGateway, "moodle_unavailable", err.Error())
	}
	return c.JSON(fiber.Map{"site_name": siteName})
}
