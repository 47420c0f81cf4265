package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jcid-dev/MoodleLink/app/controllers"
	"github.com/jcid-dev/MoodleLink/internal/pkg/middleware"
)

// WebhookRouter installs the endpoints called by the shop itself.
type WebhookRouter struct {
	enrolments *controllers.EnrolmentController
}

func NewWebhookRouter(ec *controllers.EnrolmentController) *WebhookRouter {
	return &WebhookRouter{enrolments: ec}
}

func (h WebhookRouter) InstallRouter(app *fiber.App) {
	webhook := app.Group("/webhook", middleware.WebhookAuthMiddleware())
	webhook.Post("/order-status", h.enrolments.HandleOrderStatus)
}
