package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jcid-dev/MoodleLink/app/controllers"
	"github.com/jcid-dev/MoodleLink/internal/pkg/middleware"
)

// ApiRouter installs the admin JSON API under /api/v1.
type ApiRouter struct {
	enrolments *controllers.EnrolmentController
}

func NewApiRouter(ec *controllers.EnrolmentController) *ApiRouter {
	return &ApiRouter{enrolments: ec}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	v1 := api.Group("/v1", middleware.APIKeyAuthMiddleware())

	v1.Get("/links", controllers.HandleListLinks)
	v1.Post("/links", controllers.HandleCreateLink)
	v1.Get("/links/:id", controllers.HandleGetLink)
	v1.Patch("/links/:id/enable", controllers.HandleEnableLink)
	v1.Patch("/links/:id/disable", controllers.HandleDisableLink)
	v1.Delete("/links/:id", controllers.HandleDeleteLink)

	v1.Get("/enrolments", h.enrolments.HandleListEnrolments)
	v1.Post("/orders/:id/enrol", h.enrolments.HandleManualEnrol)
	v1.Get("/orders/:id/entitlements", h.enrolments.HandlePreviewEntitlements)

	v1.Get("/moodle/roles", h.enrolments.HandleGetRoles)
	v1.Get("/moodle/site", h.enrolments.HandleTestConnection)

	v1.Get("/settings", controllers.HandleGetSettings)
	v1.Put("/settings", controllers.HandleUpdateSettings)
}
