package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jcid-dev/MoodleLink/app/controllers"
)

// Router installs a group of routes into the fiber app.
type Router interface {
	InstallRouter(app *fiber.App)
}

// InstallRouter registers all routes of the connector.
func InstallRouter(app *fiber.App, ec *controllers.EnrolmentController) {
	setup(app, NewApiRouter(ec), NewWebhookRouter(ec))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
