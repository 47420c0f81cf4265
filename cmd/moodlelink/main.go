package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jcid-dev/MoodleLink/app/controllers"
	"github.com/jcid-dev/MoodleLink/app/repository"
	"github.com/jcid-dev/MoodleLink/internal/pkg/cache"
	"github.com/jcid-dev/MoodleLink/internal/pkg/database"
	"github.com/jcid-dev/MoodleLink/internal/pkg/enrolment"
	"github.com/jcid-dev/MoodleLink/internal/pkg/env"
	"github.com/jcid-dev/MoodleLink/internal/pkg/moodle"
	"github.com/jcid-dev/MoodleLink/internal/pkg/router"
	"github.com/jcid-dev/MoodleLink/internal/pkg/shop"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	if env.IsDev() {
		fiberlog.SetLevel(fiberlog.LevelDebug)
	}
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	// The Moodle client and shop client are built once here and passed down;
	// no package keeps its own connection state.
	moodleClient := moodle.NewClient(moodle.Config{
		Endpoint:        env.GetEnv("MOODLE_WS_ENDPOINT", ""),
		Token:           env.GetEnv("MOODLE_WS_TOKEN", ""),
		DefaultPassword: env.GetEnv("MOODLE_DEFAULT_PASSWORD", ""),
	})
	shopClient := shop.NewClient(
		env.GetEnv("SHOP_API_URL", ""),
		env.GetEnv("SHOP_API_KEY", ""),
	)

	repos := repository.GetGlobalRepositories()
	orchestrator := enrolment.NewOrchestrator(repos.Link, repos.Enrolment, moodleClient)
	notifier := enrolment.NewNotifier(moodleClient)
	enrolmentController := controllers.NewEnrolmentController(orchestrator, notifier, shopClient, moodleClient)

	app := fiber.New(fiber.Config{
		AppName: "MoodleLink",
	})
	app.Use(recover.New(), logger.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	router.InstallRouter(app, enrolmentController)

	return app
}
