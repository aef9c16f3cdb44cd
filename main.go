package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/controlapag/controlapag-api/config"
	"github.com/controlapag/controlapag-api/controllers"
	"github.com/controlapag/controlapag-api/cron"
	"github.com/controlapag/controlapag-api/db"
	"github.com/controlapag/controlapag-api/events"
	"github.com/controlapag/controlapag-api/gateway"
	"github.com/controlapag/controlapag-api/notifications"
	"github.com/controlapag/controlapag-api/redis"
	"github.com/controlapag/controlapag-api/routes"
)

func main() {
	cfg := config.Load()

	db.Init()
	db.Migrate()
	redis.InitRedis()

	events.Start()
	notifications.Init()

	controllers.Gateway = gateway.NewStripeGateway(cfg)

	cron.StartCronJobs()

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("ControlaPAG API")
	})

	routes.SetupAuthRoutes(app)
	routes.SetupUserRoutes(app)
	routes.SetupServiceRoutes(app)
	routes.SetupEnrollmentRoutes(app)
	routes.SetupChargeRoutes(app)
	routes.SetupOrganizationRoutes(app)
	routes.SetupPaymentRoutes(app)
	routes.SetupWebhookRoutes(app)

	log.Fatal(app.Listen(":" + cfg.Port))
}
