package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sirupsen/logrus"

	"github.com/wayplan/wayplan-backend/handlers"
	"github.com/wayplan/wayplan-backend/realtime"
	"github.com/wayplan/wayplan-backend/repository"
	"github.com/wayplan/wayplan-backend/routes"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Info(".env file not found, using environment variables")
	}

	if os.Getenv("LOG_FORMAT") == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	// Initialize New Relic
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName("Wayplan API"),
		newrelic.ConfigLicense(os.Getenv("NEW_RELIC_LICENSE_KEY")),
		newrelic.ConfigDistributedTracerEnabled(true),
	)
	if err != nil {
		logrus.WithError(err).Warn("failed to initialize New Relic")
	}

	// Initialize database
	if err := repository.InitDB(); err != nil {
		logrus.WithError(err).Fatal("failed to initialize database")
	}
	defer repository.CloseDB()

	// The hub must exist before the chat service so persisted messages can
	// fan out to connected members.
	hub := realtime.NewHub()
	go hub.Run()

	svcs := handlers.NewHandlerServices(hub)
	ws := realtime.NewHandler(hub, svcs.AuthService, svcs.ChatService, repository.NewTripRepository())

	// Set up Gin router
	router := gin.Default()

	// Add New Relic middleware
	if app != nil {
		router.Use(nrgin.Middleware(app))
	}

	// Configure CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Change to your frontend URL in production
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Set up routes
	routes.SetupRoutes(router, svcs, ws)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start server
	logrus.WithField("port", port).Info("server starting")
	if err := router.Run(":" + port); err != nil {
		logrus.WithError(err).Fatal("failed to start server")
	}
}
