package routes

import (
	"MediPortal/cache"
	"MediPortal/config"
	"MediPortal/controllers"
	"MediPortal/handlers"
	"MediPortal/middlewares"
	"MediPortal/repositories"
	"MediPortal/services"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cache *cache.Cache, config *config.AppConfig, db *gorm.DB) http.Handler {
	// Set Gin to release mode
	gin.SetMode(gin.ReleaseMode)

	// Create a Gin router
	router := gin.Default()

	// Apply Bearer token validation to all routes
	router.Use(middlewares.ValidateBearerToken(config.GetBearerToken()))

	// Create and apply CORS middleware configuration
	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   []string{"http://localhost:3000", "https://mediportal.example.com"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	// Apply rate limiter middleware
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15, // 15 requests per second
		Burst:             30, // Burst of 30
	}))

	// Apply logging middleware
	router.Use(middlewares.LoggingMiddleware())

	// Initialize repositories
	alertRepo := repositories.NewAlertRepository(cache)
	inpatientRepo := repositories.NewInpatientRepository(cache)
	pharmacyRepo := repositories.NewPharmacyRepository(cache)
	prescriptionRepo := repositories.NewPrescriptionRepository(cache)
	scheduleRepo := repositories.NewScheduleRepository(cache)
	meetingRepo := repositories.NewMeetingRepository(cache)
	profileRepo := repositories.NewProfileRepository(cache)
	accountRepo := repositories.NewAccountRepository(db)
	sessionRepo := repositories.NewSessionRepository(cache)

	mirror := repositories.NewStoreMirror(
		alertRepo,
		inpatientRepo,
		pharmacyRepo,
		prescriptionRepo,
		scheduleRepo,
		meetingRepo,
		profileRepo,
	)

	// Build the dashboard state: seeded fixtures first, then hydrate from
	// whatever the row store already holds.
	state := services.NewDashboardState(mirror, sessionRepo)
	state.Hydrate(context.Background(), mirror)

	sessionService := services.NewSessionService(profileRepo, sessionRepo)
	authService := services.NewAuthService(accountRepo, profileRepo)

	resolver := handlers.NewSessionResolver(sessionService)
	dashboardHandler := handlers.NewDashboardHandler(state, resolver)
	authHandler := handlers.NewAuthHandler(authService, state, resolver)

	// Register routes
	controllers.SetupDashboardRoutes(router, dashboardHandler)

	authController := controllers.NewAuthController(authHandler)
	authController.RegisterRoutes(router)

	controllers.SetupRootRoute(router)

	return router
}
