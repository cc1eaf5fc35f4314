package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"alcyxob/fitgen/internal/logger"
	"alcyxob/fitgen/internal/service"
)

// Services are the dependencies the handlers call into.
type Services struct {
	Auth    service.AuthService
	Workout service.WorkoutService
	Session service.SessionService
	Profile service.ProfileService
}

// Options configure the router's middleware.
type Options struct {
	Log         *logger.Logger
	Development bool
	CORSOrigins []string
	// Limiter throttles the generation endpoints per user. nil disables throttling.
	Limiter *UserLimiter
	// TraceService names the server span source. Empty disables request tracing.
	TraceService string
}

// NewRouter builds the gin engine with the full middleware chain and all routes.
func NewRouter(opts Options, services Services) *gin.Engine {
	registerValidator()

	router := gin.New()
	if opts.TraceService != "" {
		router.Use(otelgin.Middleware(opts.TraceService))
	}
	router.Use(
		RequestID(),
		RequestLogger(opts.Log),
		Recovery(opts.Log, opts.Development),
		CORS(opts.CORSOrigins),
		ErrorHandler(opts.Log, opts.Development),
	)
	SetupRoutes(router, opts.Limiter, services)
	return router
}

func SetupRoutes(router *gin.Engine, limiter *UserLimiter, services Services) {
	authHandler := NewAuthHandler(services.Auth)
	workoutHandler := NewWorkoutHandler(services.Workout, services.Session)
	profileHandler := NewProfileHandler(services.Profile)

	authMiddleware := AuthMiddleware(services.Auth)
	generationLimit := RateLimit(limiter)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/equipment", ListEquipment)
		apiV1.POST("/users", authHandler.Register)
		apiV1.POST("/auth/login", authHandler.Login)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)

		workouts := protected.Group("/workouts")
		{
			workouts.POST("/generate", generationLimit, workoutHandler.Generate)
			workouts.POST("/quick-generate", generationLimit, workoutHandler.QuickGenerate)
			workouts.GET("", workoutHandler.ListCompleted)
			workouts.GET("/:id", workoutHandler.GetWorkout)
			workouts.POST("/:id/start", workoutHandler.StartWorkout)
			workouts.POST("/:id/complete", workoutHandler.CompleteWorkout)
		}

		profile := protected.Group("/profile")
		{
			profile.GET("", profileHandler.GetProfile)
			profile.POST("", profileHandler.CreateProfile)
			profile.PATCH("/:id", profileHandler.UpdateProfile)
		}
	}
}
