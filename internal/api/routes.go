package api

import (
	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/service"
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SetupRoutes installs middleware and mounts every endpoint on router. It fails
// only when the JWT verification keys cannot be loaded.
//
// Middleware order: tracing, request ID, access log, recovery, body limit,
// metrics, CORS, compression. Auth and rate limiting apply to /api/v1 only.
func SetupRoutes(
	router *gin.Engine,
	cfg config.Config,
	workoutService service.WorkoutRecordService,
	store Pinger,
	logger zerolog.Logger,
) error {
	keys, err := LoadJWTKeys(cfg.JWT)
	if err != nil {
		return err
	}

	router.HandleMethodNotAllowed = true

	if cfg.OTEL.Enabled {
		router.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	}
	router.Use(RequestID())
	router.Use(Logger(logger))
	router.Use(Recovery())
	router.Use(limitBody(cfg.Server.MaxBodyBytes))
	router.Use(Metrics())
	router.Use(corsMiddleware(cfg.CORS))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	router.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, ErrCodeNotFound, "route not found")
	})
	router.NoMethod(func(c *gin.Context) {
		abortWithError(c, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
	})

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/health", healthHandler(store))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	workoutHandler := NewWorkoutHandler(workoutService)

	protected := router.Group("/api/v1")
	protected.Use(AuthMiddleware(keys, cfg.JWT.Issuer))
	if cfg.Rate.RPS > 0 {
		protected.Use(NewRateLimiter(cfg.Rate.RPS, cfg.Rate.Burst, KeyByUserOrIP()).Handler())
	}
	{
		workouts := protected.Group("/workouts")
		workouts.GET("", workoutHandler.GetRecord)
		workouts.POST("", workoutHandler.AddWorkout)
		// Catch-all so names containing "/" (sent as %2F) still route.
		workouts.PUT("/*workoutName", workoutHandler.UpdateWorkout)
		workouts.DELETE("/*workoutName", workoutHandler.DeleteWorkout)
	}
	return nil
}

func healthHandler(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			LoggerFrom(c).Warn().Err(err).Msg("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// corsMiddleware allows every origin when no allowlist is configured.
func corsMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader, "Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = cfg.AllowedOrigins
	}
	return cors.New(cc)
}
