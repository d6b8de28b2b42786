package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/habitvault/habitvault/docs"
	"github.com/habitvault/habitvault/internal/adapters/handler/http/middleware"
)

const (
	DefaultRateLimit  = 100
	DefaultRateWindow = time.Minute
)

// RouterDependencies wires the handlers into one engine. DB and Redis are
// optional: a nil DB means in-memory storage, a nil Redis disables rate
// limiting.
type RouterDependencies struct {
	AuthHandler        *AuthHandler
	HabitHandler       *HabitHandler
	LogHandler         *LogHandler
	StatsHandler       *StatsHandler
	PreferencesHandler *PreferencesHandler
	QuoteHandler       *QuoteHandler
	Tokens             middleware.TokenValidator
	DB                 *sqlx.DB
	Redis              *redis.Client
	RateLimit          int
	RateWindow         time.Duration
	AllowedOrigins     []string
	StartTime          time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	RegisterValidators()

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.MetricsMiddleware())
	router.Use(cors.New(corsConfig(deps.AllowedOrigins)))

	if deps.Redis != nil {
		limit, window := deps.RateLimit, deps.RateWindow
		if limit <= 0 {
			limit = DefaultRateLimit
		}
		if window <= 0 {
			window = DefaultRateWindow
		}
		router.Use(middleware.RateLimiterMiddleware(deps.Redis, limit, window))
	}

	router.GET("/health", healthHandler(deps))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := router.Group("/api/v1")

	deps.AuthHandler.RegisterRoutes(apiV1)
	if deps.QuoteHandler != nil {
		deps.QuoteHandler.RegisterRoutes(apiV1)
	}

	protected := apiV1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens))
	{
		deps.HabitHandler.RegisterRoutes(protected)
		deps.LogHandler.RegisterRoutes(protected)
		deps.StatsHandler.RegisterRoutes(protected)
		deps.PreferencesHandler.RegisterRoutes(protected)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func healthHandler(deps RouterDependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		dbStatus := "memory"
		if deps.DB != nil {
			dbStatus = "connected"
			if err := deps.DB.PingContext(ctx); err != nil {
				dbStatus = "unreachable"
			}
		}

		redisStatus := "disabled"
		if deps.Redis != nil {
			redisStatus = "connected"
			if err := deps.Redis.Ping(ctx).Err(); err != nil {
				redisStatus = "unreachable"
			}
		}

		status, code := "ok", http.StatusOK
		if dbStatus == "unreachable" || redisStatus == "unreachable" {
			status, code = "degraded", http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":   status,
			"database": dbStatus,
			"redis":    redisStatus,
			"uptime":   time.Since(deps.StartTime).String(),
		})
	}
}
