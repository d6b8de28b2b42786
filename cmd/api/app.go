package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/habitvault/habitvault/internal/adapters/cache"
	adapterHTTP "github.com/habitvault/habitvault/internal/adapters/handler/http"
	"github.com/habitvault/habitvault/internal/adapters/repository"
	"github.com/habitvault/habitvault/internal/config"
	"github.com/habitvault/habitvault/internal/core/domain"
	"github.com/habitvault/habitvault/internal/core/services"
	"github.com/habitvault/habitvault/internal/core/workers"
)

type repositories struct {
	habits domain.HabitRepository
	logs   domain.HabitLogRepository
	users  domain.UserRepository
	prefs  domain.PreferencesRepository
}

// app owns every long-lived dependency of the server.
type app struct {
	router *gin.Engine
	worker *workers.MetricsWorker
	db     *sqlx.DB
	rdb    *redis.Client
}

func newApp(ctx context.Context, cfg *config.Config, clock services.Clock, startTime time.Time) (*app, error) {
	a := &app{}

	repos, err := a.openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var metricsCache domain.MetricsCache
	if cfg.RedisEnabled() {
		a.rdb, err = cache.NewRedisClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPass, cfg.RedisDB)
		if err != nil {
			a.Close()
			return nil, err
		}
		log.Println("[CACHE] Redis connected, metrics and habit lists are cached in Redis.")
		metricsCache = cache.NewRedisMetricsCache(a.rdb, cfg.MetricsCacheTTL)
		repos.habits = repository.NewCachedHabitRepository(repos.habits, a.rdb, repository.DefaultHabitListTTL)
	} else {
		lru, err := cache.NewLRUMetricsCache(cfg.MetricsLRUSize)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create metrics cache: %w", err)
		}
		log.Println("[CACHE] Redis disabled, using in-process metrics cache.")
		metricsCache = lru
	}

	a.worker = workers.NewMetricsWorker(repos.habits, repos.logs, metricsCache, clock, cfg.MetricsQueueSize)

	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL, repos.users)
	authService := services.NewAuthService(repos.users, tokenService)
	habitService := services.NewHabitService(repos.habits, repos.logs, metricsCache, a.worker, clock)
	logService := services.NewLogService(repos.habits, repos.logs, metricsCache, a.worker, clock)
	statsService := services.NewStatsService(repos.habits, repos.logs, metricsCache, clock)
	prefsService := services.NewPreferencesService(repos.prefs)

	a.router = adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:        adapterHTTP.NewAuthHandler(authService),
		HabitHandler:       adapterHTTP.NewHabitHandler(habitService),
		LogHandler:         adapterHTTP.NewLogHandler(logService),
		StatsHandler:       adapterHTTP.NewStatsHandler(statsService),
		PreferencesHandler: adapterHTTP.NewPreferencesHandler(prefsService),
		QuoteHandler:       adapterHTTP.NewQuoteHandler(clock.Today),
		Tokens:             tokenService,
		DB:                 a.db,
		Redis:              a.rdb,
		RateLimit:          cfg.RateLimit,
		RateWindow:         cfg.RateWindow,
		AllowedOrigins:     cfg.AllowedOrigins,
		StartTime:          startTime,
	})

	return a, nil
}

func (a *app) openStorage(ctx context.Context, cfg *config.Config) (repositories, error) {
	if cfg.Storage == config.StorageMemory {
		log.Println("Using in-memory storage. Data is lost on restart.")
		return repositories{
			habits: repository.NewInMemoryHabitRepository(),
			logs:   repository.NewInMemoryHabitLogRepository(),
			users:  repository.NewInMemoryUserRepository(),
			prefs:  repository.NewInMemoryPreferencesRepository(),
		}, nil
	}

	dbCfg := cfg.Database()
	log.Printf("Connecting to database (%s driver)...", dbCfg.Driver)
	db, err := repository.Open(ctx, dbCfg.Driver, repository.DSN(dbCfg.Host, dbCfg.Port, dbCfg.User, dbCfg.Password, dbCfg.Name))
	if err != nil {
		return repositories{}, err
	}
	if err := repository.ApplySchema(ctx, db); err != nil {
		db.Close()
		return repositories{}, err
	}
	a.db = db
	log.Println("Database connected successfully.")

	return repositories{
		habits: repository.NewPostgresHabitRepository(db),
		logs:   repository.NewPostgresLogRepository(db),
		users:  repository.NewPostgresUserRepository(db),
		prefs:  repository.NewPostgresPreferencesRepository(db),
	}, nil
}

func (a *app) Close() {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			log.Printf("[CACHE] close error: %v", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Printf("[ERROR] database close error: %v", err)
		}
	}
}
