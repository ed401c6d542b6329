package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"yamdb/database"
	"yamdb/internal/config"
	"yamdb/internal/logging"
	"yamdb/internal/mail"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/microservices/http-api/router"
	"yamdb/internal/microservices/http-api/service"
	"yamdb/internal/middleware/auth"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.ConnectDB(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("connect database")
	}
	if err := database.Migrate(db); err != nil {
		logging.Fatal().Err(err).Msg("migrate database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logging.Fatal().Err(err).Msg("database handle")
	}

	mailer, closeMailer, err := mail.New(cfg)
	if err != nil {
		logging.Fatal().Err(err).Str("backend", cfg.MailBackend).Msg("set up mailer")
	}

	limiter, redisClient := authLimiter(cfg)

	// repositories
	users := repository.NewUserRepository(db)
	categories := repository.NewCategoryRepo(db)
	genres := repository.NewGenreRepo(db)
	titles := repository.NewTitleRepo(db)
	reviews := repository.NewReviewRepo(db)
	comments := repository.NewCommentRepo(db)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)

	r := router.New(router.Services{
		Auth:       service.NewAuthService(users, tokens, mailer, cfg),
		Users:      service.NewUserService(users),
		Categories: service.NewCategoryService(categories),
		Genres:     service.NewGenreService(genres),
		Titles:     service.NewTitleService(titles, categories, genres),
		Reviews:    service.NewReviewService(reviews, titles),
		Comments:   service.NewCommentService(comments, reviews),
	}, router.Options{
		CORSOrigins: cfg.CORSOrigins,
		PageSize:    cfg.PageSize,
		Metrics:     cfg.PrometheusEnabled,
		AuthLimiter: limiter,
		Ping:        sqlDB.PingContext,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", srv.Addr).Str("env", cfg.GoEnv).Msg("api server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Info().Msg("shutting down api server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("server forced to shutdown")
	}
	if err := closeMailer(); err != nil {
		logging.Error().Err(err).Msg("close mailer")
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logging.Error().Err(err).Msg("close redis")
		}
	}
	if err := sqlDB.Close(); err != nil {
		logging.Error().Err(err).Msg("close database")
	}
	logging.Info().Msg("api server exited")
}

// authLimiter prefers a Redis-backed window shared across replicas and falls
// back to an in-process limiter when Redis is not configured or unreachable.
func authLimiter(cfg *config.Config) (middleware.Limiter, *redis.Client) {
	local := middleware.NewLocalLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
	if cfg.RedisURL == "" {
		return local, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logging.Warn().Err(err).Msg("invalid REDIS_URL, using in-process rate limiter")
		return local, nil
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logging.Warn().Err(err).Msg("redis unreachable, using in-process rate limiter")
		_ = client.Close()
		return local, nil
	}
	return middleware.NewRedisLimiter(client, cfg.AuthRateLimit, cfg.AuthRateWindow), client
}
