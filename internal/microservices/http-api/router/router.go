// Package router assembles the gin engine: ambient middleware, the /v1 API
// and the operational endpoints.
package router

import (
	"context"
	"net/http"
	"time"

	"yamdb/internal/logging"
	"yamdb/internal/microservices/http-api/handler"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services are the domain services the API is built on.
type Services struct {
	Auth       service.AuthService
	Users      service.UserService
	Categories service.CategoryService
	Genres     service.GenreService
	Titles     service.TitleService
	Reviews    service.ReviewService
	Comments   service.CommentService
}

type Options struct {
	CORSOrigins []string
	PageSize    int
	Metrics     bool
	// AuthLimiter throttles the sign-in endpoints; nil disables throttling.
	AuthLimiter middleware.Limiter
	// Ping backs /health; nil reports ok unconditionally.
	Ping func(ctx context.Context) error
}

func New(svc Services, opts Options) *gin.Engine {
	handler.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	if opts.Metrics {
		r.Use(middleware.Metrics())
	}
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(corsConfig(opts.CORSOrigins)))
	}
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	})

	r.GET("/health", health(opts.Ping))
	if opts.Metrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	paging := handler.Paging{DefaultSize: opts.PageSize}
	if paging.DefaultSize <= 0 {
		paging.DefaultSize = 10
	}

	v1 := r.Group("/v1")
	v1.Use(middleware.Authenticate(svc.Auth))

	var throttle []gin.HandlerFunc
	if opts.AuthLimiter != nil {
		throttle = append(throttle, middleware.RateLimit(opts.AuthLimiter))
	}
	handler.NewAuthHandler(svc.Auth).RegisterRoutes(v1.Group("/auth"), throttle...)
	handler.NewUserHandler(svc.Users, paging).RegisterRoutes(v1.Group("/users"))
	handler.NewCategoryHandler(svc.Categories, paging).RegisterRoutes(v1.Group("/categories"))
	handler.NewGenreHandler(svc.Genres, paging).RegisterRoutes(v1.Group("/genres"))
	handler.NewTitleHandler(svc.Titles, paging).RegisterRoutes(v1.Group("/titles"))
	handler.NewReviewHandler(svc.Reviews, paging).RegisterRoutes(v1.Group("/titles/:title_id/reviews"))
	handler.NewCommentHandler(svc.Comments, paging).RegisterRoutes(v1.Group("/titles/:title_id/reviews/:review_id/comments"))

	return r
}

// corsConfig treats a "*" entry as allow-all; other entries are exact origins.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

func health(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				logging.Ctx(c.Request.Context()).Warn().Err(err).Msg("health check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
