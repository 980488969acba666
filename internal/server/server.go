// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"campus/internal/cache"
	"campus/internal/config"
	"campus/internal/database"
	"campus/internal/middleware"
	"campus/internal/moderation"
	"campus/internal/notifications"
	"campus/internal/repository"
	"campus/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus

	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	engagementRepo repository.EngagementRepository
	reviewRepo     repository.ReviewRepository

	moderator *moderation.Service
	notifier  *notifications.Notifier

	postService       *service.PostService
	engagementService *service.EngagementService
	reviewService     *service.ReviewService
	feedService       *service.FeedService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("campus-api"),
		postRepo:       repository.NewPostRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		engagementRepo: repository.NewEngagementRepository(db),
		reviewRepo:     repository.NewReviewRepository(db),
	}

	lex := moderation.NewLexicon(moderation.LexiconWords{
		Blocklist: config.SplitList(cfg.BlocklistExtra),
		Emergency: config.SplitList(cfg.EmergencyExtra),
	})
	server.moderator = moderation.NewService(
		lex,
		moderation.DefaultChain(cfg.ClassifierURL, cfg.ClassifierTimeout(), lex),
		cfg.AutoApproveTeachers,
		cfg.ClassifierTimeout(),
	)

	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
	}

	server.postService = service.NewPostService(
		server.postRepo, server.reviewRepo, server.engagementRepo,
		server.moderator, server.notifier)
	server.engagementService = service.NewEngagementService(
		server.postRepo, server.commentRepo, server.engagementRepo,
		server.moderator, server.notifier)
	server.reviewService = service.NewReviewService(
		server.postRepo, server.reviewRepo, server.notifier)
	server.feedService = service.NewFeedService(
		server.postRepo, cfg.TrendingWindowDays)

	middleware.InitMiddleware(cfg)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// Distributed tracing
	app.Use(middleware.TracingMiddleware())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Public browse routes
	api.Get("/trending", s.GetTrending)

	posts := api.Group("/posts")
	posts.Post("/", middleware.RequireIdentity,
		middleware.DailyPostCap(s.redis, s.config.DailyPostCap),
		middleware.RateLimit(s.redis, 5, time.Minute, "create_post"),
		s.CreatePost)
	// Specific /:id/:resource routes BEFORE generic /:id route
	posts.Get("/:id/comments", middleware.OptionalIdentity, s.GetComments)
	posts.Post("/:id/comments", middleware.RequireIdentity,
		middleware.RateLimit(s.redis, 15, time.Minute, "create_comment"),
		s.CreateComment)
	posts.Post("/:id/like", middleware.RequireIdentity, s.ToggleLike)
	posts.Put("/:id", middleware.RequireIdentity, s.UpdatePost)
	posts.Delete("/:id", middleware.RequireIdentity, s.DeletePost)
	// Generic lookup accepts a numeric ID or a permalink
	posts.Get("/:idOrPermalink", middleware.OptionalIdentity, s.GetPost)

	api.Get("/feed", middleware.RequireIdentity, s.GetFeed)

	review := api.Group("/review", middleware.RequireIdentity, middleware.RequireReviewer)
	review.Get("/", s.GetReviewQueue)
	review.Post("/:postId", s.ResolveReview)
}

// Shutdown releases server-held resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis is optional; trending and notifications degrade without it.
	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":  overallStatus,
		"version": "1.0.0",
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}
