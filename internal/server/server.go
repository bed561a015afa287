// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/EnzoConsoli/Gastronauta-V2/internal/cache"
	"github.com/EnzoConsoli/Gastronauta-V2/internal/config"
	"github.com/EnzoConsoli/Gastronauta-V2/internal/database"
	"github.com/EnzoConsoli/Gastronauta-V2/internal/mail"
	"github.com/EnzoConsoli/Gastronauta-V2/internal/middleware"
	"github.com/EnzoConsoli/Gastronauta-V2/internal/models"
	"github.com/EnzoConsoli/Gastronauta-V2/internal/repository"
	"github.com/EnzoConsoli/Gastronauta-V2/internal/service"
	"github.com/EnzoConsoli/Gastronauta-V2/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	tokenIssuer   = "gastronauta-api"
	tokenAudience = "gastronauta-client"
	tokenTTL      = 8 * time.Hour
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo   repository.UserRepository
	recipeRepo repository.RecipeRepository
	ratingRepo repository.RatingRepository
	followRepo repository.FollowRepository
	tagRepo    repository.TagRepository

	mailer  mail.Mailer
	cleaner *storage.Cleaner

	recipeService *service.RecipeService
	ratingService *service.RatingService
	userService   *service.UserService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient, mail.NewSMTPMailer(cfg))
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis first.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, mailer mail.Mailer) (*Server, error) {
	middleware.InitMiddleware(cfg)

	userRepo := repository.NewUserRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	followRepo := repository.NewFollowRepository(db)
	tagRepo := repository.NewTagRepository(db)

	prom := middleware.InitMetrics("gastronauta-api")

	// One cleaner serves both upload directories; jobs carry the stored URL
	// path and are resolved through these mounts.
	cleaner := storage.NewCleaner(map[string]string{
		"/uploads":           cfg.UploadDir,
		"/api/users/avatars": cfg.AvatarDir,
	})

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		recipeRepo:     recipeRepo,
		ratingRepo:     ratingRepo,
		followRepo:     followRepo,
		tagRepo:        tagRepo,
		mailer:         mailer,
		cleaner:        cleaner,
	}

	server.recipeService = service.NewRecipeService(recipeRepo, tagRepo, cleaner)
	server.ratingService = service.NewRatingService(ratingRepo, recipeRepo)
	server.userService = service.NewUserService(userRepo, followRepo, recipeRepo, cleaner)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter) so
	// browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
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
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Gastronauta Metrics Dashboard",
	}))

	// Uploaded images are served statically.
	app.Static("/uploads", s.config.UploadDir)
	app.Static("/api/users/avatars", s.config.AvatarDir)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/forgot-password", middleware.RateLimit(
		s.redis, 3, 15*time.Minute, "forgot_password"), s.ForgotPassword)
	auth.Post("/verify-reset-code", middleware.RateLimit(
		s.redis, 10, 15*time.Minute, "verify_reset_code"), s.VerifyResetCode)
	auth.Post("/reset-password", s.ResetPassword)
	auth.Delete("/account", s.AuthRequired(), s.DeleteAccount)

	// Public recipe routes (browse/search)
	publicRecipes := api.Group("/recipes")
	publicRecipes.Get("/", s.GetFeed)
	publicRecipes.Get("/search", middleware.RateLimit(
		s.redis, 10, time.Minute, "search"), s.SearchRecipes)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	recipes := protected.Group("/recipes")
	recipes.Post("/", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_recipe"), s.CreateRecipe)
	recipes.Get("/my", s.GetMyRecipes)
	recipes.Get("/liked", s.GetLikedRecipes)
	// Specific /:id/:resource routes BEFORE the generic /:id route
	recipes.Post("/:id/like", s.ToggleLike)
	recipes.Post("/:id/avaliar", middleware.RateLimit(
		s.redis, 10, time.Minute, "rate_recipe"), s.RateRecipe)
	recipes.Put("/:id", s.UpdateRecipe)
	recipes.Delete("/:id", s.DeleteRecipe)

	// Rating detail listing is public; reading reviews needs no account.
	publicRecipes.Get("/:id/avaliacoes", s.GetRatings)
	publicRecipes.Get("/user/:id", s.GetUserRecipes)
	publicRecipes.Get("/:id", s.GetRecipe)

	ratings := protected.Group("/ratings")
	ratings.Post("/:id/react", s.ReactToRating)
	ratings.Post("/:id/responder", middleware.RateLimit(
		s.redis, 10, time.Minute, "reply_rating"), s.ReplyToRating)
	ratings.Delete("/:id", s.DeleteRating)

	replies := protected.Group("/replies")
	replies.Delete("/:id", s.DeleteReply)

	// User routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMe)
	users.Put("/me", s.UpdateMyProfile)
	users.Post("/me/avatar", s.UploadAvatar)
	users.Delete("/me/avatar", s.DeleteAvatar)
	users.Post("/:id/follow", s.FollowUser)
	users.Delete("/:id/follow", s.UnfollowUser)

	publicUsers := api.Group("/users")
	publicUsers.Get("/:id/followers", s.GetFollowers)
	publicUsers.Get("/:id/following", s.GetFollowing)
	publicUsers.Get("/:id", s.GetUserProfile)

	// Tag catalog
	api.Get("/tags", s.GetTags)
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

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The cache degrades gracefully, so missing Redis does not fail
		// readiness.
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

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return middleware.AuthRequired
}

// optionalUserID attempts to extract userID from the Authorization header but
// does not enforce it.
func (s *Server) optionalUserID(c *fiber.Ctx) (uint, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false
	}

	userID, err := middleware.ParseUserID(parts[1])
	if err != nil {
		return 0, false
	}
	return userID, true
}

// generateToken creates a JWT token for the given user ID and username
func (s *Server) generateToken(userID uint, username string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      tokenIssuer,
		"aud":      tokenAudience,
		"exp":      now.Add(tokenTTL).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      s.generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func (s *Server) generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName:   "Gastronauta API",
		BodyLimit: storage.MaxUploadSizeBytes + 1<<20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	// Background removal of replaced or orphaned upload files.
	if s.cleaner != nil {
		s.cleaner.Start(ctx)
	}

	middleware.Logger.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
