package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/accounthub/user-service/docs"
	"github.com/accounthub/user-service/internal/api/handler"
	"github.com/accounthub/user-service/internal/api/middleware"
	"github.com/accounthub/user-service/internal/core/domain"
	"github.com/accounthub/user-service/internal/core/service"
	"github.com/accounthub/user-service/internal/infrastructure/auth"
	"github.com/accounthub/user-service/internal/infrastructure/config"
	mongodb "github.com/accounthub/user-service/internal/infrastructure/db/mongo"
	redisdb "github.com/accounthub/user-service/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("accounts"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	sessions := redisdb.NewSessionStore(rdb)
	tokens := auth.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, sessions)

	authService := service.NewAuthService(userRepo, auth.NewBcryptHasher(), tokens, log)
	userService := service.NewUserService(userRepo, auth.NewUUIDGenerator(), log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	authMiddleware := middleware.Auth(cfg.JWTSecret)

	// --- Auth routes (no token required) ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)

	// --- User routes ---
	v1 := e.Group("/v1", authMiddleware)
	v1.GET("/users", userHandler.List, middleware.RBAC(domain.RoleAdmin))
	v1.POST("/users", authHandler.CreateUser, middleware.RBAC(domain.RoleAdmin))
	v1.POST("/users/:id/verify-email", userHandler.VerifyEmail, middleware.RBAC(domain.RoleAdmin))
	v1.GET("/users/search", userHandler.Search)
	v1.GET("/users/me", userHandler.Me)
	v1.GET("/users/:id", userHandler.Get)
	v1.PATCH("/users/:id", userHandler.Update)
	v1.DELETE("/users/:id", userHandler.Delete)
	v1.POST("/users/:id/addresses", userHandler.AddAddress)
	v1.PUT("/users/:id/addresses/:addressID/default", userHandler.SetDefaultAddress)
	v1.DELETE("/users/:id/addresses/:addressID", userHandler.RemoveAddress)
	v1.POST("/users/:id/social-accounts", userHandler.LinkSocial)
	v1.DELETE("/users/:id/social-accounts/:provider", userHandler.UnlinkSocial)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
