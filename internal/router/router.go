package router // package router wires middleware and handlers onto echo

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/iliyamo/restaurante/internal/config"
	"github.com/iliyamo/restaurante/internal/handler"
	"github.com/iliyamo/restaurante/internal/middleware"
	"github.com/iliyamo/restaurante/internal/repository"
	queue_publisher "github.com/iliyamo/restaurante/internal/service"
)

// Deps is everything the routes need. Redis and Events may be nil.
type Deps struct {
	Cfg       config.Config
	RateLimit config.RateLimitConfig
	DB        *sql.DB
	Redis     *redis.Client
	Events    queue_publisher.Publisher
	Logger    *slog.Logger
}

// New returns the API as an http.Handler with CORS applied.
func New(d Deps) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   d.Cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", echo.HeaderXRequestID},
		ExposedHeaders:   []string{echo.HeaderXRequestID, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: false,
	})
	return c.Handler(NewEcho(d))
}

// NewEcho builds the echo instance with every route registered.
func NewEcho(d Deps) *echo.Echo {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.AccessLog(d.Logger))

	RegisterRoutes(e, d.DB)

	tokens := repository.NewTokenRepo(d.DB)
	auth := middleware.JWTAuth(d.Cfg.JWTSecret, tokens, d.Logger)
	limit := middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Logger)

	RegisterAuth(e, handler.NewAuthHandler(d.Cfg, repository.NewUserRepo(d.DB), tokens), auth, limit)

	// the limiter runs after auth so user based keys see the identity
	api := e.Group("/api")
	if d.Cfg.AuthRequired {
		api.Use(auth)
	}
	api.Use(limit)
	RegisterAPI(api, handler.New(d.Cfg, d.DB, d.Events, d.Logger))
	return e
}

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth mounts register/login and the token-protected me/logout.
// me and logout always verify the token since they act on its identity.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, auth, limit echo.MiddlewareFunc) {
	g := e.Group("/api")
	g.POST("/register", a.Register, limit)
	g.POST("/login", a.Login, limit)
	g.GET("/me", a.Me, auth, limit)
	g.POST("/logout", a.Logout, auth, limit)
}
