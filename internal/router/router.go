// Package router builds the echo instance and registers every route of the
// API.
package router

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/codewithtechno/techno-hub/internal/config"
	"github.com/codewithtechno/techno-hub/internal/gate"
	"github.com/codewithtechno/techno-hub/internal/handler"
	"github.com/codewithtechno/techno-hub/internal/middleware"
	"github.com/codewithtechno/techno-hub/internal/service"
)

// Services are the business operations the routes expose.
type Services struct {
	Auth          *service.AuthService
	Profiles      *service.ProfileService
	Sprints       *service.SprintService
	Events        *service.EventService
	Applications  *service.ApplicationService
	Registrations *service.RegistrationService
	Admin         *service.AdminService
	Uploads       *service.UploadService
}

// Deps is everything New needs.  Redis may be nil, in which case the cache
// and the rate limiter are disabled.  UploadDir, when set, is served at
// /uploads for the local storage backend.
type Deps struct {
	Log         zerolog.Logger
	JWTSecret   string
	CORSOrigins []string
	DB          handler.Pinger
	Redis       *redis.Client
	Cache       config.CacheConfig
	RateLimit   config.RateLimitConfig
	UploadDir   string
	Services    Services
}

// New returns a configured echo instance with all routes registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler(d.Log)

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	var reload middleware.IdentityReloader
	if d.Services.Auth != nil {
		reload = d.Services.Auth
	}
	e.Use(
		echomw.Recover(),
		echomw.RequestID(),
		middleware.RequestLogger(d.Log),
		echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderXRequestID},
		}),
		middleware.Authenticate(d.JWTSecret, reload),
	)
	if d.UploadDir != "" {
		e.Static("/uploads", d.UploadDir)
	}

	s := d.Services
	catalog := handler.NewCatalogHandler(s.Sprints, s.Events)
	RegisterRoutes(e, d.DB)
	RegisterAuth(e, handler.NewAuthHandler(s.Auth), middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log))
	RegisterPublic(e, catalog, middleware.NewRedisCache(d.Cache, d.Redis, d.Log))
	RegisterMember(e, handler.NewMemberHandler(s.Profiles, s.Applications, s.Registrations))

	var maxUpload int64 = 5 << 20
	if s.Uploads != nil {
		maxUpload = s.Uploads.MaxBytes()
	}
	RegisterAdmin(e, AdminRoutes{
		Catalog:   catalog,
		Admin:     handler.NewAdminHandler(s.Applications, s.Registrations, s.Admin, s.Uploads),
		Purge:     middleware.PurgeOnWrite(d.Cache, d.Redis, d.Log),
		BodyLimit: echomw.BodyLimit(fmt.Sprintf("%dK", maxUpload/1024+512)),
	})
	return e
}

// RegisterRoutes registers the routes that need no identity: the health
// check and the page gate.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
	e.GET("/v1/access", handler.Access)
}

// RegisterAuth registers the account endpoints under /v1/auth.  The token
// bucket applies to the whole group.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limit)
	g.POST("/signup", a.SignUp)
	g.POST("/signin", a.SignIn)
	g.POST("/refresh", a.Refresh)
	g.POST("/signout", a.SignOut)

	e.GET("/v1/auth/me", a.Me, middleware.Guard(gate.Member))
}

// RegisterPublic registers the catalog reads.  They are open to guests and
// served through the response cache.
func RegisterPublic(e *echo.Echo, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/sprints", h.ListSprints, cache)
	e.GET("/v1/sprints/:id", h.GetSprint, cache)
	e.GET("/v1/events", h.ListEvents, cache)
	e.GET("/v1/events/:id", h.GetEvent, cache)
}
