package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/listings/internal/domain"
	"github.com/persistorai/listings/internal/middleware"
	"github.com/persistorai/listings/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log           *logrus.Logger
	Properties    domain.PropertyService
	Store         Pinger
	CORSOrigins   []string
	Version       string
	Driver        string
	SchemaVersion int
	RateLimit     int // requests per second per IP; 0 disables limiting
	RateBurst     int
	Feed          *ws.Hub // nil disables the change feed
	// FeedContext bounds feed connections. It should outlive the hub drain so
	// clients receive the shutdown frame. Defaults to the router context.
	FeedContext context.Context
}

// maxBodySize caps request bodies.
const maxBodySize = 1 << 20 // 1 MB

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))

	if len(deps.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			MaxAge:           1 * time.Hour,
			AllowCredentials: false,
		}))
	}

	if deps.RateLimit > 0 {
		r.Use(middleware.NewRateLimiter(ctx, deps.RateLimit, deps.RateBurst).Handler())
	}

	r.Use(middleware.PrometheusMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	health := NewHealthHandler(deps.Store, deps.Log, deps.Version, deps.Driver, deps.SchemaVersion)
	props := NewPropertyHandler(deps.Properties, deps.Log)

	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	api.GET("/properties", props.List)
	api.POST("/properties", props.Create)
	api.GET("/properties/:id", props.Get)
	api.PUT("/properties/:id", props.Update)
	api.PATCH("/properties/:id", props.Update)
	api.GET("/properties/:id/changes", props.Changes)

	if deps.Feed != nil {
		feedCtx := deps.FeedContext
		if feedCtx == nil {
			feedCtx = ctx
		}
		api.GET("/changes/feed", feedHandler(feedCtx, deps.Log, deps.Feed, deps.CORSOrigins))
	}
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r.Group("/api/v1"), deps)

	return r
}
