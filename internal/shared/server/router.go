package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docshare-backend/internal/services/health"
	"docshare-backend/internal/shared/config"
	"docshare-backend/internal/shared/metrics"
	"docshare-backend/internal/shared/server/middleware"
	"docshare-backend/internal/shared/server/respond"
)

const publicShareGroup = "PUBLIC_SHARE"

// RouteRegistrar is implemented by every feature handler.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// PublicRouteRegistrar is implemented by handlers that also serve anonymous routes.
type PublicRouteRegistrar interface {
	RegisterPublicRoutes(rg *gin.RouterGroup)
}

// RouterDeps lists the handlers mounted on the API.
type RouterDeps struct {
	Config config.Config
	// Public routes need no identity at all.
	Public []RouteRegistrar
	// Identified routes accept guests and signed-in users.
	Identified []RouteRegistrar
	// Owner routes require a signed-in user.
	Owner []RouteRegistrar
	// Shares serves the anonymous, rate limited token routes.
	Shares PublicRouteRegistrar
	// Limiter is shared across requests; nil builds a fresh one.
	Limiter *middleware.RateLimiter
	Health  *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Identity(),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}
	api.GET("/health", func(c *gin.Context) {
		report := healthSvc.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})
	registerSessionRoutes(api)

	for _, h := range deps.Public {
		h.RegisterRoutes(api)
	}

	if deps.Shares != nil {
		public := api.Group("")
		public.Use(middleware.RateLimit(middleware.RateLimitConfig{
			DefaultGroup: publicShareGroup,
			Limiter:      deps.Limiter,
			Rules: map[string]middleware.RateLimitRule{
				publicShareGroup: {Rate: deps.Config.ShareResolveRate, Burst: deps.Config.ShareResolveBurst},
			},
		}))
		deps.Shares.RegisterPublicRoutes(public)
	}

	identified := api.Group("")
	identified.Use(middleware.RequireIdentity())
	for _, h := range deps.Identified {
		h.RegisterRoutes(identified)
	}

	owner := api.Group("")
	owner.Use(middleware.RequireUser())
	for _, h := range deps.Owner {
		h.RegisterRoutes(owner)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
