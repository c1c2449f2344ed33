package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cost-estimator/internal/projects"
	"cost-estimator/internal/services/health"
	"cost-estimator/internal/shared/config"
	"cost-estimator/internal/shared/metrics"
	"cost-estimator/internal/shared/server/middleware"
	"cost-estimator/internal/shared/server/respond"
)

// RouterDeps carries the handlers mounted by NewRouter.
type RouterDeps struct {
	Config          config.Config
	ProjectsHandler *projects.Handler
	Health          *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		status := deps.Health.Status(c.Request.Context())
		code := http.StatusOK
		if !status.Success {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})

	if deps.ProjectsHandler != nil {
		// Legacy clients post straight to the root path.
		deps.ProjectsHandler.RegisterIntake(r)
		deps.ProjectsHandler.RegisterRoutes(api)
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
