package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/roominglist-verifier/internal/auth"
	"github.com/nekogravitycat/roominglist-verifier/internal/dashboard"
	dashboardHttp "github.com/nekogravitycat/roominglist-verifier/internal/dashboard/http"
	"github.com/nekogravitycat/roominglist-verifier/internal/evidence"
	evidenceHttp "github.com/nekogravitycat/roominglist-verifier/internal/evidence/http"
	"github.com/nekogravitycat/roominglist-verifier/internal/logging"
	"github.com/nekogravitycat/roominglist-verifier/internal/metrics"
)

// Config holds what the router needs from the application container.
type Config struct {
	IsProduction     bool
	ProdOrigins      string
	DashboardService dashboard.Service
	EvidenceService  evidence.Service // nil disables /v1/evidence
	JWTManager       *auth.JWTManager // nil leaves /v1 open
	Metrics          *metrics.Metrics
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (Logger, CORS, Metrics, Auth) and registering routes.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information through zerolog.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(logging.GinLogger(auth.GetClient), gin.Recovery())
	r.Use(corsMiddleware(cfg.IsProduction, cfg.ProdOrigins))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	dashboardHandler := dashboardHttp.NewHandler(cfg.DashboardService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		dashboardHttp.RegisterRoutes(v1, dashboardHandler, authMiddleware)
		if cfg.EvidenceService != nil {
			evidenceHttp.RegisterRoutes(v1, evidenceHttp.NewHandler(cfg.EvidenceService), authMiddleware)
		}
	}

	return r
}
