package app

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/roominglist-verifier/internal/api"
	"github.com/nekogravitycat/roominglist-verifier/internal/auth"
	"github.com/nekogravitycat/roominglist-verifier/internal/dashboard"
	"github.com/nekogravitycat/roominglist-verifier/internal/evidence"
	"github.com/nekogravitycat/roominglist-verifier/internal/metrics"
	"github.com/nekogravitycat/roominglist-verifier/internal/pkg/storage"
	"github.com/nekogravitycat/roominglist-verifier/internal/store"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction     bool
	ProdOrigins      string
	Store            *store.Store
	JWTSecret        string
	JWTTTL           time.Duration
	InitialFilter    store.StatusSet
	FilterSessionTTL time.Duration
	Metrics          *metrics.Metrics
	Evidence         storage.Storage // optional
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
	Dashboard  dashboard.Service
	Metrics    *metrics.Metrics
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	// Init Components
	m := cfg.Metrics
	if m == nil {
		m = metrics.New()
	}
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// Dashboard Module
	dashboardService := dashboard.NewService(cfg.Store,
		dashboard.WithInitialFilter(cfg.InitialFilter),
		dashboard.WithSessionTTL(cfg.FilterSessionTTL),
		dashboard.WithSessionMetrics(m),
	)

	// Evidence Module
	var evidenceService evidence.Service
	if cfg.Evidence != nil {
		evidenceService = evidence.NewService(cfg.Evidence)
	}

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:     cfg.IsProduction,
		ProdOrigins:      cfg.ProdOrigins,
		DashboardService: dashboardService,
		EvidenceService:  evidenceService,
		JWTManager:       jwtManager,
		Metrics:          m,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		Dashboard:  dashboardService,
		Metrics:    m,
	}
}
