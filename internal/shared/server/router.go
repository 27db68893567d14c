package server

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-report/internal/analysis"
	"resume-report/internal/backend"
	"resume-report/internal/history"
	"resume-report/internal/reports"
	"resume-report/internal/shared/config"
	"resume-report/internal/shared/metrics"
	"resume-report/internal/shared/server/middleware"
	"resume-report/internal/shared/server/respond"
	"resume-report/internal/shared/storage/db"
	"resume-report/internal/shared/telemetry"
	"resume-report/internal/submission"
)

const (
	rateGroupDefault = "DEFAULT"
	rateGroupSubmit  = "SUBMIT"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
	)
	// Probes and scrapes bypass auth and rate limits.
	r.GET("/metrics", metrics.Handler())
	r.GET("/api/v1/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	r.Use(
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.APIKeyAuth(cfg.APIKeys),
		middleware.RateLimit(rateLimitConfig(cfg.RateLimit)),
	)

	// Dependencies
	histRepo := historyRepo(cfg)
	histSvc := &history.Service{Repo: histRepo}
	reportSvc := &reports.Service{
		Adapter: analysis.Adapter{},
		History: histSvc,
	}
	if client, err := backend.New(backend.OptionsFromConfig(cfg.Backend)); err != nil {
		telemetry.Warn("backend.disabled", map[string]any{"error": err})
	} else {
		reportSvc.Remote = client
	}

	api := r.Group("/api/v1")
	reports.NewHandler(reportSvc, submission.NewValidator(cfg.Submission)).RegisterRoutes(api)
	history.NewHandler(histSvc).RegisterRoutes(api)

	return r
}

func historyRepo(cfg config.Config) history.Repo {
	if cfg.DatabaseURL == "" {
		return history.NewMemoryRepo()
	}
	ctx := context.Background()
	var sqlDB *sql.DB
	dbConn, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		telemetry.Error("db.connect_failed", map[string]any{"error": err, "fallback": "memory"})
	} else if err := db.RunMigrations(ctx, dbConn); err != nil {
		telemetry.Error("db.migrate_failed", map[string]any{"error": err, "fallback": "memory"})
		_ = dbConn.Close()
	} else {
		sqlDB = dbConn
	}
	if sqlDB == nil {
		return history.NewMemoryRepo()
	}
	return &history.PGRepo{DB: sqlDB}
}

func rateLimitConfig(cfg config.RateLimitConfig) middleware.RateLimitConfig {
	submitBurst := cfg.Burst / 4
	if submitBurst < 1 {
		submitBurst = 1
	}
	return middleware.RateLimitConfig{
		DefaultGroup: rateGroupDefault,
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/analyses" {
				return rateGroupSubmit
			}
			return rateGroupDefault
		},
		Rules: map[string]middleware.RateLimitRule{
			rateGroupDefault: {Rate: cfg.Rate, Burst: cfg.Burst},
			rateGroupSubmit:  {Rate: cfg.Rate / 4, Burst: submitBurst},
		},
	}
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
