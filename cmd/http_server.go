package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/community-ops/internal"
	"github.com/frahmantamala/community-ops/internal/accesscontrol"
	"github.com/frahmantamala/community-ops/internal/community"
	communityPostgres "github.com/frahmantamala/community-ops/internal/community/postgres"
	"github.com/frahmantamala/community-ops/internal/core/events"
	"github.com/frahmantamala/community-ops/internal/dashboard"
	dashboardPostgres "github.com/frahmantamala/community-ops/internal/dashboard/postgres"
	"github.com/frahmantamala/community-ops/internal/report"
	reportPostgres "github.com/frahmantamala/community-ops/internal/report/postgres"
	"github.com/frahmantamala/community-ops/internal/session"
	sessionPostgres "github.com/frahmantamala/community-ops/internal/session/postgres"
	"github.com/frahmantamala/community-ops/internal/transport"
	"github.com/frahmantamala/community-ops/internal/transport/rest"
	"github.com/frahmantamala/community-ops/internal/transport/swagger"
	"github.com/frahmantamala/community-ops/internal/visibility"
	"github.com/frahmantamala/community-ops/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle dashboard API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	lg := deps.Logger
	cfg := deps.Config

	bus := events.NewEventBus(lg)
	events.RegisterAuditLogger(bus, lg)

	resolver := accesscontrol.NewResolver(lg)
	gate := visibility.NewGate(resolver, cfg.Dashboard.AdminContactEmail, lg)

	communityRepo := communityPostgres.NewCommunityRepository(deps.Gorm)
	communityService := community.NewService(communityRepo, resolver, lg)

	accessService := accesscontrol.NewService(resolver, communityService, lg)

	userRepo := sessionPostgres.NewUserRepository(deps.Gorm, lg)
	tokens := session.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	provider := session.NewProvider()
	sessionService := session.NewService(userRepo, tokens, provider, cfg.Dashboard.DemoMode, lg)

	reportRepo := reportPostgres.NewReportRepository(deps.Gorm)
	reportService := report.NewService(reportRepo, bus, lg)

	snapshotRepo := dashboardPostgres.NewSnapshotRepository(deps.Gorm)
	dashboardService := dashboard.NewService(snapshotRepo, gate, accessService, lg)

	base := transport.NewBaseHandler(lg)
	handlers := rest.Handlers{
		Session:       session.NewHandler(base, sessionService, cfg.Dashboard.DemoMode),
		AccessControl: rest.NewAccessControlHandler(base, accessService),
		Visibility:    visibility.NewHandler(base, gate, bus),
		Community:     community.NewHandler(base, communityService),
		Report:        report.NewHandler(base, reportService),
		Dashboard:     dashboard.NewHandler(base, dashboardService),
		VisibilityMW:  visibility.NewMiddleware(gate, lg),
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, handlers, lg)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	// A broken OpenAPI document should be noisy at boot, not at first use of
	// the swagger UI.
	if err := swagger.ValidateSpec(context.Background(), "./api/openapi.yml"); err != nil {
		slog.Warn("OpenAPI spec validation failed", "error", err)
	}

	return &Dependencies{
		Config: config,
		Logger: logger.L(),
		DB:     db,
		Gorm:   gormDB,
		Router: chi.NewRouter(),
	}, nil
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers the ORM over the already-verified pgx pool so both layers
// share one set of connections.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
}
