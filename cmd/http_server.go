package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/acfortier/garage-backoffice/internal"
	"github.com/acfortier/garage-backoffice/internal/appointment"
	"github.com/acfortier/garage-backoffice/internal/auth"
	"github.com/acfortier/garage-backoffice/internal/core/events"
	"github.com/acfortier/garage-backoffice/internal/dashboard"
	"github.com/acfortier/garage-backoffice/internal/notify"
	"github.com/acfortier/garage-backoffice/internal/partner"
	"github.com/acfortier/garage-backoffice/internal/recruitment"
	"github.com/acfortier/garage-backoffice/internal/review"
	"github.com/acfortier/garage-backoffice/internal/storage"
	"github.com/acfortier/garage-backoffice/internal/team"
	"github.com/acfortier/garage-backoffice/internal/transport/rest"
	"github.com/acfortier/garage-backoffice/internal/user"
	"github.com/acfortier/garage-backoffice/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Store    *storage.Store
	Bus      *events.EventBus
	Notifier *notify.Notifier
	Router   *chi.Mux
	Handlers rest.Handlers
	Logger   *slog.Logger
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

	// Signal handling for graceful shutdown
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
		deps.Notifier.Shutdown()
		if deps.DB != nil {
			if err := deps.DB.Close(); err != nil {
				slog.Error("Database close error", "error", err)
			}
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
	var sqlDB *sql.DB
	if deps.DB != nil {
		sqlDB = deps.DB.DB
	}
	rest.RegisterAllRoutes(deps.Router, sqlDB, deps.Handlers, deps.Logger)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	local, err := storage.NewSQLiteKV(config.LocalStore.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	var db *sqlx.DB
	var remote storage.Remote
	if config.Remote.Configured() {
		db, err = initDB(config.Remote)
		if err != nil {
			// The original keeps working on the local store when the backend
			// is unreachable; the service does the same.
			lg.Warn("remote store unreachable, running local-only", "error", err)
			db = nil
		} else {
			gormDB, gerr := gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
				Logger: gormlogger.Default.LogMode(gormlogger.Warn),
			})
			if gerr != nil {
				return nil, fmt.Errorf("failed to initialize orm: %w", gerr)
			}
			remote = storage.NewGormRemote(gormDB)
		}
	} else {
		lg.Info("remote store not configured, running local-only")
	}

	bus := events.NewEventBus(lg)
	store := storage.NewStore(remote, local, bus, lg)
	store.Load(context.Background())

	notifier := notify.NewNotifier(notify.Config{
		WebhookURL: config.Notifier.DiscordWebhookURL,
		Timeout:    config.Notifier.Timeout,
	}, lg)
	notifier.Register(bus)

	tokens := auth.NewJWTTokenGenerator(
		config.Security.JWTAccessSecret,
		config.Security.JWTRefreshSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)

	authService := auth.NewService(store, tokens, config.Security.EmployeePassword, lg)
	authService.RestoreSession()

	userService := user.NewService(store, lg)
	recruitmentService := recruitment.NewService(store, lg)
	reviewService := review.NewService(store, lg)
	appointmentService := appointment.NewService(store, lg)
	teamService := team.NewService(store, lg)
	partnerService := partner.NewService(store, lg)
	dashboardService := dashboard.NewService(store, lg)

	handlers := rest.Handlers{
		Auth:        auth.NewHandler(authService),
		User:        user.NewHandler(userService, authService),
		Recruitment: recruitment.NewHandler(recruitmentService),
		Review:      review.NewHandler(reviewService),
		Appointment: appointment.NewHandler(appointmentService),
		Team:        team.NewHandler(teamService),
		Partner:     partner.NewHandler(partnerService),
		Dashboard:   dashboard.NewHandler(dashboardService),
	}

	return &Dependencies{
		Config:   config,
		DB:       db,
		Store:    store,
		Bus:      bus,
		Notifier: notifier,
		Router:   chi.NewRouter(),
		Handlers: handlers,
		Logger:   lg,
	}, nil
}

// initDB initializes the remote database connection pool
func initDB(cfg internal.RemoteStoreConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
