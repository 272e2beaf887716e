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

	"github.com/frahmantamala/incident-management/internal"
	"github.com/frahmantamala/incident-management/internal/auth"
	authPostgres "github.com/frahmantamala/incident-management/internal/auth/postgres"
	"github.com/frahmantamala/incident-management/internal/core/events"
	"github.com/frahmantamala/incident-management/internal/document"
	"github.com/frahmantamala/incident-management/internal/incident"
	incidentPostgres "github.com/frahmantamala/incident-management/internal/incident/postgres"
	"github.com/frahmantamala/incident-management/internal/lessons"
	lessonsPostgres "github.com/frahmantamala/incident-management/internal/lessons/postgres"
	"github.com/frahmantamala/incident-management/internal/notification"
	"github.com/frahmantamala/incident-management/internal/observation"
	observationPostgres "github.com/frahmantamala/incident-management/internal/observation/postgres"
	"github.com/frahmantamala/incident-management/internal/transport/rest"
	"github.com/frahmantamala/incident-management/internal/useraccess"
	"github.com/frahmantamala/incident-management/internal/useraccess/dynamo"
	useraccessPostgres "github.com/frahmantamala/incident-management/internal/useraccess/postgres"
	"github.com/frahmantamala/incident-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
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
	GormDB   *gorm.DB
	Router   *chi.Mux
	Logger   *slog.Logger
	Mailer   *notification.Mailer
	Handlers rest.Handlers
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Handlers, deps.Config.Server.AllowedOrigins, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
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
		if deps.Mailer != nil {
			deps.Mailer.Shutdown()
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

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"), config.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	db, gormDB, err := initDB(config.Database, config.Database.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	ctx := context.Background()

	// Access resolution: ordered store chain, permissions hydrated by role.
	stores := []useraccess.Store{
		useraccessPostgres.NewUserAccessStore(gormDB, "postgres:primary"),
	}
	permStores := []useraccess.PermissionStore{
		useraccessPostgres.NewRolePermissionStore(gormDB, "postgres:primary"),
	}

	if config.Database.CallerSource != "" {
		_, callerGorm, err := initDB(config.Database, config.Database.CallerSource)
		if err != nil {
			lg.Warn("caller-credential store unavailable, tier skipped", "error", err)
		} else {
			stores = append(stores, useraccessPostgres.NewUserAccessStore(callerGorm, "postgres:caller"))
			permStores = append(permStores, useraccessPostgres.NewRolePermissionStore(callerGorm, "postgres:caller"))
		}
	}

	if config.Access.DynamoEnabled {
		dynamoStore, err := dynamo.NewStore(ctx, dynamo.Config{
			Region:              config.Access.Region,
			Endpoint:            config.Access.Endpoint,
			AccessKey:           config.Access.AccessKey,
			SecretKey:           config.Access.SecretKey,
			UserAccessTable:     config.Access.UserAccessTable,
			RolePermissionTable: config.Access.RolePermissionTable,
		}, lg)
		if err != nil {
			lg.Warn("dynamo fallback store unavailable, tier skipped", "error", err)
		} else {
			stores = append(stores, dynamoStore)
			permStores = append(permStores, dynamoStore)
		}
	}

	resolver := useraccess.NewResolver(stores, useraccess.NewPermissionChain(permStores...), lg)
	sessionCache := useraccess.NewSessionCache(resolver, lg)
	gate := useraccess.NewGate(lg)

	eventBus := events.NewEventBus(lg)

	var mailer *notification.Mailer
	if config.Mail.Enabled {
		mailer = notification.NewMailer(notification.Config{
			SMTPHost:   config.Mail.SMTPHost,
			SMTPPort:   config.Mail.SMTPPort,
			Username:   config.Mail.Username,
			Password:   config.Mail.Password,
			From:       config.Mail.From,
			SafetyTeam: config.Mail.SafetyTeam,
			Workers:    config.Mail.Workers,
		}, lg)
		notification.NewEventHandler(mailer, lg).RegisterHandlers(eventBus)
	}

	// Services
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(gormDB), tokenGen, config.Security.BCryptCost)

	incidentService := incident.NewService(incidentPostgres.NewIncidentRepository(gormDB), gate, eventBus, lg)
	observationService := observation.NewService(observationPostgres.NewObservationRepository(gormDB), gate, lg)
	lessonsService := lessons.NewService(lessonsPostgres.NewLessonRepository(gormDB), gate, eventBus, lg)
	lessons.NewEventHandler(lessonsService, lg).RegisterHandlers(eventBus)

	handlers := rest.Handlers{
		Auth:        auth.NewHandler(authService, sessionCache),
		UserAccess:  useraccess.NewHandler(resolver),
		Incident:    incident.NewHandler(incidentService),
		Observation: observation.NewHandler(observationService),
		Lessons:     lessons.NewHandler(lessonsService),
	}

	if config.Storage.Enabled {
		storage, err := document.NewStorage(ctx, document.Config{
			Region:       config.Storage.Region,
			Endpoint:     config.Storage.Endpoint,
			AccessKey:    config.Storage.AccessKey,
			SecretKey:    config.Storage.SecretKey,
			Bucket:       config.Storage.Bucket,
			UsePathStyle: config.Storage.UsePathStyle,
			PresignTTL:   config.Storage.PresignTTL,
		}, lg)
		if err != nil {
			lg.Warn("document storage unavailable, attachment routes disabled", "error", err)
		} else {
			handlers.Document = document.NewHandler(storage)
		}
	}

	return &Dependencies{
		Config:   config,
		Logger:   lg,
		DB:       db,
		GormDB:   gormDB,
		Router:   chi.NewRouter(),
		Mailer:   mailer,
		Handlers: handlers,
	}, nil
}

// initDB opens the connection through the pgx stdlib driver and hands the
// pooled *sql.DB to GORM, so both layers share one pool.
func initDB(cfg internal.DatabaseConfig, source string) (*sqlx.DB, *gorm.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: dbConn.DB}), &gorm.Config{})
	if err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}

	return dbConn, gormDB, nil
}
