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

	"github.com/symplora/leave-management/api"
	"github.com/symplora/leave-management/internal"
	"github.com/symplora/leave-management/internal/auth"
	authpg "github.com/symplora/leave-management/internal/auth/postgres"
	"github.com/symplora/leave-management/internal/employee"
	employeepg "github.com/symplora/leave-management/internal/employee/postgres"
	"github.com/symplora/leave-management/internal/leave"
	leavepg "github.com/symplora/leave-management/internal/leave/postgres"
	"github.com/symplora/leave-management/internal/policy"
	policypg "github.com/symplora/leave-management/internal/policy/postgres"
	"github.com/symplora/leave-management/internal/transport/rest"
	"github.com/symplora/leave-management/pkg/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpg "gorm.io/driver/postgres"
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
	Config  *internal.Config
	DB      *sqlx.DB
	Handler http.Handler
	Logger  *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Handler,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	cfg, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.L()

	db, err := initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := openGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm over connection: %w", err)
	}

	datastore := leavepg.NewDatastore(gormDB)
	tokens := auth.NewTokenManager(cfg.Security)

	employeeService := employee.NewService(employeepg.NewEmployeeRepository(gormDB), cfg.Leave, lg)
	leaveService := leave.NewService(datastore, cfg.Leave, lg)
	policyService := policy.NewService(policypg.NewPolicyRepository(gormDB), lg)
	authService := auth.NewService(authpg.NewUserRepository(gormDB), tokens, cfg.Security, lg)

	handler := rest.NewRouter(cfg, rest.Handlers{
		Employee: employee.NewHandler(employeeService),
		Leave:    leave.NewHandler(leaveService),
		Policy:   policy.NewHandler(policyService),
		Auth:     auth.NewHandler(authService),
		Tokens:   tokens,
		DB:       db.DB,
		OpenAPI:  api.OpenAPISpec,
	})

	return &Dependencies{
		Config:  cfg,
		Logger:  lg,
		DB:      db,
		Handler: handler,
	}, nil
}

// initDB opens the pgx stdlib connection pool used by both the health check
// and the GORM layer.
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

// openGorm layers GORM over the existing pool so the whole process shares one
// set of connections.
func openGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormpg.New(gormpg.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
}
