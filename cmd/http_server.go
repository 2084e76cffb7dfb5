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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/expense-dashboard/internal"
	"github.com/frahmantamala/expense-dashboard/internal/auth"
	authPostgres "github.com/frahmantamala/expense-dashboard/internal/auth/postgres"
	"github.com/frahmantamala/expense-dashboard/internal/budget"
	budgetPostgres "github.com/frahmantamala/expense-dashboard/internal/budget/postgres"
	"github.com/frahmantamala/expense-dashboard/internal/category"
	"github.com/frahmantamala/expense-dashboard/internal/company"
	companyPostgres "github.com/frahmantamala/expense-dashboard/internal/company/postgres"
	"github.com/frahmantamala/expense-dashboard/internal/core/common/access"
	"github.com/frahmantamala/expense-dashboard/internal/core/events"
	"github.com/frahmantamala/expense-dashboard/internal/expense"
	expensePostgres "github.com/frahmantamala/expense-dashboard/internal/expense/postgres"
	"github.com/frahmantamala/expense-dashboard/internal/metrics"
	"github.com/frahmantamala/expense-dashboard/internal/transport"
	"github.com/frahmantamala/expense-dashboard/internal/transport/rest"
	"github.com/frahmantamala/expense-dashboard/internal/transport/swagger"
	"github.com/frahmantamala/expense-dashboard/internal/user"
	userPostgres "github.com/frahmantamala/expense-dashboard/internal/user/postgres"
	"github.com/frahmantamala/expense-dashboard/pkg/logger"
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
	Gorm    *gorm.DB
	Router  *chi.Mux
	Metrics *metrics.Metrics
	Bus     *events.EventBus
	Logger  *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "env", deps.Config.Env)

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
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		deps.Bus.Wait()
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	lg := deps.Logger
	guard := access.NewGuard(deps.Metrics, lg)

	userRepo := userPostgres.NewRepository(deps.DB)
	companyRepo := companyPostgres.NewCompanyRepository(deps.Gorm)
	budgetRepo := budgetPostgres.NewBudgetRepository(deps.Gorm)
	expenseRepo := expensePostgres.NewExpenseRepository(deps.Gorm)
	credentials := authPostgres.NewRepository(deps.Gorm)

	sec := deps.Config.Security
	tokenGen := auth.NewJWTTokenGenerator(sec.JWTAccessSecret, sec.JWTRefreshSecret, sec.AccessTokenDuration, sec.RefreshTokenDuration)

	userService := user.NewService(userRepo, guard, lg)
	authService := auth.NewService(credentials, tokenGen, sec.BCryptCost, lg)
	companyService := company.NewService(companyRepo, guard, lg)
	budgetService := budget.NewService(budgetRepo, guard, deps.Bus, deps.Metrics, lg)
	aggregator := budget.NewAggregator(budgetRepo, expenseRepo, guard, deps.Metrics, lg)
	expenseService := expense.NewService(expenseRepo, guard, lg)

	obs := deps.Config.Observability
	routeDeps := rest.Dependencies{
		DB:              deps.DB,
		Guard:           guard,
		AllowedOrigins:  deps.Config.Server.AllowedOrigins,
		OpenAPIPath:     deps.Config.Server.OpenAPIPath,
		AuthHandler:     auth.NewHandler(authService, userService),
		UserHandler:     user.NewHandler(userService),
		CompanyHandler:  company.NewHandler(companyService),
		BudgetHandler:   budget.NewHandler(budgetService, aggregator),
		ExpenseHandler:  expense.NewHandler(expenseService),
		CategoryHandler: category.NewHandler(transport.NewBaseHandler(lg), category.NewService(lg)),
		Logger:          lg,
	}
	if obs.Metrics.Enabled {
		routeDeps.Metrics = deps.Metrics
		routeDeps.MetricsPath = obs.Metrics.Path
	}

	rest.RegisterAllRoutes(deps.Router, routeDeps)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.Configure(os.Stdout, config.Observability.Logging.Level, config.Observability.Logging.Format)

	if _, err := swagger.LoadSpec(context.Background(), config.Server.OpenAPIPath); err != nil {
		return nil, err
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	var m *metrics.Metrics
	if config.Observability.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		m = metrics.New(registry)
		m.RegisterDB(db.DB, "postgres")
	}

	bus := events.NewEventBus(lg)
	events.SubscribeAudit(bus, lg.With("component", "audit"))

	return &Dependencies{
		Config:  config,
		Logger:  lg,
		DB:      db,
		Gorm:    gdb,
		Router:  chi.NewRouter(),
		Metrics: m,
		Bus:     bus,
	}, nil
}

// initDB initializes the database connection
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

// initGorm shares the sqlx pool with gorm so both stores see one set of
// connections.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
}
