// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"sync"

	attendanceHttp "github.com/allisson/attendance/internal/attendance/http"
	attendanceRepository "github.com/allisson/attendance/internal/attendance/repository"
	attendanceUsecase "github.com/allisson/attendance/internal/attendance/usecase"
	"github.com/allisson/attendance/internal/config"
	"github.com/allisson/attendance/internal/database"
	"github.com/allisson/attendance/internal/http"
	keysRepository "github.com/allisson/attendance/internal/keys/repository"
	keysService "github.com/allisson/attendance/internal/keys/service"
	keysUsecase "github.com/allisson/attendance/internal/keys/usecase"
	ledgerRepository "github.com/allisson/attendance/internal/ledger/repository"
	ledgerService "github.com/allisson/attendance/internal/ledger/service"
	ledgerUsecase "github.com/allisson/attendance/internal/ledger/usecase"
	"github.com/allisson/attendance/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Container holds all application dependencies and provides methods to
// access them. Components are created lazily on first access.
type Container struct {
	config *config.Config

	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	keyStore    keysUsecase.KeyStore
	keyResolver keysUsecase.KeyResolver

	ledgerStore ledgerUsecase.LedgerStore
	ledger      ledgerUsecase.Ledger

	studentDirectory attendanceUsecase.StudentDirectory
	recorder         attendanceUsecase.Recorder
	decryptor        attendanceUsecase.Decryptor

	httpServer    *http.Server
	metricsServer *http.MetricsServer

	mu                   sync.Mutex
	loggerInit           sync.Once
	dbInit               sync.Once
	txManagerInit        sync.Once
	metricsProviderInit  sync.Once
	businessMetricsInit  sync.Once
	keyStoreInit         sync.Once
	keyResolverInit      sync.Once
	ledgerStoreInit      sync.Once
	ledgerInit           sync.Once
	studentDirectoryInit sync.Once
	recorderInit         sync.Once
	decryptorInit        sync.Once
	httpServerInit       sync.Once
	metricsServerInit    sync.Once
	initErrors           map[string]error
}

// NewContainer creates a new dependency injection container with the
// provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := database.Connect(database.Config{
			Driver:             c.config.DBDriver,
			ConnectionString:   c.config.DBConnectionString,
			MaxOpenConnections: c.config.DBMaxOpenConnections,
			MaxIdleConnections: c.config.DBMaxIdleConnections,
			ConnMaxLifetime:    c.config.DBConnMaxLifetime,
		})
		if err != nil {
			c.initErrors["db"] = fmt.Errorf("failed to connect to database: %w", err)
			return
		}
		c.db = db
	})
	if err, exists := c.initErrors["db"]; exists {
		return nil, err
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["txManager"] = fmt.Errorf("failed to get database for tx manager: %w", err)
			return
		}
		c.txManager = database.NewTxManager(db)
	})
	if err, exists := c.initErrors["txManager"]; exists {
		return nil, err
	}
	return c.txManager, nil
}

// MetricsProvider returns the metrics provider. Returns nil when metrics
// collection is disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = fmt.Errorf("failed to create metrics provider: %w", err)
			return
		}
		c.metricsProvider = provider
	})
	if err, exists := c.initErrors["metricsProvider"]; exists {
		return nil, err
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. Returns nil when
// metrics collection is disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			return
		}
		bm, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = fmt.Errorf("failed to create business metrics: %w", err)
			return
		}
		c.businessMetrics = bm
	})
	if err, exists := c.initErrors["businessMetrics"]; exists {
		return nil, err
	}
	return c.businessMetrics, nil
}

// KeyStore returns the operation key store for the configured driver.
func (c *Container) KeyStore() (keysUsecase.KeyStore, error) {
	c.keyStoreInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["keyStore"] = fmt.Errorf("failed to get database for key store: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.keyStore = keysRepository.NewMySQLKeyRepository(db)
		case "postgres":
			c.keyStore = keysRepository.NewPostgreSQLKeyRepository(db)
		default:
			c.initErrors["keyStore"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["keyStore"]; exists {
		return nil, err
	}
	return c.keyStore, nil
}

// KeyResolver returns the key resolver, wrapped with metrics when enabled.
func (c *Container) KeyResolver() (keysUsecase.KeyResolver, error) {
	c.keyResolverInit.Do(func() {
		store, err := c.KeyStore()
		if err != nil {
			c.initErrors["keyResolver"] = err
			return
		}

		resolver := keysUsecase.NewKeyResolver(store, keysService.NewGenerator())

		bm, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["keyResolver"] = err
			return
		}
		if bm != nil {
			resolver = keysUsecase.NewKeyResolverWithMetrics(resolver, bm)
		}
		c.keyResolver = resolver
	})
	if err, exists := c.initErrors["keyResolver"]; exists {
		return nil, err
	}
	return c.keyResolver, nil
}

// LedgerStore returns the ledger record store for the configured driver.
func (c *Container) LedgerStore() (ledgerUsecase.LedgerStore, error) {
	c.ledgerStoreInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["ledgerStore"] = fmt.Errorf("failed to get database for ledger store: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.ledgerStore = ledgerRepository.NewMySQLLedgerRepository(db)
		case "postgres":
			c.ledgerStore = ledgerRepository.NewPostgreSQLLedgerRepository(db)
		default:
			c.initErrors["ledgerStore"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["ledgerStore"]; exists {
		return nil, err
	}
	return c.ledgerStore, nil
}

// Ledger returns the hash-chained attendance ledger.
func (c *Container) Ledger() (ledgerUsecase.Ledger, error) {
	c.ledgerInit.Do(func() {
		store, err := c.LedgerStore()
		if err != nil {
			c.initErrors["ledger"] = err
			return
		}

		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["ledger"] = err
			return
		}

		secret, err := c.ledgerSigningSecret()
		if err != nil {
			c.initErrors["ledger"] = err
			return
		}

		c.ledger = ledgerUsecase.NewLedger(store, ledgerService.NewChainSigner(), txManager, secret)
	})
	if err, exists := c.initErrors["ledger"]; exists {
		return nil, err
	}
	return c.ledger, nil
}

// StudentDirectory returns the student directory for the configured driver.
func (c *Container) StudentDirectory() (attendanceUsecase.StudentDirectory, error) {
	c.studentDirectoryInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["studentDirectory"] = fmt.Errorf("failed to get database for student directory: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.studentDirectory = attendanceRepository.NewMySQLStudentRepository(db)
		case "postgres":
			c.studentDirectory = attendanceRepository.NewPostgreSQLStudentRepository(db)
		default:
			c.initErrors["studentDirectory"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["studentDirectory"]; exists {
		return nil, err
	}
	return c.studentDirectory, nil
}

// Recorder returns the attendance recorder, wrapped with metrics when
// enabled.
func (c *Container) Recorder() (attendanceUsecase.Recorder, error) {
	c.recorderInit.Do(func() {
		directory, err := c.StudentDirectory()
		if err != nil {
			c.initErrors["recorder"] = err
			return
		}

		resolver, err := c.KeyResolver()
		if err != nil {
			c.initErrors["recorder"] = err
			return
		}

		ledger, err := c.Ledger()
		if err != nil {
			c.initErrors["recorder"] = err
			return
		}

		recorder := attendanceUsecase.NewRecorder(
			directory,
			resolver,
			keysService.NewAESCFB(),
			ledger,
			c.Logger(),
		)

		bm, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["recorder"] = err
			return
		}
		if bm != nil {
			recorder = attendanceUsecase.NewRecorderWithMetrics(recorder, bm)
		}
		c.recorder = recorder
	})
	if err, exists := c.initErrors["recorder"]; exists {
		return nil, err
	}
	return c.recorder, nil
}

// Decryptor returns the report decryptor, wrapped with metrics when enabled.
func (c *Container) Decryptor() (attendanceUsecase.Decryptor, error) {
	c.decryptorInit.Do(func() {
		resolver, err := c.KeyResolver()
		if err != nil {
			c.initErrors["decryptor"] = err
			return
		}

		ledger, err := c.Ledger()
		if err != nil {
			c.initErrors["decryptor"] = err
			return
		}

		decryptor := attendanceUsecase.NewDecryptor(
			resolver,
			keysService.NewAESCFB(),
			ledger,
			c.Logger(),
		)

		bm, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["decryptor"] = err
			return
		}
		if bm != nil {
			decryptor = attendanceUsecase.NewDecryptorWithMetrics(decryptor, bm)
		}
		c.decryptor = decryptor
	})
	if err, exists := c.initErrors["decryptor"]; exists {
		return nil, err
	}
	return c.decryptor, nil
}

// HTTPServer returns the reporting HTTP server with all routes registered.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		logger := c.Logger()

		db, err := c.DB()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}

		decryptor, err := c.Decryptor()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}

		ledger, err := c.Ledger()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}

		server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)
		server.EnableCORS(c.config.CORSEnabled, c.config.CORSAllowOrigins)

		var middlewares []gin.HandlerFunc
		if c.config.ReportTokenHash != "" {
			middlewares = append(middlewares, http.TokenAuthMiddleware(c.config.ReportTokenHash, logger))
		} else {
			logger.Warn("report token hash not configured, reporting endpoints are unauthenticated")
		}
		if c.config.RateLimitEnabled {
			middlewares = append(middlewares, http.RateLimitMiddleware(
				c.config.RateLimitRequestsPerSec,
				c.config.RateLimitBurst,
				logger,
			))
		}

		handler := attendanceHttp.NewReportHandler(decryptor, ledger, logger)
		server.RegisterReportRoutes(handler, middlewares...)

		c.httpServer = server
	})
	if err, exists := c.initErrors["httpServer"]; exists {
		return nil, err
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus metrics server. Returns nil when
// metrics collection is disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if err, exists := c.initErrors["metricsServer"]; exists {
		return nil, err
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates a structured logger based on the configured log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// ledgerSigningSecret decodes the configured hex signing key.
func (c *Container) ledgerSigningSecret() ([]byte, error) {
	if c.config.LedgerSigningKey == "" {
		return nil, fmt.Errorf("LEDGER_SIGNING_KEY is not configured")
	}

	secret, err := hex.DecodeString(c.config.LedgerSigningKey)
	if err != nil {
		return nil, fmt.Errorf("LEDGER_SIGNING_KEY is not valid hex: %w", err)
	}
	if len(secret) != 32 {
		return nil, fmt.Errorf("LEDGER_SIGNING_KEY must decode to 32 bytes, got %d", len(secret))
	}

	return secret, nil
}
