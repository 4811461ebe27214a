// Package wire provides dependency injection for factkeeper.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"io"
	"log"
	"os"
	"sync"

	"go.uber.org/zap"

	cliadapter "github.com/example/factkeeper/internal/adapters/cli"
	oracleadapter "github.com/example/factkeeper/internal/adapters/oracle"
	"github.com/example/factkeeper/internal/adapters/snapshot"
	"github.com/example/factkeeper/internal/adapters/sqlite"
	"github.com/example/factkeeper/internal/app"
	"github.com/example/factkeeper/internal/config"
	"github.com/example/factkeeper/internal/db"
	"github.com/example/factkeeper/internal/logging"
	"github.com/example/factkeeper/internal/ports/primary"
	"github.com/example/factkeeper/internal/ports/secondary"
)

// Options are the process-wide settings taken from global CLI flags.
// They must be set before the first service is requested.
type Options struct {
	ConfigPath string
	Verbose    bool
	ShowLog    bool
}

var (
	opts Options

	cfg              *config.Config
	logger           *zap.Logger
	reconcileService primary.ReconcileService
	knowledgeService primary.KnowledgeService
	taskService      primary.TaskService
	generatorService primary.TaskGenerationService
	healthService    primary.HealthService
	once             sync.Once
)

// Configure records global options for the lazy initialization.
func Configure(o Options) {
	opts = o
}

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Logger returns the process logger.
func Logger() *zap.Logger {
	once.Do(initServices)
	return logger
}

// ReconcileService returns the singleton ReconcileService instance.
func ReconcileService() primary.ReconcileService {
	once.Do(initServices)
	return reconcileService
}

// KnowledgeService returns the singleton KnowledgeService instance.
func KnowledgeService() primary.KnowledgeService {
	once.Do(initServices)
	return knowledgeService
}

// TaskService returns the singleton TaskService instance.
func TaskService() primary.TaskService {
	once.Do(initServices)
	return taskService
}

// HealthService returns the singleton HealthService instance.
func HealthService() primary.HealthService {
	once.Do(initServices)
	return healthService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	var err error
	path := opts.ConfigPath
	if path == "" {
		path = config.FindPath()
	}
	cfg, err = config.Load(path)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err = logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Environment: cfg.Environment,
		Verbose:     opts.Verbose,
	})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	// Repository adapters (secondary ports). A missing store leaves them
	// nil; the resolver then falls back to local and built-in data.
	var (
		factRepo      secondary.FactRepository
		guidelineRepo secondary.GuidelineRepository
		taskRepo      secondary.TaskRepository
		runRepo       secondary.RunRepository
		seeder        secondary.StoreSeeder
	)
	if cfg.Store.Disabled {
		logger.Warn("Remote store disabled by configuration")
	} else {
		if cfg.Store.Path != "" {
			db.SetPath(cfg.Store.Path)
		}
		database, err := db.GetDB()
		if err != nil {
			logger.Warn("Remote store unavailable", zap.Error(err))
		} else {
			factRepo = sqlite.NewFactRepository(database)
			guidelineRepo = sqlite.NewGuidelineRepository(database)
			taskRepo = sqlite.NewTaskRepository(database)
			runRepo = sqlite.NewRunRepository(database)
			seeder = sqlite.NewSeeder(database)
		}
	}

	oracleClient := newOracle(cfg, logger)

	resolver := app.NewResolver(
		factRepo,
		guidelineRepo,
		snapshot.NewFactFile(cfg.Snapshot.FactsCSV),
		snapshot.NewGuidelineFile(cfg.Snapshot.Guidelines),
		logger,
	)

	// Services (primary ports implementation)
	model := cfg.Oracle.Model
	reconcileService = app.NewReconcileService(resolver, oracleClient, taskRepo, runRepo, model, logger)
	knowledgeService = app.NewKnowledgeService(resolver, factRepo, guidelineRepo, seeder, logger)
	healthService = app.NewHealthService(cfg.Environment, cfg.Problems(), oracleClient, model, factRepo, logger)
	taskService = app.NewTaskService(taskRepo, logger)
	generatorService = app.NewTaskGenerationService(resolver, oracleClient, taskRepo, model, logger)
}

// newOracle builds the client for the configured provider, or nil when it
// cannot be built. Callers report a nil oracle as a failed call.
func newOracle(c *config.Config, logger *zap.Logger) secondary.Oracle {
	if c.Oracle.APIKey == "" {
		logger.Warn("Oracle API key not set", zap.String("provider", c.Oracle.Provider))
		return nil
	}

	switch c.Oracle.Provider {
	case config.ProviderGemini:
		client, err := oracleadapter.NewGemini(context.Background(), c.Oracle.APIKey, logger)
		if err != nil {
			logger.Error("Failed to create Gemini client", zap.Error(err))
			return nil
		}
		return client
	default:
		return oracleadapter.NewOpenAI(oracleadapter.OpenAIConfig{
			APIKey:  c.Oracle.APIKey,
			BaseURL: c.Oracle.BaseURL,
			Timeout: c.OracleTimeout(),
		}, logger)
	}
}

// Sync flushes the logger and closes the store. Call once before exit.
func Sync() {
	if err := db.Close(); err != nil && logger != nil {
		logger.Warn("Failed to close store", zap.Error(err))
	}
	if logger != nil {
		_ = logger.Sync()
	}
}

// ReconcileAdapter returns a new ReconcileAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func ReconcileAdapter() *cliadapter.ReconcileAdapter {
	return ReconcileAdapterWithOutput(os.Stdout)
}

// ReconcileAdapterWithOutput returns a new ReconcileAdapter writing to the given output.
func ReconcileAdapterWithOutput(out io.Writer) *cliadapter.ReconcileAdapter {
	once.Do(initServices)
	return cliadapter.NewReconcileAdapter(reconcileService, out, opts.ShowLog)
}

// KnowledgeAdapter returns a new KnowledgeAdapter writing to stdout.
func KnowledgeAdapter() *cliadapter.KnowledgeAdapter {
	once.Do(initServices)
	return cliadapter.NewKnowledgeAdapter(knowledgeService, os.Stdout)
}

// TaskAdapter returns a new TaskAdapter writing to stdout.
func TaskAdapter() *cliadapter.TaskAdapter {
	once.Do(initServices)
	return cliadapter.NewTaskAdapter(taskService, generatorService, os.Stdout, opts.ShowLog)
}

// HealthAdapter returns a new HealthAdapter writing to stdout.
func HealthAdapter() *cliadapter.HealthAdapter {
	once.Do(initServices)
	return cliadapter.NewHealthAdapter(healthService, os.Stdout)
}
