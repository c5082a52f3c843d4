package commands

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mosvani/blocktally/internal/logger"
	"github.com/mosvani/blocktally/internal/telemetry"
	"github.com/mosvani/blocktally/pkg/api"
	"github.com/mosvani/blocktally/pkg/block"
	"github.com/mosvani/blocktally/pkg/config"
	"github.com/mosvani/blocktally/pkg/metrics"
	"github.com/mosvani/blocktally/pkg/status"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the blocktally node",
	Long: `Start the accounting engine, the status API, and (if enabled) the
Prometheus metrics endpoint.

Examples:
  # Start with the default config location
  blocktally serve

  # Start with a custom config
  blocktally serve --config /etc/blocktally/config.yaml

  # Override config via environment variables
  BLOCKTALLY_LOGGING_LEVEL=DEBUG blocktally serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(cfgFile)
	if err != nil {
		return err
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryShutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "blocktally",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := telemetryShutdown(context.Background()); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}()

	profilingShutdown, err := telemetry.InitProfiling(telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "blocktally",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", "error", err)
		}
	}()

	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	node := engine.Node()
	logger.Info("accounting engine ready",
		"node", node.String(),
		"blocks", engine.BlockCount(),
		"datasets", len(engine.Datasets()),
	)

	guard := api.Guard{Mu: &sync.RWMutex{}, Engine: engine}

	// One channel collects the first failure from any server goroutine.
	serverErr := make(chan error, 2)
	var wg sync.WaitGroup

	if cfg.Metrics.Enabled {
		reg := metrics.NewRegistry()
		reg.MustRegister(status.NewCollector(engine, guard.Mu))

		metricsServer := metrics.NewServer(cfg.Metrics, reg)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := metricsServer.Start(ctx); err != nil {
				serverErr <- err
			}
		}()
		logger.Info("metrics enabled", "port", cfg.Metrics.Port)
	} else {
		logger.Info("metrics disabled")
	}

	if cfg.API.IsEnabled() {
		apiServer := api.NewServer(cfg.API, guard)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := apiServer.Start(ctx); err != nil {
				serverErr <- err
			}
		}()
		logger.Info("status API enabled", "port", apiServer.Port())
	} else {
		logger.Info("status API disabled")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("node is running, press Ctrl+C to stop")

	var runErr error
	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("shutdown signal received, stopping")
		cancel()
	case err := <-serverErr:
		signal.Stop(sigChan)
		logger.Error("server error", "error", err)
		cancel()
		runErr = err
	}

	// Wait for the servers to drain, but no longer than the configured
	// shutdown timeout.
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("node stopped")
	case <-time.After(cfg.ShutdownTimeout):
		logger.Warn("shutdown timeout exceeded, exiting")
	}

	return runErr
}

// buildEngine creates the accounting engine from config, generating a
// node identity when none is configured and replaying the optional seed
// file.
func buildEngine(cfg *config.Config) (*status.Engine, error) {
	executorID := cfg.Node.ExecutorID
	if executorID == "" {
		executorID = uuid.NewString()
		logger.Info("generated executor id", "executor_id", executorID)
	}

	engineCfg := status.Config{
		Node: block.NodeID{
			Host:       cfg.Node.Host,
			Port:       cfg.Node.Port,
			ExecutorID: executorID,
		},
		MaxOnHeapMem:  cfg.Limits.OnHeapBytes(),
		MaxOffHeapMem: cfg.Limits.OffHeapBytes(),
	}

	if cfg.Seed.Path != "" {
		seed, err := config.LoadSeed(cfg.Seed.Path)
		if err != nil {
			return nil, err
		}
		engineCfg.Seed = seed
		logger.Info("seed loaded", "path", cfg.Seed.Path, "blocks", len(seed))
	}

	return status.NewEngine(engineCfg), nil
}
