// Command treewatch runs a change listener against an in-memory repository
// cluster.
//
// The listener logs in with the configured service identity, registers for
// entity and property additions below the configured path and logs every
// addition made on its own cluster member. A batch that contains a change
// made on another member is dropped from that change on.
//
// Usage:
//
//	treewatch [flags]
//
// Flags:
//
//	-config string           Configuration file path (YAML)
//	-member string           Cluster member to run on (overrides config)
//	-policy string           Origin policy: abort_batch, skip_event, process_all
//	-log-level string        Log level: debug, info, warn, error
//	-observation-log string  File path for observation event logging (CBOR format)
//	-trace                   Also write observation events to the operational log
//	-script string           Replay change batches from a YAML script
//	-interactive             Start an interactive shell to publish changes
//
// Examples:
//
//	# Replay a script and exit
//	treewatch -script changes.yaml
//
//	# Interactive shell on node-a of a two-member cluster
//	treewatch -config cluster.yaml -member node-a -interactive
//
//	# Capture observation events for treewatch-log
//	treewatch -script changes.yaml -observation-log /tmp/treewatch.cbor
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/treewatch/treewatch-go/cmd/treewatch/interactive"
	"github.com/treewatch/treewatch-go/pkg/config"
	twlog "github.com/treewatch/treewatch-go/pkg/log"
	"github.com/treewatch/treewatch-go/pkg/memfeed"
	"github.com/treewatch/treewatch-go/pkg/observation"
)

var (
	configFile     = flag.String("config", "", "Configuration file path (YAML)")
	member         = flag.String("member", "", "Cluster member to run on (overrides config)")
	policy         = flag.String("policy", "", "Origin policy: abort_batch, skip_event, process_all")
	logLevel       = flag.String("log-level", "", "Log level: debug, info, warn, error")
	observationLog = flag.String("observation-log", "", "File path for observation event logging (CBOR format)")
	trace          = flag.Bool("trace", false, "Also write observation events to the operational log")
	scriptFile     = flag.String("script", "", "Replay change batches from a YAML script")
	interactiveOn  = flag.Bool("interactive", false, "Start an interactive shell to publish changes")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var shell *interactive.Shell
	var logOut io.Writer = os.Stderr
	if *interactiveOn {
		shell, err = interactive.New()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logOut = shell.Stderr()
	}

	level, _ := config.ParseLevel(cfg.Logging.Level)
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))

	obsLogger, closeObs, err := observationLogger(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeObs()

	clusterCfg := memfeed.DefaultConfig()
	clusterCfg.ServiceUser = cfg.Repository.ServiceUser
	clusterCfg.MaxRegistrations = cfg.Repository.MaxRegistrations
	clusterCfg.Logger = logger
	clusterCfg.ObservationLogger = obsLogger

	cluster, err := memfeed.NewCluster(clusterCfg, cfg.AllMembers()...)
	if err != nil {
		logger.Error("failed to create cluster", "error", err)
		os.Exit(1)
	}
	repo, err := cluster.Member(cfg.Repository.Member)
	if err != nil {
		logger.Error("failed to select member", "error", err)
		os.Exit(1)
	}

	listener, err := newListener(cfg, repo, logger, obsLogger)
	if err != nil {
		logger.Error("failed to create listener", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := listener.Activate(ctx); err != nil {
		logger.Error("failed to activate listener", "error", err)
		os.Exit(1)
	}
	logger.Info("listener active",
		"listener", listener.ID(),
		"member", cfg.Repository.Member,
		"members", len(cluster.Members()))

	if *scriptFile != "" {
		if err := replay(ctx, cluster, *scriptFile, logger); err != nil {
			logger.Error("script failed", "error", err)
		}
	}

	switch {
	case shell != nil:
		shell.Attach(cluster, listener, cfg.Repository.Member)
		go waitForSignal(cancel)
		shell.Run(ctx, cancel)
	case *scriptFile == "":
		waitForSignal(cancel)
	}

	if err := listener.Deactivate(context.Background()); err != nil {
		logger.Error("deactivate failed", "error", err)
	}

	stats := listener.Stats()
	logger.Info("listener stopped",
		"batches", stats.Batches,
		"dispatched", stats.Dispatched,
		"ignored", stats.Ignored,
		"aborted_batches", stats.AbortedBatches,
		"errors", stats.Errors)
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			return nil, err
		}
	}

	if *member != "" {
		cfg.Repository.Member = *member
	}
	if *policy != "" {
		cfg.Listener.OriginPolicy = *policy
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *observationLog != "" {
		cfg.Logging.ObservationLog = *observationLog
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// observationLogger builds the observation event sink. The returned function
// closes any file it opened.
func observationLogger(cfg *config.Config, logger *slog.Logger) (twlog.Logger, func(), error) {
	var loggers []twlog.Logger
	closeFn := func() {}

	if path := cfg.Logging.ObservationLog; path != "" {
		fl, err := twlog.NewFileLogger(path)
		if err != nil {
			return nil, closeFn, fmt.Errorf("failed to create observation logger: %w", err)
		}
		loggers = append(loggers, fl)
		closeFn = func() { fl.Close() }
		logger.Info("observation logging", "path", path)
	}
	if *trace {
		loggers = append(loggers, twlog.NewSlogAdapter(logger))
	}

	switch len(loggers) {
	case 0:
		return twlog.NoopLogger{}, closeFn, nil
	case 1:
		return loggers[0], closeFn, nil
	default:
		return twlog.NewMultiLogger(loggers...), closeFn, nil
	}
}

func newListener(cfg *config.Config, repo *memfeed.Repository, logger *slog.Logger, obsLogger twlog.Logger) (*observation.Listener, error) {
	desc, err := cfg.Descriptor()
	if err != nil {
		return nil, err
	}
	ocfg, err := cfg.ObservationConfig()
	if err != nil {
		return nil, err
	}
	ocfg.Logger = logger
	ocfg.ObservationLogger = obsLogger

	handler := observation.HandlerFuncs{
		OnEntityAdded: func(path string) {
			logger.Info("entity has been added", "path", path)
		},
		OnPropertyAdded: func(path string) {
			logger.Info("property has been added", "path", path)
		},
	}
	return observation.NewListener(repo, desc, handler, ocfg)
}

func replay(ctx context.Context, cluster *memfeed.Cluster, path string, logger *slog.Logger) error {
	script, err := memfeed.LoadScript(path)
	if err != nil {
		return err
	}
	start := time.Now()
	delivered, err := script.Apply(ctx, cluster)
	if err != nil {
		return err
	}
	logger.Info("script replayed",
		"batches", len(script.Batches),
		"delivered", delivered,
		"duration", time.Since(start))
	return nil
}

func waitForSignal(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	cancel()
}
