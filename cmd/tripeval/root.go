package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/start-again-06/Travel-Agent-Voice-Based/cmd/tripeval/internal"
	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/config"
	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/observability"
)

// State shared by subcommands, populated by loadConfig.
var (
	appConfig *config.Config
	appLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	logOutput io.Closer
	logExport *sdklog.LoggerProvider
)

var rootCmd = &cobra.Command{
	Use:   "tripeval",
	Short: "tripeval - travel itinerary evaluation",
	Long: `tripeval checks generated travel itineraries for feasibility,
grounding in search results, and edit correctness.

Evaluate a single itinerary with 'tripeval run', replay a recorded
conversation with 'tripeval replay', or expose the evaluator over HTTP
with 'tripeval serve'.`,
	PersistentPreRunE:  loadConfig,
	PersistentPostRunE: closeLogOutput,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

// Execute runs the root command with signal handling
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

// loadConfig is called before any command runs to load configuration and
// build the logger.
func loadConfig(cmd *cobra.Command, args []string) error {
	flags, err := ParseGlobalFlags(cmd)
	if err != nil {
		return err
	}

	// version and help work without a config
	if cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}

	homeDir := flags.HomeDir
	if homeDir == "" {
		homeDir = os.Getenv("TRIPEVAL_HOME")
	}
	if homeDir == "" {
		homeDir = config.DefaultHomeDir()
	}

	loader := config.NewConfigLoader(config.NewValidator())
	var cfg *config.Config
	if flags.ConfigFile != "" {
		cfg, err = loader.Load(flags.ConfigFile)
	} else {
		cfg, err = loader.LoadWithDefaults(config.DefaultConfigPath(homeDir))
	}
	if err != nil {
		return err
	}

	switch {
	case flags.IsVerbose():
		cfg.Logging.Level = "debug"
	case flags.IsQuiet():
		cfg.Logging.Level = "error"
	}

	out, err := observability.OpenLogOutput(cfg.Logging.Output)
	if err != nil {
		return internal.WrapError(internal.ExitConfigError, "cannot open log output", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	lp, err := observability.InitLogging(ctx, cfg.Logging.OTLP)
	if err != nil {
		_ = out.Close()
		return internal.WrapError(internal.ExitConfigError, "failed to initialize log export", err)
	}

	var extra []slog.Handler
	if lp != nil {
		level, _ := observability.ParseLevel(cfg.Logging.Level)
		extra = append(extra, observability.NewOTelHandler(lp, instrumentationName, level))
	}

	appConfig = cfg
	appLogger = observability.NewLogger(cfg.Logging, out, extra...)
	logOutput = out
	logExport = lp
	return nil
}

// closeLogOutput flushes exported log records and closes the log output.
func closeLogOutput(cmd *cobra.Command, args []string) error {
	var errs []error
	if logExport != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		errs = append(errs, observability.ShutdownLogging(ctx, logExport))
		cancel()
		logExport = nil
	}
	if logOutput != nil {
		errs = append(errs, logOutput.Close())
		logOutput = nil
	}
	return errors.Join(errs...)
}

func init() {
	RegisterGlobalFlags(rootCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// formatter returns the output formatter selected by --output.
func formatter(cmd *cobra.Command) internal.Formatter {
	return internal.NewFormatter(globalFlags.GetOutputFormat(), cmd.OutOrStdout())
}
