// Package cmd implements the nftcompat CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/plexsphere/nftcompat/internal/config"
	"github.com/plexsphere/nftcompat/internal/system"
	"github.com/plexsphere/nftcompat/internal/validator"
)

// ErrViolations is returned by check and audit when the report is not clean,
// so the process exits non-zero.
var ErrViolations = errors.New("violations found")

var (
	cfgFile       string
	logLevel      string
	kernelVersion string
	engineVersion string
)

// Build info set from main.
var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

// SetVersionInfo sets the version info from build-time ldflags.
func SetVersionInfo(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	rootCmd.Version = buildVersion
	rootCmd.SetVersionTemplate(fmt.Sprintf("nftcompat version {{.Version}}\ncommit: %s\nbuilt: %s\n", buildCommit, buildDate))
}

var rootCmd = &cobra.Command{
	Use:   "nftcompat",
	Short: "nftcompat checks nftables chains against the running kernel",
	Long: "nftcompat knows which chain type, family and hook combinations nftables\n" +
		"accepts and which of them depend on the kernel and nft versions. It checks\n" +
		"declared rulesets and the live kernel ruleset against the detected system.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error; overrides config)")
	rootCmd.PersistentFlags().StringVar(&kernelVersion, "kernel", "", "assume this kernel version instead of probing (e.g. 5.10.0)")
	rootCmd.PersistentFlags().StringVar(&engineVersion, "engine", "", "assume this nft version instead of probing (e.g. 0.9.7)")

	rootCmd.Version = buildVersion
	rootCmd.SetVersionTemplate(fmt.Sprintf("nftcompat version {{.Version}}\ncommit: %s\nbuilt: %s\n", buildCommit, buildDate))
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig parses the config file and applies the persistent flag
// overrides. The default config file may be absent.
func loadConfig() (*config.Config, error) {
	cfg, err := config.ParseConfig(cfgFile, cfgFile == config.DefaultPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if kernelVersion != "" {
		v, err := system.ParseVersion(kernelVersion)
		if err != nil {
			return nil, fmt.Errorf("--kernel: %w", err)
		}
		cfg.System.KernelVersion = &v
	}
	if engineVersion != "" {
		v, err := system.ParseVersion(engineVersion)
		if err != nil {
			return nil, fmt.Errorf("--engine: %w", err)
		}
		cfg.System.EngineVersion = &v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// detect builds the system snapshot once per command invocation.
func detect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (system.Snapshot, error) {
	return system.Detect(ctx, cfg.System,
		system.NewUnameProber(),
		system.NewNftProber(cfg.System.NftBinary),
		logger,
	)
}

// setup loads the configuration, builds the logger and the validator.
func setup(ctx context.Context) (*config.Config, *slog.Logger, *validator.Validator, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger := setupLogger(cfg.LogLevel)
	snap, err := detect(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, validator.New(snap), nil
}

func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
