// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the transfer-desk CLI.
// It collects Polish football transfer news, turns it into structured
// transfer records, and serves or prints the result.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/transfer-desk/internal/telemetry"
	"github.com/pdiddy/transfer-desk/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured from --verbose before any command runs.
var logger = slog.Default()

// rootCmd is the base command for the transfer-desk CLI.
var rootCmd = &cobra.Command{
	Use:   "transfer-desk",
	Short: "Collect and query Polish football transfers",
	Long: `transfer-desk reads transfer news from Polish football sites, extracts
the player, direction, clubs, fee and date of each transfer, and keeps a
deduplicated, recency-ranked list of transfer records.

collect runs the pipeline once and writes the JSON dataset. query, teams and
serve read that dataset; archive reads the history kept across runs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger = newLogger(verbose)
		slog.SetDefault(logger)

		if err := bindFlags(cmd, map[string]string{"telemetry.exporter": "trace"}); err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		tel, err = telemetry.Setup(cmd.Context(), "transfer-desk", cfg.Telemetry, os.Stderr)
		if err != nil {
			return err
		}
		if cfg.Telemetry.Exporter != types.ExporterNone {
			logger.Debug("tracing enabled", "exporter", cfg.Telemetry.Exporter)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return shutdownTelemetry()
	},
}

// tel is the tracer provider installed for the running command.
var tel telemetry.Telemetry

func shutdownTelemetry() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tel.Shutdown(ctx); err != nil {
		return fmt.Errorf("flushing traces: %w", err)
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./transfer-desk.yaml or ~/.config/transfer-desk/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("trace", types.ExporterNone, "export fetch spans: none, stdout or otlp")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("transfer-desk")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "transfer-desk"))
		}
	}

	viper.SetEnvPrefix("TRANSFER_DESK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every scalar key so that environment variables such
// as TRANSFER_DESK_RANK_LIMIT reach Unmarshal.
func setDefaults() {
	d := types.NewPipelineConfig()
	viper.SetDefault("fetch.timeout", d.Fetch.Timeout)
	viper.SetDefault("fetch.user_agent", d.Fetch.UserAgent)
	viper.SetDefault("fetch.max_retries", d.Fetch.MaxRetries)
	viper.SetDefault("fetch.retry_wait", d.Fetch.RetryWait)
	viper.SetDefault("fetch.request_delay", d.Fetch.RequestDelay)
	viper.SetDefault("fetch.concurrency", d.Fetch.Concurrency)
	viper.SetDefault("rank.window", d.Rank.Window)
	viper.SetDefault("rank.limit", d.Rank.Limit)
	viper.SetDefault("store.output_path", d.Store.OutputPath)
	viper.SetDefault("store.archive_path", d.Store.ArchivePath)
	viper.SetDefault("server.addr", d.Server.Addr)
	viper.SetDefault("server.data_path", "")
	viper.SetDefault("telemetry.exporter", d.Telemetry.Exporter)
	viper.SetDefault("telemetry.endpoint", d.Telemetry.Endpoint)
}

// bindFlags binds command flags to config keys. Binding happens when the
// command runs, since several commands share a key.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, flag := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}

// loadConfig reads the merged configuration: flags, environment, config file,
// then built-in defaults.
func loadConfig() (types.PipelineConfig, error) {
	cfg := types.NewPipelineConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// PersistentPostRunE does not run after a failed command.
		shutdownTelemetry()
		os.Exit(1)
	}
}
