// Package main provides the CLI entrypoint for midisteno.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/leandrodaf/midisteno/internal/config"
	"github.com/leandrodaf/midisteno/internal/logger"
	"github.com/leandrodaf/midisteno/sdk/contracts"
)

var (
	configPath string
	storePath  string
	logLevel   string
	deviceIdx  int
	sinkName   string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "midisteno",
		Short:        "Chorded phonetic keyboard over MIDI or evdev, typed into a Bluetooth HID host",
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", config.DefaultConfigPath(), "TOML config file")
	flags.StringVar(&storePath, "store", "", "layout database (default from config)")
	flags.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default from config)")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newDevicesCmd())
	rootCmd.AddCommand(newMonitorCmd())
	rootCmd.AddCommand(newLayoutCmd())

	return rootCmd
}

// loadConfig reads the config file and applies the flags that were set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	cfg, err := fileCfg.Resolve()
	if err != nil {
		return config.Config{}, err
	}

	if cmd.Flags().Changed("store") {
		cfg.StorePath = storePath
	}
	if cmd.Flags().Changed("log-level") {
		if cfg.LogLevel, err = contracts.ParseLogLevel(logLevel); err != nil {
			return config.Config{}, err
		}
	}
	if f := cmd.Flags().Lookup("device"); f != nil && f.Changed {
		cfg.Device = deviceIdx
	}
	if f := cmd.Flags().Lookup("sink"); f != nil && f.Changed {
		cfg.Sink = sinkName
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config, w io.Writer) *logger.ZapLogger {
	log := logger.NewConsoleLoggerTo(w)
	if cfg.LogFile != "" {
		log.SetDestination(contracts.FileLog, cfg.LogFile)
	}
	log.SetLevel(cfg.LogLevel)
	return log
}
