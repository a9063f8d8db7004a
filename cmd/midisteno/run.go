package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leandrodaf/midisteno/internal/config"
	"github.com/leandrodaf/midisteno/internal/console"
	"github.com/leandrodaf/midisteno/internal/engine"
	"github.com/leandrodaf/midisteno/internal/evdev"
	"github.com/leandrodaf/midisteno/internal/hid"
	"github.com/leandrodaf/midisteno/internal/store"
	"github.com/leandrodaf/midisteno/sdk/contracts"
	"github.com/leandrodaf/midisteno/sdk/midi"
	"github.com/leandrodaf/midisteno/sdk/steno"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Translate chords into keystrokes until interrupted",
		Args:  cobra.NoArgs,
		RunE:  runTranslator,
	}
	cmd.Flags().IntVar(&deviceIdx, "device", 0, "input device index (see devices)")
	cmd.Flags().StringVar(&sinkName, "sink", "", "bluez or log (default from config)")
	return cmd
}

func runTranslator(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	restore, err := console.MakeRaw(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to set raw terminal: %w", err)
	}
	defer restore()
	log := newLogger(cfg, console.RawWriter{W: os.Stderr})
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, closeOut, err := openOutput(cfg, log)
	if err != nil {
		return err
	}
	defer closeOut()

	src, device, err := openSource(cfg, log)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return fmt.Errorf("failed to open layout store: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Error("Failed to close layout store", log.Field().Error("error", cerr))
		}
	}()

	eng, err := steno.NewEngine(
		contracts.WithEngineLogger(log),
		contracts.WithEngineLogLevel(cfg.LogLevel),
		contracts.WithOutput(out),
		contracts.WithChordThreshold(cfg.ChordThreshold),
		contracts.WithSilenceThreshold(cfg.SilenceThreshold),
	)
	if err != nil {
		return err
	}

	events := make(chan contracts.RawEvent, 256)
	if err := src.Start(events); err != nil {
		return fmt.Errorf("failed to start input: %w", err)
	}
	defer func() {
		if err := src.Stop(); err != nil {
			log.Warn("Failed to stop input", log.Field().Error("error", err))
		}
	}()

	commands := make(chan engine.Command, 4)
	go func() {
		if err := console.Read(ctx, os.Stdin, commands); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("Console input stopped", log.Field().Error("error", err))
		}
	}()

	log.Info("Translator ready",
		log.Field().String("device", device),
		log.Field().String("sink", cfg.Sink),
		log.Field().String("keys", console.Help))

	loop := &engine.Loop{
		Engine:      eng,
		Logger:      log,
		Events:      events,
		Commands:    commands,
		Store:       st.For(device),
		Poll:        cfg.PollInterval,
		FlushOnExit: cfg.FlushOnExit,
	}
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// openSource builds the configured input and returns the identity its
// layout is stored under.
func openSource(cfg config.Config, log contracts.Logger) (contracts.EventSource, string, error) {
	if cfg.Source == config.SourceEvdev {
		return evdev.NewSource(cfg.EvdevPath, cfg.Grab, cfg.DefaultVelocity, log), "evdev:" + cfg.EvdevPath, nil
	}

	client, err := midi.NewMIDIClient(contracts.WithLogger(log), contracts.WithLogLevel(cfg.LogLevel))
	if err != nil {
		return nil, "", fmt.Errorf("failed to initialize MIDI client: %w", err)
	}
	devices, err := client.ListDevices()
	if err != nil {
		return nil, "", fmt.Errorf("failed to list MIDI devices: %w", err)
	}
	if cfg.Device >= len(devices) {
		return nil, "", fmt.Errorf("MIDI device %d not found (%d available)", cfg.Device, len(devices))
	}
	if err := client.SelectDevice(cfg.Device); err != nil {
		return nil, "", fmt.Errorf("failed to select MIDI device: %w", err)
	}
	return midi.NewSource(client, log), "midi:" + devices[cfg.Device].Name, nil
}

func openOutput(cfg config.Config, log contracts.Logger) (contracts.HIDOutput, func(), error) {
	if cfg.Sink == config.SinkLog {
		return hid.NewLogOutput(log), func() {}, nil
	}
	b, err := hid.DialBlueZ(hid.BlueZOptions{InputPath: cfg.DevicePath, Activate: cfg.ActivateAdapter}, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open HID output: %w", err)
	}
	return b, func() {
		if err := b.Close(cfg.ActivateAdapter); err != nil {
			log.Warn("Failed to close HID output", log.Field().Error("error", err))
		}
	}, nil
}
