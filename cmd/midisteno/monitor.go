package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leandrodaf/midisteno/internal/hand"
	"github.com/leandrodaf/midisteno/sdk/contracts"
)

func newMonitorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Print key events from the input device without translating them",
		Args:  cobra.NoArgs,
		RunE:  runMonitorCmd,
	}
	cmd.Flags().IntVar(&deviceIdx, "device", 0, "input device index (see devices)")
	return cmd
}

func runMonitorCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg, os.Stderr)

	src, device, err := openSource(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := make(chan contracts.RawEvent, 100)
	if err := src.Start(events); err != nil {
		return fmt.Errorf("failed to start input: %w", err)
	}
	defer func() { _ = src.Stop() }()

	splitter := hand.NewSplitter(savedLayout(ctx, cfg.StorePath, device, log), log)
	fmt.Fprintf(cmd.OutOrStdout(), "Monitoring %s... Press Ctrl+C to exit.\n", device)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			fields := []contracts.Field{
				log.Field().Time("timestamp", ev.Timestamp),
				log.Field().Int("key", ev.Key),
				log.Field().Bool("down", ev.Down),
				log.Field().Int("velocity", ev.Velocity),
			}
			if h, pos, ok := splitter.Classify(ev.Key); ok {
				fields = append(fields, log.Field().String("hand", h.String()), log.Field().Int("position", pos))
			}
			log.Info("Key event", fields...)
		}
	}
}
