package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/leandrodaf/midisteno/internal/config"
	"github.com/leandrodaf/midisteno/internal/evdev"
	"github.com/leandrodaf/midisteno/sdk/contracts"
	"github.com/leandrodaf/midisteno/sdk/midi"
)

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List input devices for the configured source",
		Args:  cobra.NoArgs,
		RunE:  runDevicesCmd,
	}
}

func runDevicesCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg, os.Stderr)

	var devices []contracts.DeviceInfo
	if cfg.Source == config.SourceEvdev {
		devices, err = evdev.ListDevices()
	} else {
		var client contracts.ClientMIDI
		client, err = midi.NewMIDIClient(contracts.WithLogger(log), contracts.WithLogLevel(cfg.LogLevel))
		if err != nil {
			return fmt.Errorf("failed to initialize MIDI client: %w", err)
		}
		defer func() { _ = client.Stop() }()
		devices, err = client.ListDevices()
	}
	if err != nil {
		return fmt.Errorf("failed to list devices: %w", err)
	}
	if len(devices) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no devices found")
		return nil
	}
	printDevices(cmd, devices)
	return nil
}

func printDevices(cmd *cobra.Command, devices []contracts.DeviceInfo) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tNAME\tMANUFACTURER\tPATH")
	for i, d := range devices {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i, d.Name, d.Manufacturer, d.Path)
	}
	_ = w.Flush()
}
