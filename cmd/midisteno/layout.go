package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/leandrodaf/midisteno/internal/hand"
	"github.com/leandrodaf/midisteno/internal/store"
	"github.com/leandrodaf/midisteno/sdk/contracts"
)

func newLayoutCmd() *cobra.Command {
	layoutCmd := &cobra.Command{
		Use:   "layout",
		Short: "Inspect or forget calibrated hand layouts",
	}
	layoutCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show saved layouts",
		Args:  cobra.NoArgs,
		RunE:  runLayoutShowCmd,
	})
	layoutCmd.AddCommand(&cobra.Command{
		Use:   "clear <device>",
		Short: "Forget the layout saved for a device",
		Args:  cobra.ExactArgs(1),
		RunE:  runLayoutClearCmd,
	})
	return layoutCmd
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open layout store: %w", err)
	}
	return st, nil
}

func runLayoutShowCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	saved, err := st.List(context.Background())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(saved) == 0 {
		d := hand.DefaultLayout()
		fmt.Fprintf(out, "no saved layouts; default is left %v right %v\n", d.Left, d.Right)
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DEVICE\tLEFT\tRIGHT\tUPDATED")
	for _, s := range saved {
		fmt.Fprintf(w, "%s\t%v\t%v\t%s\n", s.Device, s.Layout.Left, s.Layout.Right, s.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runLayoutClearCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	existed, err := st.DeleteLayout(context.Background(), args[0])
	if err != nil {
		return err
	}
	if !existed {
		return fmt.Errorf("no layout saved for %q", args[0])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "cleared layout for %s\n", args[0])
	return nil
}

// savedLayout returns the layout stored for device, or the default when none
// is saved or the store cannot be read.
func savedLayout(ctx context.Context, path, device string, log contracts.Logger) hand.Layout {
	st, err := store.Open(path)
	if err != nil {
		log.Warn("Failed to open layout store; using default layout", log.Field().Error("error", err))
		return hand.DefaultLayout()
	}
	defer st.Close()

	l, found, err := st.For(device).LoadLayout(ctx)
	switch {
	case err != nil:
		log.Warn("Failed to load hand layout; using default layout", log.Field().Error("error", err))
		return hand.DefaultLayout()
	case !found:
		return hand.DefaultLayout()
	}
	return l
}
