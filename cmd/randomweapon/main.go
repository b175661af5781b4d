// Command randomweapon tracks a Terraria run and picks random weapons from
// what the current progression stage allows.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"randomweapon/internal/config"
	"randomweapon/internal/logger"

	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once flags and environment are
// resolved.
type app struct {
	cfg config.Config
	log *slog.Logger
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var data, base, overlay, stateDir, logMode string

	root := &cobra.Command{
		Use:   "randomweapon",
		Short: "Terraria random weapon tracker",
		Long: `Tracks progression through Terraria boss stages and picks a random weapon
from everything the current stage has unlocked, optionally including the
Calamity mod.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("data") {
				cfg.Data = data
			}
			if flags.Changed("base") {
				cfg.BaseFile = base
			}
			if flags.Changed("overlay") {
				cfg.OverlayFile = overlay
			}
			if flags.Changed("state-dir") {
				cfg.StateDir = stateDir
			}
			if flags.Changed("log") {
				cfg.LogMode = logMode
			}
			mode, err := logger.ParseMode(cfg.LogMode)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logger.NewWriter(mode, cmd.ErrOrStderr())
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&data, "data", "", "catalog directory or http(s) URL (env TRW_DATA)")
	pf.StringVar(&base, "base", "", "base catalog file name (env TRW_BASE_FILE)")
	pf.StringVar(&overlay, "overlay", "", "overlay catalog file name, empty to skip (env TRW_OVERLAY_FILE)")
	pf.StringVar(&stateDir, "state-dir", "", "directory holding the local save file (env TRW_STATE_DIR)")
	pf.StringVar(&logMode, "log", "", "log mode: dev, prod or silence (env TRW_LOG_MODE)")

	root.AddCommand(
		a.serveCmd(),
		a.stagesCmd(),
		a.listCmd(),
		a.pickCmd(),
		a.stageCmd(),
		a.modeCmd(),
		a.optionsCmd(),
		a.excludeCmd(),
		a.includeCmd(),
		a.resetCmd(),
		a.loadCmd(),
		a.exportCmd(),
		a.simulateCmd(),
	)
	return root
}
