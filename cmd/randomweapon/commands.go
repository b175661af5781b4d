package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"randomweapon/internal/catalog"
	"randomweapon/internal/checklist"
	"randomweapon/internal/game"

	"github.com/spf13/cobra"
)

func printStatus(w io.Writer, v game.View) {
	fmt.Fprintf(w, "Stage:     %s\n", v.StageLabel())
	fmt.Fprintf(w, "Mode:      %s\n", v.Mode)
	fmt.Fprintf(w, "Available: %d\n", v.Available)
	fmt.Fprintf(w, "Weapon:    %s\n", game.FormatWeapon(v.Selected))
}

func (a *app) stagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "List the stages visible in the current mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.openLocal(cmd.Context(), false)
			if err != nil {
				return err
			}
			sheet := checklist.Build(c.Engine().Catalog, c.State())
			rows := make([][]string, 0, len(sheet.Sections))
			for i, sec := range sheet.Sections {
				marker := ""
				if sec.Current {
					marker = ">"
				}
				clears := ""
				if sec.Clears {
					clears = "yes"
				}
				rows = append(rows, []string{marker, strconv.Itoa(i + 1), sec.Stage, strconv.Itoa(len(sec.Entries)), clears})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Mode: %s\n", sheet.Mode)
			fmt.Fprint(out, fmtTable([]string{"", "#", "Stage", "Weapons", "Clears"}, rows))
			return nil
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the weapons unlocked at the current stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.openLocal(cmd.Context(), false)
			if err != nil {
				return err
			}
			st := c.State()
			entries := c.Engine().WeaponList(st)
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				status := ""
				switch {
				case e.Selected:
					status = "selected"
				case e.Excluded:
					status = "excluded"
				}
				rows = append(rows, []string{e.Weapon.Name, string(e.Weapon.Mod), status})
			}
			v := c.View()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s, sorted by %s\n", v.StageLabel(), st.Sort.Label())
			fmt.Fprint(out, fmtTable([]string{"Weapon", "Mod", "Status"}, rows))
			printer.Fprintf(out, "%d of %d available\n", v.Available, len(entries))
			return nil
		},
	}
}

func (a *app) pickCmd() *cobra.Command {
	var exclude, dryRun bool
	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick a random available weapon and make it the current one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.openLocal(cmd.Context(), false)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			v := c.RollRandom()
			if v.Pending == nil {
				fmt.Fprintln(out, "No weapons available.")
				return nil
			}
			name := v.Pending.Name
			if dryRun {
				fmt.Fprintf(out, "Would pick: %s\n", name)
				return nil
			}
			if _, err := c.ResolveRandomPrompt(cmd.Context(), true, exclude); err != nil {
				return err
			}
			fmt.Fprintf(out, "Picked: %s\n", name)
			if exclude {
				fmt.Fprintf(out, "Excluded %s from future picks\n", name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&exclude, "exclude", false, "also exclude the picked weapon from future picks")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the pick without saving it")
	return cmd
}

func (a *app) stageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Show or move the current stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.openLocal(cmd.Context(), false)
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), c.View())
			return nil
		},
	}
	next := &cobra.Command{
		Use:   "next",
		Short: "Advance to the next stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.openLocal(cmd.Context(), false)
			if err != nil {
				return err
			}
			v, err := c.NextStage(cmd.Context())
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), v)
			return nil
		},
	}
	prev := &cobra.Command{
		Use:   "prev",
		Short: "Go back to the previous stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.openLocal(cmd.Context(), false)
			if err != nil {
				return err
			}
			v, err := c.PreviousStage(cmd.Context())
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), v)
			return nil
		},
	}
	cmd.AddCommand(next, prev)
	return cmd
}

func (a *app) modeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "mode [vanilla|calamity|both]",
		Short:     "Set the mod mode, or cycle it when no mode is given",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(catalog.ModeVanilla), string(catalog.ModeCalamity), string(catalog.ModeBoth)},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.openLocal(cmd.Context(), false)
			if err != nil {
				return err
			}
			var v game.View
			if len(args) == 0 {
				v, err = c.CycleMode(cmd.Context())
			} else {
				var m catalog.Mode
				if m, err = catalog.ParseMode(args[0]); err != nil {
					return err
				}
				v, err = c.SetMode(cmd.Context(), m)
			}
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func (a *app) optionsCmd() *cobra.Command {
	var sortMode string
	var stageClear, listOpen bool
	cmd := &cobra.Command{
		Use:   "options",
		Short: "Show or change sorting, stage clearing and the weapon list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.openLocal(cmd.Context(), false)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			flags := cmd.Flags()
			if flags.Changed("sort") {
				if _, err := c.SetSort(ctx, game.SortMode(sortMode)); err != nil {
					return err
				}
			}
			if flags.Changed("stage-clear") && c.State().StageClear != stageClear {
				if _, err := c.ToggleStageClear(ctx); err != nil {
					return err
				}
			}
			if flags.Changed("list") && c.State().WeaponListOpen != listOpen {
				if _, err := c.ToggleWeaponList(ctx); err != nil {
					return err
				}
			}
			st := c.State()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sort:        %s\n", st.Sort.Label())
			fmt.Fprintf(out, "Stage clear: %t\n", st.StageClear)
			fmt.Fprintf(out, "Weapon list: %t\n", st.WeaponListOpen)
			return nil
		},
	}
	cmd.Flags().StringVar(&sortMode, "sort", "", "weapon list order: name, availability or availabilityAndName")
	cmd.Flags().BoolVar(&stageClear, "stage-clear", true, "let clearing stages drop earlier weapons")
	cmd.Flags().BoolVar(&listOpen, "list", false, "keep the weapon list open in the web UI")
	return cmd
}

func (a *app) excludeCmd() *cobra.Command {
	return a.exclusionCmd("exclude NAME...", "Exclude weapons from random picks", true)
}

func (a *app) includeCmd() *cobra.Command {
	return a.exclusionCmd("include NAME...", "Allow excluded weapons to be picked again", false)
}

func (a *app) exclusionCmd(use, short string, excluded bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.openLocal(cmd.Context(), false)
			if err != nil {
				return err
			}
			cat := c.Engine().Catalog
			for _, name := range args {
				if !knownWeapon(cat, name) {
					a.log.Warn("weapon not in catalog", "name", name)
				}
				if _, err := c.SetWeaponExcluded(cmd.Context(), name, excluded); err != nil {
					return err
				}
			}
			printStatus(cmd.OutOrStdout(), c.View())
			return nil
		},
	}
}

func knownWeapon(cat *catalog.Catalog, name string) bool {
	for _, s := range cat.Stages() {
		for _, w := range s.Weapons {
			if w.Name == name {
				return true
			}
		}
	}
	return false
}

func (a *app) resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Start a new run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.openLocal(cmd.Context(), true)
			if err != nil {
				return err
			}
			v, err := c.Reset(cmd.Context())
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func (a *app) loadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load FILE",
		Short: "Replace the run with a save file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			c, err := a.openLocal(cmd.Context(), true)
			if err != nil {
				return err
			}
			v, err := c.Load(cmd.Context(), data)
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), v)
			return nil
		},
	}
}
