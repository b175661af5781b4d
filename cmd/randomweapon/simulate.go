package main

import (
	"fmt"
	"math/rand/v2"

	"randomweapon/internal/game"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat/distuv"
)

// uniformity is the outcome of repeated picks from one availability set.
// A weapon listed by several visible stages appears once, with Slots
// counting its entries in the availability list.
type uniformity struct {
	Names  []string
	Slots  []int
	Counts []int
	Draws  int
	Chi2   float64
	DF     int
	// P is the chance of a statistic at least this large under a uniform
	// picker.
	P float64
}

// simulate draws n picks for st without changing it and runs a chi-square
// goodness-of-fit test against a picker uniform over the availability list.
func simulate(engine *game.Engine, st game.State, n int, r game.Rand) uniformity {
	sim := *engine
	sim.Rand = r

	avail := sim.AvailableFor(st)
	u := uniformity{Draws: n, P: 1}
	index := make(map[string]int, len(avail))
	for _, w := range avail {
		i, ok := index[w.Name]
		if !ok {
			i = len(u.Names)
			index[w.Name] = i
			u.Names = append(u.Names, w.Name)
			u.Slots = append(u.Slots, 0)
		}
		u.Slots[i]++
	}
	u.Counts = make([]int, len(u.Names))
	if len(avail) == 0 || n <= 0 {
		return u
	}
	for range n {
		w, _ := sim.Pick(st)
		u.Counts[index[w.Name]]++
	}

	for i, c := range u.Counts {
		expected := float64(u.Slots[i]) * float64(n) / float64(len(avail))
		d := float64(c) - expected
		u.Chi2 += d * d / expected
	}
	u.DF = len(u.Names) - 1
	if u.DF > 0 {
		u.P = distuv.ChiSquared{K: float64(u.DF)}.Survival(u.Chi2)
	}
	return u
}

func (a *app) simulateCmd() *cobra.Command {
	var draws int
	var seed uint64
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Check that picks at the current stage are uniform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if draws <= 0 {
				return fmt.Errorf("--draws must be positive")
			}
			c, err := a.openLocal(cmd.Context(), false)
			if err != nil {
				return err
			}
			var r game.Rand = game.DefaultRand
			if cmd.Flags().Changed("seed") {
				r = rand.New(rand.NewPCG(seed, seed))
			}

			u := simulate(c.Engine(), c.State(), draws, r)
			out := cmd.OutOrStdout()
			if len(u.Names) == 0 {
				fmt.Fprintln(out, "No weapons available.")
				return nil
			}
			rows := make([][]string, len(u.Names))
			for i, name := range u.Names {
				rows[i] = []string{
					name,
					printer.Sprintf("%d", u.Slots[i]),
					printer.Sprintf("%d", u.Counts[i]),
					printer.Sprintf("%.2f%%", 100*float64(u.Counts[i])/float64(u.Draws)),
				}
			}
			fmt.Fprint(out, fmtTable([]string{"Weapon", "Slots", "Picks", "Share"}, rows))
			printer.Fprintf(out, "draws: %d  chi2: %.3f  df: %d  p: %.4f\n", u.Draws, u.Chi2, u.DF, u.P)
			return nil
		},
	}
	cmd.Flags().IntVarP(&draws, "draws", "n", 100000, "number of picks to draw")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for a reproducible run")
	return cmd
}
