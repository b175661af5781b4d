package main

import (
	"fmt"
	"os"

	"randomweapon/internal/checklist"
	"randomweapon/internal/game"

	"github.com/spf13/cobra"
)

var exportNames = map[string]string{
	"save": game.SaveFileName,
	"pdf":  "checklist.pdf",
	"xlsx": "checklist.xlsx",
}

func (a *app) exportCmd() *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the save file or a weapon checklist (pdf, xlsx)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, ok := exportNames[format]
			if !ok {
				return fmt.Errorf("unknown export format %q (want save, pdf or xlsx)", format)
			}
			if output == "" {
				output = name
			}
			c, err := a.openLocal(cmd.Context(), false)
			if err != nil {
				return err
			}

			var data []byte
			switch format {
			case "save":
				data, err = c.Snapshot()
			case "pdf":
				data, err = checklist.PDF(checklist.Build(c.Engine().Catalog, c.State()))
			case "xlsx":
				data, err = checklist.XLSX(checklist.Build(c.Engine().Catalog, c.State()))
			}
			if err != nil {
				return fmt.Errorf("export %s: %w", format, err)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "pdf", "save, pdf or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default depends on format)")
	return cmd
}
