package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/harborguide/internal/cli/formatter"
)

func newFactsCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "facts",
		Short: "Manage the port call fact store",
	}
	cmd.AddCommand(newFactsImportCmd(st))
	return cmd
}

func newFactsImportCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import port calls from a CSV export",
		Long: "Import port calls from CSV. Expected columns: Vessel, BU,\n" +
			"ATB (Local Time), AA_YN, Arrival Variance (h), Berth Time (h),\n" +
			"Carbon Abatement (t). The whole file is rejected if any row is invalid.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := st.mustApp()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := a.Facts.ImportCSV(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatImport(res))
			return nil
		},
	}
}
