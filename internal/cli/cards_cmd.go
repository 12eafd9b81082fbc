package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/harborguide/internal/cli/formatter"
	"github.com/alexanderramin/harborguide/internal/domain"
	"github.com/alexanderramin/harborguide/internal/ingest"
)

func newCardsCmd(st *state) *cobra.Command {
	var (
		maxChars int
		report   string
	)

	cmd := &cobra.Command{
		Use:   "cards [file...]",
		Short: "Print the data cards a model would see",
		Long: "Render data cards for the given workbook, CSV or JSON files. Without\n" +
			"files, the cards come from the loaded snapshot for --report, falling\n" +
			"back to the most recent snapshot.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := st.mustApp()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			budget := maxChars
			if budget == 0 {
				budget = a.Config.Cards.MaxChars
			}

			if len(args) == 0 {
				res, err := a.Contexts.Cards(cmd.Context(), report)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, res.Text)
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.FormatCardsFooter(res.Text, res.Included, res.Total, a.Config.Cards.MaxChars))
				return nil
			}

			var blocks []domain.TabularBlock
			for _, path := range args {
				b, err := ingest.ReadFile(path)
				if err != nil {
					return err
				}
				blocks = append(blocks, b...)
			}
			digest, err := a.Builder.Compose(blocks, budget)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, digest.Text)
			fmt.Fprintln(cmd.ErrOrStderr(), formatter.FormatCardsFooter(digest.Text, digest.Included, digest.Total, budget))
			return nil
		},
	}

	cmd.Flags().IntVar(&maxChars, "max-chars", 0, "character budget for files (defaults to config)")
	cmd.Flags().StringVar(&report, "report", "", "snapshot key when no files are given")
	return cmd
}
