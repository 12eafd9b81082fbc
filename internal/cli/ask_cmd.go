package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/harborguide/internal/cli/formatter"
	"github.com/alexanderramin/harborguide/internal/intelligence"
)

// modeFlag validates --mode while flags are parsed.
type modeFlag struct {
	mode intelligence.Mode
}

var _ pflag.Value = (*modeFlag)(nil)

func (m *modeFlag) String() string { return string(m.mode) }

func (m *modeFlag) Set(s string) error {
	mode, err := intelligence.ParseMode(s)
	if err != nil {
		return err
	}
	m.mode = mode
	return nil
}

func (m *modeFlag) Type() string { return "mode" }

func newAskCmd(st *state) *cobra.Command {
	var (
		mode   modeFlag
		report string
	)

	cmd := &cobra.Command{
		Use:   `ask "<question>"`,
		Short: "Ask an operational question",
		Long: "Answer a question about port operations. --mode selects the grounding:\n" +
			"  stub      fixed guidance, no model call\n" +
			"  llm_only  model without data\n" +
			"  cards     model reads the data cards of the loaded snapshot\n" +
			"  kpis      model writes a briefing from the live KPI snapshot\n" +
			"Without a reachable model every mode answers deterministically.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := st.mustApp()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			styled := isTerminal(out)

			stopSpinner := func() {}
			if styled && a.LLM != nil {
				stopSpinner = formatter.StartSpinner(out, "Thinking...")
			}
			ans, err := a.Asker.Ask(cmd.Context(), intelligence.AskRequest{
				Question:  strings.Join(args, " "),
				SourceKey: report,
				Mode:      mode.mode,
			})
			stopSpinner()
			if err != nil {
				return err
			}

			fmt.Fprint(out, formatter.FormatAnswer(ans, styled))
			return nil
		},
	}

	cmd.Flags().Var(&mode, "mode", "stub, llm_only, cards or kpis (defaults to config)")
	cmd.Flags().StringVar(&report, "report", "", "snapshot key the cards come from")
	return cmd
}
