package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/harborguide/internal/cli/formatter"
	"github.com/alexanderramin/harborguide/internal/window"
)

// windowFlag restricts kpis to one comparison window.
type windowFlag struct {
	kind window.Kind
}

var _ pflag.Value = (*windowFlag)(nil)

func (w *windowFlag) String() string { return string(w.kind) }

func (w *windowFlag) Set(s string) error {
	kind, err := window.ParseKind(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	w.kind = kind
	return nil
}

func (w *windowFlag) Type() string { return "window" }

func newKPIsCmd(st *state) *cobra.Command {
	var (
		asJSON bool
		only   windowFlag
	)

	cmd := &cobra.Command{
		Use:   "kpis",
		Short: "Show week-over-week and month-to-date port KPIs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := st.mustApp()
			if err != nil {
				return err
			}
			snap, err := a.KPIs.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			if only.kind != "" {
				snap.Bundle = snap.Bundle.Only(only.kind)
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatKPIs(snap))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the API payload instead of a table")
	cmd.Flags().Var(&only, "window", "only show KPIs compared over this window (WoW or MTD)")
	return cmd
}
