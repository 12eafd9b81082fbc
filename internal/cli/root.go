// Package cli implements the harborguide command line.
package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/harborguide/internal/app"
	"github.com/alexanderramin/harborguide/internal/config"
	"github.com/alexanderramin/harborguide/internal/logging"
)

// BuildFunc wires an App from loaded configuration.
type BuildFunc func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app.App, error)

// state is shared by every subcommand. The App is built lazily in the root
// pre-run so that help and completion never touch the database.
type state struct {
	build      BuildFunc
	configPath string
	app        *app.App
}

// Execute runs the command line with args and closes the App afterwards,
// including when the command fails.
func Execute(ctx context.Context, build BuildFunc, args []string) error {
	st := &state{build: build}
	root := newRootCmd(st)
	root.SetArgs(args)
	defer st.close()
	return root.ExecuteContext(ctx)
}

func newRootCmd(st *state) *cobra.Command {
	root := &cobra.Command{
		Use:           "harborguide",
		Short:         "Port operations assistant: data cards, KPIs and grounded answers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return st.open(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&st.configPath, "config", "c", "",
		"config file (defaults to "+config.DefaultPath+" when present)")

	root.AddCommand(
		newServeCmd(st),
		newCardsCmd(st),
		newKPIsCmd(st),
		newFactsCmd(st),
		newAskCmd(st),
	)
	return root
}

func (st *state) open(cmd *cobra.Command) error {
	cfg, err := config.Load(st.configPath)
	if err != nil {
		return err
	}
	logger, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a, err := st.build(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	st.app = a
	return nil
}

func (st *state) close() error {
	if st.app == nil {
		return nil
	}
	return st.app.Close()
}

// mustApp returns the App built in the pre-run.
func (st *state) mustApp() (*app.App, error) {
	if st.app == nil {
		return nil, errors.New("application not initialized")
	}
	return st.app, nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
