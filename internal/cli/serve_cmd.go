package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/harborguide/internal/cli/formatter"
	"github.com/alexanderramin/harborguide/internal/httpapi"
	"github.com/alexanderramin/harborguide/internal/logging"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(st *state) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: "Serve the upload, context, ask and KPI endpoints. When watching is\n" +
			"enabled the configured workbook is reloaded whenever it changes.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := st.mustApp()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				a.Config.Server.Port = port
				if err := a.Config.Validate(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			hlog.SetLogger(logging.NewHertzLogger(a.Logger))
			srv := httpapi.NewServer(a.Config.Addr(), a.Handler, a.Config.Server.AllowedOrigin)

			if out := cmd.OutOrStdout(); isTerminal(out) {
				info := formatter.ServeInfo{
					Addr:     a.Config.Addr(),
					Origin:   a.Config.Server.AllowedOrigin,
					Workbook: a.Config.Data.WorkbookPath,
					Watching: a.Watcher != nil,
				}
				if a.LLM != nil {
					info.Model = string(a.LLMConfig.Provider) + "/" + a.LLMConfig.Model
				}
				fmt.Fprint(out, formatter.FormatServeBanner(info))
			}

			var shuttingDown atomic.Bool
			g, gctx := errgroup.WithContext(ctx)

			if a.Watcher != nil {
				g.Go(func() error {
					// the API keeps serving the last snapshot without the watcher
					if err := a.Watcher.Run(gctx); err != nil {
						a.Logger.Warn("workbook watcher stopped", "error", err)
					}
					return nil
				})
			}

			g.Go(func() error {
				a.Logger.Info("api listening", "addr", a.Config.Addr(), "origin", a.Config.Server.AllowedOrigin)
				if err := srv.Run(); err != nil && !shuttingDown.Load() {
					return fmt.Errorf("running server: %w", err)
				}
				return nil
			})

			g.Go(func() error {
				<-gctx.Done()
				shuttingDown.Store(true)
				a.Logger.Info("shutting down")
				sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(sctx); err != nil {
					return fmt.Errorf("shutting down server: %w", err)
				}
				return nil
			})

			return g.Wait()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")
	return cmd
}
