package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tasks/internal/auth"
	"github.com/idilsaglam/tasks/internal/tui"
	"github.com/idilsaglam/tasks/internal/ui"
	"github.com/idilsaglam/tasks/internal/web"
)

func (a *app) uiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive terminal UI",
		Long: `Open the interactive terminal UI.

Keys: a add, e edit, space complete, d delete, / filter, q quit.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), st, tui.Options{
				RemovalDelay:  a.cfg.UI.RemovalDelay,
				NotifyTimeout: a.cfg.UI.NotifyTimeout,
			})
		},
	}
}

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task list over HTTP",
		Long: `Serve the task list over HTTP: a JSON API under /api and an HTML page at /.

When a token is configured (tasks auth login, or TASKS_TOKEN) the API
requires "Authorization: Bearer <token>" and the HTML page is disabled.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			tok, err := auth.Get()
			if err != nil {
				return err
			}
			var token string
			if tok != nil {
				token = tok.Token
			}
			st, err := a.open(cmd.Context())
			if err != nil {
				return err
			}

			srv := web.NewServer(st, token, a.logger)
			if token != "" {
				ui.Hint(a.out, fmt.Sprintf("API on http://%s/api (token from %s)", addr, tok.Source))
			} else {
				ui.Hint(a.out, fmt.Sprintf("Listening on http://%s", addr))
			}
			return srv.Run(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from server.addr)")
	return cmd
}
