package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tasks/internal/auth"
	"github.com/idilsaglam/tasks/internal/ui"
)

func (a *app) authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the bearer token required by `tasks serve`",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "login [token]",
			Short: "Save a token (read from stdin when omitted)",
			Args:  rangeArgs(0, 1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var token string
				if len(args) == 1 {
					token = args[0]
				} else {
					fmt.Fprint(a.errOut, "Token: ")
					line, err := bufio.NewReader(a.in).ReadString('\n')
					if err != nil && line == "" {
						return usagef("no token given")
					}
					token = strings.TrimSpace(line)
				}
				if auth.StripBearer(token) == "" {
					return usagef("empty token")
				}
				if err := auth.Set(token); err != nil {
					return err
				}
				ui.OK(a.out, "Token saved.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Remove the saved token",
			Args:  noArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := auth.Delete(); err != nil {
					return err
				}
				ui.OK(a.out, "Token removed.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show where the token comes from",
			Args:  noArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ti, err := auth.Get()
				if err != nil {
					return err
				}
				if ti == nil {
					ui.Hint(a.out, "No token configured; the API is open.")
					return nil
				}
				ui.OK(a.out, fmt.Sprintf("Token %s (from %s)", mask(ti.Token), ti.Source))
				return nil
			},
		},
	)
	return cmd
}

func mask(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}
