package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tasks/internal/config"
	"github.com/idilsaglam/tasks/internal/ui"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage tasks configuration",
		// The config commands must work while the config files are broken.
		PersistentPreRunE: func(*cobra.Command, []string) error {
			a.applyTheme("")
			return nil
		},
	}

	var global, force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.ProjectPath()
			if global {
				path = config.GlobalPath()
			}
			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			ui.OK(a.out, "Wrote "+path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&global, "global", false, "write ~/.tasks/config.yaml instead of ./.tasks/config.yaml")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(
		initCmd,
		&cobra.Command{
			Use:   "path",
			Short: "Show configuration file paths",
			Args:  noArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(a.out, "Global:  %s%s\n", config.GlobalPath(), missing(config.GlobalPath()))
				fmt.Fprintf(a.out, "Project: %s%s\n", config.ProjectPath(), missing(config.ProjectPath()))
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Show the merged configuration",
			Args:  noArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := config.Load(a.configPath)
				if err != nil {
					return err
				}
				b, err := config.Marshal(cfg)
				if err != nil {
					return err
				}
				_, err = a.out.Write(b)
				return err
			},
		},
	)
	return cmd
}

func missing(path string) string {
	if _, err := os.Stat(path); err != nil {
		return " (not found)"
	}
	return ""
}
