package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tasks/internal/export"
	"github.com/idilsaglam/tasks/internal/ui"
)

func (a *app) exportCmd() *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks as JSON or a PDF report",
		Example: `  tasks export > backup.json
  tasks export -o tasks.pdf`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format == "" {
				format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
			}
			if format == "" {
				format = "json"
			}
			format = strings.ToLower(format)
			if !slices.Contains(export.Formats, format) {
				return usagef("unknown format %q (want one of %s)", format, strings.Join(export.Formats, ", "))
			}

			st, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			tasks := st.Tasks()

			if output == "" || output == "-" {
				return export.Write(a.out, format, tasks, time.Now())
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := export.Write(f, format, tasks, time.Now()); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", output, err)
			}
			ui.OK(a.out, fmt.Sprintf("Exported %d tasks to %s.", len(tasks), output))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "json or pdf (default from the output extension, else json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}
