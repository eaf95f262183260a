package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/ui"
)

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "add <text...>",
		Short:   "Add a pending task",
		Example: `  tasks add "Buy milk"`,
		Args:    minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			_, err = st.Add(cmd.Context(), strings.Join(args, " "))
			return a.report(err)
		},
	}
}

func (a *app) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "edit <ref> <text...>",
		Short:   "Replace the text of a pending task",
		Example: "  tasks edit 2 Buy oat milk\n  tasks edit id:1700000000000 Call mum",
		Args:    minArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.lookup(cmd, args[0])
			if err != nil {
				return err
			}
			if t.Completed {
				return usagef("task %s is completed and cannot be edited", args[0])
			}
			_, err = a.store.Edit(cmd.Context(), t.ID, strings.Join(args[1:], " "))
			return a.report(err)
		},
	}
}

func (a *app) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <ref>",
		Short: "Mark a task completed",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.lookup(cmd, args[0])
			if err != nil {
				return err
			}
			if t.Completed {
				ui.Hint(a.out, fmt.Sprintf("Task %q is already completed.", t.Text))
				return nil
			}
			_, err = a.store.Complete(cmd.Context(), t.ID)
			return a.report(err)
		},
	}
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <ref>",
		Aliases: []string{"delete"},
		Short:   "Delete a task, pending or completed",
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.lookup(cmd, args[0])
			if err != nil {
				return err
			}
			return a.report(a.store.Delete(cmd.Context(), t.ID))
		},
	}
}

func (a *app) lsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks, pending first",
		Args:    noArgs,
		RunE:    a.runList,
	}
	cmd.Flags().BoolVarP(&a.group, "group", "g", false, "show pending and completed under separate headings")
	cmd.Flags().BoolVar(&a.showIDs, "ids", false, "show task ids")
	return cmd
}

func (a *app) runList(cmd *cobra.Command, _ []string) error {
	st, err := a.open(cmd.Context())
	if err != nil {
		return err
	}
	ui.Panel(a.out, ui.Listing(st.Tasks(), a.group, a.showIDs))
	return nil
}

// lookup opens the store and resolves ref against the current collection.
func (a *app) lookup(cmd *cobra.Command, ref string) (model.Task, error) {
	r, err := ParseTaskRef(ref)
	if err != nil {
		return model.Task{}, usageError{err}
	}
	st, err := a.open(cmd.Context())
	if err != nil {
		return model.Task{}, err
	}
	return r.Resolve(st.Tasks())
}
