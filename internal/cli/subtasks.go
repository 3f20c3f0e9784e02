package cli

import (
	"strings"

	"lista-cli/internal/mutate"

	"github.com/spf13/cobra"
)

func newSubtasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subtasks",
		Aliases: []string{"subtask"},
		Short:   "Subtask commands",
	}
	cmd.AddCommand(newSubtasksAddCmd(app))
	cmd.AddCommand(newSubtasksCompleteCmd(app, "complete", "Mark a subtask completed", true))
	cmd.AddCommand(newSubtasksCompleteCmd(app, "reopen", "Mark a subtask not completed", false))
	cmd.AddCommand(newSubtasksDeleteCmd(app))
	return cmd
}

func newSubtasksAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <task-id> <title>",
		Short: "Add a subtask",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, app, func(w *workspace) error {
				res, err := w.sess.AddSubtask(args[0], strings.Join(args[1:], " "))
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeSubtaskResult(cmd, app, args[0], res)
			})
		},
	}
}

func newSubtasksCompleteCmd(app *App, use, short string, completed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <task-id> <subtask-id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, app, func(w *workspace) error {
				res, err := w.sess.SetSubtaskCompleted(args[0], args[1], completed)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeSubtaskResult(cmd, app, args[0], res)
			})
		},
	}
}

func newSubtasksDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <task-id> <subtask-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a subtask (unknown subtask ids are a no-op)",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, app, func(w *workspace) error {
				res, err := w.sess.DeleteSubtask(args[0], args[1])
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeSubtaskResult(cmd, app, args[0], res)
			})
		},
	}
}

func writeSubtaskResult(cmd *cobra.Command, app *App, taskID string, res mutate.SubtaskResult) error {
	return writeOut(cmd, app, map[string]any{
		"data": res.Subtask,
		"meta": map[string]any{
			"taskId":       strings.TrimSpace(taskID),
			"openSubtasks": res.Task.OpenSubtasks(),
			"changed":      res.Changed,
		},
	})
}
