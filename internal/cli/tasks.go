package cli

import (
	"strconv"
	"strings"
	"time"

	"lista-cli/internal/model"
	"lista-cli/internal/mutate"
	"lista-cli/internal/rank"
	"lista-cli/internal/sorting"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Task commands",
	}

	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksShowCmd(app))
	cmd.AddCommand(newTasksEditCmd(app))
	cmd.AddCommand(newTasksCompleteCmd(app, "complete", "Mark a task completed", true))
	cmd.AddCommand(newTasksCompleteCmd(app, "reopen", "Mark a task not completed", false))
	cmd.AddCommand(newTasksArchiveCmd(app, "archive", "Move a task to the archive tab", true))
	cmd.AddCommand(newTasksArchiveCmd(app, "unarchive", "Move a task back to todos", false))
	cmd.AddCommand(newTasksMoveCmd(app))
	cmd.AddCommand(newTasksDeleteCmd(app))
	cmd.AddCommand(newTasksLabelsCmd(app))
	cmd.AddCommand(newSubtasksCmd(app))

	return cmd
}

func newTasksAddCmd(app *App) *cobra.Command {
	var description string
	var labels []string
	var size string
	var due string
	var parent string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task to the end of todos (above completed tasks)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := mutate.NewTask{
				Title:       strings.Join(args, " "),
				Description: description,
				Labels:      labels,
			}
			sz, err := model.ParseSize(size)
			if err != nil {
				return writeErr(cmd, err)
			}
			in.Size = sz
			if strings.TrimSpace(due) != "" {
				d, err := parseDue(due)
				if err != nil {
					return writeErr(cmd, err)
				}
				in.DueDate = &d
			}
			if p := strings.TrimSpace(parent); p != "" {
				in.ParentTaskID = &p
			}

			return withWorkspace(cmd, app, func(w *workspace) error {
				if in.ParentTaskID != nil {
					if _, err := w.sess.Task(*in.ParentTaskID); err != nil {
						return writeErr(cmd, err)
					}
				}
				t, err := w.sess.AddTask(in)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": t})
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Description (markdown)")
	cmd.Flags().StringSliceVarP(&labels, "label", "l", nil, "Label (repeatable or comma-separated)")
	cmd.Flags().StringVar(&size, "size", "", "XS|S|M|L|XL")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent task id")
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var qf queryFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks of a tab, filtered and sorted",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := qf.query()
			if err != nil {
				return writeErr(cmd, err)
			}
			override, err := qf.sortSpec()
			if err != nil {
				return writeErr(cmd, err)
			}
			return withWorkspace(cmd, app, func(w *workspace) error {
				prefs := w.sess.Prefs()
				if q.Tab == "" {
					q.Tab = prefs.Tab
				}
				tasks := w.sess.Tasks(q)
				spec := prefs.Sort
				if override != nil {
					spec = *override
					tasks = sorting.Tasks(tasks, spec, w.sort)
				}
				return writeOut(cmd, app, map[string]any{
					"data": taskRows(tasks),
					"meta": map[string]any{
						"tab":   q.Tab,
						"sort":  spec.String(),
						"count": len(tasks),
					},
				})
			})
		},
	}

	qf.register(cmd, true)
	return cmd
}

func newTasksShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, app, func(w *workspace) error {
				t, err := w.sess.Task(args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{
					"data": t,
					"meta": map[string]any{"expanded": w.sess.IsExpanded(t.ID)},
				})
			})
		},
	}
}

func newTasksEditCmd(app *App) *cobra.Command {
	var title string
	var description string
	var labels []string
	var size string
	var due string
	var clearDue bool

	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Edit task fields (only flags that are passed change)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var e mutate.TaskEdit
			flags := cmd.Flags()
			if flags.Changed("title") {
				e.Title = &title
			}
			if flags.Changed("description") {
				e.Description = &description
			}
			if flags.Changed("label") {
				e.Labels = &labels
			}
			if flags.Changed("size") {
				sz, err := model.ParseSize(size)
				if err != nil {
					return writeErr(cmd, err)
				}
				e.Size = &sz
			}
			if flags.Changed("due") {
				d, err := parseDue(due)
				if err != nil {
					return writeErr(cmd, err)
				}
				e.DueDate = &d
			}
			e.ClearDueDate = clearDue
			if e.DueDate != nil && e.ClearDueDate {
				return writeErr(cmd, errUsage("flags", "--due and --clear-due are mutually exclusive"))
			}

			return withWorkspace(cmd, app, func(w *workspace) error {
				res, err := w.sess.EditTask(args[0], e)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{
					"data": res.Task,
					"meta": map[string]any{"changed": res.Changed},
				})
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringSliceVarP(&labels, "label", "l", nil, "Replace labels (pass --label= to clear)")
	cmd.Flags().StringVar(&size, "size", "", "XS|S|M|L|XL (empty clears)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "Remove the due date")
	return cmd
}

func newTasksCompleteCmd(app *App, use, short string, completed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <task-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, app, func(w *workspace) error {
				res, err := w.sess.SetTaskCompleted(args[0], completed)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeTaskResult(cmd, app, w, res)
			})
		},
	}
}

func newTasksArchiveCmd(app *App, use, short string, archived bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <task-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, app, func(w *workspace) error {
				res, err := w.sess.SetTaskArchived(args[0], archived)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeTaskResult(cmd, app, w, res)
			})
		},
	}
}

// writeTaskResult runs any deferred re-rank first so the printed priority is final.
func writeTaskResult(cmd *cobra.Command, app *App, w *workspace, res mutate.TaskResult) error {
	w.sess.Flush()
	t := res.Task
	if cur, err := w.sess.Task(t.ID); err == nil {
		t = cur
	}
	return writeOut(cmd, app, map[string]any{
		"data": t,
		"meta": map[string]any{"changed": res.Changed},
	})
}

func newTasksMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <task-id> <position|up|down|top|bottom>",
		Short: "Reorder a task within its tab",
		Long: strings.TrimSpace(`
Positions are 1-based and clamped to the tab. Completed tasks always stay below open ones,
so moving an open task past them lands it just above the first completed task.
`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, dir, err := parseMoveTarget(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return withWorkspace(cmd, app, func(w *workspace) error {
				var res mutate.TaskResult
				if dir != "" {
					res, err = w.sess.MoveTaskDirection(args[0], dir)
				} else {
					res, err = w.sess.MoveTask(args[0], pos)
				}
				if err != nil {
					return writeErr(cmd, err)
				}
				if res.Task.ID == "" {
					return writeOut(cmd, app, map[string]any{
						"data": nil,
						"meta": map[string]any{"changed": false},
					})
				}
				return writeTaskResult(cmd, app, w, res)
			})
		},
	}
}

func parseMoveTarget(s string) (int, rank.Direction, error) {
	if dir, ok := rank.ParseDirection(s); ok {
		return 0, dir, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, "", errUsage("position", "expected a number or up|down|top|bottom")
	}
	return n, "", nil
}

func newTasksDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <task-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task (unknown ids are a no-op)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, app, func(w *workspace) error {
				res, err := w.sess.DeleteTask(args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{
					"data": map[string]any{"id": strings.TrimSpace(args[0]), "deleted": res.Changed},
				})
			})
		},
	}
}

func newTasksLabelsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "List the distinct labels used by tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, app, func(w *workspace) error {
				return writeOut(cmd, app, map[string]any{"data": w.sess.TaskLabels()})
			})
		},
	}
}

// dueString is used by the table views and the TUI detail pane.
func dueString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
