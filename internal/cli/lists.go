package cli

import (
	"strings"

	"lista-cli/internal/model"
	"lista-cli/internal/mutate"
	"lista-cli/internal/sorting"

	"github.com/spf13/cobra"
)

func newListsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lists",
		Aliases: []string{"list"},
		Short:   "List commands (checklists with items)",
	}

	cmd.AddCommand(newListsAddCmd(app))
	cmd.AddCommand(newListsListCmd(app))
	cmd.AddCommand(newListsShowCmd(app))
	cmd.AddCommand(newListsEditCmd(app))
	cmd.AddCommand(newListsMoveCmd(app))
	cmd.AddCommand(newListsDeleteCmd(app))
	cmd.AddCommand(newListsLabelsCmd(app))
	cmd.AddCommand(newListItemsCmd(app))

	return cmd
}

func newListsAddCmd(app *App) *cobra.Command {
	var description string
	var typ string
	var labels []string
	var items []string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := mutate.NewList{
				Title:       strings.Join(args, " "),
				Description: description,
				Labels:      labels,
				Items:       items,
			}
			if typ != "" {
				t, err := model.ParseListType(typ)
				if err != nil {
					return writeErr(cmd, err)
				}
				in.Type = t
			}
			return withWorkspace(cmd, app, func(w *workspace) error {
				l, err := w.sess.AddList(in)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": l})
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	cmd.Flags().StringVar(&typ, "type", "", "ordered|unordered (default unordered)")
	cmd.Flags().StringSliceVarP(&labels, "label", "l", nil, "Label (repeatable or comma-separated)")
	cmd.Flags().StringArrayVarP(&items, "item", "i", nil, "Initial item (repeatable)")
	return cmd
}

func newListsListCmd(app *App) *cobra.Command {
	var qf queryFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List lists, filtered and sorted",
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
				lists := w.sess.Lists(q)
				spec := w.sess.Prefs().Sort
				if override != nil {
					spec = *override
					lists = sorting.Lists(lists, spec, w.sort)
				}
				return writeOut(cmd, app, map[string]any{
					"data": listRows(lists),
					"meta": map[string]any{"sort": spec.String(), "count": len(lists)},
				})
			})
		},
	}

	qf.register(cmd, false)
	return cmd
}

func newListsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <list-id>",
		Short: "Show a list with its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, app, func(w *workspace) error {
				l, err := w.sess.List(args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{
					"data": l,
					"meta": map[string]any{
						"completed": l.AllCompleted(),
						"expanded":  w.sess.IsExpanded(l.ID),
					},
				})
			})
		},
	}
}

func newListsEditCmd(app *App) *cobra.Command {
	var title string
	var description string
	var typ string
	var labels []string

	cmd := &cobra.Command{
		Use:   "edit <list-id>",
		Short: "Edit list fields (only flags that are passed change)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var e mutate.ListEdit
			flags := cmd.Flags()
			if flags.Changed("title") {
				e.Title = &title
			}
			if flags.Changed("description") {
				e.Description = &description
			}
			if flags.Changed("type") {
				t, err := model.ParseListType(typ)
				if err != nil {
					return writeErr(cmd, err)
				}
				e.Type = &t
			}
			if flags.Changed("label") {
				e.Labels = &labels
			}
			return withWorkspace(cmd, app, func(w *workspace) error {
				res, err := w.sess.EditList(args[0], e)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{
					"data": res.List,
					"meta": map[string]any{"changed": res.Changed},
				})
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVar(&typ, "type", "", "ordered|unordered")
	cmd.Flags().StringSliceVarP(&labels, "label", "l", nil, "Replace labels (pass --label= to clear)")
	return cmd
}

func newListsMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <list-id> <position|up|down|top|bottom>",
		Short: "Reorder a list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, dir, err := parseMoveTarget(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return withWorkspace(cmd, app, func(w *workspace) error {
				var res mutate.ListResult
				if dir != "" {
					res, err = w.sess.MoveListDirection(args[0], dir)
				} else {
					res, err = w.sess.MoveList(args[0], pos)
				}
				if err != nil {
					return writeErr(cmd, err)
				}
				var data any
				if res.List.ID != "" {
					data = res.List
				}
				return writeOut(cmd, app, map[string]any{
					"data": data,
					"meta": map[string]any{"changed": res.Changed},
				})
			})
		},
	}
}

func newListsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <list-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a list (unknown ids are a no-op)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, app, func(w *workspace) error {
				res, err := w.sess.DeleteList(args[0])
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

func newListsLabelsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "List the distinct labels used by lists",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, app, func(w *workspace) error {
				return writeOut(cmd, app, map[string]any{"data": w.sess.ListLabels()})
			})
		},
	}
}

func newListItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "items",
		Aliases: []string{"item"},
		Short:   "List item commands",
	}
	cmd.AddCommand(newListItemsAddCmd(app))
	cmd.AddCommand(newListItemsCompleteCmd(app, "complete", "Check an item", true))
	cmd.AddCommand(newListItemsCompleteCmd(app, "reopen", "Uncheck an item", false))
	cmd.AddCommand(newListItemsEditCmd(app))
	cmd.AddCommand(newListItemsDeleteCmd(app))
	return cmd
}

func newListItemsAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <list-id> <content>",
		Short: "Append an item",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, app, func(w *workspace) error {
				res, err := w.sess.AddListItem(args[0], strings.Join(args[1:], " "))
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeItemResult(cmd, app, w, args[0], res)
			})
		},
	}
}

func newListItemsCompleteCmd(app *App, use, short string, completed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <list-id> <item-id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, app, func(w *workspace) error {
				res, err := w.sess.SetListItemCompleted(args[0], args[1], completed)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeItemResult(cmd, app, w, args[0], res)
			})
		},
	}
}

func newListItemsEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <list-id> <item-id> <content>",
		Short: "Replace an item's content",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, app, func(w *workspace) error {
				res, err := w.sess.EditListItem(args[0], args[1], strings.Join(args[2:], " "))
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeItemResult(cmd, app, w, args[0], res)
			})
		},
	}
}

func newListItemsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <list-id> <item-id>",
		Aliases: []string{"rm"},
		Short:   "Delete an item (unknown item ids are a no-op)",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, app, func(w *workspace) error {
				res, err := w.sess.DeleteListItem(args[0], args[1])
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeItemResult(cmd, app, w, args[0], res)
			})
		},
	}
}

// writeItemResult flushes a deferred list re-rank so the printed list priority is final.
func writeItemResult(cmd *cobra.Command, app *App, w *workspace, listID string, res mutate.ItemResult) error {
	w.sess.Flush()
	meta := map[string]any{
		"listId":      strings.TrimSpace(listID),
		"changed":     res.Changed,
		"doneChanged": res.DoneChanged,
	}
	if l, err := w.sess.List(listID); err == nil {
		meta["listPriority"] = l.Priority
		meta["listCompleted"] = l.AllCompleted()
	}
	var data any
	if res.Item.ID != "" {
		data = res.Item
	}
	return writeOut(cmd, app, map[string]any{"data": data, "meta": meta})
}
