package cli

import (
	"lista-cli/internal/model"

	"github.com/spf13/cobra"
)

func newPrefsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "View preferences (tab, sort, storage mode)",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, app, func(w *workspace) error {
				return writeOut(cmd, app, map[string]any{"data": w.sess.Prefs()})
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "tab <todos|archive>",
		Short: "Select the tab that task listings default to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, err := model.ParseTab(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return withWorkspace(cmd, app, func(w *workspace) error {
				w.sess.SetTab(tab)
				return writeOut(cmd, app, map[string]any{"data": w.sess.Prefs()})
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "sort <field[:asc|desc]>",
		Short: "Set the sort preference (priority|dueDate|createdAt|updatedAt|title)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := model.ParseSortSpec(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return withWorkspace(cmd, app, func(w *workspace) error {
				w.sess.SetSort(spec)
				return writeOut(cmd, app, map[string]any{"data": w.sess.Prefs()})
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "storage <local|remote>",
		Short: "Select the storage backend used from the next invocation on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := model.ParseStorageMode(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return withWorkspace(cmd, app, func(w *workspace) error {
				w.sess.SetStorageMode(mode)
				return writeOut(cmd, app, map[string]any{
					"data":   w.sess.Prefs(),
					"_hints": []string{"takes effect on the next invocation"},
				})
			})
		},
	})
	return cmd
}
