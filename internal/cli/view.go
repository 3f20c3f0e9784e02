package cli

import (
	"github.com/spf13/cobra"
)

func newViewCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Expansion state shared with the TUI",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the expansion state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, app, func(w *workspace) error {
				return writeOut(cmd, app, map[string]any{"data": w.sess.Prefs().Expansion})
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "expand <id>",
		Short: "Expand one task or list (collapses any other)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, app, func(w *workspace) error {
				w.sess.Expand(args[0])
				return writeOut(cmd, app, map[string]any{"data": w.sess.Prefs().Expansion})
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <id>",
		Short: "Toggle expansion of one task or list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, app, func(w *workspace) error {
				expanded := w.sess.Toggle(args[0])
				return writeOut(cmd, app, map[string]any{
					"data": w.sess.Prefs().Expansion,
					"meta": map[string]any{"expanded": expanded},
				})
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "expand-all",
		Short: "Expand everything",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, app, func(w *workspace) error {
				w.sess.ExpandAll()
				return writeOut(cmd, app, map[string]any{"data": w.sess.Prefs().Expansion})
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "collapse-all",
		Short: "Collapse everything",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, app, func(w *workspace) error {
				w.sess.CollapseAll()
				return writeOut(cmd, app, map[string]any{"data": w.sess.Prefs().Expansion})
			})
		},
	})
	return cmd
}
