package cli

import (
	"time"

	"lista-cli/internal/store"

	"github.com/spf13/cobra"
)

func newBackupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or restore every collection as one JSON file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "export <file>",
		Short: "Write a backup of the workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, app, func(w *workspace) error {
				b, err := store.Export(cmd.Context(), w.repo, w.prefs, time.Now())
				if err != nil {
					return writeErr(cmd, err)
				}
				if err := store.WriteBackup(args[0], b); err != nil {
					return writeErr(cmd, err)
				}
				snap := w.sess.Snapshot()
				return writeOut(cmd, app, map[string]any{
					"data": map[string]any{
						"path":       args[0],
						"exportedAt": b.ExportedAt,
						"tasks":      len(snap.Tasks),
						"lists":      len(snap.Lists),
					},
				})
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Replace the workspace contents with a backup",
		Long:  "The backup is validated first; nothing is written when it is rejected.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := store.ReadBackup(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return withWorkspace(cmd, app, func(w *workspace) error {
				if err := store.Import(cmd.Context(), w.repo, w.prefs, b); err != nil {
					return writeErr(cmd, err)
				}
				kinds := make([]string, 0, len(b.Collections))
				for _, c := range b.Collections {
					kinds = append(kinds, string(c.Kind))
				}
				return writeOut(cmd, app, map[string]any{
					"data":   map[string]any{"path": args[0], "collections": kinds},
					"_hints": []string{"lista doctor"},
				})
			})
		},
	})
	return cmd
}
