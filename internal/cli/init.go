package cli

import (
	"lista-cli/internal/store"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the workspace and make it current",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			st := store.Store{Dir: dir}
			existed := st.Exists()
			if err := withWorkspace(cmd, app, func(*workspace) error { return nil }); err != nil {
				return err
			}

			// A named workspace becomes current only when none is set yet.
			if app.Workspace != "" {
				if cfg, err := store.LoadConfig(); err == nil && cfg.CurrentWorkspace == "" {
					cfg.CurrentWorkspace = app.Workspace
					if err := store.SaveConfig(cfg); err != nil {
						return writeErr(cmd, err)
					}
				}
			}

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"dir":        dir,
					"workspace":  app.Workspace,
					"sqlitePath": st.SQLitePath(),
					"created":    !existed,
				},
			})
		},
	}
}
