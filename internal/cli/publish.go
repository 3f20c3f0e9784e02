package cli

import (
	"lista-cli/internal/publish"

	"github.com/spf13/cobra"
)

func newPublishCmd(app *App) *cobra.Command {
	var to string
	var includeArchived bool
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Write tasks and lists as markdown files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, app, func(w *workspace) error {
				snap := w.sess.Snapshot()
				res, err := publish.Write(&snap, to, publish.WriteOptions{
					IncludeArchived: includeArchived,
					Overwrite:       overwrite,
				})
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": res})
			})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Output directory (required)")
	cmd.Flags().BoolVar(&includeArchived, "include-archived", false, "Include the archive tab")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
