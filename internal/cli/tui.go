package cli

import (
	"context"

	"lista-cli/internal/tui"

	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive TUI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}
}

func runTUI(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	n := tui.NewNotifier()
	w, err := openWorkspace(ctx, app, openOptions{
		interactive: true,
		onChange:    n.OnChange,
		onError:     n.OnError,
	})
	if err != nil {
		return writeErr(cmd, err)
	}

	runErr := tui.Run(w.sess, n)
	n.Close()
	if err := w.close(ctx); err != nil && runErr == nil {
		return writeErr(cmd, err)
	}
	if runErr != nil {
		return writeErr(cmd, runErr)
	}
	return nil
}
