package cli

import (
	"fmt"
	"os"
	"strings"

	"lista-cli/internal/format"

	"github.com/spf13/cobra"
)

type App struct {
	Dir       string
	Workspace string
	Format    string
	Pretty    bool
	Verbose   bool
	// Remote forces the remote backend regardless of the stored storage mode.
	Remote bool
	// User is the remote principal and the author recorded on changes.
	User string
	// Ephemeral keeps everything in memory for the lifetime of the command.
	Ephemeral bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "lista",
		Short:        "lista: prioritized tasks and lists (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  lista

  # Scriptable commands
  lista tasks add "Write report" --label work --due 2026-11-01
  lista tasks list --filter label:work=only --sort dueDate
  lista tasks move task-1a2b3c4d top
  lista lists items add list-5e6f7a8b "oat milk"
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		f, err := format.Parse(app.Format)
		if err != nil {
			return writeErr(cmd, err)
		}
		app.Format = f
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("LISTA_DIR", ""), "Path to workspace dir (overrides workspace resolution)")
	cmd.PersistentFlags().StringVar(&app.Workspace, "workspace", envOr("LISTA_WORKSPACE", ""), "Workspace name (default: current workspace, else 'default')")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("LISTA_FORMAT", "json"), "Output format ("+strings.Join(format.Formats, "|")+")")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Debug logging")
	cmd.PersistentFlags().BoolVar(&app.Remote, "remote", false, "Use remote storage for this invocation")
	cmd.PersistentFlags().StringVar(&app.User, "user", envOr("LISTA_USER", ""), "Remote principal and author (overrides config)")
	cmd.PersistentFlags().BoolVar(&app.Ephemeral, "ephemeral", false, "Keep state in memory only (nothing is saved)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newListsCmd(app))
	cmd.AddCommand(newPrefsCmd(app))
	cmd.AddCommand(newViewCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newBackupCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newWorkspaceCmd(app))
	cmd.AddCommand(newTUICmd(app))

	return cmd
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.Pretty)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
