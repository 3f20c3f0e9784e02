package cli

import (
	"github.com/spf13/cobra"
)

func newDoctorCmd(app *App) *cobra.Command {
	var fix bool
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate rank invariants and stored data",
		RunE: func(cmd *cobra.Command, args []string) error {
			var hasErrors bool
			err := withWorkspace(cmd, app, func(w *workspace) error {
				report := w.sess.Doctor()
				fixed := false
				if fix && report.Fixable() {
					report = w.sess.Repair()
					fixed = true
				}
				hasErrors = report.HasErrors()

				hints := []string{}
				if !fix && report.Fixable() {
					hints = append(hints, "lista doctor --fix")
				}
				return writeOut(cmd, app, map[string]any{
					"data": issueRows(report.Issues),
					"meta": map[string]any{
						"issues":    len(report.Issues),
						"hasErrors": hasErrors,
						"fixed":     fixed,
					},
					"_hints": hints,
				})
			})
			if err != nil {
				return err
			}
			if fail && hasErrors {
				return errDoctorIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Re-normalize ranks and save")
	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if errors remain")
	return cmd
}
