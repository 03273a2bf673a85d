package cli

import (
	"github.com/spf13/cobra"

	"barrier-pricer/internal/models"
	"barrier-pricer/internal/store"
)

func newRunsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Browse saved sweep runs",
		Long:  "List and inspect sweeps recorded with 'barrier sweep --save'.",
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			st, err := app.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				if runs == nil {
					runs = []models.RunSummary{}
				}
				return output.JSON(runs)
			}
			if len(runs) == 0 {
				output.Dim("No saved runs in %s", app.Config.Store.Path)
				return nil
			}

			table := NewTable(output, "ID", "Created", "Spot", "Paths", "Steps", "Panels", "Points")
			for _, r := range runs {
				table.AddRow(ShortID(r.ID), FormatDateTime(r.CreatedAt), FormatStrike(r.Spot),
					itoa(r.Trials), itoa(r.Steps), itoa(r.Panels), itoa(r.Points))
			}
			table.Render()
			return nil
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", store.DefaultListLimit, "maximum number of runs to list")
	cmd.AddCommand(listCmd)

	var asYAML bool
	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			st, err := app.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			run, err := st.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			switch {
			case output.IsJSON():
				return output.JSON(run)
			case asYAML:
				return writeYAML(output.Writer(), run)
			}
			printSweep(output, run)
			return nil
		},
	}
	showCmd.Flags().BoolVar(&asYAML, "yaml", false, "print the run as YAML")
	cmd.AddCommand(showCmd)

	return cmd
}

func (a *App) openStore() (store.RunStore, error) {
	return a.OpenStore(a.Config.Store.Path)
}

func (a *App) saveRun(cmd *cobra.Command, run *models.SweepRun) error {
	st, err := a.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	return st.SaveRun(cmd.Context(), run)
}
