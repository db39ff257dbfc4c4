package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"incorporator/internal/app"
	"incorporator/internal/flow"
)

func sessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List saved formations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWire(false, false)
			if err != nil {
				return err
			}
			defer w.Close()

			sessions, err := app.New(w, console).Sessions()
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved sessions.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tUPDATED\tSTEP")
			for _, s := range sessions {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					s.ID,
					s.CreatedAt.Local().Format("2006-01-02 15:04"),
					s.UpdatedAt.Local().Format("2006-01-02 15:04"),
					flow.Step(s.StepIndex),
				)
			}
			return tw.Flush()
		},
	}
}
