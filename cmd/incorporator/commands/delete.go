package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"incorporator/internal/app"
)

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a saved formation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWire(false, false)
			if err != nil {
				return err
			}
			defer w.Close()

			if err := app.New(w, console).Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s.\n", args[0])
			return nil
		},
	}
}
