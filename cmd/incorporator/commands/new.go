package commands

import (
	"github.com/spf13/cobra"

	"incorporator/internal/app"
)

func newCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new company formation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWire(true, true)
			if err != nil {
				return err
			}
			defer w.Close()

			res, err := app.New(w, console).Start(cmd.Context())
			if err != nil {
				return err
			}
			return report(cmd, res, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the confirmed formation as JSON to this file")
	return cmd
}
