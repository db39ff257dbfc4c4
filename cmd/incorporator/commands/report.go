package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"incorporator/internal/app"
	"incorporator/internal/flow"
)

// report prints how the wizard ended and writes the confirmed formation to
// out when set.
func report(cmd *cobra.Command, res flow.Outcome, out string) error {
	w := cmd.OutOrStdout()
	if res.Kind == flow.Abandoned {
		if res.SaveErr != nil {
			fmt.Fprintf(w, "\nExited. Progress could not be saved: %v\n", res.SaveErr)
			return nil
		}
		fmt.Fprintf(w, "\nProgress saved. Resume with: incorporator resume %s\n", res.SessionID)
		return nil
	}

	f, err := app.NewFormation(res, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nConfirmed %s (reference %s).\n", f.LegalName, f.Reference())
	if res.NameCheckOverridden {
		fmt.Fprintln(w, "Name availability was not verified; it will be checked again at filing.")
	}
	if res.SaveErr != nil {
		fmt.Fprintf(w, "Warning: session %s could not be cleaned up: %v\n", res.SessionID, res.SaveErr)
	}
	if out != "" {
		if err := app.WriteFormation(out, f); err != nil {
			return err
		}
		fmt.Fprintf(w, "Wrote %s.\n", out)
	}
	return nil
}
