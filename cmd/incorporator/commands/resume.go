package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"incorporator/internal/app"
	"incorporator/internal/flow"
)

func resumeCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "resume [session-id]",
		Short: "Continue a saved formation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWire(true, false)
			if err != nil {
				return err
			}
			defer w.Close()
			a := app.New(w, console)

			var id string
			if len(args) == 1 {
				id = args[0]
			} else if id, err = pickSession(cmd, a); err != nil {
				return err
			}

			res, err := a.Resume(cmd.Context(), id)
			if app.IsDecryptFailure(err) {
				console.Notify(flow.LevelError, err.Error())
				fresh, cerr := console.Confirm(cmd.Context(), "Start a new formation instead?", false)
				if cerr != nil || !fresh {
					return err
				}
				res, err = a.Start(cmd.Context())
			}
			if err != nil {
				return err
			}
			return report(cmd, res, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the confirmed formation as JSON to this file")
	return cmd
}

func pickSession(cmd *cobra.Command, a *app.App) (string, error) {
	sessions, err := a.Sessions()
	if err != nil {
		return "", err
	}
	if len(sessions) == 0 {
		return "", errors.New("no saved sessions; run `incorporator new`")
	}
	opts := make([]string, len(sessions))
	for i, s := range sessions {
		opts[i] = fmt.Sprintf("%s  updated %s  at %s", s.ID, s.UpdatedAt.Local().Format("2006-01-02 15:04"), flow.Step(s.StepIndex))
	}
	for {
		i, err := console.Select(cmd.Context(), flow.Question{Key: "session", Label: "Resume which session?"}, opts, 0)
		if err != nil {
			return "", err
		}
		if i >= 0 && i < len(sessions) {
			return sessions[i].ID, nil
		}
		console.Notify(flow.LevelWarn, fmt.Sprintf("choose an option between 1 and %d", len(opts)))
	}
}
