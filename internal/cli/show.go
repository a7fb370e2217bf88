package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/timetable-console/internal/timetable"
)

func (a *App) showCmd() *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "show <timetable-id>",
		Short: "Render a timetable as a weekly grid",
		Long: `Render a timetable as one weekly table per class.

Occupied cells show the course and room; vacant cells show a dash. With
--offline the detail set comes from the local snapshot.`,
		Example: `  timetable show tt-001
  timetable show tt-001 --offline --no-color`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var cells []timetable.Cell
			var err error
			if offline {
				if a.snapshots == nil {
					return fmt.Errorf("no snapshot configured")
				}
				cells, err = a.snapshots.Details(ctx, args[0])
				if err != nil {
					return fmt.Errorf("reading snapshot: %w", err)
				}
			} else {
				cells, err = a.services.Headers.SelectHeader(ctx, args[0])
				if err != nil {
					return err
				}
			}

			renderGrid(a.out, timetable.Materialize(cells))
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Read from the local snapshot")
	return cmd
}
