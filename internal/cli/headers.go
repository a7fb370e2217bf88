package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) headersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "headers",
		Short: "Manage the institute's timetable list",
	}
	cmd.AddCommand(a.headersListCmd())
	cmd.AddCommand(a.headersCurrentCmd())
	cmd.AddCommand(a.headersVisibilityCmd())
	cmd.AddCommand(a.headersDeleteCmd())
	return cmd
}

func (a *App) headersListCmd() *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List generated timetables",
		Long: `List the institute's generated timetables.

The current timetable sorts first, the rest descend by year. With --offline
the list comes from the local snapshot instead of the backend.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if offline {
				if a.snapshots == nil {
					return fmt.Errorf("no snapshot configured")
				}
				headers, err := a.snapshots.Headers(ctx, a.instituteID())
				if err != nil {
					return fmt.Errorf("reading snapshot: %w", err)
				}
				renderHeaders(a.out, headers)
				return nil
			}

			headers, err := a.services.Headers.ListHeaders(ctx, a.instituteID())
			if err != nil {
				return err
			}
			renderHeaders(a.out, headers)
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Read from the local snapshot")
	return cmd
}

func (a *App) headersCurrentCmd() *cobra.Command {
	var unset bool

	cmd := &cobra.Command{
		Use:   "current <timetable-id>",
		Short: "Mark a timetable as the institute's current one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.services.Headers.SetCurrent(cmd.Context(), args[0], !unset); err != nil {
				return err
			}
			if unset {
				fmt.Fprintf(a.out, "%s is no longer the current timetable.\n", args[0])
			} else {
				fmt.Fprintf(a.out, "%s is now the current timetable.\n", args[0])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&unset, "unset", false, "Clear the current flag instead of setting it")
	return cmd
}

func (a *App) headersVisibilityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "visibility <timetable-id> <on|off>",
		Short: "Show or hide a timetable for students and teachers",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var visible bool
			switch args[1] {
			case "on":
				visible = true
			case "off":
				visible = false
			default:
				return fmt.Errorf("visibility must be on or off, got %q", args[1])
			}
			if err := a.services.Headers.SetVisibility(cmd.Context(), args[0], visible); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s visibility set to %s.\n", args[0], args[1])
			return nil
		},
	}
}

func (a *App) headersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <timetable-id>",
		Short: "Delete a generated timetable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.services.Headers.DeleteHeader(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s deleted.\n", args[0])
			return nil
		},
	}
}
