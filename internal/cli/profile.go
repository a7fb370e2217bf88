package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/timetable-console/internal/application"
)

func (a *App) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the institute account",
	}
	cmd.AddCommand(a.profileShowCmd())
	cmd.AddCommand(a.profileUpdateCmd())
	return cmd
}

func (a *App) profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the institute profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := a.services.Profile.GetProfile(cmd.Context(), a.instituteID())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s\n", colorHeader.Sprint(profile.Name))
			fmt.Fprintf(a.out, "Email:   %s\n", profile.Email)
			if profile.Phone != "" {
				fmt.Fprintf(a.out, "Phone:   %s\n", profile.Phone)
			}
			if profile.Address != "" {
				fmt.Fprintf(a.out, "Address: %s\n", profile.Address)
			}
			return nil
		},
	}
}

func (a *App) profileUpdateCmd() *cobra.Command {
	var input application.ProfileInput

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update the institute profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := a.services.Profile.UpdateProfile(cmd.Context(), a.instituteID(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Profile updated for %s.\n", profile.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Name, "name", "", "Institute name")
	cmd.Flags().StringVar(&input.Email, "email", "", "Contact email")
	cmd.Flags().StringVar(&input.Phone, "phone", "", "Contact phone")
	cmd.Flags().StringVar(&input.Address, "address", "", "Postal address")
	return cmd
}

func (a *App) passwdCmd() *cobra.Command {
	var change application.PasswordChange

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the account password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.services.Profile.UpdatePassword(cmd.Context(), a.instituteID(), change); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Password changed.")
			return nil
		},
	}

	cmd.Flags().StringVar(&change.Current, "current", "", "Current password")
	cmd.Flags().StringVar(&change.New, "new", "", "New password")
	cmd.Flags().StringVar(&change.Confirm, "confirm", "", "New password again")
	return cmd
}
