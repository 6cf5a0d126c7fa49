package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dvc94ch/asconnect/internal/appstore"
)

var (
	profileName     string
	profileType     string
	profileBundleID string

	profileCmd = &cobra.Command{
		Use:   "profile",
		Short: "Manage provisioning profiles",
	}

	profileCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a provisioning profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pt, err := appstore.ParseProfileType(profileType)
			if err != nil {
				return err
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			profile, err := client.CreateProfile(cmd.Context(), profileName, pt, profileBundleID)
			if err != nil {
				return err
			}

			printProfileHeader(cmd.OutOrStdout())
			printProfile(cmd.OutOrStdout(), profile)
			return nil
		},
	}

	profileListCmd = &cobra.Command{
		Use:   "list",
		Short: "List provisioning profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			profiles, err := client.ListProfiles(cmd.Context())
			if err != nil {
				return err
			}

			printProfileHeader(cmd.OutOrStdout())
			for i := range profiles {
				printProfile(cmd.OutOrStdout(), &profiles[i])
			}
			return nil
		},
	}

	profileGetCmd = &cobra.Command{
		Use:   "get [id]",
		Short: "Show one profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			profile, err := client.GetProfile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			printProfileHeader(cmd.OutOrStdout())
			printProfile(cmd.OutOrStdout(), profile)
			return nil
		},
	}

	profileDeleteCmd = &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			return client.DeleteProfile(cmd.Context(), args[0])
		},
	}
)

func printProfileHeader(w io.Writer) {
	fmt.Fprintf(w, "%-10s | %-30s | %-25s | %-12s\n", "id", "name", "type", "state")
}

func printProfile(w io.Writer, p *appstore.Profile) {
	fmt.Fprintf(w, "%-10s | %-30s | %-25s | %-12s\n",
		p.ID, p.Attributes.Name, p.Attributes.ProfileType, p.Attributes.ProfileState)
}

func init() {
	profileCreateCmd.Flags().StringVar(&profileName, "name", "", "name for the profile")
	profileCreateCmd.Flags().StringVar(&profileType, "type", "", "profile type (ios-dev, macos-dev, ios-appstore, macos-appstore, notarization)")
	profileCreateCmd.Flags().StringVar(&profileBundleID, "bundle-id", "", "id of the bundle id resource")
	_ = profileCreateCmd.MarkFlagRequired("name")
	_ = profileCreateCmd.MarkFlagRequired("type")
	_ = profileCreateCmd.MarkFlagRequired("bundle-id")

	profileCmd.AddCommand(profileCreateCmd, profileListCmd, profileGetCmd, profileDeleteCmd)
	rootCmd.AddCommand(profileCmd)
}
