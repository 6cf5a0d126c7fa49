package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dvc94ch/asconnect/internal/appstore"
)

var (
	deviceName     string
	devicePlatform string
	deviceUDID     string

	deviceCmd = &cobra.Command{
		Use:   "device",
		Short: "Manage registered devices",
	}

	deviceRegisterCmd = &cobra.Command{
		Use:   "register",
		Short: "Register a device by its UDID",
		RunE: func(cmd *cobra.Command, _ []string) error {
			platform, err := appstore.ParsePlatform(devicePlatform)
			if err != nil {
				return err
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			device, err := client.RegisterDevice(cmd.Context(), deviceName, platform, deviceUDID)
			if err != nil {
				return err
			}

			printDeviceHeader(cmd.OutOrStdout())
			printDevice(cmd.OutOrStdout(), device)
			return nil
		},
	}

	deviceListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered devices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			devices, err := client.ListDevices(cmd.Context())
			if err != nil {
				return err
			}

			printDeviceHeader(cmd.OutOrStdout())
			for i := range devices {
				printDevice(cmd.OutOrStdout(), &devices[i])
			}
			return nil
		},
	}

	deviceGetCmd = &cobra.Command{
		Use:   "get [id]",
		Short: "Show one device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			device, err := client.GetDevice(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			printDeviceHeader(cmd.OutOrStdout())
			printDevice(cmd.OutOrStdout(), device)
			return nil
		},
	}
)

func printDeviceHeader(w io.Writer) {
	fmt.Fprintf(w, "%-10s | %-20s | %-20s | %-25s\n", "id", "name", "model", "udid")
}

func printDevice(w io.Writer, d *appstore.Device) {
	fmt.Fprintf(w, "%-10s | %-20s | %-20s | %-25s\n",
		d.ID, d.Attributes.Name, d.Attributes.Model, d.Attributes.UDID)
}

func init() {
	deviceRegisterCmd.Flags().StringVar(&deviceName, "name", "", "name for the device")
	deviceRegisterCmd.Flags().StringVar(&devicePlatform, "platform", "ios", "platform (ios or macos)")
	deviceRegisterCmd.Flags().StringVar(&deviceUDID, "udid", "", "unique device identifier")
	_ = deviceRegisterCmd.MarkFlagRequired("name")
	_ = deviceRegisterCmd.MarkFlagRequired("udid")

	deviceCmd.AddCommand(deviceRegisterCmd, deviceListCmd, deviceGetCmd)
	rootCmd.AddCommand(deviceCmd)
}
