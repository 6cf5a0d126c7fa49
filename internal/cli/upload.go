package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [package]",
	Short: "Submit an .ipa package as a new build",
	Long: "Submit a compiled application package: resolve the app from the " +
		"bundle identifier embedded in the package, register a build record " +
		"and transfer the binary in chunks.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		client, err := newClient()
		if err != nil {
			return err
		}

		if err := client.Upload(ctx, args[0]); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "upload complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
