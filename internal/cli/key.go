package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dvc94ch/asconnect/internal/appstore"
)

var (
	keyIssuerID string
	keyID       string

	keyCmd = &cobra.Command{
		Use:   "key",
		Short: "Manage unified api key files",
	}

	keyCreateCmd = &cobra.Command{
		Use:   "create [private-key.p8] [api-key.json]",
		Short: "Bundle an issuer id, key id and PEM private key into one file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := appstore.NewAPIKeyFromPEMFile(keyIssuerID, keyID, args[0])
			if err != nil {
				return err
			}
			if err := key.Save(args[1]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[1])
			return nil
		},
	}
)

func init() {
	keyCreateCmd.Flags().StringVar(&keyIssuerID, "issuer-id", "", "issuer id of the api key")
	keyCreateCmd.Flags().StringVar(&keyID, "key-id", "", "key id of the api key")
	_ = keyCreateCmd.MarkFlagRequired("issuer-id")
	_ = keyCreateCmd.MarkFlagRequired("key-id")

	keyCmd.AddCommand(keyCreateCmd)
	rootCmd.AddCommand(keyCmd)
}
