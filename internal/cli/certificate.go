package cli

import (
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dvc94ch/asconnect/internal/appstore"
)

var (
	certType string

	certificateCmd = &cobra.Command{
		Use:   "certificate",
		Short: "Manage signing certificates",
	}

	certificateCreateCmd = &cobra.Command{
		Use:   "create [csr.pem]",
		Short: "Submit a certificate signing request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := appstore.ParseCertificateType(certType)
			if err != nil {
				return err
			}

			csr, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			cert, err := client.CreateCertificate(cmd.Context(), string(csr), ct)
			if err != nil {
				return err
			}

			printCertificateHeader(cmd.OutOrStdout())
			printCertificate(cmd.OutOrStdout(), cert)
			return nil
		},
	}

	certificateListCmd = &cobra.Command{
		Use:   "list",
		Short: "List signing certificates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			certs, err := client.ListCertificates(cmd.Context())
			if err != nil {
				return err
			}

			printCertificateHeader(cmd.OutOrStdout())
			for i := range certs {
				printCertificate(cmd.OutOrStdout(), &certs[i])
			}
			return nil
		},
	}

	certificateGetCmd = &cobra.Command{
		Use:   "get [id]",
		Short: "Print one certificate as PEM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			cert, err := client.GetCertificate(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			der, err := base64.StdEncoding.DecodeString(cert.Attributes.CertificateContent)
			if err != nil {
				return fmt.Errorf("decoding certificate content: %w", err)
			}

			return pem.Encode(cmd.OutOrStdout(), &pem.Block{Type: "CERTIFICATE", Bytes: der})
		},
	}

	certificateRevokeCmd = &cobra.Command{
		Use:   "revoke [id]",
		Short: "Revoke a certificate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			return client.RevokeCertificate(cmd.Context(), args[0])
		},
	}
)

func printCertificateHeader(w io.Writer) {
	fmt.Fprintf(w, "%-10s | %-50s | %-20s\n", "id", "name", "expiration date")
}

func printCertificate(w io.Writer, c *appstore.Certificate) {
	expiration, _, _ := strings.Cut(c.Attributes.ExpirationDate, "T")
	fmt.Fprintf(w, "%-10s | %-50s | %-20s\n", c.ID, c.Attributes.Name, expiration)
}

func init() {
	certificateCreateCmd.Flags().StringVar(&certType, "type", "", "certificate type (development, distribution or notarization)")
	_ = certificateCreateCmd.MarkFlagRequired("type")

	certificateCmd.AddCommand(certificateCreateCmd, certificateListCmd, certificateGetCmd, certificateRevokeCmd)
	rootCmd.AddCommand(certificateCmd)
}
