// Package cli wires the asconnect commands. Argument parsing lives here;
// everything the commands do goes through the appstore client.
package cli

import (
	"errors"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/dvc94ch/asconnect/internal/appstore"
	"github.com/dvc94ch/asconnect/internal/config"
	"github.com/dvc94ch/asconnect/internal/logging"
	"github.com/dvc94ch/asconnect/internal/version"
)

var (
	// apiKeyPath is the --api-key flag, overriding ASC_API_KEY.
	apiKeyPath string

	rootCmd = &cobra.Command{
		Use:           "asconnect",
		Short:         "App Store Connect command line client",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

// Execute runs the asconnect CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiKeyPath, "api-key", "", "path to the unified api key file")
}

// newClient resolves config and builds an authenticated appstore client.
func newClient() (*appstore.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	path := apiKeyPath
	if path == "" {
		path = cfg.KeyPath
	}
	if path == "" {
		return nil, errors.New("no api key: pass --api-key or set ASC_API_KEY")
	}

	return appstore.NewClientFromKeyFile(path,
		appstore.WithLogger(logging.NewDefault(cfg.LogLevel)),
		appstore.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		appstore.WithBaseURLs(cfg.RESTBaseURL, cfg.IrisBaseURL, cfg.LegacyRPCURL),
		appstore.WithStrictLookup(cfg.StrictLookup),
		appstore.WithUploadWorkers(cfg.UploadWorkers),
	)
}
