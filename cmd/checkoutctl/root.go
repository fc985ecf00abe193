package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jcmexdev/membership-checkout/internal/config"
	"github.com/jcmexdev/membership-checkout/internal/pkg/telemetry"
)

var envFile string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "checkoutctl",
		Short:             "Operator tool for membership checkout payments",
		Long:              `Look up and open card-gateway orders with the same configuration as checkout-api.`,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to read before the environment (APP_ENV=local only)")

	rootCmd.AddCommand(newConfirmCmd())
	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newReasonCmd())
	return rootCmd
}

// loadConfig logs to stderr so command output stays machine readable.
func loadConfig() error {
	slog.SetDefault(telemetry.NewLogger(os.Stderr, telemetry.ParseLevel(os.Getenv("LOG_LEVEL"))))
	if envFile != "" {
		return config.Load(envFile)
	}
	return config.Load()
}
