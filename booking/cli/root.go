// Package cli defines the cobra command tree for the rental service.
package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var flagEnvFile string

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rental",
		Short:         "Rue Lucas reservation and review service",
		Long:          "Backend for the Rue Lucas vacation rental: reservations with generated codes, guest reviews and listing queries.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnv(flagEnvFile)
		},
	}

	root.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newGenCodeCmd(),
	)

	return root
}

// loadEnv loads path into the environment; a missing file is not an error.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return errors.Wrapf(err, "load %s", path)
	}
	return nil
}
