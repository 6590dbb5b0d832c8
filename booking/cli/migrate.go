package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ruelucas/booking-service/booking/app"
	"github.com/ruelucas/booking-service/booking/config"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply postgres migrations",
		Long:  "Apply the embedded SQL migrations. Requires STORAGE_DRIVER=postgres.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Migrate(config.NewConfig()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
