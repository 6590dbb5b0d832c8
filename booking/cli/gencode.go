package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ruelucas/booking-service/pkg/codegen"
)

const maxGenCount = 1000

func newGenCodeCmd() *cobra.Command {
	var (
		prefix string
		count  int
	)

	cmd := &cobra.Command{
		Use:   "gen-code",
		Short: "Print reservation codes",
		Long:  "Print freshly generated reservation codes. Uniqueness against storage is not checked.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 || count > maxGenCount {
				return fmt.Errorf("--count must be between 1 and %d", maxGenCount)
			}
			out := cmd.OutOrStdout()
			for i := 0; i < count; i++ {
				fmt.Fprintln(out, codegen.Generate(prefix))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", codegen.DefaultPrefix, "code prefix")
	cmd.Flags().IntVar(&count, "count", 1, "number of codes")

	return cmd
}
