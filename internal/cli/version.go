package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vellumhq/vellum/pkg/vellum"
)

const modulePath = "github.com/vellumhq/vellum"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the vellum version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "vellum v%s\nmodule: %s\n", vellum.Version, modulePath)
			return nil
		},
	}
}
