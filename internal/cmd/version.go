package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/cratekit/internal/cmdtypes"
	"github.com/opmodel/cratekit/internal/cmdutil"
	"github.com/opmodel/cratekit/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(_ *cmdtypes.GlobalConfig, deps cmdutil.Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show cratekit version information.

Displays:
  - cratekit version, commit, and build date
  - detected cargo and rustc versions`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.GetInfo()

			// A missing toolchain is reported in the output, not as an error.
			toolchain, _ := deps.Environment().Check(cmd.Context())

			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.FullVersionString(info, toolchain))
			return err
		},
	}
}
