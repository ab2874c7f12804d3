package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/cratekit/internal/cmdtypes"
	"github.com/opmodel/cratekit/internal/config"
)

// NewConfigPathCmd creates the config path command.
func NewConfigPathCmd(g *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the defaults file path",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			path, err := config.ExpandPath(g.ConfigPath)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.OutOrStdout(), path)
			return err
		},
	}
}
