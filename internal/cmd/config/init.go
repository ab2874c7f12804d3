package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/cratekit/internal/cmdtypes"
	"github.com/opmodel/cratekit/internal/config"
	oerrors "github.com/opmodel/cratekit/internal/errors"
	"github.com/opmodel/cratekit/internal/output"
)

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd(g *cmdtypes.GlobalConfig) *cobra.Command {
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Create a defaults file",
		Long: `Create a cratekit defaults file with built-in values.

The file is created at ~/.cratekit/config.yaml by default.
Use --config or CRATEKIT_CONFIG to choose a different location.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runInit(c, g, force)
		},
	}

	c.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing defaults file")

	return c
}

func runInit(c *cobra.Command, g *cmdtypes.GlobalConfig, force bool) error {
	path, err := config.ExpandPath(g.ConfigPath)
	if err != nil {
		return fmt.Errorf("expanding config path: %w", err)
	}
	if path == "" {
		return &cmdtypes.ExitError{
			Code: cmdtypes.ExitUsageError,
			Err:  oerrors.NewUsageError("no config file path", "pass --config or set CRATEKIT_CONFIG"),
		}
	}

	exists, err := fileExists(path)
	if err != nil {
		return fmt.Errorf("checking config file: %w", err)
	}
	if exists && !force {
		return &cmdtypes.ExitError{
			Code: cmdtypes.ExitUsageError,
			Err: oerrors.NewUsageError(
				fmt.Sprintf("config file already exists at %s", path),
				"use --force to overwrite"),
		}
	}

	if err := config.WriteFile(path, config.DefaultFileConfig(), true); err != nil {
		return err
	}

	_, err = fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("Config file created: "+path))
	return err
}
