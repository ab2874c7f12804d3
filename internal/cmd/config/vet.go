package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opmodel/cratekit/internal/cmdtypes"
	"github.com/opmodel/cratekit/internal/config"
	oerrors "github.com/opmodel/cratekit/internal/errors"
	"github.com/opmodel/cratekit/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd(g *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate the defaults file",
		Long: `Validate the cratekit defaults file and CRATEKIT_* environment values.

An unknown kind or an unsupported edition is reported here instead of
failing a later scaffolding run.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runVet(c, g)
		},
	}
}

func runVet(c *cobra.Command, g *cmdtypes.GlobalConfig) error {
	var file config.FileConfig
	if g.File != nil {
		file = *g.File
	}

	if err := vetFile(file); err != nil {
		return &cmdtypes.ExitError{
			Code: cmdtypes.ExitUsageError,
			Err:  oerrors.NewUsageError(err.Error(), "edit "+g.ConfigPath+" or unset the CRATEKIT_* variable"),
		}
	}

	msg := "Config is valid"
	if exists, _ := fileExists(g.ConfigPath); !exists {
		msg = "No config file; built-in defaults are valid"
	}
	_, err := fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark(msg))
	return err
}

// vetFile checks the values a scaffolding run would reject.
func vetFile(file config.FileConfig) error {
	if file.Kind != "" {
		if _, err := config.ParseUnitKind(file.Kind); err != nil {
			return err
		}
	}
	if file.Edition != "" && !slices.Contains(config.ValidEditions, file.Edition) {
		return fmt.Errorf("unsupported edition %q; valid editions: %s",
			file.Edition, strings.Join(config.ValidEditions, ", "))
	}
	return nil
}

// fileExists reports whether path names an existing file.
func fileExists(path string) (bool, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(expanded)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
