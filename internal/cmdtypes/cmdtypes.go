// Package cmdtypes provides shared types for the cmd package and its sub-packages.
// It is separate from internal/cmd to avoid import cycles between internal/cmd
// and internal/cmd/config.
package cmdtypes

import (
	"github.com/opmodel/cratekit/internal/config"
	oerrors "github.com/opmodel/cratekit/internal/errors"
)

// GlobalConfig holds CLI-wide settings resolved during PersistentPreRunE.
// It is populated once at startup and passed explicitly into every
// sub-command constructor.
type GlobalConfig struct {
	// ConfigPath is the resolved defaults file path.
	ConfigPath string

	// File holds the defaults loaded from ConfigPath and the environment.
	File *config.FileConfig

	// Verbose enables debug logging.
	Verbose bool
}

// Exit codes, aliased from internal/errors.
const (
	ExitSuccess          = oerrors.ExitSuccess
	ExitGeneralError     = oerrors.ExitGeneralError
	ExitUsageError       = oerrors.ExitUsageError
	ExitEnvironmentError = oerrors.ExitEnvironmentError
)

// ExitError is a type alias to internal/errors.ExitError.
type ExitError = oerrors.ExitError
