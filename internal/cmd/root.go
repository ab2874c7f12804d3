// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	configcmd "github.com/opmodel/cratekit/internal/cmd/config"
	"github.com/opmodel/cratekit/internal/cmdtypes"
	"github.com/opmodel/cratekit/internal/cmdutil"
	"github.com/opmodel/cratekit/internal/config"
	oerrors "github.com/opmodel/cratekit/internal/errors"
	"github.com/opmodel/cratekit/internal/output"
)

// NewRootCmd creates the root command for cratekit.
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithDeps(cmdutil.DefaultDependencies())
}

// NewRootCmdWithDeps creates the root command with the given collaborators.
func NewRootCmdWithDeps(deps cmdutil.Dependencies) *cobra.Command {
	var (
		globals    cmdtypes.GlobalConfig
		configFlag string
		outputFlag string
		flags      cmdutil.ScaffoldFlags
	)

	rootCmd := &cobra.Command{
		Use:   "cratekit",
		Short: "Scaffold Rust projects",
		Long: heredoc.Doc(`
			cratekit scaffolds a Rust project in the current directory: README,
			.gitignore and LICENSE, a single crate or a workspace under crates/,
			a discovery example library, optional test skeletons, a CI workflow
			placeholder and an initial git commit.

			Existing files are never touched unless --force is given, in which
			case they are moved to <path>.backup.<timestamp> first. --dry-run
			reports every action without changing anything.
		`),
		Example: heredoc.Doc(`
			# Scaffold a binary crate named after the current directory
			cratekit

			# Preview a workspace with a library member
			cratekit --name demo --lib --workspace --dry-run

			# Everything, with git and CI, in another directory
			cratekit -C ./demo --tests --ci --git --author "Ada Lovelace <ada@example.com>"
		`),
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return usageExit(err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initializeGlobals(&globals, configFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScaffold(cmd, &globals, &flags, outputFlag, deps)
		},
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageExit(err)
	})

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (env: CRATEKIT_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&globals.Verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", string(output.FormatText), "Summary format: text, yaml, json")
	flags.AddTo(rootCmd)

	rootCmd.AddCommand(configcmd.NewConfigCmd(&globals))
	rootCmd.AddCommand(NewVersionCmd(&globals, deps))

	return rootCmd
}

// initializeGlobals sets up logging and loads the defaults file.
func initializeGlobals(globals *cmdtypes.GlobalConfig, configFlag string) error {
	output.SetupLogging(output.LogConfig{Verbose: globals.Verbose})

	configPath := configFlag
	if configPath == "" {
		var err error
		configPath, err = config.GetConfigFile()
		if err != nil {
			output.Debug("could not determine config file path", "error", err)
		}
	}
	globals.ConfigPath = configPath

	file, err := config.NewLoader().Load(configPath)
	if err != nil {
		return usageExit(err)
	}
	globals.File = file

	output.Debug("initializing CLI", "config", configPath)
	return nil
}

func runScaffold(cmd *cobra.Command, globals *cmdtypes.GlobalConfig, flags *cmdutil.ScaffoldFlags, outputFlag string, deps cmdutil.Dependencies) error {
	format, err := output.ParseOutputFormat(outputFlag)
	if err != nil {
		return usageExit(err)
	}

	var file config.FileConfig
	if globals.File != nil {
		file = *globals.File
	}

	cfg, trail, err := config.Resolve(config.ResolveOptions{
		Flags:   flags.Values(globals.Verbose),
		Changed: cmd.Flags().Changed,
		File:    file,
	})
	if err != nil {
		return usageExit(err)
	}

	errOut := cmd.ErrOrStderr()
	rep := output.NewReporter(output.ReporterOptions{
		Out:         cmd.OutOrStdout(),
		Err:         errOut,
		Verbose:     cfg.Verbose,
		Interactive: cfg.Verbose && output.IsTerminal(errOut),
	})
	cmdutil.LogResolvedConfig(rep, trail)

	report, runErr := cmdutil.RunScaffold(cmd.Context(), cmdutil.RunScaffoldOpts{
		Config:   cfg,
		Deps:     deps,
		Reporter: rep,
	})

	if format != output.FormatText || len(report.Actions) > 0 {
		if err := output.WriteRunReport(rep.Out(), format, report); err != nil && runErr == nil {
			runErr = err
		}
	}

	if runErr != nil {
		cmdutil.PrintRunError(rep, runErr)
		return &oerrors.ExitError{Code: oerrors.ExitCodeFromError(runErr), Err: runErr, Printed: true}
	}
	return nil
}

// usageExit wraps err as a usage error with exit code 2.
func usageExit(err error) error {
	return &oerrors.ExitError{
		Code: oerrors.ExitUsageError,
		Err:  oerrors.NewUsageError(err.Error(), "Run 'cratekit --help' for usage."),
	}
}
