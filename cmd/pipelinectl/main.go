package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// cliOptions carries the persistent flags shared by every subcommand.
type cliOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:          "pipelinectl",
		Short:        "Maintenance commands for the VFX pipeline companion",
		Long:         `pipelinectl works on the same database and studio root as the API server, for scripting and recovery without the desktop shell.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", os.Getenv("CONFIG_PATH"), "path to config.yaml")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		newTemplatesCmd(opts),
		newNextNumberCmd(opts),
		newScanCmd(opts),
		newMaterializeCmd(opts),
		newMigrateCmd(opts),
		newSeedToolsCmd(opts),
		newInitConfigCmd(opts),
	)
	return root
}
