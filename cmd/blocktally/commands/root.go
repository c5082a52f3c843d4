// Package commands implements the blocktally CLI.
package commands

import (
	"github.com/spf13/cobra"

	configcmd "github.com/mosvani/blocktally/cmd/blocktally/commands/config"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Global flags.
	cfgFile string
)

// rootCmd represents the base command when called without any
// subcommands.
var rootCmd = &cobra.Command{
	Use:   "blocktally",
	Short: "blocktally - per-node block storage accounting",
	Long: `blocktally tracks the memory and disk footprint of storage blocks on a
single node and serves the accounting state over a read-only HTTP API.

Use "blocktally [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/blocktally/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configcmd.Cmd)
}
