package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mosvani/blocktally/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Write a configuration file with default values.

Examples:
  # Create config at the default location
  blocktally init

  # Create config at a custom path
  blocktally init --config /etc/blocktally/config.yaml

  # Overwrite an existing config
  blocktally init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	}

	if err := config.SaveConfig(config.GetDefaultConfig(), path); err != nil {
		return err
	}

	fmt.Printf("Configuration file created at: %s\n", path)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit the configuration file to set the node identity")
	fmt.Println("  2. Start the node with: blocktally serve")
	fmt.Printf("  3. Or specify custom config: blocktally serve --config %s\n", path)
	return nil
}
