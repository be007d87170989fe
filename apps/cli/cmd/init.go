package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/xhrkit/packages/core/config"
	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .xhrkit.yaml",
	Long: `Write a configuration file with the default settings to the current
directory.

Examples:
  xhrkit init
  xhrkit init --force`,
	Args: cobra.NoArgs,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing file")
}

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, config.ConfigFilenames[0])
	if !forceInit {
		if _, err := os.Stat(configFile); err == nil {
			return withExitCode(ExitConfigError, "file already exists: %s (use --force to overwrite)", configFile)
		}
	}

	cfg := config.DefaultConfig()
	cfg.Headers = map[string]string{
		"User-Agent": "xhrkit/" + version,
	}
	if err := cfg.SaveConfig(configFile); err != nil {
		return withExitCode(ExitConfigError, "failed to write %s: %w", configFile, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", configFile)
	return nil
}
