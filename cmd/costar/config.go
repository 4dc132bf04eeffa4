package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matsen/costar/internal/config"
)

var configInit bool

func init() {
	configCmd.Flags().BoolVar(&configInit, "init", false, "Write the effective configuration to .costar/config.yml")
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration after applying the config file, COSTAR_*
environment variables, and flags. With --init, also write it to
.costar/config.yml in the project root.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

// ConfigResult is the response for the config command.
type ConfigResult struct {
	Root   string         `json:"root"`
	File   string         `json:"file"`
	Config *config.Config `json:"config"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	a := mustSetup()

	file := config.ConfigPath(a.root)
	if configPath != "" {
		file = configPath
	}

	if configInit {
		if err := a.cfg.Save(a.root); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		file = config.ConfigPath(a.root)
	}

	if humanOutput {
		data, err := yaml.Marshal(a.cfg)
		if err != nil {
			exitWithError(ExitError, "encoding config: %v", err)
		}
		outputHuman("# %s\n%s", file, data)
		return nil
	}
	return outputJSON(ConfigResult{Root: a.root, File: file, Config: a.cfg})
}
