package main

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matsen/refenrich/internal/config"
)

var configInitForce bool

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
	Long: `Inspect the configuration.

Settings are read from $XDG_CONFIG_HOME/refenrich/config.yml (or --config),
then overridden by REFENRICH_VAULT, OLLAMA_HOST, OLLAMA_MODEL, OPENALEX_EMAIL
and CROSSREF_EMAIL (a .env file in the working directory is loaded first).`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		if humanOutput {
			data, err := yaml.Marshal(cfg)
			if err != nil {
				exitWithError(ExitError, "encoding config: %v", err)
			}
			outputHuman("%s", data)
			return nil
		}
		return outputJSON(cfg)
	},
}

// ConfigPathResponse is the response for config path.
type ConfigPathResponse struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := effectiveConfigPath()
		resp := ConfigPathResponse{Path: path, Exists: fileExists(path)}
		if humanOutput {
			outputHuman("%s\n", path)
			return nil
		}
		return outputJSON(resp)
	},
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := effectiveConfigPath()
		if path == "" {
			exitWithError(ExitConfigError, "cannot determine config directory")
		}
		if fileExists(path) && !configInitForce {
			exitWithError(ExitConfigError, "%s already exists (use --force to overwrite)", path)
		}

		cfg := config.Default()
		if vaultPath != "" {
			cfg.VaultPath = vaultPath
		}
		if err := cfg.Save(path); err != nil {
			exitWithError(ExitError, "%v", err)
		}

		if humanOutput {
			outputHuman("Wrote %s\n", path)
			return nil
		}
		return outputJSON(StatusResponse{Status: "created", Path: path})
	},
}

func effectiveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath()
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
