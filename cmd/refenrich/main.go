// Package main provides the refenrich CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/refenrich/internal/config"
	"github.com/matsen/refenrich/internal/note"
)

// Version is set at build time via ldflags
var Version = "dev"

// Global flags
var (
	humanOutput bool
	configPath  string
	verbose     bool
	vaultPath   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "refenrich",
	Short: "Enrich citation markers in vault notes",
	Long: `refenrich finds citation markers in Markdown notes and enriches them.

A marker is an annotation such as

  ==(Anderson and Rainie 2017)== %% #reflitterature check this %%

For each marker refenrich looks the citation up in the vault's bibliography,
extracts author/title/year with a local Ollama model, and searches OpenAlex
and Crossref for a DOI. Results are written as JSON and Markdown reports.

All commands output JSON by default; use --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Email addresses for the polite API pools may live in .env
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/refenrich/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&vaultPath, "vault", "", "Vault directory (overrides vault_path)")
	rootCmd.Version = Version
}

// mustLoadConfig loads configuration and applies the global overrides.
// It does not validate, so commands can apply their own flags first.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if vaultPath != "" {
		cfg.VaultPath = vaultPath
	}
	return cfg
}

// mustValidateConfig exits with ExitConfigError when cfg is invalid.
func mustValidateConfig(cfg *config.Config) {
	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "invalid configuration: %v", err)
	}
}

// mustLoadNote loads a note from the vault. A missing note prints similar
// note names and exits with ExitDataError.
func mustLoadNote(cfg *config.Config, name string) *note.Note {
	n, err := note.Load(cfg.VaultRoot(), name)
	if err == nil {
		return n
	}

	var nf *note.NotFoundError
	if errors.As(err, &nf) {
		if humanOutput {
			fmt.Fprintf(os.Stderr, "error: note %q not found in %s\n", nf.Name, nf.Vault)
			if len(nf.Suggestions) > 0 {
				fmt.Fprintln(os.Stderr, "\nSimilar notes:")
				for _, s := range nf.Suggestions {
					fmt.Fprintf(os.Stderr, "  - %s\n", s)
				}
			}
		} else {
			outputJSON(NotFoundResponse{
				Error:       nf.Error(),
				Suggestions: nonNil(nf.Suggestions),
			})
		}
		os.Exit(ExitDataError)
	}

	exitWithError(ExitDataError, "loading note: %v", err)
	return nil
}

// newLogger builds the console logger used for diagnostics on stderr.
func newLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
