package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "refenrich"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
)

// Environment variables that override file values.
const (
	EnvVault         = "REFENRICH_VAULT"
	EnvOllamaHost    = "OLLAMA_HOST"
	EnvOllamaModel   = "OLLAMA_MODEL"
	EnvOpenAlexEmail = "OPENALEX_EMAIL"
	EnvCrossrefEmail = "CROSSREF_EMAIL"
)

// DefaultPath returns the path to the config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/refenrich/config.yml.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load reads the configuration at path (DefaultPath when empty), then applies
// environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables when they are set.
func (c *Config) ApplyEnv() {
	overrides := []struct {
		env   string
		field *string
	}{
		{EnvVault, &c.VaultPath},
		{EnvOllamaHost, &c.OllamaURL},
		{EnvOllamaModel, &c.OllamaModel},
		{EnvOpenAlexEmail, &c.OpenAlexEmail},
		{EnvCrossrefEmail, &c.CrossrefEmail},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.field = v
		}
	}
	if os.Getenv(EnvOllamaHost) != "" {
		c.OllamaURL = ollamaURL(c.OllamaURL)
	}
}

// ollamaURL turns an OLLAMA_HOST value such as "127.0.0.1:11434" into a base URL.
func ollamaURL(host string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if strings.Contains(host, "://") {
		return host
	}
	return "http://" + host
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
