// Package config handles refenrich configuration.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Output formats accepted in output_format.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatBoth     = "both"
)

// Defaults mirror the settings most vaults start with.
const (
	DefaultVaultPath        = "."
	DefaultBibliographyFile = "4.4 Bibliographic references.md"
	DefaultOllamaURL        = "http://localhost:11434"
	DefaultOllamaModel      = "llama3.1:8b"
	DefaultContextLines     = 3
	DefaultMinConfidence    = 0.5
	DefaultOutputDir        = "results"
	DefaultOutputFormat     = FormatBoth
	DefaultMarkerTag        = "reflitterature"
	DefaultRequestTimeout   = 10 * time.Second
	DefaultLLMTimeout       = 2 * time.Minute
)

// ValidFormats lists the supported output_format values.
var ValidFormats = []string{FormatJSON, FormatMarkdown, FormatBoth}

// Config is the refenrich configuration, usually stored in
// ~/.config/refenrich/config.yml. BibliographyFile and OutputDir are
// resolved against the vault unless absolute. The emails are sent to
// OpenAlex (mailto parameter) and Crossref (User-Agent) for their polite pools.
type Config struct {
	VaultPath        string        `yaml:"vault_path" json:"vault_path"`
	BibliographyFile string        `yaml:"bibliography_file" json:"bibliography_file"`
	OllamaURL        string        `yaml:"ollama_url" json:"ollama_url"`
	OllamaModel      string        `yaml:"ollama_model" json:"ollama_model"`
	OpenAlexEmail    string        `yaml:"openalex_email,omitempty" json:"openalex_email,omitempty"`
	CrossrefEmail    string        `yaml:"crossref_email,omitempty" json:"crossref_email,omitempty"`
	ContextLines     int           `yaml:"context_lines" json:"context_lines"`
	MinConfidence    float64       `yaml:"min_confidence" json:"min_confidence"`
	OutputDir        string        `yaml:"output_dir" json:"output_dir"`
	OutputFormat     string        `yaml:"output_format" json:"output_format"`
	MarkerTag        string        `yaml:"marker_tag" json:"marker_tag"`
	RequestTimeout   time.Duration `yaml:"request_timeout" json:"request_timeout"`
	LLMTimeout       time.Duration `yaml:"llm_timeout" json:"llm_timeout"`
	RenderHTML       bool          `yaml:"render_html" json:"render_html"`
}

// Default returns a configuration populated with default values.
func Default() *Config {
	return &Config{
		VaultPath:        DefaultVaultPath,
		BibliographyFile: DefaultBibliographyFile,
		OllamaURL:        DefaultOllamaURL,
		OllamaModel:      DefaultOllamaModel,
		ContextLines:     DefaultContextLines,
		MinConfidence:    DefaultMinConfidence,
		OutputDir:        DefaultOutputDir,
		OutputFormat:     DefaultOutputFormat,
		MarkerTag:        DefaultMarkerTag,
		RequestTimeout:   DefaultRequestTimeout,
		LLMTimeout:       DefaultLLMTimeout,
	}
}

// VaultRoot returns the absolute, tilde-expanded vault path.
func (c *Config) VaultRoot() string {
	p := ExpandPath(c.VaultPath)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// BibliographyPath returns the path to the bibliography corpus.
func (c *Config) BibliographyPath() string {
	return c.underVault(c.BibliographyFile)
}

// OutputPath returns the directory where reports are written.
func (c *Config) OutputPath() string {
	return c.underVault(c.OutputDir)
}

// WantsJSON reports whether the JSON dump should be written.
func (c *Config) WantsJSON() bool {
	return c.OutputFormat == FormatJSON || c.OutputFormat == FormatBoth
}

// WantsMarkdown reports whether the Markdown report should be written.
func (c *Config) WantsMarkdown() bool {
	return c.OutputFormat == FormatMarkdown || c.OutputFormat == FormatBoth
}

func (c *Config) underVault(p string) string {
	p = ExpandPath(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.VaultRoot(), p)
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
