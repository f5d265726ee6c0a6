package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matsen/refenrich/internal/bibliography"
	"github.com/matsen/refenrich/internal/llm"
)

// checkTimeout bounds each probe of the check command.
const checkTimeout = 5 * time.Second

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the vault, bibliography and Ollama setup",
	Long: `Verify that refenrich can run: the configuration is valid, the vault
exists, the bibliography file is readable, and Ollama serves the configured
model. Problems are reported as issues; enrich still runs with a missing
bibliography or model, with degraded results.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

// CheckResult is the response for the check command.
type CheckResult struct {
	Status       string       `json:"status"`
	Vault        string       `json:"vault"`
	Bibliography string       `json:"bibliography"`
	CorpusLines  int          `json:"corpus_lines"`
	OllamaURL    string       `json:"ollama_url"`
	Model        string       `json:"model"`
	Issues       []CheckIssue `json:"issues"`
}

// CheckIssue represents a single issue found during check.
type CheckIssue struct {
	Type   string `json:"type"`
	Path   string `json:"path,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	mustValidateConfig(cfg)

	logger := newLogger()
	defer logger.Sync()

	result := CheckResult{
		Vault:        cfg.VaultRoot(),
		Bibliography: cfg.BibliographyPath(),
		OllamaURL:    cfg.OllamaURL,
		Model:        cfg.OllamaModel,
		Issues:       []CheckIssue{},
	}

	if info, err := os.Stat(result.Vault); err != nil || !info.IsDir() {
		result.Issues = append(result.Issues, CheckIssue{Type: "missing_vault", Path: result.Vault})
	}

	if _, err := os.Stat(result.Bibliography); err != nil {
		result.Issues = append(result.Issues, CheckIssue{Type: "missing_bibliography", Path: result.Bibliography})
	} else if corpus, err := bibliography.LoadCorpus(result.Bibliography, logger); err != nil {
		result.Issues = append(result.Issues, CheckIssue{Type: "unreadable_bibliography", Path: result.Bibliography, Reason: err.Error()})
	} else {
		result.CorpusLines = corpus.Len()
		if corpus.Empty() {
			result.Issues = append(result.Issues, CheckIssue{Type: "empty_bibliography", Path: result.Bibliography})
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()
	client := llm.NewOllamaClient(llm.WithBaseURL(cfg.OllamaURL), llm.WithModel(cfg.OllamaModel), llm.WithTimeout(checkTimeout))
	if err := client.IsAvailable(ctx); err != nil {
		result.Issues = append(result.Issues, CheckIssue{Type: "ollama_unavailable", Reason: err.Error()})
	} else if hasModel, err := client.HasModel(ctx); err != nil {
		result.Issues = append(result.Issues, CheckIssue{Type: "ollama_unavailable", Reason: err.Error()})
	} else if !hasModel {
		result.Issues = append(result.Issues, CheckIssue{Type: "model_not_found", Reason: "run 'ollama pull " + cfg.OllamaModel + "'"})
	}

	result.Status = "ok"
	if len(result.Issues) > 0 {
		result.Status = "issues_found"
	}

	if humanOutput {
		outputHuman("Vault:        %s\n", result.Vault)
		outputHuman("Bibliography: %s (%d lines)\n", result.Bibliography, result.CorpusLines)
		outputHuman("Ollama:       %s (%s)\n", result.OllamaURL, result.Model)
		if len(result.Issues) == 0 {
			outputHuman("\nAll checks passed.\n")
			return nil
		}
		outputHuman("\n%d issue(s):\n", len(result.Issues))
		for _, issue := range result.Issues {
			outputHuman("  - %s", issue.Type)
			if issue.Path != "" {
				outputHuman(": %s", issue.Path)
			}
			if issue.Reason != "" {
				outputHuman(" (%s)", issue.Reason)
			}
			outputHuman("\n")
		}
		return nil
	}

	return outputJSON(result)
}
