package main

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/refenrich/internal/bibliography"
	"github.com/matsen/refenrich/internal/config"
	"github.com/matsen/refenrich/internal/enrich"
	"github.com/matsen/refenrich/internal/llm"
	"github.com/matsen/refenrich/internal/marker"
	"github.com/matsen/refenrich/internal/report"
	"github.com/matsen/refenrich/internal/resolver"
)

var (
	enrichFormat        string
	enrichOutputDir     string
	enrichMinConfidence float64
	enrichContext       int
	enrichTag           string
	enrichHTML          bool
)

func init() {
	rootCmd.AddCommand(enrichCmd)

	enrichCmd.Flags().StringVar(&enrichFormat, "format", "", "Output format: json, markdown or both")
	enrichCmd.Flags().StringVarP(&enrichOutputDir, "output-dir", "o", "", "Report directory (relative paths are under the vault)")
	enrichCmd.Flags().Float64Var(&enrichMinConfidence, "min-confidence", 0, "Confidence at which an API result is accepted (0.0-1.0)")
	addExtractionFlags(enrichCmd, &enrichContext, &enrichTag)
	enrichCmd.Flags().BoolVar(&enrichHTML, "html", false, "Also render the Markdown report as HTML")
}

// addExtractionFlags registers the marker flags shared with scan.
func addExtractionFlags(cmd *cobra.Command, contextLines *int, tag *string) {
	cmd.Flags().IntVarP(contextLines, "context", "c", config.DefaultContextLines, "Lines of context kept around each marker")
	cmd.Flags().StringVarP(tag, "tag", "t", "", "Marker tag without '#' (default from config)")
}

// applyExtractionFlags copies explicitly set marker flags into cfg.
func applyExtractionFlags(cmd *cobra.Command, cfg *config.Config, contextLines int, tag string) {
	if cmd.Flags().Changed("context") {
		cfg.ContextLines = contextLines
	}
	if cmd.Flags().Changed("tag") {
		cfg.MarkerTag = strings.TrimPrefix(tag, "#")
	}
}

// EnrichResponse is the response for the enrich command.
type EnrichResponse struct {
	Status     string         `json:"status"`
	Note       string         `json:"note"`
	Title      string         `json:"title,omitempty"`
	References int            `json:"references"`
	Summary    enrich.Summary `json:"summary"`
	Files      report.Files   `json:"files"`
}

var enrichCmd = &cobra.Command{
	Use:   "enrich <note name>",
	Short: "Enrich the citation markers of a note",
	Long: `Enrich every citation marker in a note and write reports.

The note name may contain spaces without quoting; all arguments are joined.
The .md extension is optional. For each marker the citation is matched against
the bibliography file, analyzed by the Ollama model, and searched in OpenAlex
then Crossref. Reports go to the output directory as JSON and/or Markdown.

Examples:
  refenrich enrich 1.2 The impact of digitalisation
  refenrich enrich "Chapter 3.md" --format markdown --html`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEnrich,
}

func runEnrich(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := mustLoadConfig()
	if cmd.Flags().Changed("format") {
		cfg.OutputFormat = enrichFormat
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir = enrichOutputDir
	}
	if cmd.Flags().Changed("min-confidence") {
		cfg.MinConfidence = enrichMinConfidence
	}
	if cmd.Flags().Changed("html") {
		cfg.RenderHTML = enrichHTML
	}
	applyExtractionFlags(cmd, cfg, enrichContext, enrichTag)
	mustValidateConfig(cfg)

	logger := newLogger()
	defer logger.Sync()

	n := mustLoadNote(cfg, strings.Join(args, " "))
	refs := marker.NewExtractor(cfg.MarkerTag, cfg.ContextLines).Extract(n.Name, n.Lines())

	if len(refs) == 0 {
		if humanOutput {
			outputHuman("No #%s markers found in %s.\n", cfg.MarkerTag, n.Name)
		} else {
			outputJSON(EnrichResponse{Status: "no_references", Note: n.Name, Title: n.Meta.Title})
		}
		return nil
	}
	logger.Info("markers found", zap.String("note", n.Name), zap.Int("count", len(refs)))

	corpus, err := bibliography.LoadCorpus(cfg.BibliographyPath(), logger)
	if err != nil {
		exitWithError(ExitDataError, "loading bibliography: %v", err)
	}

	ollama := llm.NewOllamaClient(
		llm.WithBaseURL(cfg.OllamaURL),
		llm.WithModel(cfg.OllamaModel),
		llm.WithTimeout(cfg.LLMTimeout),
	)
	warnIfOllamaUnavailable(ctx, ollama, logger)

	extractor, err := llm.NewMetadataExtractor(ollama, logger)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	chain := resolver.NewChain(cfg.MinConfidence, logger,
		resolver.NewOpenAlexClient(
			resolver.WithEmail(cfg.OpenAlexEmail),
			resolver.WithTimeout(cfg.RequestTimeout),
		),
		resolver.NewCrossrefClient(
			resolver.WithEmail(cfg.CrossrefEmail),
			resolver.WithTimeout(cfg.RequestTimeout),
		),
	)

	results := enrich.New(corpus, extractor, chain, logger).Enrich(ctx, refs)

	writer := report.NewWriter(cfg.OutputPath(),
		report.WithFormats(cfg.WantsJSON(), cfg.WantsMarkdown()),
		report.WithHTML(cfg.RenderHTML),
	)
	files, err := writer.Write(n.Name, n.Meta.Title, results)
	if err != nil {
		exitWithError(ExitError, "writing reports: %v", err)
	}

	summary := enrich.Summarize(results)
	if humanOutput {
		printEnrichSummaryHuman(n.Name, summary, files)
		return nil
	}
	return outputJSON(EnrichResponse{
		Status:     "completed",
		Note:       n.Name,
		Title:      n.Meta.Title,
		References: len(refs),
		Summary:    summary,
		Files:      files,
	})
}

// warnIfOllamaUnavailable logs problems with the model server. Extraction
// then degrades to Unknown metadata instead of stopping the run.
func warnIfOllamaUnavailable(ctx context.Context, client *llm.OllamaClient, logger *zap.Logger) {
	if err := client.IsAvailable(ctx); err != nil {
		logger.Warn("ollama is not reachable; start it with 'ollama serve'",
			zap.String("url", client.BaseURL()), zap.Error(err))
		return
	}
	hasModel, err := client.HasModel(ctx)
	if err != nil {
		logger.Warn("checking ollama models", zap.Error(err))
		return
	}
	if !hasModel {
		logger.Warn("ollama model not installed; run 'ollama pull "+client.ModelName()+"'",
			zap.String("model", client.ModelName()))
	}
}

func printEnrichSummaryHuman(name string, s enrich.Summary, files report.Files) {
	outputHuman("Processed %d references from %s\n", s.Total, name)
	outputHuman("  Identifier found:   %d/%d", s.WithIdentifier, s.Total)
	if s.Total > 0 {
		outputHuman(" (%.1f%%)", float64(s.WithIdentifier)/float64(s.Total)*100)
	}
	outputHuman("\n")
	outputHuman("  Bibliography match: %d/%d\n", s.WithBibliography, s.Total)
	outputHuman("  Unknown metadata:   %d\n", s.Unknown)

	for _, f := range []struct{ label, path string }{
		{"JSON", files.JSON},
		{"Markdown", files.Markdown},
		{"HTML", files.HTML},
	} {
		if f.path != "" {
			outputHuman("%-9s %s\n", f.label+":", f.path)
		}
	}
}
