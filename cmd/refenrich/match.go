package main

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/refenrich/internal/bibliography"
	"github.com/matsen/refenrich/internal/pdf"
)

func init() {
	rootCmd.AddCommand(matchCmd)
}

// MatchResponse is the response for the match command.
type MatchResponse struct {
	Citation     string   `json:"citation"`
	Bibliography string   `json:"bibliography"`
	Authors      []string `json:"authors"`
	Years        []string `json:"years"`
	Found        bool     `json:"found"`
	Entry        string   `json:"entry,omitempty"`
	Line         int      `json:"line,omitempty"`
	Score        int      `json:"score,omitempty"`
	DOI          string   `json:"doi,omitempty"`
}

var matchCmd = &cobra.Command{
	Use:   "match <citation text>",
	Short: "Look a citation up in the bibliography file",
	Long: `Look a citation fragment up in the vault's bibliography file.

Author-like words and years are extracted from the fragment and the corpus
line sharing the most of them is reported, with its continuation lines.

Example:
  refenrich match Anderson and Rainie 2017`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMatch,
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	mustValidateConfig(cfg)

	logger := newLogger()
	defer logger.Sync()

	citation := strings.Join(args, " ")
	corpus, err := bibliography.LoadCorpus(cfg.BibliographyPath(), logger)
	if err != nil {
		exitWithError(ExitDataError, "loading bibliography: %v", err)
	}

	authors, years := bibliography.Candidates(citation)
	resp := MatchResponse{
		Citation:     citation,
		Bibliography: cfg.BibliographyPath(),
		Authors:      nonNil(authors),
		Years:        nonNil(years),
	}

	if m, ok := corpus.Match(citation); ok {
		resp.Found = true
		resp.Entry = m.Entry
		resp.Line = m.Line
		resp.Score = m.Score
		resp.DOI = pdf.FindDOI(m.Entry)
		logger.Debug("match", zap.Int("line", m.Line), zap.Int("score", m.Score))
	}

	if humanOutput {
		outputHuman("Authors: %s\n", strings.Join(resp.Authors, ", "))
		outputHuman("Years:   %s\n", strings.Join(resp.Years, ", "))
		if !resp.Found {
			outputHuman("No bibliography entry matches %q.\n", citation)
			return nil
		}
		outputHuman("\nLine %d (score %d):\n  %s\n", resp.Line, resp.Score, resp.Entry)
		if resp.DOI != "" {
			outputHuman("DOI: %s\n", resp.DOI)
		}
		return nil
	}

	return outputJSON(resp)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
