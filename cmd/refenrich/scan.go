package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/refenrich/internal/marker"
	"github.com/matsen/refenrich/internal/reference"
)

var (
	scanContext int
	scanTag     string
)

func init() {
	rootCmd.AddCommand(scanCmd)
	addExtractionFlags(scanCmd, &scanContext, &scanTag)
}

// ScanResponse is the response for the scan command.
type ScanResponse struct {
	Note       string                `json:"note"`
	Title      string                `json:"title,omitempty"`
	Tags       []string              `json:"tags,omitempty"`
	Tag        string                `json:"tag"`
	Total      int                   `json:"total"`
	References []reference.Reference `json:"references"`
}

var scanCmd = &cobra.Command{
	Use:   "scan <note name>",
	Short: "List the citation markers of a note",
	Long: `List the citation markers of a note without contacting any service.

Use this to check which citations enrich would process.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	applyExtractionFlags(cmd, cfg, scanContext, scanTag)
	mustValidateConfig(cfg)

	n := mustLoadNote(cfg, strings.Join(args, " "))
	refs := marker.NewExtractor(cfg.MarkerTag, cfg.ContextLines).Extract(n.Name, n.Lines())
	if refs == nil {
		refs = []reference.Reference{}
	}

	if humanOutput {
		if len(refs) == 0 {
			outputHuman("No #%s markers found in %s.\n", cfg.MarkerTag, n.Name)
			return nil
		}
		outputHuman("%d markers in %s\n\n", len(refs), n.DisplayTitle())
		for _, r := range refs {
			outputHuman("%5d  %s\n", r.Line, truncateString(r.RawText, ScanTextMaxLen))
			if r.Comment != r.RawText {
				outputHuman("       note: %s\n", truncateString(r.Comment, ScanTextMaxLen))
			}
		}
		return nil
	}

	return outputJSON(ScanResponse{
		Note:       n.Name,
		Title:      n.Meta.Title,
		Tags:       n.Meta.Tags,
		Tag:        cfg.MarkerTag,
		Total:      len(refs),
		References: refs,
	})
}
