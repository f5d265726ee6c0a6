package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/matsen/refenrich/internal/reference"
)

// NoIdentifier marks references that no external source resolved.
const NoIdentifier = "No identifier found"

// Markdown renders the human-readable report.
func Markdown(doc Document) string {
	var b strings.Builder

	b.WriteString("# Bibliographic enrichment report\n\n")
	fmt.Fprintf(&b, "- **Source file**: %s\n", doc.SourceFile)
	if doc.NoteTitle != "" {
		fmt.Fprintf(&b, "- **Note title**: %s\n", doc.NoteTitle)
	}
	fmt.Fprintf(&b, "- **Date**: %s\n", doc.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "- **References found**: %d\n\n", len(doc.References))
	b.WriteString("---\n\n")

	for i, ref := range doc.References {
		writeReference(&b, i+1, ref)
	}

	return b.String()
}

func writeReference(b *strings.Builder, n int, ref reference.EnrichedReference) {
	fmt.Fprintf(b, "## Reference %d\n\n", n)
	fmt.Fprintf(b, "**Line %d**: %s\n\n", ref.Line, ref.RawText)

	if ref.Comment != "" && ref.Comment != ref.RawText {
		fmt.Fprintf(b, "**Note**: %s\n\n", ref.Comment)
	}

	if ref.FullReference != "" {
		fmt.Fprintf(b, "**Full reference** (bibliography line %d):\n> %s\n\n", ref.BibliographyLine, ref.FullReference)
		if ref.BibliographyDOI != "" {
			fmt.Fprintf(b, "**Bibliography DOI**: `%s`\n\n", ref.BibliographyDOI)
		}
	}

	meta := ref.Metadata
	b.WriteString("**Extracted metadata**:\n")
	fmt.Fprintf(b, "- Author: %s\n", meta.Author)
	fmt.Fprintf(b, "- Title: %s\n", meta.Title)
	fmt.Fprintf(b, "- Year: %s\n", meta.Year)
	fmt.Fprintf(b, "- Confidence: %s\n\n", Percent(meta.Confidence))

	if api := ref.API; api != nil {
		fmt.Fprintf(b, "**API result (%s)**:\n", api.Source)
		if api.DOI != "" {
			fmt.Fprintf(b, "- DOI: `%s`\n", api.DOI)
		} else {
			b.WriteString("- DOI: none\n")
		}
		if api.Title != "" {
			fmt.Fprintf(b, "- Title: %s\n", api.Title)
		}
		if len(api.Authors) > 0 {
			fmt.Fprintf(b, "- Authors: %s\n", reference.FormatAuthors(api.Authors, 3))
		}
		if api.Year != 0 {
			fmt.Fprintf(b, "- Year: %d\n", api.Year)
		}
		fmt.Fprintf(b, "- URL: %s\n", api.URL)
		fmt.Fprintf(b, "- Confidence: %s\n\n", Percent(api.Confidence))
	} else {
		fmt.Fprintf(b, "⚠️ *%s*\n\n", NoIdentifier)
	}

	b.WriteString("---\n\n")
}

// Percent formats a [0,1] confidence as a percentage with two decimals.
func Percent(c float64) string {
	return fmt.Sprintf("%.2f%%", c*100)
}

// HTML renders Markdown source as a standalone HTML page.
func HTML(title, markdown string) ([]byte, error) {
	engine := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)

	var body bytes.Buffer
	if err := engine.Convert([]byte(markdown), &body); err != nil {
		return nil, fmt.Errorf("markdown parse: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(title))
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}
