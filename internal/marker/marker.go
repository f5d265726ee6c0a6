// Package marker finds citation markers in note text.
//
// A marker is an annotation comment holding a tag keyword, optionally
// preceded by a highlighted span on the same line:
//
//	Some claim ==(Anderson and Rainie 2017)== %% #reflitterature check this %%
package marker

import (
	"regexp"
	"strings"

	"github.com/matsen/refenrich/internal/reference"
)

// citationPattern matches "(Name Year)"-shaped parenthesized citations.
var citationPattern = regexp.MustCompile(`\(([^)]+?\d{4}[^)]*)\)`)

// Extractor scans note lines for one tag keyword.
type Extractor struct {
	pattern      *regexp.Regexp
	contextLines int
}

// NewExtractor builds an extractor for the tag (without '#') that keeps
// contextLines lines on each side of a marker.
func NewExtractor(tag string, contextLines int) *Extractor {
	if contextLines < 0 {
		contextLines = 0
	}
	// Group 1: highlight immediately before the annotation. Group 2: annotation text.
	pattern := regexp.MustCompile(`(?:==((?:[^=]|=[^=])+?)==\s*)?%%\s*#` + regexp.QuoteMeta(tag) + `\s+(.+?)\s*%%`)
	return &Extractor{
		pattern:      pattern,
		contextLines: contextLines,
	}
}

// Extract returns one Reference per marker, in line order and left to right
// within a line. Lines may keep their line endings; context is reassembled
// from them verbatim.
func (e *Extractor) Extract(file string, lines []string) []reference.Reference {
	var refs []reference.Reference

	for i, line := range lines {
		matches := e.pattern.FindAllStringSubmatch(line, -1)
		if len(matches) == 0 {
			continue
		}

		context := e.context(lines, i)
		for _, m := range matches {
			comment := strings.TrimSpace(m[2])
			refs = append(refs, reference.Reference{
				File:     file,
				Line:     i + 1,
				RawText:  citationText(m[1], comment),
				Comment:  comment,
				Context:  context,
				LineText: strings.TrimSpace(line),
			})
		}
	}

	return refs
}

// context joins the window of lines around index i.
func (e *Extractor) context(lines []string, i int) string {
	start := i - e.contextLines
	if start < 0 {
		start = 0
	}
	end := i + e.contextLines + 1
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "")
}

// citationText picks the text describing the citation: parenthesized
// citations inside the highlight, the whole highlight, or the comment.
func citationText(highlight, comment string) string {
	highlight = strings.TrimSpace(highlight)
	if highlight == "" {
		return comment
	}

	found := citationPattern.FindAllStringSubmatch(highlight, -1)
	if len(found) == 0 {
		return highlight
	}

	cites := make([]string, len(found))
	for i, f := range found {
		cites[i] = strings.TrimSpace(f[1])
	}
	return strings.Join(cites, "; ")
}
