// Package enrich runs the per-reference enrichment pipeline.
package enrich

import (
	"context"

	"go.uber.org/zap"

	"github.com/matsen/refenrich/internal/pdf"
	"github.com/matsen/refenrich/internal/reference"
)

// Matcher finds a citation in the local bibliography.
type Matcher interface {
	Match(citation string) (reference.BibliographyMatch, bool)
}

// MetadataExtractor turns citation text into structured metadata.
type MetadataExtractor interface {
	Extract(ctx context.Context, raw, fullRef string) reference.ExtractedMetadata
}

// Resolver looks metadata up in external sources.
type Resolver interface {
	Resolve(ctx context.Context, meta reference.ExtractedMetadata) *reference.APIResult
}

// Enricher composes bibliography matching, metadata extraction and
// external resolution.
type Enricher struct {
	matcher   Matcher
	extractor MetadataExtractor
	resolver  Resolver
	logger    *zap.Logger
}

// New creates an Enricher.
func New(matcher Matcher, extractor MetadataExtractor, resolver Resolver, logger *zap.Logger) *Enricher {
	return &Enricher{
		matcher:   matcher,
		extractor: extractor,
		resolver:  resolver,
		logger:    logger,
	}
}

// Enrich processes refs one at a time and returns exactly one result per
// reference, in input order.
func (e *Enricher) Enrich(ctx context.Context, refs []reference.Reference) []reference.EnrichedReference {
	results := make([]reference.EnrichedReference, 0, len(refs))
	for i, ref := range refs {
		e.logger.Info("processing reference",
			zap.Int("index", i+1),
			zap.Int("total", len(refs)),
			zap.Int("line", ref.Line),
			zap.String("citation", ref.RawText))
		results = append(results, e.enrichOne(ctx, ref))
	}
	return results
}

func (e *Enricher) enrichOne(ctx context.Context, ref reference.Reference) reference.EnrichedReference {
	match, found := e.matcher.Match(ref.RawText)
	if found {
		e.logger.Debug("bibliography match",
			zap.Int("corpus_line", match.Line),
			zap.Int("score", match.Score))
	}

	meta := e.extractor.Extract(ctx, ref.RawText, match.Entry)

	var api *reference.APIResult
	if meta.IsUnknown() {
		e.logger.Debug("skipping external lookup for unknown metadata", zap.Int("line", ref.Line))
	} else {
		api = e.resolver.Resolve(ctx, meta)
	}

	out := reference.Combine(ref, meta, match.Entry, api)
	if found {
		out.BibliographyLine = match.Line
		out.BibliographyDOI = pdf.FindDOI(match.Entry)
	}
	return out
}

// Summary counts outcomes of an enrichment run.
type Summary struct {
	Total            int `json:"total"`
	WithIdentifier   int `json:"with_identifier"`
	WithBibliography int `json:"with_bibliography"`
	Unknown          int `json:"unknown"`
}

// Summarize tallies results.
func Summarize(results []reference.EnrichedReference) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.HasIdentifier() {
			s.WithIdentifier++
		}
		if r.FullReference != "" {
			s.WithBibliography++
		}
		if r.Metadata.IsUnknown() {
			s.Unknown++
		}
	}
	return s
}
