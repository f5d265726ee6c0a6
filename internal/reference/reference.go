// Package reference defines the core domain types for citation enrichment.
package reference

// Unknown is the sentinel stored in metadata fields that could not be extracted.
const Unknown = "Unknown"

// Reference is one citation marker found in a note.
type Reference struct {
	File     string `json:"file"`      // Note file name, relative to the vault
	Line     int    `json:"line"`      // 1-based line number of the marker
	RawText  string `json:"raw_text"`  // Citation text (highlight sub-citations or annotation text)
	Comment  string `json:"comment"`   // Free text of the annotation
	Context  string `json:"context"`   // Surrounding lines, verbatim
	LineText string `json:"line_text"` // Marker line, trimmed
}

// ExtractedMetadata is the structured description of a citation produced by the language model.
type ExtractedMetadata struct {
	Author     string  `json:"author"` // "Last, First"
	Title      string  `json:"title"`
	Year       string  `json:"year"`
	Confidence float64 `json:"confidence"`
}

// UnknownMetadata returns the degraded result used when extraction fails.
// The title keeps the first maxTitle runes of the raw citation text.
func UnknownMetadata(raw string, maxTitle int) ExtractedMetadata {
	runes := []rune(raw)
	if len(runes) > maxTitle {
		runes = runes[:maxTitle]
	}
	return ExtractedMetadata{
		Author:     Unknown,
		Title:      string(runes),
		Year:       Unknown,
		Confidence: 0,
	}
}

// IsUnknown reports whether the author carries the sentinel value.
func (m ExtractedMetadata) IsUnknown() bool {
	return m.Author == Unknown
}

// APIResult is the best candidate returned by an external metadata source.
type APIResult struct {
	Source     string   `json:"source"`
	DOI        string   `json:"doi"` // Empty when the source has no identifier
	Title      string   `json:"title"`
	Authors    []Author `json:"authors"`
	Year       int      `json:"year,omitempty"`
	URL        string   `json:"url"`
	Confidence float64  `json:"confidence"`
}

// BibliographyMatch is the corpus entry that best matches a citation.
type BibliographyMatch struct {
	Entry string `json:"entry"` // Matched line plus its continuation lines
	Line  int    `json:"line"`  // 1-based corpus line of the first entry line
	Score int    `json:"score"` // Author hits plus year hits
}

// EnrichedReference is the unit written to reports.
type EnrichedReference struct {
	Reference
	Metadata         ExtractedMetadata `json:"extracted_metadata"`
	FullReference    string            `json:"full_reference"`
	BibliographyLine int               `json:"bibliography_line,omitempty"`
	BibliographyDOI  string            `json:"bibliography_doi,omitempty"`
	API              *APIResult        `json:"api_result"`
	FinalConfidence  float64           `json:"final_confidence"`
}

// HasIdentifier reports whether an external source resolved the reference.
func (e EnrichedReference) HasIdentifier() bool {
	return e.API != nil
}

// Combine assembles an EnrichedReference. The final confidence is the API
// confidence when a result is present, the metadata confidence otherwise.
func Combine(ref Reference, meta ExtractedMetadata, fullRef string, api *APIResult) EnrichedReference {
	out := EnrichedReference{
		Reference:       ref,
		Metadata:        meta,
		FullReference:   fullRef,
		API:             api,
		FinalConfidence: meta.Confidence,
	}
	if api != nil {
		out.FinalConfidence = api.Confidence
	}
	return out
}
