// Package report writes enrichment results to disk.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/matsen/refenrich/internal/reference"
)

// Document is the JSON report envelope.
type Document struct {
	RunID       string                        `json:"run_id"`
	SourceFile  string                        `json:"source_file"`
	NoteTitle   string                        `json:"note_title,omitempty"`
	GeneratedAt time.Time                     `json:"generated_at"`
	References  []reference.EnrichedReference `json:"references"`
}

// NewDocument assembles a report for one note.
func NewDocument(source, title string, refs []reference.EnrichedReference, now time.Time) Document {
	if refs == nil {
		refs = []reference.EnrichedReference{}
	}
	return Document{
		RunID:       uuid.NewString(),
		SourceFile:  source,
		NoteTitle:   title,
		GeneratedAt: now,
		References:  refs,
	}
}
