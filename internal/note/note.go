// Package note loads vault notes and their front matter.
package note

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
)

// NoteExt is the extension appended to note names that lack one.
const NoteExt = ".md"

// maxSuggestions bounds the similar-file list attached to NotFoundError.
const maxSuggestions = 5

// ErrNoteNotFound indicates the requested note does not exist in the vault.
var ErrNoteNotFound = errors.New("note not found")

// NotFoundError carries similar note names for a missing note.
type NotFoundError struct {
	Name        string
	Vault       string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("note %q does not exist in %s", e.Name, e.Vault)
}

// Unwrap lets errors.Is match ErrNoteNotFound.
func (e *NotFoundError) Unwrap() error {
	return ErrNoteNotFound
}

// Meta holds the front matter fields refenrich reports on.
type Meta struct {
	Title   string   `yaml:"title" json:"title,omitempty"`
	Tags    []string `yaml:"tags" json:"tags,omitempty"`
	Aliases []string `yaml:"aliases" json:"aliases,omitempty"`
}

// Note is a loaded vault note.
type Note struct {
	Name    string // File name relative to the vault, with extension
	Path    string
	Content string
	Meta    Meta
}

// Lines splits the note into lines, keeping line endings so that context
// windows can be reassembled verbatim.
func (n *Note) Lines() []string {
	return SplitLines(n.Content)
}

// Stem returns the note name without directory or extension.
func (n *Note) Stem() string {
	base := filepath.Base(n.Name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DisplayTitle prefers the front matter title over the file stem.
func (n *Note) DisplayTitle() string {
	if n.Meta.Title != "" {
		return n.Meta.Title
	}
	return n.Stem()
}

// Load reads the note called name from the vault.
func Load(vault, name string) (*Note, error) {
	name = strings.TrimSpace(name)
	if !strings.HasSuffix(strings.ToLower(name), NoteExt) {
		name += NoteExt
	}

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(vault, name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{
				Name:        name,
				Vault:       vault,
				Suggestions: Suggest(vault, name),
			}
		}
		return nil, fmt.Errorf("reading note: %w", err)
	}

	return &Note{
		Name:    name,
		Path:    path,
		Content: string(data),
		Meta:    parseMeta(data),
	}, nil
}

// parseMeta extracts front matter. Notes without front matter, or with front
// matter that does not parse, get an empty Meta.
func parseMeta(data []byte) Meta {
	var meta Meta
	if _, err := frontmatter.Parse(bytes.NewReader(data), &meta); err != nil {
		return Meta{}
	}
	return meta
}

// Suggest lists vault notes whose name contains the first word of name.
func Suggest(vault, name string) []string {
	words := strings.Fields(strings.TrimSuffix(filepath.Base(name), NoteExt))
	if len(words) == 0 {
		return nil
	}
	needle := strings.ToLower(words[0])

	entries, err := os.ReadDir(vault)
	if err != nil {
		return nil
	}

	var matches []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), NoteExt) {
			continue
		}
		if strings.Contains(strings.ToLower(e.Name()), needle) {
			matches = append(matches, e.Name())
		}
	}
	sort.Strings(matches)

	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}
	return matches
}

// SplitLines splits text after each newline. A trailing newline does not
// produce an empty final line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
