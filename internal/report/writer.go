package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matsen/refenrich/internal/reference"
)

// timestampLayout is embedded in output file names.
const timestampLayout = "20060102_150405"

// maxSuffix bounds the search for a free output name.
const maxSuffix = 1000

// Files lists the paths written by one run.
type Files struct {
	JSON     string `json:"json,omitempty"`
	Markdown string `json:"markdown,omitempty"`
	HTML     string `json:"html,omitempty"`
}

// Writer writes report files into one directory.
type Writer struct {
	dir           string
	writeJSON     bool
	writeMarkdown bool
	writeHTML     bool
	now           func() time.Time
}

// Option configures a Writer.
type Option func(*Writer)

// WithFormats selects the JSON and Markdown outputs.
func WithFormats(jsonOut, markdownOut bool) Option {
	return func(w *Writer) {
		w.writeJSON = jsonOut
		w.writeMarkdown = markdownOut
	}
}

// WithHTML enables an HTML rendering of the Markdown report.
func WithHTML(enabled bool) Option {
	return func(w *Writer) {
		w.writeHTML = enabled
	}
}

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		w.now = now
	}
}

// NewWriter creates a Writer for dir. By default it writes JSON and Markdown.
func NewWriter(dir string, opts ...Option) *Writer {
	w := &Writer{
		dir:           dir,
		writeJSON:     true,
		writeMarkdown: true,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders refs for the note at source and creates the report files.
// Existing files are never overwritten: when a name is taken, a numeric
// suffix is added to every file of the run.
func (w *Writer) Write(source, title string, refs []reference.EnrichedReference) (Files, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return Files{}, fmt.Errorf("creating output directory: %w", err)
	}

	now := w.now()
	doc := NewDocument(source, title, refs, now)

	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	base, err := w.freeBase(stem + "_" + now.Format(timestampLayout))
	if err != nil {
		return Files{}, err
	}

	var files Files
	if w.writeJSON {
		data, err := marshalDocument(doc)
		if err != nil {
			return files, err
		}
		files.JSON = base + ".json"
		if err := createExclusive(files.JSON, data); err != nil {
			return files, err
		}
	}

	if w.writeMarkdown || w.writeHTML {
		md := Markdown(doc)
		if w.writeMarkdown {
			files.Markdown = base + "_report.md"
			if err := createExclusive(files.Markdown, []byte(md)); err != nil {
				return files, err
			}
		}
		if w.writeHTML {
			page, err := HTML(displayTitle(source, title), md)
			if err != nil {
				return files, err
			}
			files.HTML = base + "_report.html"
			if err := createExclusive(files.HTML, page); err != nil {
				return files, err
			}
		}
	}

	return files, nil
}

// freeBase returns dir/name, or dir/name_N for the smallest N whose
// output files do not exist yet.
func (w *Writer) freeBase(name string) (string, error) {
	for n := 0; n < maxSuffix; n++ {
		candidate := name
		if n > 0 {
			candidate = fmt.Sprintf("%s_%d", name, n)
		}
		base := filepath.Join(w.dir, candidate)
		if !anyExists(base+".json", base+"_report.md", base+"_report.html") {
			return base, nil
		}
	}
	return "", fmt.Errorf("no free output name for %s in %s", name, w.dir)
}

func anyExists(paths ...string) bool {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil || !errors.Is(err, fs.ErrNotExist) {
			return true
		}
	}
	return false
}

func createExclusive(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func marshalDocument(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("marshaling report: %w", err)
	}
	return buf.Bytes(), nil
}

func displayTitle(source, title string) string {
	if title != "" {
		return title
	}
	return source
}
