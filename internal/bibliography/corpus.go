// Package bibliography looks up citation fragments in a flat reference list.
package bibliography

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/matsen/refenrich/internal/pdf"
)

// Corpus is a bibliography held as lines. Entries are runs of consecutive
// non-blank lines.
type Corpus struct {
	path  string
	lines []string
}

// NewCorpus builds a corpus from text already in memory.
func NewCorpus(text string) *Corpus {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	return &Corpus{lines: lines}
}

// LoadCorpus reads a bibliography file. PDF files are converted to text
// first. A missing file yields an empty corpus and a warning, so that every
// lookup reports no match.
func LoadCorpus(path string, logger *zap.Logger) (*Corpus, error) {
	var text string

	if pdf.IsPDF(path) {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			logger.Warn("bibliography file not found", zap.String("path", path))
			return &Corpus{path: path}, nil
		}
		extracted, err := pdf.ExtractText(path, 0)
		if err != nil {
			return nil, fmt.Errorf("reading bibliography %s: %w", path, err)
		}
		text = extracted
	} else {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("bibliography file not found", zap.String("path", path))
			return &Corpus{path: path}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading bibliography %s: %w", path, err)
		}
		text = string(data)
	}

	c := NewCorpus(text)
	c.path = path
	logger.Debug("bibliography loaded",
		zap.String("path", path),
		zap.Int("lines", len(c.lines)))
	return c, nil
}

// Path returns the file the corpus was loaded from, if any.
func (c *Corpus) Path() string {
	return c.path
}

// Len returns the number of lines in the corpus.
func (c *Corpus) Len() int {
	return len(c.lines)
}

// Empty reports whether the corpus holds no text at all.
func (c *Corpus) Empty() bool {
	for _, line := range c.lines {
		if strings.TrimSpace(line) != "" {
			return false
		}
	}
	return true
}
