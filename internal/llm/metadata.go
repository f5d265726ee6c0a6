package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"github.com/matsen/refenrich/internal/reference"
)

// FallbackTitleLength is the number of characters of the raw citation kept
// as the title when extraction fails.
const FallbackTitleLength = 100

// ErrInvalidOutput indicates the model reply was not a usable metadata object.
var ErrInvalidOutput = errors.New("invalid model output")

// Chatter sends a prompt to a language model and returns its reply.
type Chatter interface {
	Chat(ctx context.Context, prompt string) (string, error)
}

const metadataSchema = `{
  "type": "object",
  "required": ["author", "title", "year"],
  "properties": {
    "author": {"type": "string"},
    "title": {"type": "string"},
    "year": {"type": ["string", "integer"]},
    "confidence": {"type": "number"}
  }
}`

const promptTemplate = `You are a bibliographic assistant. Analyze the reference below and extract its metadata.
The reference may contain OCR errors (misrecognized characters).

Reference: %s

Return ONLY a JSON object with exactly this shape:
{
  "author": "Main author name (format: Last, First)",
  "title": "Full title of the book or article",
  "year": "Publication year (4 digits)",
  "confidence": 0.85
}

The confidence field must be between 0 and 1 depending on your certainty (1 = very sure, 0.5 = unsure).
Return ONLY the JSON, with no text before or after it.`

// MetadataExtractor turns citation text into structured metadata.
type MetadataExtractor struct {
	chat   Chatter
	schema *jsonschema.Schema
	logger *zap.Logger
}

// NewMetadataExtractor creates an extractor backed by chat.
func NewMetadataExtractor(chat Chatter, logger *zap.Logger) (*MetadataExtractor, error) {
	schema, err := compileSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling metadata schema: %w", err)
	}
	return &MetadataExtractor{
		chat:   chat,
		schema: schema,
		logger: logger,
	}, nil
}

// BuildPrompt returns the instruction sent to the model for text.
func BuildPrompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}

// Extract asks the model for the metadata of a citation. The full
// bibliography entry is analyzed when present, the raw fragment otherwise.
// Failures are logged and yield UnknownMetadata, never an error.
func (e *MetadataExtractor) Extract(ctx context.Context, raw, fullRef string) reference.ExtractedMetadata {
	text := raw
	if fullRef != "" {
		text = fullRef
	}

	reply, err := e.chat.Chat(ctx, BuildPrompt(text))
	if err != nil {
		e.logger.Warn("metadata extraction failed", zap.String("citation", raw), zap.Error(err))
		return reference.UnknownMetadata(raw, FallbackTitleLength)
	}

	meta, err := e.Parse(reply)
	if err != nil {
		e.logger.Warn("unusable model reply",
			zap.String("citation", raw),
			zap.String("reply", truncateUTF8(reply, 200)),
			zap.Error(err))
		return reference.UnknownMetadata(raw, FallbackTitleLength)
	}

	e.logger.Debug("metadata extracted",
		zap.String("author", meta.Author),
		zap.String("year", meta.Year),
		zap.Float64("confidence", meta.Confidence))
	return meta
}

// Parse decodes and validates a model reply.
func (e *MetadataExtractor) Parse(reply string) (reference.ExtractedMetadata, error) {
	text := strings.TrimSpace(reply)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimSpace(extractFromCodeBlock(text))
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return reference.ExtractedMetadata{}, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if dec.InputOffset() != int64(len(text)) {
		return reference.ExtractedMetadata{}, fmt.Errorf("%w: trailing data after JSON value", ErrInvalidOutput)
	}
	if err := e.schema.Validate(doc); err != nil {
		return reference.ExtractedMetadata{}, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	obj := doc.(map[string]interface{})
	meta := reference.ExtractedMetadata{
		Author: strings.TrimSpace(obj["author"].(string)),
		Title:  strings.TrimSpace(obj["title"].(string)),
		Year:   strings.TrimSpace(stringValue(obj["year"])),
	}
	if meta.Author == "" {
		meta.Author = reference.Unknown
	}
	if n, ok := obj["confidence"].(json.Number); ok {
		c, err := n.Float64()
		if err == nil {
			meta.Confidence = clamp(c)
		}
	}
	return meta, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("metadata.json", strings.NewReader(metadataSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile("metadata.json")
}

// extractFromCodeBlock drops the opening fence line and a closing fence.
func extractFromCodeBlock(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return strings.Trim(text, "`")
	}

	start := 1
	end := len(lines)
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		end = len(lines) - 1
	}

	return strings.Join(lines[start:end], "\n")
}

func stringValue(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	default:
		return ""
	}
}

func clamp(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// truncateUTF8 shortens text to at most maxLen bytes on a rune boundary.
func truncateUTF8(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}

	validLen := maxLen
	for validLen > 0 && !utf8.RuneStart(text[validLen]) {
		validLen--
	}

	return text[:validLen] + "..."
}
