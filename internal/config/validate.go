package config

import (
	"errors"
	"net/url"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// tagPattern matches tag keywords as written after '#' in notes.
var tagPattern = regexp.MustCompile(`^[\p{L}\p{N}_/-]+$`)

// httpURL rejects URLs without an http or https scheme and a host.
var httpURL = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an http or https URL")
	}
	return nil
})

// Validate checks ranges and enumerations before any component is built.
func (c *Config) Validate() error {
	formats := make([]interface{}, len(ValidFormats))
	for i, f := range ValidFormats {
		formats[i] = f
	}

	return validation.ValidateStruct(c,
		validation.Field(&c.VaultPath, validation.Required),
		validation.Field(&c.BibliographyFile, validation.Required),
		validation.Field(&c.OllamaURL, validation.Required, is.URL, httpURL),
		validation.Field(&c.OllamaModel, validation.Required),
		validation.Field(&c.OpenAlexEmail, is.EmailFormat),
		validation.Field(&c.CrossrefEmail, is.EmailFormat),
		validation.Field(&c.ContextLines, validation.Min(0)),
		validation.Field(&c.MinConfidence, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.OutputFormat, validation.Required, validation.In(formats...)),
		validation.Field(&c.MarkerTag, validation.Required, validation.Match(tagPattern)),
		validation.Field(&c.RequestTimeout, validation.Min(0)),
		validation.Field(&c.LLMTimeout, validation.Min(0)),
	)
}
