package enrich

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/matsen/refenrich/internal/bibliography"
	"github.com/matsen/refenrich/internal/llm"
	"github.com/matsen/refenrich/internal/reference"
	"github.com/matsen/refenrich/internal/resolver"
)

type countingChatter struct {
	reply string
	calls int
}

func (c *countingChatter) Chat(context.Context, string) (string, error) {
	c.calls++
	return c.reply, nil
}

type countingStrategy struct {
	result *reference.APIResult
	calls  int
}

func (s *countingStrategy) Name() string { return "fake" }

func (s *countingStrategy) Search(context.Context, resolver.Query) (*reference.APIResult, error) {
	s.calls++
	return s.result, nil
}

const corpusText = `Anderson, J., & Rainie, L. (2017). The Future of Truth and Misinformation
Online. Pew Research Center. https://doi.org/10.1000/pew.2017

Habermas, J. (1992). Faktizität und Geltung. Suhrkamp.
`

func newPipeline(t *testing.T, chat *countingChatter, strategy *countingStrategy) *Enricher {
	t.Helper()
	extractor, err := llm.NewMetadataExtractor(chat, zap.NewNop())
	if err != nil {
		t.Fatalf("NewMetadataExtractor: %v", err)
	}
	chain := resolver.NewChain(resolver.DefaultThreshold, zap.NewNop(), strategy)
	return New(bibliography.NewCorpus(corpusText), extractor, chain, zap.NewNop())
}

func refs(raw ...string) []reference.Reference {
	out := make([]reference.Reference, len(raw))
	for i, r := range raw {
		out[i] = reference.Reference{File: "n.md", Line: i + 1, RawText: r}
	}
	return out
}

func TestEnrich_OneResultPerReferenceInOrder(t *testing.T) {
	chat := &countingChatter{reply: `{"author":"Anderson, Janna","title":"The Future of Truth","year":"2017","confidence":0.9}`}
	strategy := &countingStrategy{result: &reference.APIResult{Source: "fake", DOI: "10.1/x", Confidence: 0.75}}
	e := newPipeline(t, chat, strategy)

	input := refs("Anderson and Rainie 2017", "Unmatched 1999", "Habermas 1992")
	got := e.Enrich(context.Background(), input)

	if len(got) != len(input) {
		t.Fatalf("got %d results, want %d", len(got), len(input))
	}
	for i := range input {
		if got[i].Reference != input[i] {
			t.Errorf("results[%d].Reference = %+v, want %+v", i, got[i].Reference, input[i])
		}
		if got[i].FinalConfidence != 0.75 {
			t.Errorf("results[%d].FinalConfidence = %v, want API confidence", i, got[i].FinalConfidence)
		}
	}
	if chat.calls != 3 || strategy.calls != 3 {
		t.Errorf("calls: chat %d, api %d; want 3 each", chat.calls, strategy.calls)
	}

	first := got[0]
	if first.FullReference != "Anderson, J., & Rainie, L. (2017). The Future of Truth and Misinformation Online. Pew Research Center. https://doi.org/10.1000/pew.2017" {
		t.Errorf("FullReference = %q", first.FullReference)
	}
	if first.BibliographyLine != 1 {
		t.Errorf("BibliographyLine = %d, want 1", first.BibliographyLine)
	}
	if first.BibliographyDOI != "10.1000/pew.2017" {
		t.Errorf("BibliographyDOI = %q", first.BibliographyDOI)
	}
	if got[1].FullReference != "" || got[1].BibliographyLine != 0 {
		t.Errorf("unmatched reference carries bibliography data: %+v", got[1])
	}

	s := Summarize(got)
	want := Summary{Total: 3, WithIdentifier: 3, WithBibliography: 2, Unknown: 0}
	if s != want {
		t.Errorf("Summarize() = %+v, want %+v", s, want)
	}
}

func TestEnrich_NonJSONReplySkipsLookup(t *testing.T) {
	chat := &countingChatter{reply: "I am not sure what this reference is."}
	strategy := &countingStrategy{result: &reference.APIResult{Source: "fake", Confidence: 1}}
	e := newPipeline(t, chat, strategy)

	got := e.Enrich(context.Background(), refs("Habermas 1992"))

	if len(got) != 1 {
		t.Fatalf("got %d results, want 1", len(got))
	}
	r := got[0]
	if !r.Metadata.IsUnknown() || r.Metadata.Year != reference.Unknown {
		t.Errorf("Metadata = %+v, want Unknown", r.Metadata)
	}
	if r.API != nil || r.FinalConfidence != 0 {
		t.Errorf("API = %+v, FinalConfidence = %v", r.API, r.FinalConfidence)
	}
	if strategy.calls != 0 {
		t.Errorf("made %d API calls, want 0", strategy.calls)
	}
	if s := Summarize(got); s.Unknown != 1 || s.WithIdentifier != 0 {
		t.Errorf("Summarize() = %+v", s)
	}
}

func TestEnrich_NoAPIResultUsesMetadataConfidence(t *testing.T) {
	chat := &countingChatter{reply: `{"author":"Doe, Jane","title":"T","year":"2019","confidence":0.6}`}
	e := newPipeline(t, chat, &countingStrategy{})

	got := e.Enrich(context.Background(), refs("Doe 2019"))
	if got[0].API != nil {
		t.Errorf("API = %+v, want nil", got[0].API)
	}
	if got[0].FinalConfidence != 0.6 {
		t.Errorf("FinalConfidence = %v, want 0.6", got[0].FinalConfidence)
	}
}

func TestEnrich_Empty(t *testing.T) {
	chat := &countingChatter{}
	strategy := &countingStrategy{}
	e := newPipeline(t, chat, strategy)

	got := e.Enrich(context.Background(), nil)
	if len(got) != 0 {
		t.Errorf("got %d results, want 0", len(got))
	}
	if chat.calls != 0 || strategy.calls != 0 {
		t.Errorf("calls: chat %d, api %d; want 0", chat.calls, strategy.calls)
	}
	if s := Summarize(got); s != (Summary{}) {
		t.Errorf("Summarize() = %+v", s)
	}
}
