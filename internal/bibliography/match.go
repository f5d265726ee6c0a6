package bibliography

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/matsen/refenrich/internal/reference"
)

// MinScore is the lowest author+year hit count accepted as a match.
const MinScore = 2

var stopwords = map[string]bool{
	"and": true, "et": true, "the": true, "de": true, "du": true,
	"la": true, "le": true, "des": true, "of": true, "in": true,
}

// Candidates splits a citation fragment into author-like and year-like
// tokens. Both lists are deduplicated and keep first-seen order.
func Candidates(citation string) (authors, years []string) {
	seen := make(map[string]bool)

	tokens := strings.FieldsFunc(citation, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, tok := range tokens {
		if seen[tok] {
			continue
		}
		switch {
		case isYear(tok):
			seen[tok] = true
			years = append(years, tok)
		case isNameLike(tok) && !stopwords[strings.ToLower(tok)]:
			seen[tok] = true
			authors = append(authors, tok)
		}
	}
	return authors, years
}

// Match finds the corpus line sharing the most author and year tokens with
// the citation. Ties go to the earliest line. The returned entry joins the
// line with the non-blank lines that directly follow it.
func (c *Corpus) Match(citation string) (reference.BibliographyMatch, bool) {
	authors, years := Candidates(citation)
	if len(authors) == 0 || len(years) == 0 {
		return reference.BibliographyMatch{}, false
	}

	best, bestScore := -1, 0
	for i, line := range c.lines {
		score := 0
		for _, a := range authors {
			if strings.Contains(line, a) {
				score++
			}
		}
		for _, y := range years {
			if strings.Contains(line, y) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	if best < 0 || bestScore < MinScore {
		return reference.BibliographyMatch{}, false
	}

	return reference.BibliographyMatch{
		Entry: c.entryAt(best),
		Line:  best + 1,
		Score: bestScore,
	}, true
}

// entryAt joins line i and its non-blank continuation lines with single spaces.
func (c *Corpus) entryAt(i int) string {
	parts := []string{strings.TrimSpace(c.lines[i])}
	for j := i + 1; j < len(c.lines); j++ {
		next := strings.TrimSpace(c.lines[j])
		if next == "" {
			break
		}
		parts = append(parts, next)
	}
	return strings.Join(parts, " ")
}

func isYear(tok string) bool {
	if len(tok) != 4 {
		return false
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return false
	}
	return n >= 1900 && n <= 2099
}

// isNameLike reports whether tok starts with an uppercase letter followed by
// a lowercase one.
func isNameLike(tok string) bool {
	runes := []rune(tok)
	return len(runes) >= 2 && unicode.IsUpper(runes[0]) && unicode.IsLower(runes[1])
}
