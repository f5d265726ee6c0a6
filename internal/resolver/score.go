package resolver

import (
	"strconv"
	"strings"

	"github.com/matsen/refenrich/internal/reference"
)

const (
	yearBonus   = 1.2
	yearPenalty = 0.8
)

// Similarity is the Jaccard index of the lowercase whitespace-separated
// word sets of a and b. It is 0 when either set is empty.
func Similarity(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	shared := 0
	for w := range setA {
		if setB[w] {
			shared++
		}
	}
	union := len(setA) + len(setB) - shared
	return float64(shared) / float64(union)
}

// YearMatches reports whether a usable query year appears in the
// candidate's publication year.
func YearMatches(queryYear string, candidateYear int) bool {
	queryYear = strings.TrimSpace(queryYear)
	if queryYear == "" || queryYear == reference.Unknown || candidateYear == 0 {
		return false
	}
	return strings.Contains(strconv.Itoa(candidateYear), queryYear)
}

// Confidence scores a candidate against the query: title similarity scaled
// up on a year match and down otherwise, capped at 1.
func Confidence(q Query, candidateTitle string, candidateYear int) float64 {
	factor := yearPenalty
	if YearMatches(q.Year, candidateYear) {
		factor = yearBonus
	}
	c := Similarity(q.Title, candidateTitle) * factor
	if c > 1 {
		return 1
	}
	return c
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = true
	}
	return set
}
