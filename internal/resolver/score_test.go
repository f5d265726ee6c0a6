package resolver

import (
	"math"
	"testing"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "The Public Sphere", "the public sphere", 1},
		{"disjoint", "alpha beta", "gamma delta", 0},
		{"half", "a b c", "a b d", 0.5},
		{"duplicates collapse", "a a b", "a b", 1},
		{"empty left", "", "a b", 0},
		{"empty right", "a b", "   ", 0},
		{"both empty", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if rev := Similarity(tt.b, tt.a); math.Abs(rev-got) > 1e-9 {
				t.Errorf("Similarity is not symmetric: %v vs %v", got, rev)
			}
			if got < 0 || got > 1 {
				t.Errorf("Similarity out of [0,1]: %v", got)
			}
		})
	}
}

func TestYearMatches(t *testing.T) {
	tests := []struct {
		query string
		cand  int
		want  bool
	}{
		{"2019", 2019, true},
		{"2019", 2020, false},
		{"19", 2019, true},
		{"", 2019, false},
		{"Unknown", 2019, false},
		{"2019", 0, false},
	}

	for _, tt := range tests {
		if got := YearMatches(tt.query, tt.cand); got != tt.want {
			t.Errorf("YearMatches(%q, %d) = %v, want %v", tt.query, tt.cand, got, tt.want)
		}
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name  string
		q     Query
		title string
		year  int
		want  float64
	}{
		{"exact with year is capped", Query{Title: "A B", Year: "2019"}, "a b", 2019, 1},
		{"exact without year", Query{Title: "A B", Year: "2019"}, "a b", 2000, 0.8},
		{"half with year", Query{Title: "a b c", Year: "2019"}, "a b d", 2019, 0.6},
		{"half, unknown year", Query{Title: "a b c", Year: "Unknown"}, "a b d", 2019, 0.4},
		{"no overlap", Query{Title: "x", Year: "2019"}, "y", 2019, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Confidence(tt.q, tt.title, tt.year)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Confidence() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQueryText(t *testing.T) {
	tests := []struct {
		q    Query
		want string
	}{
		{Query{Title: "The Title", Author: "Doe, Jane", Year: "2019"}, "The Title Doe, Jane 2019"},
		{Query{Title: "The Title", Author: "Doe, Jane", Year: "Unknown"}, "The Title Doe, Jane"},
		{Query{Title: " ", Author: "Doe", Year: ""}, "Doe"},
	}

	for _, tt := range tests {
		if got := tt.q.Text(); got != tt.want {
			t.Errorf("Text() = %q, want %q", got, tt.want)
		}
	}
}
