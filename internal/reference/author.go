package reference

import "strings"

// Author represents a paper author.
type Author struct {
	First string `json:"first"` // First/given name(s)
	Last  string `json:"last"`  // Last/family name
}

// Common name suffixes to keep with the last name.
var nameSuffixes = map[string]bool{
	"jr":  true,
	"jr.": true,
	"sr":  true,
	"sr.": true,
	"ii":  true,
	"iii": true,
	"iv":  true,
}

// ParseAuthor parses "Last, First" or "First Last" into an Author.
//
// Known limitations:
// - Multi-part surnames without a comma (van der Waals) split incorrectly
// - Middle names are kept in the first name
func ParseAuthor(name string) Author {
	name = strings.TrimSpace(name)
	if name == "" {
		return Author{}
	}

	if idx := strings.Index(name, ","); idx > 0 {
		return Author{
			First: strings.TrimSpace(name[idx+1:]),
			Last:  strings.TrimSpace(name[:idx]),
		}
	}

	parts := strings.Fields(name)
	if len(parts) == 1 {
		return Author{Last: parts[0]}
	}

	lastPart := strings.ToLower(parts[len(parts)-1])
	if nameSuffixes[lastPart] && len(parts) > 2 {
		return Author{
			First: strings.Join(parts[:len(parts)-2], " "),
			Last:  parts[len(parts)-2] + " " + parts[len(parts)-1],
		}
	}

	return Author{
		First: strings.Join(parts[:len(parts)-1], " "),
		Last:  parts[len(parts)-1],
	}
}

// String formats the author as "Last, First" (or just "Last").
func (a Author) String() string {
	if a.First == "" {
		return a.Last
	}
	if a.Last == "" {
		return a.First
	}
	return a.Last + ", " + a.First
}

// FormatAuthors joins authors with "; ", adding "et al." past maxCount (0 = no limit).
func FormatAuthors(authors []Author, maxCount int) string {
	var names []string
	for i, a := range authors {
		if maxCount > 0 && i >= maxCount {
			names = append(names, "et al.")
			break
		}
		names = append(names, a.String())
	}
	return strings.Join(names, "; ")
}
