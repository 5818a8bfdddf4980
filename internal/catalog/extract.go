package catalog

import (
	"regexp"
	"sort"
	"strings"
)

var nonISBNChars = regexp.MustCompile(`[^0-9X]`)

// FirstValue returns the first non-empty trimmed text among the nodes.
func FirstValue(nodes []Node) string {
	for _, n := range nodes {
		if v := strings.TrimSpace(n.Text); v != "" {
			return v
		}
	}
	return ""
}

// Values returns all non-empty trimmed texts, preserving document order.
func Values(nodes []Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if v := strings.TrimSpace(n.Text); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ExtractISBN picks the ISBN out of the typed identifier list. Values are
// stripped down to digits and X, anything that is not 10 or 13 characters
// long is discarded, and a 13-digit ISBN wins over a 10-digit one.
func ExtractISBN(identifiers []TypedNode) string {
	var found []string
	for _, id := range identifiers {
		if !strings.Contains(strings.ToUpper(id.Type), "ISBN") {
			continue
		}
		clean := nonISBNChars.ReplaceAllString(strings.ToUpper(id.Text), "")
		if len(clean) == 10 || len(clean) == 13 {
			found = append(found, clean)
		}
	}
	if len(found) == 0 {
		return ""
	}
	sort.SliceStable(found, func(i, j int) bool { return len(found[i]) > len(found[j]) })
	return found[0]
}

// ExtractNDC returns the first subject tagged with an NDC type, or "".
func ExtractNDC(subjects []TypedNode) string {
	for _, s := range subjects {
		if strings.Contains(strings.ToUpper(s.Type), "NDC") {
			return strings.TrimSpace(s.Text)
		}
	}
	return ""
}

// SubjectNames returns the plain subject headings, skipping NDC-typed
// entries so classification codes never show up as subjects.
func SubjectNames(subjects []TypedNode) []string {
	var out []string
	for _, s := range subjects {
		if strings.Contains(strings.ToUpper(s.Type), "NDC") {
			continue
		}
		if v := strings.TrimSpace(s.Text); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// SplitNDC decomposes an NDC code into its level-1/2/3 prefixes.
// Returns nil for an empty code.
func SplitNDC(code string) *Classification {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	c := &Classification{Code: code, Level1: code[:1]}
	if len(code) >= 2 {
		c.Level2 = code[:2]
	}
	if len(code) >= 3 {
		c.Level3 = code[:3]
	}
	return c
}

// parseItems converts raw feed items into normalized books, dropping any
// entry without a valid ISBN.
func parseItems(items []Item) []Book {
	books := make([]Book, 0, len(items))
	for _, item := range items {
		isbn := ExtractISBN(item.Identifiers)
		if isbn == "" {
			continue
		}
		books = append(books, Book{
			ISBN:      isbn,
			Title:     FirstValue(item.Titles),
			Authors:   Values(item.Creators),
			Publisher: FirstValue(item.Publishers),
			Link:      strings.TrimSpace(item.Link),
			Cover:     NoImage,
		})
	}
	return books
}
