package section

import (
	"regexp"
	"strings"
	"unicode"
)

// Decision is the outcome of classifying one line. When Heading is
// false the other fields are zero. Rest carries prose that continued on
// the heading line after the title; it belongs to the new section's
// body, never to the title.
type Decision struct {
	Heading bool
	Depth   int
	Title   string
	Rest    string
}

// ClassifyState is the cross-line classifier state. It is threaded
// explicitly through Classify so classification of a single line stays
// pure and testable in isolation. InReferences is set once the terminal
// references region begins and never cleared.
type ClassifyState struct {
	InReferences bool
}

var (
	// A run of '#' markers, then a dot-separated numbering path, then
	// the heading text. The numbering must start the line and be
	// separated from the text by whitespace, so "GPT 3.5" mid-sentence
	// or a bare "2.0" never qualifies.
	numberingPattern = regexp.MustCompile(`^(#*)\s*(\d+(?:\.\d+)*)[ \t]+(\S.*)$`)

	// Bracketed integers are citation markers, e.g. "[1] Some paper."
	citationPattern = regexp.MustCompile(`^\[\d+\]`)
)

// markerWords are the only unnumbered lines accepted as headings: an
// explicit allow-list, not a capitalization heuristic. The value says
// whether the marker opens the terminal references region.
var markerWords = map[string]bool{
	"REFERENCES":      true,
	"BIBLIOGRAPHY":    true,
	"WORKS CITED":     true,
	"ACKNOWLEDGMENTS": false,
	"APPENDIX":        false,
}

// Classify decides whether a single plain-text line denotes a heading,
// and at what depth. It returns the decision together with the updated
// state; callers thread the state from line to line.
//
// Depth reflects the numbering exactly as written: one level per
// dot-separated component ("1.1" is depth 2), except that "N.0" is a
// top-level section written in decimal notation and matches a bare "N"
// at depth 1. A run of leading '#' characters overrides the path length
// outright. Classify never repairs depth gaps; the builder does.
func Classify(line string, st ClassifyState) (Decision, ClassifyState) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Decision{}, st
	}

	// Citation markers are never headings, wherever they appear.
	if citationPattern.MatchString(trimmed) {
		return Decision{}, st
	}

	// Reference lists are full of numeric-looking but non-hierarchical
	// text, so once the region starts every line is body until EOF.
	if st.InReferences {
		return Decision{}, st
	}

	if marker, ok := matchMarker(trimmed); ok {
		if markerWords[marker] {
			st.InReferences = true
		}
		return Decision{Heading: true, Depth: 1, Title: marker}, st
	}

	m := numberingPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return Decision{}, st
	}
	hashes, path, text := m[1], m[2], m[3]

	title, rest := splitInline(text)
	if !strings.ContainsFunc(title, unicode.IsLetter) {
		// Numbers followed by more numbers ("1.5 2.0 3.5") are data,
		// not a heading.
		return Decision{}, st
	}

	depth := pathDepth(path)
	if len(hashes) > 0 {
		depth = len(hashes)
	}

	return Decision{
		Heading: true,
		Depth:   depth,
		Title:   path + " " + title,
		Rest:    rest,
	}, st
}

// IsMarker reports whether title is one of the allow-listed unnumbered
// section markers.
func IsMarker(title string) bool {
	_, ok := markerWords[title]
	return ok
}

// OpensReferences reports whether title is a marker that begins the
// terminal references region.
func OpensReferences(title string) bool {
	return markerWords[title]
}

func matchMarker(line string) (string, bool) {
	s := strings.TrimSpace(strings.TrimLeft(line, "#"))
	if _, ok := markerWords[s]; ok {
		return s, true
	}
	return "", false
}

func pathDepth(path string) int {
	parts := strings.Split(path, ".")
	if len(parts) == 2 && parts[1] == "0" {
		// Chapter-level headings written as "2.0" sit at the same
		// depth as a bare "2", not one level below.
		return 1
	}
	return len(parts)
}

// splitInline separates a short title from prose continuing on the same
// line. The first period ends the title only when what follows begins
// with a letter; otherwise the period belongs to the title (a version
// like "Ethics 2.0" stays intact). Trailing periods are stripped from
// the title either way.
func splitInline(text string) (title, rest string) {
	text = strings.TrimSpace(text)
	i := strings.IndexByte(text, '.')
	if i < 0 {
		return text, ""
	}
	after := strings.TrimSpace(text[i+1:])
	if after == "" {
		return strings.TrimRight(text, "."), ""
	}
	if r := []rune(after)[0]; unicode.IsLetter(r) {
		return strings.TrimSpace(text[:i]), after
	}
	return strings.TrimRight(text, "."), ""
}
