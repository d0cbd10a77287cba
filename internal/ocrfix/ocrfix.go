// Package ocrfix repairs heading markup in OCR'd or otherwise noisy
// plain text. Numbered headings get a Markdown hash run matching their
// numbering depth, inline prose is split off the heading line, and
// reference lists are reflowed one entry per block. The output feeds
// cleanly into the Markdown adapter.
package ocrfix

import (
	"strings"

	"github.com/mglynch/sectree/internal/section"
	"golang.org/x/text/unicode/norm"
)

// AdjustHeadings rewrites heading lines as Markdown headings. A single
// '#' is reserved for the document title, so a depth-1 section becomes
// "##", depth 2 "###", and so on. Marker headings like REFERENCES get a
// plain "#". All text is normalized to NFC first; OCR output often
// mixes composed and decomposed accents for the same word.
func AdjustHeadings(input string) string {
	input = norm.NFC.String(input)

	var out []string
	var st section.ClassifyState
	for _, line := range strings.Split(input, "\n") {
		var dec section.Decision
		dec, st = section.Classify(line, st)
		if !dec.Heading {
			out = append(out, line)
			continue
		}

		if section.IsMarker(dec.Title) {
			out = append(out, "# "+dec.Title)
			continue
		}

		out = append(out, strings.Repeat("#", dec.Depth+1)+" "+dec.Title)
		if dec.Rest != "" {
			out = append(out, "", dec.Rest)
		}
	}
	return strings.Join(out, "\n")
}

// FormatReferences inserts a blank line after every reference entry so
// downstream paragraph handling treats each citation as its own block.
// Only text after a REFERENCES (or equivalent) heading is touched.
func FormatReferences(input string) string {
	lines := strings.Split(input, "\n")

	var out []string
	inRefs := false
	for i, line := range lines {
		out = append(out, line)
		if !inRefs {
			trimmed := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
			if section.OpensReferences(trimmed) {
				inRefs = true
				if i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != "" {
					out = append(out, "")
				}
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		// Entry line: pad with a blank unless the next line already is one.
		if i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != "" {
			out = append(out, "")
		}
	}
	return strings.Join(out, "\n")
}

// Clean is the full OCR repair pipeline applied in order.
func Clean(input string) string {
	return FormatReferences(AdjustHeadings(input))
}
