package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/mglynch/sectree/internal/section"
)

// TextParser handles plain text files. Each line runs through the
// heading classifier; everything the classifier declines becomes body
// content of the nearest open section, with blank-line runs collapsing
// to a single paragraph break.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*section.Tree, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var b section.Builder
	var st section.ClassifyState
	var para strings.Builder

	flush := func() {
		if para.Len() > 0 {
			b.Add(section.Event{Text: para.String()})
			para.Reset()
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		var dec section.Decision
		dec, st = section.Classify(line, st)
		if !dec.Heading {
			if para.Len() > 0 {
				para.WriteString("\n")
			}
			para.WriteString(line)
			continue
		}

		flush()
		b.Add(section.Event{Depth: dec.Depth, Text: dec.Title, Heading: true})
		if dec.Rest != "" {
			b.Add(section.Event{Text: dec.Rest})
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	preamble, sections := b.Finish()
	return &section.Tree{
		Title:    baseTitle(filename),
		Preamble: preamble,
		Sections: sections,
	}, nil
}
