package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/mglynch/sectree/internal/section"
)

// DOCXParser handles .docx files. Paragraphs with Heading styles map
// directly to heading events; unstyled paragraphs still run through the
// line classifier, so exports that encode their hierarchy as "1.2.3"
// numbering nest correctly too.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*section.Tree, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "sectree-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, int64(size))
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var b section.Builder
	var st section.ClassifyState

	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := paragraphText(para)
		if text == "" {
			continue
		}

		if level := headingStyleLevel(para); level > 0 {
			b.Add(section.Event{Depth: level, Text: text, Heading: true})
			continue
		}

		var dec section.Decision
		dec, st = section.Classify(text, st)
		if dec.Heading {
			b.Add(section.Event{Depth: dec.Depth, Text: dec.Title, Heading: true})
			if dec.Rest != "" {
				b.Add(section.Event{Text: dec.Rest})
			}
			continue
		}
		b.Add(section.Event{Text: text})
	}

	tree := &section.Tree{Title: baseTitle(filename)}
	tree.Preamble, tree.Sections = b.Finish()
	return tree, nil
}

func headingStyleLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if !strings.HasPrefix(style, "heading") {
		return 0
	}
	switch strings.TrimPrefix(style, "heading") {
	case "1":
		return 1
	case "2":
		return 2
	case "3":
		return 3
	case "4":
		return 4
	case "5":
		return 5
	case "6":
		return 6
	}
	return 0
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
