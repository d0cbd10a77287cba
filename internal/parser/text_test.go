package parser

import (
	"strings"
	"testing"
)

func TestTextParser_NumberedHeadings(t *testing.T) {
	input := `1 Introduction
This paper describes a parser.

1.1 Motivation
Documents are messy.

1.2 Scope
Only structure, no semantics.

2 Design
The second chapter.
`
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "paper.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tree.Title != "paper" {
		t.Errorf("expected title %q, got %q", "paper", tree.Title)
	}
	if tree.Preamble != "" {
		t.Errorf("unexpected preamble %q", tree.Preamble)
	}
	if len(tree.Sections) != 2 {
		t.Fatalf("expected 2 top-level sections, got %d", len(tree.Sections))
	}

	intro := tree.Sections[0]
	if intro.Title != "1 Introduction" {
		t.Errorf("expected %q, got %q", "1 Introduction", intro.Title)
	}
	if intro.Body != "This paper describes a parser." {
		t.Errorf("unexpected body %q", intro.Body)
	}
	if len(intro.Children) != 2 {
		t.Fatalf("expected 2 subsections, got %d", len(intro.Children))
	}
	if intro.Children[0].Title != "1.1 Motivation" || intro.Children[1].Title != "1.2 Scope" {
		t.Errorf("subsection titles wrong: %q, %q", intro.Children[0].Title, intro.Children[1].Title)
	}
	if tree.Sections[1].Title != "2 Design" {
		t.Errorf("expected %q, got %q", "2 Design", tree.Sections[1].Title)
	}
}

func TestTextParser_DecimalTopLevel(t *testing.T) {
	input := `1.0 First Chapter
One.

2.0 Another Top-Level Section
Two.
`
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "chapters.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Sections) != 2 {
		t.Fatalf("expected 2 siblings, got %d", len(tree.Sections))
	}
	for _, s := range tree.Sections {
		if s.Depth != 1 {
			t.Errorf("section %q: expected depth 1, got %d", s.Title, s.Depth)
		}
	}
}

func TestTextParser_Preamble(t *testing.T) {
	input := `Abstract text before any heading.
Second line of abstract.

1 Introduction
Body.
`
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "doc.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Abstract text before any heading.\nSecond line of abstract."
	if tree.Preamble != want {
		t.Errorf("expected preamble %q, got %q", want, tree.Preamble)
	}
	if len(tree.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(tree.Sections))
	}
}

func TestTextParser_ReferencesRegion(t *testing.T) {
	input := `1 Introduction
Intro text mentioning GPT 3.5 mid-sentence.

REFERENCES

[1] This is the first reference.
[2] A second reference from 2.0 onwards.
12 Looks numbered but lives in the references.
`
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "refs.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(tree.Sections))
	}

	refs := tree.Sections[1]
	if refs.Title != "REFERENCES" {
		t.Fatalf("expected REFERENCES section, got %q", refs.Title)
	}
	if len(refs.Children) != 0 {
		t.Errorf("references must not contain subsections, got %d", len(refs.Children))
	}
	for _, want := range []string{
		"[1] This is the first reference.",
		"[2] A second reference from 2.0 onwards.",
		"12 Looks numbered but lives in the references.",
	} {
		if !strings.Contains(refs.Body, want) {
			t.Errorf("references body missing %q (body %q)", want, refs.Body)
		}
	}
}

func TestTextParser_InlineParagraphSplit(t *testing.T) {
	input := "1 Overview. The rest of this line is body text.\n"
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "split.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(tree.Sections))
	}
	s := tree.Sections[0]
	if s.Title != "1 Overview" {
		t.Errorf("expected title %q, got %q", "1 Overview", s.Title)
	}
	if s.Body != "The rest of this line is body text." {
		t.Errorf("expected split-off body, got %q", s.Body)
	}
}

func TestTextParser_BlankLineCollapse(t *testing.T) {
	input := "1 Heading\nPara one.\n\n\n\nPara two.\n"
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "gaps.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tree.Sections[0].Body; got != "Para one.\n\nPara two." {
		t.Errorf("unexpected body %q", got)
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Preamble != "" || len(tree.Sections) != 0 {
		t.Errorf("expected empty tree, got preamble %q and %d sections", tree.Preamble, len(tree.Sections))
	}
}

func TestTextParser_NoHeadings(t *testing.T) {
	input := "Just prose.\n\nMore prose with version 2.0 inside."
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "plain.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Sections) != 0 {
		t.Fatalf("expected no sections, got %d", len(tree.Sections))
	}
	if !strings.Contains(tree.Preamble, "Just prose.") || !strings.Contains(tree.Preamble, "version 2.0") {
		t.Errorf("preamble lost content: %q", tree.Preamble)
	}
}
