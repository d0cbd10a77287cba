package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_Nesting(t *testing.T) {
	input := `Intro paragraph before any heading.

# Guide

Opening words.

## Install

Run the installer.

## Configure

Edit the file.

### Advanced

Tweak the knobs.

# Appendix

Extra material.
`
	p := &MarkdownParser{}
	tree, err := p.Parse(strings.NewReader(input), "guide.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tree.Preamble != "Intro paragraph before any heading." {
		t.Errorf("unexpected preamble %q", tree.Preamble)
	}
	if len(tree.Sections) != 2 {
		t.Fatalf("expected 2 top-level sections, got %d", len(tree.Sections))
	}

	guide := tree.Sections[0]
	if guide.Title != "Guide" || guide.Body != "Opening words." {
		t.Errorf("unexpected root: title %q body %q", guide.Title, guide.Body)
	}
	if len(guide.Children) != 2 {
		t.Fatalf("expected 2 subsections, got %d", len(guide.Children))
	}
	configure := guide.Children[1]
	if configure.Title != "Configure" {
		t.Fatalf("expected Configure, got %q", configure.Title)
	}
	if len(configure.Children) != 1 || configure.Children[0].Title != "Advanced" {
		t.Fatalf("expected Advanced under Configure: %+v", configure.Children)
	}
	if configure.Children[0].Depth != 3 {
		t.Errorf("Advanced at depth %d, want 3", configure.Children[0].Depth)
	}

	if tree.Sections[1].Title != "Appendix" {
		t.Errorf("expected Appendix, got %q", tree.Sections[1].Title)
	}
}

func TestMarkdownParser_GapRepair(t *testing.T) {
	input := `## Starts Deep

Text.

##### Way Deeper

More text.
`
	p := &MarkdownParser{}
	tree, err := p.Parse(strings.NewReader(input), "gaps.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Sections) != 1 {
		t.Fatalf("expected 1 root, got %d", len(tree.Sections))
	}
	root := tree.Sections[0]
	if root.Depth != 1 {
		t.Errorf("## with no # should clamp to depth 1, got %d", root.Depth)
	}
	if len(root.Children) != 1 || root.Children[0].Depth != 2 {
		t.Fatalf("##### should nest one level down, not three: %+v", root.Children)
	}
}

func TestMarkdownParser_ListsAndCode(t *testing.T) {
	input := "# Doc\n\n- first\n- second\n\n```\ncode block\n```\n"
	p := &MarkdownParser{}
	tree, err := p.Parse(strings.NewReader(input), "mixed.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := tree.Sections[0].Body
	if !strings.Contains(body, "first") || !strings.Contains(body, "second") {
		t.Errorf("list items lost: %q", body)
	}
	if !strings.Contains(body, "code block") {
		t.Errorf("code block lost: %q", body)
	}
}

func TestMarkdownParser_Empty(t *testing.T) {
	p := &MarkdownParser{}
	tree, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Preamble != "" || len(tree.Sections) != 0 {
		t.Errorf("expected empty tree, got preamble %q and %d sections", tree.Preamble, len(tree.Sections))
	}
}
