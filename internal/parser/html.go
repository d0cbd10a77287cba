package parser

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mglynch/sectree/internal/section"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. Heading elements carry their own depth
// (tag level, overridable via aria-level, plus div[role=heading]);
// everything between one heading and the next is emitted as body
// content with its markup preserved verbatim.
type HTMLParser struct {
	MaxDepth int  // clamp for heading levels; 0 means 6
	Sanitize bool // scrub emitted body fragments with bluemonday
}

var bodyPolicy = bluemonday.UGCPolicy()

func (p *HTMLParser) Parse(r io.Reader, filename string) (*section.Tree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	tree := &section.Tree{Title: baseTitle(filename)}
	if title := findTitle(doc); title != "" {
		tree.Title = title
	}

	maxDepth := p.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 6
	}

	var b section.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			// Stray text directly inside a container.
			if t := strings.TrimSpace(n.Data); t != "" {
				b.Add(section.Event{Text: t})
			}
			return
		}
		if n.Type != html.ElementNode && n.Type != html.DocumentNode {
			return
		}

		if n.Type == html.ElementNode {
			if depth := headingDepth(n); depth > 0 {
				if depth > maxDepth {
					depth = maxDepth
				}
				b.Add(section.Event{Depth: depth, Text: textContent(n), Heading: true})
				return // Heading text already extracted.
			}

			switch n.Data {
			case "script", "style", "noscript", "meta", "link", "title", "base",
				"nav", "footer", "header":
				return
			}

			// A block without nested headings is one body fragment,
			// markup intact. Containers holding headings are
			// transparent: their children flow at this level.
			if !containsHeading(n) {
				p.emitBody(&b, n)
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(findRoot(doc))

	tree.Preamble, tree.Sections = b.Finish()
	return tree, nil
}

func (p *HTMLParser) emitBody(b *section.Builder, n *html.Node) {
	if strings.TrimSpace(textContent(n)) == "" {
		return // Spacer/layout element with nothing to say.
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return
	}
	s := strings.TrimSpace(buf.String())
	if p.Sanitize {
		s = strings.TrimSpace(bodyPolicy.Sanitize(s))
	}
	if s != "" {
		b.Add(section.Event{Text: s})
	}
}

// headingDepth returns the nesting depth an element denotes, or 0 when
// the element is not a heading. An aria-level attribute overrides the
// tag's intrinsic level; a div needs role="heading" and a parseable
// aria-level to count at all.
func headingDepth(n *html.Node) int {
	if n.Type != html.ElementNode {
		return 0
	}
	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(n.Data[1] - '0')
		if v := attr(n, "aria-level"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				level = parsed
			}
		}
		return level
	case "div":
		if attr(n, "role") != "heading" {
			return 0
		}
		parsed, err := strconv.Atoi(attr(n, "aria-level"))
		if err != nil {
			return 0
		}
		return parsed
	}
	return 0
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func containsHeading(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			if headingDepth(c) > 0 || containsHeading(c) {
				return true
			}
		}
	}
	return false
}

// findRoot picks the most content-bearing element to walk, preferring
// semantic containers over the raw document.
func findRoot(doc *html.Node) *html.Node {
	for _, tag := range []string{"main", "article", "body", "section"} {
		if n := findElement(doc, tag); n != nil && strings.TrimSpace(textContent(n)) != "" {
			return n
		}
	}
	if n := findSubstantialDiv(doc); n != nil {
		return n
	}
	return doc
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func findSubstantialDiv(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "div" {
		if len(strings.TrimSpace(textContent(n))) > 100 {
			return n
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findSubstantialDiv(c); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}
