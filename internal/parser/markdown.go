package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/mglynch/sectree/internal/section"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Heading nodes
// carry their level straight into the event stream; all other top-level
// blocks are body content. Gap repair happens in the builder, so a
// "####" directly under a "##" nests one level down, not two.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*section.Tree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var b section.Builder
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			b.Add(section.Event{
				Depth:   node.Level,
				Text:    string(node.Text(src)),
				Heading: true,
			})
		default:
			if t := extractText(n, src); t != "" {
				b.Add(section.Event{Text: t})
			}
		}
	}

	tree := &section.Tree{Title: baseTitle(filename)}
	tree.Preamble, tree.Sections = b.Finish()
	return tree, nil
}

// extractText gets the text content of a goldmark AST node. Nodes with
// children (paragraphs, lists) are read through their inline text; leaf
// blocks like code fences keep their raw lines.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.HasChildren() {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				buf.Write(t.Value(src))
				if t.HardLineBreak() || t.SoftLineBreak() {
					buf.WriteByte('\n')
				}
				continue
			}
			buf.WriteString(extractText(c, src))
			if c.Type() == ast.TypeBlock {
				buf.WriteByte('\n')
			}
		}
	} else if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
	}
	return strings.TrimSpace(buf.String())
}
