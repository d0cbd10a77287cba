package section

import "strings"

// Builder assembles an ordered stream of heading and body events into a
// nested section tree. The zero value is ready to use; one Builder
// serves one document and is not safe for concurrent use.
//
// It keeps a stack of currently open sections, one per active depth. A
// body event appends to the deepest open section, or to the preamble
// when nothing is open yet. A heading event at depth d closes every
// open section at depth >= d, then opens a new section at d, clamped
// so the tree never skips a nesting level even when the source
// numbering does.
type Builder struct {
	preamble strings.Builder
	roots    []*Section
	stack    []*Section
}

// Add feeds one event to the builder.
func (b *Builder) Add(ev Event) {
	if ev.Heading {
		b.addHeading(ev.Depth, ev.Text)
	} else {
		b.addBody(ev.Text)
	}
}

func (b *Builder) addBody(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if len(b.stack) == 0 {
		if b.preamble.Len() > 0 {
			b.preamble.WriteString("\n\n")
		}
		b.preamble.WriteString(text)
		return
	}
	top := b.stack[len(b.stack)-1]
	if top.Body != "" {
		top.Body += "\n\n" + text
	} else {
		top.Body = text
	}
}

func (b *Builder) addHeading(depth int, title string) {
	if depth < 1 {
		depth = 1
	}
	for len(b.stack) > 0 && b.stack[len(b.stack)-1].Depth >= depth {
		b.stack = b.stack[:len(b.stack)-1]
	}
	// Every open section sits at depth == stack position + 1, so the
	// deepest remaining section is at len(stack). Clamping to one more
	// repairs numbering that skips levels.
	if depth > len(b.stack)+1 {
		depth = len(b.stack) + 1
	}

	sec := &Section{Title: title, Depth: depth}
	if len(b.stack) == 0 {
		b.roots = append(b.roots, sec)
	} else {
		parent := b.stack[len(b.stack)-1]
		parent.Children = append(parent.Children, sec)
	}
	b.stack = append(b.stack, sec)
}

// Finish closes all open sections and returns the accumulated preamble
// and the ordered top-level sections. The builder must not be reused
// afterwards.
func (b *Builder) Finish() (preamble string, roots []*Section) {
	b.stack = nil
	return b.preamble.String(), b.roots
}

// Build runs a complete event stream through a fresh Builder.
func Build(events []Event) (preamble string, roots []*Section) {
	var b Builder
	for _, ev := range events {
		b.Add(ev)
	}
	return b.Finish()
}
