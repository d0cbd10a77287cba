package section

import (
	"errors"
	"fmt"
)

// ValidateTree checks the structural invariants of a parsed tree before
// it leaves the process: every top-level section is at depth 1, and
// every child sits exactly one level below its parent. Trees produced
// by the Builder always pass; this guards the storage boundary against
// hand-built input.
func ValidateTree(t *Tree) error {
	if t == nil {
		return errors.New("nil tree")
	}
	for _, root := range t.Sections {
		if root.Depth != 1 {
			return fmt.Errorf("top-level section %q has level %d, want 1", root.Title, root.Depth)
		}
		if err := validateSection(root); err != nil {
			return err
		}
	}
	return nil
}

func validateSection(s *Section) error {
	for _, c := range s.Children {
		if c.Depth != s.Depth+1 {
			return fmt.Errorf("section %q: child %q has level %d, want %d",
				s.Title, c.Title, c.Depth, s.Depth+1)
		}
		if err := validateSection(c); err != nil {
			return err
		}
	}
	return nil
}

// BodyText returns the preamble plus every section body in pre-order.
// Concatenating the result reproduces all non-heading content of the
// source document in original order.
func BodyText(t *Tree) []string {
	var out []string
	if t.Preamble != "" {
		out = append(out, t.Preamble)
	}
	var walk func(*Section)
	walk = func(s *Section) {
		if s.Body != "" {
			out = append(out, s.Body)
		}
		for _, c := range s.Children {
			walk(c)
		}
	}
	for _, root := range t.Sections {
		walk(root)
	}
	return out
}

// Events flattens a tree back into the (depth, title, body) stream that
// built it. Feeding the result to Build yields an isomorphic tree.
func Events(t *Tree) []Event {
	var evs []Event
	if t.Preamble != "" {
		evs = append(evs, Event{Text: t.Preamble})
	}
	var walk func(*Section)
	walk = func(s *Section) {
		evs = append(evs, Event{Depth: s.Depth, Text: s.Title, Heading: true})
		if s.Body != "" {
			evs = append(evs, Event{Text: s.Body})
		}
		for _, c := range s.Children {
			walk(c)
		}
	}
	for _, root := range t.Sections {
		walk(root)
	}
	return evs
}
