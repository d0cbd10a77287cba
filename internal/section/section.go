// Package section turns flat streams of heading and body events into a
// strictly nested tree of titled sections. The two entry points are the
// line classifier (which heading, if any, does a plain-text line denote)
// and the tree builder (assemble events into a well-formed hierarchy).
package section

// Section is one titled node in the parsed document hierarchy. Depth is
// 1-based; every child sits exactly one level below its parent.
type Section struct {
	Title    string     `json:"title"`
	Body     string     `json:"text"`
	Depth    int        `json:"level"`
	Children []*Section `json:"subsections"`
}

// Tree is the result of parsing one document. Preamble holds content
// that appeared before the first heading; it belongs to no titled
// section and has no depth of its own.
type Tree struct {
	Title    string     `json:"title"`
	Preamble string     `json:"preamble,omitempty"`
	Sections []*Section `json:"sections"`
}

// Event is one element of the flat stream the builder consumes. A body
// event (Heading false) carries content for the currently open section;
// Depth is ignored for body events.
type Event struct {
	Depth   int
	Text    string
	Heading bool
}
