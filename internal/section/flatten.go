package section

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// FlatNode is one section lifted out of the tree, addressable by a
// content-derived ID and linked to its parent. The first node of a
// flattened tree represents the document itself (level 0, preamble as
// text) and parents the top-level sections.
type FlatNode struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id,omitempty"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	Level    int    `json:"level"`
	Digest   Digest `json:"section_digest"`
}

// Digest is the hashed identity of a node: its own title and text plus
// a shortened view of its immediate children. Two sections with the
// same digest are the same section for storage purposes.
type Digest struct {
	Title       string        `json:"title"`
	Text        string        `json:"text"`
	Subsections []DigestChild `json:"subsections"`
}

// DigestChild is the abbreviated child entry inside a Digest.
type DigestChild struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Flatten walks the tree in pre-order and returns one FlatNode per
// section, preceded by a document-level node. IDs are BLAKE2b-128
// digests of the node's Digest, so they are stable across runs for
// unchanged content.
func Flatten(t *Tree) []FlatNode {
	doc := &Section{Title: t.Title, Body: t.Preamble, Children: t.Sections}
	return flattenSection(doc, "")
}

func flattenSection(s *Section, parentID string) []FlatNode {
	d := digestOf(s)
	id := digestID(d)
	nodes := []FlatNode{{
		ID:       id,
		ParentID: parentID,
		Title:    s.Title,
		Text:     s.Body,
		Level:    s.Depth,
		Digest:   d,
	}}
	for _, c := range s.Children {
		nodes = append(nodes, flattenSection(c, id)...)
	}
	return nodes
}

func digestOf(s *Section) Digest {
	d := Digest{Title: s.Title, Text: s.Body, Subsections: []DigestChild{}}
	for _, c := range s.Children {
		d.Subsections = append(d.Subsections, DigestChild{
			Title: c.Title,
			Text:  shorten(c.Body, 1, len(c.Children) > 0),
		})
	}
	return d
}

func digestID(d Digest) string {
	payload, err := json.Marshal(d)
	if err != nil {
		// Digest contains only strings and slices; this cannot fail.
		panic(err)
	}
	h, err := blake2b.New(16, nil)
	if err != nil {
		panic(err)
	}
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// shorten keeps at most max lines of text, marking truncation (or the
// presence of deeper content) with a trailing ellipsis.
func shorten(text string, max int, hasChildren bool) string {
	var lines []string
	if text != "" {
		lines = strings.Split(text, "\n")
	}
	if len(lines) <= max {
		if hasChildren {
			lines = append(lines, "...")
		}
		return strings.Join(lines, "")
	}
	lines = append(lines[:max:max], "...")
	return strings.Join(lines, "")
}
