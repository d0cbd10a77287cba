package chunker

import (
	"strings"
	"testing"

	"github.com/mglynch/sectree/internal/section"
)

func TestChunkTree_SmallTreeFitsOneChunk(t *testing.T) {
	tree := &section.Tree{
		Title: "Small",
		Sections: []*section.Section{
			{
				Title: "Section",
				Depth: 1,
				Body:  strings.Repeat("word ", 200), // ~200 words -> ~266 tokens, above MinChunk
			},
		},
	}

	cfg := Config{
		ChunkSize:    1500,
		ChunkOverlap: 200,
		MinChunk:     50,
	}
	chunks := ChunkTree(tree, cfg)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Index != 0 {
		t.Errorf("expected index 0, got %d", chunks[0].Index)
	}
	if !strings.Contains(chunks[0].Text, "word") {
		t.Errorf("expected chunk text to contain 'word', got %q", chunks[0].Text)
	}
}

func TestChunkTree_LargeTreeRequiresSplitting(t *testing.T) {
	// Generate text that is well above ChunkSize tokens.
	// ~3000 words -> ~3990 tokens at 1.33 tokens/word.
	largeText := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 300)

	tree := &section.Tree{
		Title: "Large",
		Sections: []*section.Section{
			{
				Title: "Big Section",
				Depth: 1,
				Body:  largeText,
			},
		},
	}

	cfg := Config{
		ChunkSize:    500,
		ChunkOverlap: 50,
		MinChunk:     10,
	}
	chunks := ChunkTree(tree, cfg)

	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks for large text, got %d", len(chunks))
	}

	// Verify sequential indexing.
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d: expected index %d, got %d", i, i, c.Index)
		}
	}

	// Verify no chunk exceeds the target size by a large margin.
	// (Due to paragraph/sentence boundaries, slight overflows are expected.)
	for i, c := range chunks {
		tokens := EstimateTokens(c.Text)
		// Allow 2x the target as a generous ceiling.
		if tokens > cfg.ChunkSize*2 {
			t.Errorf("chunk %d: %d tokens exceeds 2x target %d", i, tokens, cfg.ChunkSize)
		}
	}
}

func TestChunkTree_BreadcrumbPropagation(t *testing.T) {
	tree := &section.Tree{
		Title: "Doc",
		Sections: []*section.Section{
			{
				Title: "Chapter 1",
				Depth: 1,
				Children: []*section.Section{
					{
						Title: "Section 1.1",
						Depth: 2,
						Body:  strings.Repeat("content ", 200),
					},
				},
			},
		},
	}

	cfg := Config{
		ChunkSize:    2000,
		ChunkOverlap: 100,
		MinChunk:     10,
	}
	chunks := ChunkTree(tree, cfg)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}

	bc := chunks[0].Breadcrumb
	want := []string{"Chapter 1", "Section 1.1"}
	if len(bc) != len(want) {
		t.Fatalf("expected breadcrumb %v, got %v", want, bc)
	}
	for i := range want {
		if bc[i] != want[i] {
			t.Errorf("breadcrumb[%d]: expected %q, got %q", i, want[i], bc[i])
		}
	}
}

func TestChunkTree_BreadcrumbIsolation(t *testing.T) {
	// Verify that breadcrumbs from sibling sections don't leak into each other.
	tree := &section.Tree{
		Title: "Doc",
		Sections: []*section.Section{
			{
				Title: "A",
				Depth: 1,
				Body:  strings.Repeat("alpha ", 200),
			},
			{
				Title: "B",
				Depth: 1,
				Body:  strings.Repeat("beta ", 200),
			},
		},
	}

	cfg := Config{
		ChunkSize:    2000,
		ChunkOverlap: 100,
		MinChunk:     10,
	}
	chunks := ChunkTree(tree, cfg)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}

	if len(chunks[0].Breadcrumb) != 1 || chunks[0].Breadcrumb[0] != "A" {
		t.Errorf("chunk 0 breadcrumb: expected [A], got %v", chunks[0].Breadcrumb)
	}
	if len(chunks[1].Breadcrumb) != 1 || chunks[1].Breadcrumb[0] != "B" {
		t.Errorf("chunk 1 breadcrumb: expected [B], got %v", chunks[1].Breadcrumb)
	}
}

func TestChunkTree_PreambleFirst(t *testing.T) {
	tree := &section.Tree{
		Title:    "Doc",
		Preamble: strings.Repeat("abstract ", 100),
		Sections: []*section.Section{
			{Title: "Body", Depth: 1, Body: strings.Repeat("content ", 100)},
		},
	}

	cfg := Config{
		ChunkSize:    2000,
		ChunkOverlap: 100,
		MinChunk:     10,
	}
	chunks := ChunkTree(tree, cfg)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if len(chunks[0].Breadcrumb) != 0 {
		t.Errorf("preamble chunk should have no breadcrumb, got %v", chunks[0].Breadcrumb)
	}
	if !strings.Contains(chunks[0].Text, "abstract") {
		t.Errorf("preamble should chunk first, got %q", chunks[0].Text)
	}
}

func TestChunkTree_MinChunkFiltering(t *testing.T) {
	// Text is very short — below MinChunk threshold.
	tree := &section.Tree{
		Title: "Tiny",
		Sections: []*section.Section{
			{
				Title: "Short",
				Depth: 1,
				Body:  "Hi",
			},
		},
	}

	cfg := Config{
		ChunkSize:    1500,
		ChunkOverlap: 200,
		MinChunk:     100,
	}
	chunks := ChunkTree(tree, cfg)

	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks (below MinChunk), got %d", len(chunks))
	}
}

func TestChunkTree_EmptyTree(t *testing.T) {
	tree := &section.Tree{Title: "Empty"}
	chunks := ChunkTree(tree, DefaultConfig())
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks, got %d", len(chunks))
	}
}

func TestChunkTree_DefaultConfigFallback(t *testing.T) {
	// Zero-value config should be replaced with defaults.
	tree := &section.Tree{
		Title: "Doc",
		Sections: []*section.Section{
			{Depth: 1, Body: strings.Repeat("word ", 200)},
		},
	}
	chunks := ChunkTree(tree, Config{})
	// Should not panic and should produce at least one chunk.
	if len(chunks) < 1 {
		t.Errorf("expected at least 1 chunk with zero config (defaults applied), got %d", len(chunks))
	}
}

func TestChunkTree_SectionWithNoBody(t *testing.T) {
	// Container section with no body, only children.
	tree := &section.Tree{
		Title: "Doc",
		Sections: []*section.Section{
			{
				Title: "Container",
				Depth: 1,
				Children: []*section.Section{
					{
						Title: "Leaf",
						Depth: 2,
						Body:  strings.Repeat("leaf content ", 100),
					},
				},
			},
		},
	}

	cfg := Config{
		ChunkSize:    2000,
		ChunkOverlap: 100,
		MinChunk:     10,
	}
	chunks := ChunkTree(tree, cfg)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	want := []string{"Container", "Leaf"}
	bc := chunks[0].Breadcrumb
	if len(bc) != len(want) {
		t.Fatalf("expected breadcrumb %v, got %v", want, bc)
	}
	for i := range want {
		if bc[i] != want[i] {
			t.Errorf("breadcrumb[%d]: expected %q, got %q", i, want[i], bc[i])
		}
	}
}
