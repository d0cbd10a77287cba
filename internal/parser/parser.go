// Package parser converts raw documents into section trees. Each format
// adapter extracts a stream of heading and body events and hands it to
// the section builder; the builder owns all nesting rules, so adapters
// stay thin.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mglynch/sectree/internal/section"
)

// Parser converts raw document bytes into a section tree.
type Parser interface {
	Parse(r io.Reader, filename string) (*section.Tree, error)
}

// Options tunes format-specific behavior shared across adapters.
type Options struct {
	MaxHeadingDepth      int  // clamp for native heading levels; 0 means 6
	SanitizeHTML         bool // scrub emitted body HTML fragments
	PDFFallbackPdftotext bool
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{MaxDepth: opts.MaxHeadingDepth, Sanitize: opts.SanitizeHTML}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

func baseTitle(filename string) string {
	name := filepath.Base(filename)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
