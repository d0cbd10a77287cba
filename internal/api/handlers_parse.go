package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mglynch/sectree/internal/chunker"
	"github.com/mglynch/sectree/internal/ocrfix"
	"github.com/mglynch/sectree/internal/parser"
	"github.com/mglynch/sectree/internal/section"
)

// handleParse parses an uploaded document and returns its section tree
// in the response. Optional form fields:
//
//	title     - override the tree title
//	fix_ocr   - "true" to run OCR heading repair before parsing (text/markdown)
//	flat      - "true" to include the flattened node list
//	chunks    - "true" to include retrieval chunks
//	chunk_size, overlap - chunking overrides
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if r.FormValue("fix_ocr") == "true" && (ext == ".txt" || ext == ".md" || ext == ".markdown") {
		data = []byte(ocrfix.Clean(string(data)))
		// Repaired output is Markdown regardless of the input extension.
		filename = strings.TrimSuffix(filename, ext) + ".md"
	}

	p, err := parser.ForFile(filename, parser.Options{
		MaxHeadingDepth:      s.cfg.MaxHeadingDepth,
		SanitizeHTML:         s.cfg.SanitizeHTML,
		PDFFallbackPdftotext: s.cfg.PDFFallbackPdftotext,
	})
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	tree, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		jsonError(w, "parse failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.parseStats.Record(time.Since(start).Milliseconds())

	if title := r.FormValue("title"); title != "" {
		tree.Title = title
	}
	if err := section.ValidateTree(tree); err != nil {
		s.log.Error("parser produced invalid tree", "filename", filename, "error", err)
		jsonError(w, "internal tree validation failed", http.StatusInternalServerError)
		return
	}

	resp := map[string]any{"tree": tree}

	if r.FormValue("flat") == "true" {
		resp["nodes"] = section.Flatten(tree)
	}

	if r.FormValue("chunks") == "true" {
		cfg := chunker.Config{
			ChunkSize:    s.cfg.DefaultChunkSize,
			ChunkOverlap: s.cfg.DefaultChunkOverlap,
			MinChunk:     100,
		}
		if v := r.FormValue("chunk_size"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				cfg.ChunkSize = n
			}
		}
		if v := r.FormValue("overlap"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				cfg.ChunkOverlap = n
			}
		}
		resp["chunks"] = chunker.ChunkTree(tree, cfg)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
