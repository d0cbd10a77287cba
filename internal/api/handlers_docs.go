package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mglynch/sectree/internal/treestore"
)

// handleListDocuments lists all documents for a user.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		jsonError(w, "user_id query parameter is required", http.StatusBadRequest)
		return
	}

	prefix := fmt.Sprintf("sections/users/%s/documents", userID)
	children, err := s.orchestrator.StoreClient().ListChildren(r.Context(), prefix, 200)
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Filter to only meta nodes.
	var docs []map[string]any
	for _, child := range children {
		if strings.HasSuffix(child.Key, "/meta") {
			docs = append(docs, map[string]any{
				"key":   child.Key,
				"value": child.Value,
			})
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": docs})
}

// handleDeleteDocument deletes a document and all its stored nodes.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		jsonError(w, "user_id query parameter is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	ts := s.orchestrator.StoreClient()
	docPrefix := fmt.Sprintf("sections/users/%s/documents/%s", userID, docID)

	// Count nodes before the recursive delete so the response can say
	// how much was removed.
	nodes, err := ts.ListChildren(ctx, docPrefix+"/nodes", 10000)
	if err != nil {
		jsonError(w, "failed to list nodes: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Remove the hash index entry first; it lives outside the doc prefix.
	deleteHashIndex(ctx, ts, userID, docID, docPrefix)

	deleted := 0
	if err := ts.DeleteNode(ctx, docPrefix, true); err == nil {
		deleted = 1
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"nodes_deleted":    len(nodes),
		"document_deleted": deleted,
	})
}

func deleteHashIndex(ctx context.Context, ts *treestore.Client, userID, docID, docPrefix string) {
	// Read the meta to get the content hash.
	meta, err := ts.GetNode(ctx, docPrefix+"/meta")
	if err != nil || meta == nil {
		return
	}
	metaMap, ok := meta.Value.(map[string]any)
	if !ok {
		return
	}
	hash, _ := metaMap["content_hash"].(string)
	if hash == "" {
		return
	}
	hashPath := fmt.Sprintf("sections/users/%s/documents/by_hash/%s/%s", userID, hash, docID)
	ts.DeleteNode(ctx, hashPath, false)
}
