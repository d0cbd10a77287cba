package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mglynch/sectree/internal/parser"
	"github.com/mglynch/sectree/internal/section"
	"github.com/mglynch/sectree/internal/treestore"
)

// Worker processes a single document job.
type Worker struct {
	store     *treestore.Client
	log       *slog.Logger
	parseOpts parser.Options

	maxConcurrentStore int
}

func NewWorker(store *treestore.Client, log *slog.Logger, parseOpts parser.Options, maxStore int) *Worker {
	return &Worker{
		store:              store,
		log:                log,
		parseOpts:          parseOpts,
		maxConcurrentStore: maxStore,
	}
}

// Process runs the full ingest pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "user_id", job.UserID)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename, w.parseOpts)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	tree, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if job.Title != "" {
		tree.Title = job.Title
	}

	// Phase 2: Validate
	job.SetStatus(StatusValidating, "validating")
	if err := section.ValidateTree(tree); err != nil {
		log.Error("tree validation failed", "error", err)
		job.AddError(fmt.Sprintf("validate: %s", err))
		job.SetStatus(StatusFailed, "validating")
		return
	}

	// Content hash covers the parsed text, not the raw bytes, so the
	// same document uploaded in two formats dedups to one copy.
	job.ContentHash = ContentHashHex([]byte(strings.Join(section.BodyText(tree), "\n")))

	exists, existingDocID, err := w.checkDuplicate(ctx, job)
	if err != nil {
		log.Warn("dedup check failed, proceeding", "error", err)
	} else if exists {
		log.Info("duplicate document, skipping", "existing_doc_id", existingDocID)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}

	// Phase 3: Flatten
	job.SetStatus(StatusFlattening, "flattening")
	nodes := section.Flatten(tree)
	job.SetTotalNodes(len(nodes))
	log.Info("flattened document", "nodes", len(nodes))

	// Phase 4: Store nodes with bounded concurrency.
	job.SetStatus(StatusStoring, "storing")
	docPrefix := fmt.Sprintf("sections/users/%s/documents/%s", job.UserID, job.DocID)
	storedCount := 0
	hadErrors := false

	sem := make(chan struct{}, w.maxConcurrentStore)
	type storeResult struct {
		err error
		id  string
	}
	results := make(chan storeResult, len(nodes))

	for _, node := range nodes {
		sem <- struct{}{}
		go func(n section.FlatNode) {
			defer func() { <-sem }()
			results <- storeResult{err: w.storeNode(ctx, docPrefix, job.DocID, n), id: n.ID}
		}(node)
	}

	for range nodes {
		r := <-results
		if r.err != nil {
			log.Error("store failed", "node_id", r.id, "error", r.err)
			job.AddError(fmt.Sprintf("store %s: %s", r.id, r.err))
			hadErrors = true
			continue
		}
		storedCount++
		job.IncrNodesStored()
	}
	log.Info("storage complete", "stored", storedCount, "total", len(nodes))

	// Write document metadata.
	metaErr := w.store.PutNode(ctx, docPrefix+"/meta", treestore.NodeRequest{
		Value: map[string]any{
			"filename":     job.Filename,
			"title":        tree.Title,
			"content_hash": job.ContentHash,
			"nodes_stored": storedCount,
			"total_nodes":  len(nodes),
			"created_at":   job.CreatedAt.Format(time.RFC3339),
		},
		Source: "sectree:" + job.DocID,
	})
	if metaErr != nil {
		log.Error("meta write failed", "error", metaErr)
		job.AddError(fmt.Sprintf("meta: %s", metaErr))
		hadErrors = true
	}

	// Write hash index for dedup.
	hashPath := fmt.Sprintf("sections/users/%s/documents/by_hash/%s/%s", job.UserID, job.ContentHash, job.DocID)
	if err := w.store.PutNode(ctx, hashPath, treestore.NodeRequest{
		Value: map[string]any{
			"filename":   job.Filename,
			"created_at": job.CreatedAt.Format(time.RFC3339),
		},
		Source: "sectree:" + job.DocID,
	}); err != nil {
		log.Error("hash index write failed", "error", err)
	}

	if hadErrors && storedCount > 0 {
		job.SetStatus(StatusPartial, "done")
	} else if hadErrors {
		job.SetStatus(StatusFailed, "storing")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}

// storeNode writes one flattened section, retrying transient failures.
func (w *Worker) storeNode(ctx context.Context, docPrefix, docID string, n section.FlatNode) error {
	path := fmt.Sprintf("%s/nodes/%s", docPrefix, n.ID)
	req := treestore.NodeRequest{
		Value: map[string]any{
			"title":     n.Title,
			"text":      n.Text,
			"level":     n.Level,
			"parent_id": n.ParentID,
			"digest":    n.Digest,
		},
		Source: "sectree:" + docID,
	}

	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		lastErr = w.store.PutNode(ctx, path, req)
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		w.log.Warn("retryable store error", "path", path, "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

// checkDuplicate checks if this content hash already exists for the user.
func (w *Worker) checkDuplicate(ctx context.Context, job *Job) (bool, string, error) {
	hashPrefix := fmt.Sprintf("sections/users/%s/documents/by_hash/%s", job.UserID, job.ContentHash)
	children, err := w.store.ListChildren(ctx, hashPrefix, 1)
	if err != nil {
		return false, "", err
	}
	if len(children) > 0 {
		// Extract doc_id from the key path.
		parts := strings.Split(children[0].Key, "/")
		docID := parts[len(parts)-1]
		return true, docID, nil
	}
	return false, "", nil
}
