package moderation

import (
	"context"
	"fmt"
	"log"
)

// RemovedPlaceholder is what a comment's content becomes when batch
// re-moderation redacts it. Stats count it verbatim, so it must not change
// between runs.
const RemovedPlaceholder = "[Content removed by auto-moderation]"

// defaultBatchPageSize bounds how many comments are pulled per store
// round-trip during a batch run.
const defaultBatchPageSize = 200

// StoredComment is the slice of a persisted comment the re-moderator needs.
type StoredComment struct {
	ID       string
	AuthorID string
	Content  string
}

// CommentSource is the persistence port the batch re-moderator drives.
// ListActive pages non-deleted comments in stable ID order: keyset paging,
// not offsets, because the run soft-deletes rows as it goes.
type CommentSource interface {
	ListActive(ctx context.Context, afterID string, limit int) ([]StoredComment, error)
	SoftDeleteRedacted(ctx context.Context, commentID string) error
}

// BatchSummary reports a batch run's running totals. Flagged counts
// verdicts that carried signals but stayed published; Removed counts
// comments redacted by this run.
type BatchSummary struct {
	Processed int `json:"processed"`
	Flagged   int `json:"flagged"`
	Removed   int `json:"removed"`
}

// Remoderator applies the current moderation policy to all existing
// non-deleted comments. It is the only moderation entry point that mutates
// the store. Runs are idempotent: a second pass over already-redacted
// placeholders removes nothing. Concurrent runs are not safe to overlap —
// callers serialize them (see the runlock package).
type Remoderator struct {
	engine   *Engine
	store    CommentSource
	pageSize int
}

// NewRemoderator creates a Remoderator over engine and store.
func NewRemoderator(engine *Engine, store CommentSource) *Remoderator {
	return &Remoderator{
		engine:   engine,
		store:    store,
		pageSize: defaultBatchPageSize,
	}
}

// Run iterates every non-deleted comment, moderates it and enforces
// block/ban verdicts with a redacting soft delete. On failure the counts
// accumulated so far are returned alongside the error, never dropped.
func (r *Remoderator) Run(ctx context.Context) (BatchSummary, error) {
	var summary BatchSummary
	afterID := ""

	for {
		comments, err := r.store.ListActive(ctx, afterID, r.pageSize)
		if err != nil {
			return summary, fmt.Errorf("moderation: batch list after %q: %w", afterID, err)
		}
		if len(comments) == 0 {
			return summary, nil
		}

		for _, c := range comments {
			result, err := r.engine.ModerateContent(ctx, c.Content, c.AuthorID)
			if err != nil {
				return summary, fmt.Errorf("moderation: batch moderate %s: %w", c.ID, err)
			}
			summary.Processed++

			switch {
			case result.Action == ActionBlock || result.Action == ActionBan:
				if err := r.store.SoftDeleteRedacted(ctx, c.ID); err != nil {
					return summary, fmt.Errorf("moderation: batch redact %s: %w", c.ID, err)
				}
				summary.Removed++
				log.Printf("[batch] removed comment=%s author=%s action=%s terms=%v",
					c.ID, c.AuthorID, result.Action, result.FlaggedTerms)
			case len(result.FlaggedTerms) > 0:
				summary.Flagged++
			}
		}

		afterID = comments[len(comments)-1].ID
	}
}
