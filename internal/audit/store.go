// Package audit provides PostgreSQL-backed storage for moderation
// decisions. Every non-allow verdict is recorded with enough context
// (author, action, severity, flagged terms, spam score) for moderator
// review and per-author history queries.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// validSources is the set of allowed source values, matching the CHECK
// constraint on the moderation_actions table.
var validSources = map[string]bool{
	"check": true,
	"batch": true,
}

// Store manages moderation decision records in PostgreSQL.
type Store struct {
	db *sql.DB
}

// Entry represents a single moderation decision to be persisted.
type Entry struct {
	CommentID    string // optional: empty for pre-publish checks
	AuthorID     string
	Action       string
	Severity     string
	FlaggedTerms []string
	SpamScore    float64
	Source       string // "check" or "batch"
}

// NewStore creates an audit store backed by the given database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create inserts a moderation decision. Flagged terms are marshalled to
// JSONB. The source is validated against the allowed set before insertion.
func (s *Store) Create(ctx context.Context, entry *Entry) error {
	if !validSources[entry.Source] {
		return fmt.Errorf("audit: invalid source %q", entry.Source)
	}

	var termsJSON []byte
	if len(entry.FlaggedTerms) > 0 {
		var err error
		termsJSON, err = json.Marshal(entry.FlaggedTerms)
		if err != nil {
			return fmt.Errorf("audit: marshal terms: %w", err)
		}
	}

	var commentID interface{}
	if entry.CommentID != "" {
		commentID = entry.CommentID
	}

	const query = `
		INSERT INTO moderation_actions (comment_id, author_id, action, severity, flagged_terms, spam_score, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query,
		commentID,
		entry.AuthorID,
		entry.Action,
		entry.Severity,
		termsJSON,
		entry.SpamScore,
		entry.Source,
	)
	if err != nil {
		return fmt.Errorf("audit: insert: %w", err)
	}
	return nil
}

// CountRecent returns the number of decisions recorded against an author
// within the given time window. Useful for dashboards and escalation
// logic (repeat offenders).
func (s *Store) CountRecent(ctx context.Context, authorID string, window time.Duration) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM moderation_actions
		WHERE author_id = $1
		  AND created_at >= NOW() - $2::interval`

	var count int
	err := s.db.QueryRowContext(ctx, query, authorID, window.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("audit: count recent: %w", err)
	}
	return count, nil
}
