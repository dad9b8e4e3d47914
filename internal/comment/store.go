// Package comment provides PostgreSQL-backed access to the comment and user
// tables the moderation engine reads, and the redacting soft delete it
// writes. The web/API layer owns these tables; this package only touches
// the fields moderation needs.
package comment

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/threadline/comment-app/internal/moderation"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps the database handle. It implements moderation.HistoryStore
// and moderation.CommentSource.
type Store struct {
	db *sql.DB
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("comment: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("comment: ping: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an existing database handle (used by tests).
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate applies the embedded schema migrations. Already-current schemas
// are not an error.
func (s *Store) Migrate() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("comment: migration source: %w", err)
	}
	driver, err := postgres.WithInstance(s.db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("comment: migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("comment: migrate init: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("comment: migrate up: %w", err)
	}
	return nil
}

// DB exposes the underlying handle for stores sharing the same database
// (the audit log lives next to the comment tables).
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// AuthorHistory returns the risk-relevant slice of an author's record. A
// missing user is reported through History.Found, not as an error.
func (s *Store) AuthorHistory(ctx context.Context, authorID string) (moderation.History, error) {
	var h moderation.History

	const userQuery = `SELECT created_at FROM users WHERE id = $1`
	err := s.db.QueryRowContext(ctx, userQuery, authorID).Scan(&h.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return h, nil
	}
	if err != nil {
		return h, fmt.Errorf("comment: author lookup: %w", err)
	}
	h.Found = true

	const countQuery = `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_deleted)
		FROM comments
		WHERE author_id = $1`
	if err := s.db.QueryRowContext(ctx, countQuery, authorID).Scan(&h.TotalComments, &h.DeletedComments); err != nil {
		return h, fmt.Errorf("comment: author counts: %w", err)
	}

	return h, nil
}

// ListActive pages non-deleted comments in ascending ID order, starting
// after afterID ("" starts from the beginning). Keyset paging keeps the
// scan stable while the batch run soft-deletes rows behind itself.
func (s *Store) ListActive(ctx context.Context, afterID string, limit int) ([]moderation.StoredComment, error) {
	const query = `
		SELECT id, author_id, content
		FROM comments
		WHERE is_deleted = FALSE AND id::text > $1
		ORDER BY id::text
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("comment: list active: %w", err)
	}
	defer rows.Close()

	var comments []moderation.StoredComment
	for rows.Next() {
		var c moderation.StoredComment
		if err := rows.Scan(&c.ID, &c.AuthorID, &c.Content); err != nil {
			return nil, fmt.Errorf("comment: scan: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("comment: rows: %w", err)
	}
	return comments, nil
}

// SoftDeleteRedacted marks a comment deleted, stamps the deletion time and
// replaces its content with the auto-moderation placeholder, atomically in
// a single statement. The original content is preserved alongside for
// admin restore.
func (s *Store) SoftDeleteRedacted(ctx context.Context, commentID string) error {
	const query = `
		UPDATE comments
		SET original_content = content,
		    content = $2,
		    is_deleted = TRUE,
		    deleted_at = NOW(),
		    updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE`

	if _, err := s.db.ExecContext(ctx, query, commentID, moderation.RemovedPlaceholder); err != nil {
		return fmt.Errorf("comment: soft delete %s: %w", commentID, err)
	}
	return nil
}

// Stats projects the moderation dashboard counters from the comment table.
func (s *Store) Stats(ctx context.Context) (moderation.Stats, error) {
	const query = `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_deleted),
		       COUNT(*) FILTER (WHERE content = $1)
		FROM comments`

	var stats moderation.Stats
	err := s.db.QueryRowContext(ctx, query, moderation.RemovedPlaceholder).
		Scan(&stats.TotalComments, &stats.RemovedComments, &stats.AutoRemovedComments)
	if err != nil {
		return stats, fmt.Errorf("comment: stats: %w", err)
	}
	return stats, nil
}
