package moderation

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
)

// memorySource is an in-memory CommentSource mirroring the store's keyset
// paging contract: active comments in ID order, soft deletes swap the
// content for the placeholder.
type memorySource struct {
	comments    map[string]*StoredComment
	deleted     map[string]bool
	failDelete  string // comment ID whose delete fails
	listCalls   int
	deleteCalls int
}

func newMemorySource(comments ...StoredComment) *memorySource {
	src := &memorySource{
		comments: make(map[string]*StoredComment, len(comments)),
		deleted:  make(map[string]bool),
	}
	for i := range comments {
		c := comments[i]
		src.comments[c.ID] = &c
	}
	return src
}

func (s *memorySource) ListActive(_ context.Context, afterID string, limit int) ([]StoredComment, error) {
	s.listCalls++

	ids := make([]string, 0, len(s.comments))
	for id := range s.comments {
		if id > afterID && !s.deleted[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	var out []StoredComment
	for _, id := range ids {
		if len(out) == limit {
			break
		}
		out = append(out, *s.comments[id])
	}
	return out, nil
}

func (s *memorySource) SoftDeleteRedacted(_ context.Context, commentID string) error {
	s.deleteCalls++
	if commentID == s.failDelete {
		return errors.New("write failed")
	}
	c, ok := s.comments[commentID]
	if !ok {
		return errors.New("no such comment")
	}
	c.Content = RemovedPlaceholder
	s.deleted[commentID] = true
	return nil
}

func (s *memorySource) content(id string) string {
	return s.comments[id].Content
}

func newTestRemoderator(src CommentSource) *Remoderator {
	store := &fakeHistoryStore{histories: map[string]History{
		"trusted": trustedHistory(),
	}}
	return NewRemoderator(newTestEngine(store), src)
}

func TestRemoderatorRun(t *testing.T) {
	src := newMemorySource(
		StoredComment{ID: "c1", AuthorID: "trusted", Content: "perfectly fine comment"},
		StoredComment{ID: "c2", AuthorID: "trusted", Content: "fuck this whole thread"},
		StoredComment{ID: "c3", AuthorID: "trusted", Content: "damn, missed it"},
		StoredComment{ID: "c4", AuthorID: "trusted", Content: "you stupid idiot"},
		StoredComment{ID: "c5", AuthorID: "trusted", Content: "f.u.c.k you nazi hitler"},
	)
	r := newTestRemoderator(src)

	summary, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if summary.Processed != 5 {
		t.Errorf("Processed = %d, want 5", summary.Processed)
	}
	// c2 blocks and c5 bans; c3 (allow with a term) and c4 (warn) stay up
	// but count as flagged.
	if summary.Removed != 2 {
		t.Errorf("Removed = %d, want 2", summary.Removed)
	}
	if summary.Flagged != 2 {
		t.Errorf("Flagged = %d, want 2", summary.Flagged)
	}

	if got := src.content("c2"); got != RemovedPlaceholder {
		t.Errorf("c2 content = %q, want %q", got, RemovedPlaceholder)
	}
	if got := src.content("c5"); got != RemovedPlaceholder {
		t.Errorf("c5 content = %q, want %q", got, RemovedPlaceholder)
	}
	if got := src.content("c1"); got != "perfectly fine comment" {
		t.Errorf("c1 content = %q, want untouched", got)
	}
	if got := src.content("c4"); got != "you stupid idiot" {
		t.Errorf("c4 content = %q, want warned comment left up", got)
	}
}

func TestRemoderatorRun_Idempotent(t *testing.T) {
	src := newMemorySource(
		StoredComment{ID: "c1", AuthorID: "trusted", Content: "fuck this"},
		StoredComment{ID: "c2", AuthorID: "trusted", Content: "all good here"},
	)
	r := newTestRemoderator(src)

	first, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("first Run error: %v", err)
	}
	if first.Removed != 1 {
		t.Fatalf("first Run Removed = %d, want 1", first.Removed)
	}

	second, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run error: %v", err)
	}
	if second.Removed != 0 {
		t.Errorf("second Run Removed = %d, want 0", second.Removed)
	}
	if second.Processed != 1 {
		t.Errorf("second Run Processed = %d, want only the surviving comment", second.Processed)
	}
}

// The placeholder itself must moderate clean, or runs would never converge
// on stores that keep redacted rows visible.
func TestRemovedPlaceholderIsClean(t *testing.T) {
	store := &fakeHistoryStore{histories: map[string]History{"trusted": trustedHistory()}}
	e := newTestEngine(store)

	result, err := e.ModerateContent(context.Background(), RemovedPlaceholder, "trusted")
	if err != nil {
		t.Fatalf("ModerateContent error: %v", err)
	}
	if result.Action != ActionAllow {
		t.Errorf("ModerateContent(placeholder).Action = %v, want %v", result.Action, ActionAllow)
	}
}

func TestRemoderatorRun_Paging(t *testing.T) {
	var comments []StoredComment
	for _, id := range []string{"c1", "c2", "c3", "c4", "c5"} {
		comments = append(comments, StoredComment{ID: id, AuthorID: "trusted", Content: "nothing to see"})
	}
	src := newMemorySource(comments...)
	r := newTestRemoderator(src)
	r.pageSize = 2

	summary, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if summary.Processed != 5 {
		t.Errorf("Processed = %d, want 5", summary.Processed)
	}
	// Pages of 2, 2, 1, then the empty page that ends the run.
	if src.listCalls != 4 {
		t.Errorf("listCalls = %d, want 4", src.listCalls)
	}
}

func TestRemoderatorRun_PartialOnError(t *testing.T) {
	src := newMemorySource(
		StoredComment{ID: "c1", AuthorID: "trusted", Content: "fine"},
		StoredComment{ID: "c2", AuthorID: "trusted", Content: "fuck everything"},
		StoredComment{ID: "c3", AuthorID: "trusted", Content: "also fine"},
	)
	src.failDelete = "c2"
	r := newTestRemoderator(src)

	summary, err := r.Run(context.Background())
	if err == nil {
		t.Fatal("Run returned nil error, want delete failure to propagate")
	}
	if !strings.Contains(err.Error(), "c2") {
		t.Errorf("error = %v, want it to name the failing comment", err)
	}
	if summary.Processed != 2 {
		t.Errorf("Processed = %d, want the 2 comments handled before the failure", summary.Processed)
	}
	if summary.Removed != 0 {
		t.Errorf("Removed = %d, want 0", summary.Removed)
	}
}

func TestRemoderatorRun_HistoryError(t *testing.T) {
	src := newMemorySource(
		StoredComment{ID: "c1", AuthorID: "trusted", Content: "fine"},
	)
	store := &fakeHistoryStore{err: errors.New("db down")}
	r := NewRemoderator(newTestEngine(store), src)

	if _, err := r.Run(context.Background()); err == nil {
		t.Fatal("Run returned nil error, want history failure to propagate")
	}
}
