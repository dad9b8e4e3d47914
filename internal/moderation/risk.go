package moderation

import (
	"context"
	"fmt"
	"time"
)

// RiskLevel classifies an author by behavioral history, independent of any
// single message's content.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// History is what the risk policy needs to know about an author. Found is
// false when the user does not exist, which is data (maximum risk), not an
// error: transport failures are reported separately so callers never
// mistake an outage for a verdict.
type History struct {
	Found           bool
	CreatedAt       time.Time
	TotalComments   int
	DeletedComments int
}

// HistoryStore is the persistence port the risk assessor reads from.
type HistoryStore interface {
	AuthorHistory(ctx context.Context, authorID string) (History, error)
}

// RiskConfig holds the risk policy tunables.
type RiskConfig struct {
	NewAccountWindow    time.Duration // accounts younger than this are high risk
	HighDeletionRatio   float64
	MediumDeletionRatio float64
}

// DefaultRiskConfig returns the reference risk policy.
func DefaultRiskConfig() RiskConfig {
	return RiskConfig{
		NewAccountWindow:    24 * time.Hour,
		HighDeletionRatio:   0.5,
		MediumDeletionRatio: 0.2,
	}
}

// RiskAssessor classifies authors using their stored comment history.
type RiskAssessor struct {
	store HistoryStore
	cfg   RiskConfig
}

// NewRiskAssessor creates a RiskAssessor reading from store.
func NewRiskAssessor(store HistoryStore, cfg RiskConfig) *RiskAssessor {
	return &RiskAssessor{store: store, cfg: cfg}
}

// Assess returns the author's risk level. Store failures propagate; there
// is no degraded-mode default level.
func (r *RiskAssessor) Assess(ctx context.Context, authorID string) (RiskLevel, error) {
	h, err := r.store.AuthorHistory(ctx, authorID)
	if err != nil {
		return "", fmt.Errorf("moderation: author history %s: %w", authorID, err)
	}
	return ClassifyRisk(h, r.cfg, time.Now()), nil
}

// ClassifyRisk applies the risk policy to a history snapshot. It is pure so
// the policy can be tested without a store.
//
// Unknown authors are high risk (fail closed). New accounts are high risk
// regardless of their deletion ratio: they are cheap to create and have no
// track record. Beyond that, the fraction of the author's comments that
// ended up deleted is itself a behavioral signal.
func ClassifyRisk(h History, cfg RiskConfig, now time.Time) RiskLevel {
	if !h.Found {
		return RiskHigh
	}
	if now.Sub(h.CreatedAt) < cfg.NewAccountWindow {
		return RiskHigh
	}

	ratio := 0.0
	if h.TotalComments > 0 {
		ratio = float64(h.DeletedComments) / float64(h.TotalComments)
	}
	switch {
	case ratio > cfg.HighDeletionRatio:
		return RiskHigh
	case ratio > cfg.MediumDeletionRatio:
		return RiskMedium
	default:
		return RiskLow
	}
}
