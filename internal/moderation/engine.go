// Package moderation decides, for any piece of submitted text, whether it
// is spam, abusive or otherwise disallowed, and what enforcement action to
// take. It combines banned-term matching (with evasion-aware
// normalization), structural spam scoring and author risk assessment into a
// single verdict per check.
package moderation

import (
	"context"
	"strings"
)

// Action is the enforcement decision attached to a verdict.
type Action string

const (
	ActionAllow Action = "allow"
	ActionWarn  Action = "warn"
	ActionBlock Action = "block"
	ActionBan   Action = "ban"
)

// SpamSentinel is appended to a verdict's flagged terms when the spam score
// crossed the threshold, so consumers see spam and term hits uniformly.
const SpamSentinel = "spam-pattern"

// Result is the verdict for one piece of content. It is a value: built
// fresh per check, never mutated afterwards, never persisted by the engine.
type Result struct {
	Allowed      bool
	Reason       string
	Severity     Severity
	FlaggedTerms []string
	Action       Action
}

// Policy holds the decision-table tunables.
type Policy struct {
	SpamThreshold float64 // spam score above this flags the content
	BanTermCount  int     // more than this many flagged terms escalates block to ban
}

// DefaultPolicy returns the reference decision policy.
func DefaultPolicy() Policy {
	return Policy{
		SpamThreshold: 0.85,
		BanTermCount:  2,
	}
}

// Engine composes the matcher, scorer and risk assessor. It holds no
// mutable state of its own: concurrent checks for different comments are
// independent. Only the risk lookup touches I/O.
type Engine struct {
	lexicon *Lexicon
	matcher *Matcher
	scorer  *Scorer
	risk    *RiskAssessor
	policy  Policy
}

// NewEngine creates an Engine with the default scorer, risk and decision
// tuning. The history store is the only external collaborator.
func NewEngine(lex *Lexicon, store HistoryStore) *Engine {
	return NewEngineWithConfig(lex, store, DefaultScorerConfig(), DefaultRiskConfig(), DefaultPolicy())
}

// NewEngineWithConfig creates an Engine with explicit tuning.
func NewEngineWithConfig(lex *Lexicon, store HistoryStore, scorerCfg ScorerConfig, riskCfg RiskConfig, policy Policy) *Engine {
	norm := NewNormalizer(lex)
	return &Engine{
		lexicon: lex,
		matcher: NewMatcher(norm),
		scorer:  NewScorer(scorerCfg),
		risk:    NewRiskAssessor(store, riskCfg),
		policy:  policy,
	}
}

// SpamScore exposes the raw spam score for observability.
func (e *Engine) SpamScore(content string) float64 {
	return e.scorer.Score(content)
}

// ModerateContent produces a verdict for content submitted by authorID.
//
// The only failure mode is the risk lookup: matching and scoring are pure.
// A store failure propagates so the caller always knows a verdict was
// fully informed; an unknown author is not a failure, it is high risk.
func (e *Engine) ModerateContent(ctx context.Context, content, authorID string) (Result, error) {
	var flagged []string
	severity := SeverityLow

	// Tiers are an ordered list, high to low, so flagged-term order and
	// severity resolution are deterministic.
	for _, tier := range e.lexicon.Tiers {
		matches := e.matcher.FindMatches(content, tier.Terms)
		if len(matches) == 0 {
			continue
		}
		flagged = append(flagged, matches...)
		if tier.Severity.rank() > severity.rank() {
			severity = tier.Severity
		}
	}

	if e.scorer.Score(content) > e.policy.SpamThreshold {
		flagged = append(flagged, SpamSentinel)
		severity = SeverityHigh
	}

	risk, err := e.risk.Assess(ctx, authorID)
	if err != nil {
		return Result{}, err
	}

	action := ActionAllow
	if len(flagged) > 0 {
		switch {
		case severity == SeverityHigh || risk == RiskHigh:
			// High severity alone is enough to block; risk only amplifies
			// the decision toward ban, it is never required.
			if len(flagged) > e.policy.BanTermCount {
				action = ActionBan
			} else {
				action = ActionBlock
			}
		case severity == SeverityMedium || risk == RiskMedium:
			action = ActionWarn
		}
	}

	reason := ""
	if len(flagged) > 0 {
		reason = "Flagged terms: " + strings.Join(flagged, ", ")
	}

	return Result{
		Allowed:      action == ActionAllow || action == ActionWarn,
		Reason:       reason,
		Severity:     severity,
		FlaggedTerms: flagged,
		Action:       action,
	}, nil
}
