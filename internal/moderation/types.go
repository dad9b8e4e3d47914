package moderation

// CheckRequest is published to moderation.check by the comment API when a
// piece of content needs review before or after publishing.
type CheckRequest struct {
	RequestID string `json:"request_id"`
	CommentID string `json:"comment_id,omitempty"`
	AuthorID  string `json:"author_id"`
	Content   string `json:"content"`
	Ts        int64  `json:"ts"`
}

// CheckResponse is published back to the requester with the verdict, or
// with Error set when the risk lookup failed and no verdict exists.
type CheckResponse struct {
	RequestID    string   `json:"request_id"`
	Allowed      bool     `json:"allowed"`
	Action       string   `json:"action"`
	Severity     string   `json:"severity"`
	Reason       string   `json:"reason,omitempty"`
	FlaggedTerms []string `json:"flagged_terms,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// ErrorResponse builds the reply for a check that produced no verdict
// (rate limited, store unreachable). Action stays empty so a consumer can
// never read a transport-level failure as a content decision.
func ErrorResponse(requestID, msg string) CheckResponse {
	return CheckResponse{
		RequestID: requestID,
		Allowed:   false,
		Error:     msg,
	}
}

// RemoderateRequest asks the moderator to re-run moderation over all
// existing non-deleted comments.
type RemoderateRequest struct {
	RequestID string `json:"request_id"`
}

// RemoderateDone reports a finished (or refused) batch run.
type RemoderateDone struct {
	RequestID string       `json:"request_id"`
	Summary   BatchSummary `json:"summary"`
	Error     string       `json:"error,omitempty"`
}

// FlaggedEvent is published to the moderation.flagged stream for every
// non-allow verdict, for dashboards and audit consumers.
type FlaggedEvent struct {
	CommentID    string   `json:"comment_id,omitempty"`
	AuthorID     string   `json:"author_id"`
	Action       string   `json:"action"`
	Severity     string   `json:"severity"`
	FlaggedTerms []string `json:"flagged_terms"`
	Ts           int64    `json:"ts"`
}
