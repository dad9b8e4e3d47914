package moderation

import "testing"

func TestErrorResponse(t *testing.T) {
	resp := ErrorResponse("req-1", "rate limit exceeded")

	if resp.RequestID != "req-1" {
		t.Errorf("RequestID = %q, want %q", resp.RequestID, "req-1")
	}
	if resp.Error != "rate limit exceeded" {
		t.Errorf("Error = %q, want %q", resp.Error, "rate limit exceeded")
	}
	if resp.Allowed {
		t.Error("Allowed = true, want false when no verdict exists")
	}
	// No verdict was produced, so no action may be reported either: a
	// failed check must stay distinguishable from a blocked one.
	if resp.Action != "" {
		t.Errorf("Action = %q, want empty on error responses", resp.Action)
	}
	if resp.Severity != "" {
		t.Errorf("Severity = %q, want empty on error responses", resp.Severity)
	}
	if len(resp.FlaggedTerms) != 0 {
		t.Errorf("FlaggedTerms = %v, want empty on error responses", resp.FlaggedTerms)
	}
}
