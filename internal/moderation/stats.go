package moderation

// Stats is a read-only projection over the comment store for the admin
// dashboard. FlaggedComments is a known placeholder: nothing persists a
// flagged-but-published state yet, so it is always 0.
type Stats struct {
	TotalComments       int `json:"total_comments"`
	FlaggedComments     int `json:"flagged_comments"`
	RemovedComments     int `json:"removed_comments"`
	AutoRemovedComments int `json:"auto_removed_comments"`
}
