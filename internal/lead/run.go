package lead

import "time"

// SourcingRun summarizes one execution of the full pipeline across a set of
// seed targets. It is created at run start, mutated only by the
// orchestrator, and handed to the persistence backend exactly once at run
// end. Callers always receive a populated summary, even on fatal
// configuration errors.
type SourcingRun struct {
	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt"`

	// TotalLeadsFound is the post-merge, pre-validation candidate count.
	TotalLeadsFound int `json:"totalLeadsFound"`

	// TotalLeadsPersisted counts only successful upserts.
	TotalLeadsPersisted int `json:"totalLeadsPersisted"`

	// Errors accumulates human-readable failure strings from researchers,
	// persistence, and run logging, in the order they occurred. Validation
	// rejections are deliberate filtering and never appear here.
	Errors []string `json:"errors"`

	// LeadsBySource counts raw (pre-merge) leads per source tag.
	LeadsBySource map[string]int `json:"leadsBySource"`
}

// Duration returns the wall-clock time the run took.
func (r *SourcingRun) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}
