// Package research provides the source adapters ("researchers") that
// discover candidate leads for a seed target, one per platform.
//
// Each researcher drives an LLM agent with a platform-specific prompt and
// converts its JSON output into typed leads through a strict
// parse-then-validate step. Researchers assign each lead's Score and
// ConfidenceTier at discovery time using platform heuristics; those values
// travel with the lead and survive merging unchanged.
package research

import (
	"context"
	"fmt"
	"log"

	"github.com/tenexhq/sourcer/internal/lead"
)

// Researcher searches one platform for candidate leads.
type Researcher interface {
	// Source returns the platform tag used in outcome reporting and
	// per-source counters, e.g. "github".
	Source() string

	// SearchKey derives the search term for a seed target, e.g. the
	// "owner/repo" path for GitHub or the bare repo name for forums.
	SearchKey(target lead.SeedTarget) string

	// Research returns zero or more leads for the target, or an error. It
	// must only return data or fail; it never writes shared state.
	Research(ctx context.Context, target lead.SeedTarget) ([]lead.Lead, error)
}

// Outcome is the result of one researcher call for one target. A failure is
// carried as a string so a failing researcher can never abort the run; an
// outcome never has both leads and an error.
type Outcome struct {
	Source string
	Target string
	Leads  []lead.Lead
	Err    string
}

// Run invokes a researcher and converts any error or panic into an Outcome.
func Run(ctx context.Context, r Researcher, target lead.SeedTarget) (outcome Outcome) {
	key := r.SearchKey(target)
	outcome = Outcome{Source: r.Source(), Target: key}

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[RESEARCH] %s researcher panicked for %s: %v", r.Source(), key, rec)
			outcome.Leads = nil
			outcome.Err = fmt.Sprintf("%s researcher failed for %s: panic: %v", r.Source(), key, rec)
		}
	}()

	leads, err := r.Research(ctx, target)
	if err != nil {
		outcome.Err = fmt.Sprintf("%s researcher failed for %s: %v", r.Source(), key, err)
		return outcome
	}
	outcome.Leads = leads
	return outcome
}

func capScore(score int) int {
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}
