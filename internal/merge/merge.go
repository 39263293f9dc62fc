// Package merge reconciles duplicate leads produced by multiple researchers
// within a single sourcing run.
//
// Merging is a pure, deterministic, single-pass operation over the collected
// lead list. Because the list is assembled in completion order of the
// concurrent researcher calls, the "first seen wins" rules below make field
// outcomes depend on that order when researchers disagree. That is the
// pipeline's documented behavior; do not replace it with a source-priority
// rule without changing the tests that pin it.
package merge

import (
	"log"

	"github.com/tenexhq/sourcer/internal/lead"
)

// Result carries the merged leads plus counters for run reporting.
type Result struct {
	// Leads is the deduplicated output, one entry per case-folded identity,
	// in first-seen order.
	Leads []lead.Lead

	// DroppedInvalid counts input leads rejected before merging (empty
	// identity or empty discovery source list).
	DroppedInvalid int

	// Collapsed counts input leads that were folded into an earlier lead
	// with the same identity.
	Collapsed int
}

// Merge deduplicates leads by case-folded identity.
//
// On a repeat identity: the discovery source tags are unioned (first-seen
// insertion order, no duplicates); each optional field keeps the first
// non-empty value encountered; Score and ConfidenceTier are never recomputed,
// the first-seen lead's values survive. The stored Identity casing of the
// first-seen lead is preserved.
func Merge(leads []lead.Lead) Result {
	var result Result
	index := make(map[string]int, len(leads))

	for i := range leads {
		l := &leads[i]

		// Defensive filter: researchers should never emit these, but a lead
		// without an identity or discovery source cannot be merged or
		// persisted meaningfully.
		if l.Identity == "" || len(l.DiscoveredFrom) == 0 {
			log.Printf("[MERGE] Dropping invalid lead (identity=%q, sources=%d)",
				l.Identity, len(l.DiscoveredFrom))
			result.DroppedInvalid++
			continue
		}

		key := lead.NormalizeIdentity(l.Identity)
		pos, seen := index[key]
		if !seen {
			index[key] = len(result.Leads)
			result.Leads = append(result.Leads, *l.Clone())
			continue
		}

		mergeInto(&result.Leads[pos], l)
		result.Collapsed++
	}

	return result
}

// mergeInto folds src into dst, which was seen first.
func mergeInto(dst, src *lead.Lead) {
	dst.DiscoveredFrom = unionTags(dst.DiscoveredFrom, src.DiscoveredFrom)

	if dst.Name == "" {
		dst.Name = src.Name
	}
	if dst.Email == "" {
		dst.Email = src.Email
	}
	if dst.EmailSource == "" {
		dst.EmailSource = src.EmailSource
	}
	if dst.SocialHandle == "" {
		dst.SocialHandle = src.SocialHandle
	}
	if dst.Company == "" {
		dst.Company = src.Company
	}
	if dst.Location == "" {
		dst.Location = src.Location
	}
	if dst.Bio == "" {
		dst.Bio = src.Bio
	}
}

// unionTags appends tags from extra that are not already present, preserving
// the existing insertion order.
func unionTags(existing, extra []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(extra))
	for _, tag := range existing {
		seen[tag] = struct{}{}
	}
	for _, tag := range extra {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		existing = append(existing, tag)
	}
	return existing
}
