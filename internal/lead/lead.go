// Package lead defines the candidate contributor data model shared by the
// researchers, merge engine, validation gate, and persistence backends.
package lead

import (
	"fmt"
	"regexp"
	"strings"
)

// ConfidenceTier is a coarse trust label assigned to a lead at discovery time
// by the researcher that produced it.
type ConfidenceTier string

const (
	TierHigh   ConfidenceTier = "high"
	TierMedium ConfidenceTier = "medium"
	TierLow    ConfidenceTier = "low"
)

// IsValid returns true if the tier is one of the recognized values.
func (t ConfidenceTier) IsValid() bool {
	switch t {
	case TierHigh, TierMedium, TierLow:
		return true
	}
	return false
}

// Lead is a candidate contributor discovered from one or more sources.
//
// Identity is the sole merge key (case folded for comparison, stored casing
// preserved). All other string fields are optional enrichment populated
// incrementally as evidence accumulates. A Lead is immutable once it has
// passed the validation gate; only the pre-validation merge step may mutate
// a working copy.
type Lead struct {
	// Identity is the platform-neutral handle used as the primary dedup key.
	Identity string `json:"githubUsername"`

	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	EmailSource  string `json:"emailSource,omitempty"`
	SocialHandle string `json:"twitterHandle,omitempty"`
	Company      string `json:"company,omitempty"`
	Location     string `json:"location,omitempty"`
	Bio          string `json:"bio,omitempty"`

	// DiscoveredFrom tags identify which source and target produced this
	// lead, e.g. "github-contributors:owner/repo". Insertion order is
	// preserved for display; equality is set-based.
	DiscoveredFrom []string `json:"discoveredFrom"`

	ConfidenceTier ConfidenceTier `json:"confidenceTier"`

	// Score is a 0-100 strength signal assigned by the researcher that
	// discovered the lead. The merge engine never recomputes it.
	Score int `json:"score"`
}

// Validate checks that the lead satisfies the schema invariants.
func (l *Lead) Validate() error {
	if strings.TrimSpace(l.Identity) == "" {
		return fmt.Errorf("identity cannot be empty")
	}
	if len(l.DiscoveredFrom) == 0 {
		return fmt.Errorf("lead %q has no discovery sources", l.Identity)
	}
	if l.Score < 0 || l.Score > 100 {
		return fmt.Errorf("score must be between 0 and 100 (got %d)", l.Score)
	}
	if !l.ConfidenceTier.IsValid() {
		return fmt.Errorf("unrecognized confidence tier %q", l.ConfidenceTier)
	}
	return nil
}

// Clone returns a deep copy safe to mutate during merging.
func (l *Lead) Clone() *Lead {
	c := *l
	c.DiscoveredFrom = append([]string(nil), l.DiscoveredFrom...)
	return &c
}

// NormalizeIdentity folds an identity for merge-key comparison. The stored
// casing of the first-seen lead is never altered by merging.
func NormalizeIdentity(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}

// Category classifies a seed target.
type Category string

const (
	CategoryAgents  Category = "agents"
	CategorySDKs    Category = "sdks"
	CategoryAITools Category = "ai-tools"
)

// IsValid returns true if the category is one of the recognized values.
func (c Category) IsValid() bool {
	switch c {
	case CategoryAgents, CategorySDKs, CategoryAITools:
		return true
	}
	return false
}

// SeedTarget is a configured unit of work: a repository URL plus a category
// tag. Targets come from static configuration and are read-only during a run.
type SeedTarget struct {
	URL      string   `json:"url" yaml:"url"`
	Category Category `json:"category" yaml:"category"`
}

var repoPathRegex = regexp.MustCompile(`github\.com/([^/]+/[^/]+)`)

// RepoPath extracts the "owner/repo" portion of the target URL. Falls back
// to the raw URL when it does not look like a GitHub URL.
func (t SeedTarget) RepoPath() string {
	if m := repoPathRegex.FindStringSubmatch(t.URL); m != nil {
		return m[1]
	}
	return t.URL
}

// RepoName returns the last path segment of the target URL, used as the
// search term for forum and social lookups.
func (t SeedTarget) RepoName() string {
	trimmed := strings.TrimRight(t.URL, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
