// Package scoring provides the standalone lead re-scorer used for ranking
// and display.
//
// This scorer is independent of the per-researcher heuristics that assign a
// lead's Score and ConfidenceTier at discovery time. The two mechanisms are
// deliberately kept separate: the discovery-time values are what the merge
// engine preserves and what gets persisted, while this scorer evaluates any
// lead uniformly regardless of which researcher produced it. Unifying them
// would change tier assignments that downstream consumers already see.
package scoring

import (
	"sort"
	"strings"

	"github.com/tenexhq/sourcer/internal/lead"
)

// ContributionType classifies the strongest kind of engagement evidenced by
// a lead's discovery source tags.
type ContributionType string

const (
	ContributionMergedPR ContributionType = "merged_pr"
	ContributionOpenPR   ContributionType = "open_pr"
	ContributionIssue    ContributionType = "issue"
	ContributionComment  ContributionType = "comment"
	ContributionStar     ContributionType = "star"
	ContributionUnknown  ContributionType = "unknown"
)

// Tier is the coarse rank bucket produced by the re-scorer. Note "mid"
// rather than the discovery-time "medium"; the two scales are independent.
type Tier string

const (
	TierHigh Tier = "high"
	TierMid  Tier = "mid"
	TierLow  Tier = "low"
)

// Result holds the outcome of re-scoring a single lead.
type Result struct {
	Score int  `json:"score"`
	Tier  Tier `json:"tier"`
}

// Base points per contribution type.
var contributionScores = map[ContributionType]int{
	ContributionMergedPR: 40,
	ContributionOpenPR:   30,
	ContributionIssue:    20,
	ContributionComment:  10,
	ContributionStar:     5,
	ContributionUnknown:  0,
}

// Bonus points for each discovery source beyond the first.
const multiSourceBonus = 10

// Bonus points for profile completeness.
const (
	bonusEmail    = 8
	bonusSocial   = 5
	bonusName     = 3
	bonusCompany  = 3
	bonusBio      = 2
	bonusLocation = 2
)

// Tier thresholds.
const (
	thresholdHigh = 70
	thresholdMid  = 40
)

// ExtractContributionType scans the discovery source tags in order and
// returns the classification of the first tag that names a known
// contribution type. Tags like "github-contributors:owner/repo" imply merged
// PRs, since contributor listings only include authors of merged work.
func ExtractContributionType(discoveredFrom []string) ContributionType {
	for _, source := range discoveredFrom {
		s := strings.ToLower(source)

		switch {
		case strings.Contains(s, "merged_pr") || strings.Contains(s, "merged-pr"):
			return ContributionMergedPR
		case strings.Contains(s, "open_pr") || strings.Contains(s, "open-pr"):
			return ContributionOpenPR
		case strings.Contains(s, "issue"):
			return ContributionIssue
		case strings.Contains(s, "comment"):
			return ContributionComment
		case strings.Contains(s, "star"):
			return ContributionStar
		case strings.Contains(s, "github-contributors"):
			return ContributionMergedPR
		}
	}
	return ContributionUnknown
}

func contributionScore(discoveredFrom []string) int {
	return contributionScores[ExtractContributionType(discoveredFrom)]
}

func multiSourceScore(discoveredFrom []string) int {
	additional := len(discoveredFrom) - 1
	if additional < 0 {
		additional = 0
	}
	return additional * multiSourceBonus
}

func profileScore(l *lead.Lead) int {
	bonus := 0
	if l.Email != "" {
		bonus += bonusEmail
	}
	if l.SocialHandle != "" {
		bonus += bonusSocial
	}
	if l.Name != "" {
		bonus += bonusName
	}
	if l.Company != "" {
		bonus += bonusCompany
	}
	if l.Bio != "" {
		bonus += bonusBio
	}
	if l.Location != "" {
		bonus += bonusLocation
	}
	return bonus
}

func tierFor(score int) Tier {
	switch {
	case score >= thresholdHigh:
		return TierHigh
	case score >= thresholdMid:
		return TierMid
	default:
		return TierLow
	}
}

// ScoreLead evaluates a lead's signal strength from its contribution type,
// source count, and profile completeness. Deterministic, no I/O, and no
// upper cap: a lead discovered everywhere with a full profile can exceed 100.
func ScoreLead(l *lead.Lead) Result {
	total := contributionScore(l.DiscoveredFrom) +
		multiSourceScore(l.DiscoveredFrom) +
		profileScore(l)

	return Result{
		Score: total,
		Tier:  tierFor(total),
	}
}

// Ranked pairs a lead with its re-scored result for display.
type Ranked struct {
	Lead   *lead.Lead `json:"lead"`
	Result Result     `json:"result"`
}

// RankLeads re-scores every lead and returns them ordered by descending
// score. Ties keep input order (stable sort) so ranking is reproducible for
// a given input sequence.
func RankLeads(leads []lead.Lead) []Ranked {
	ranked := make([]Ranked, 0, len(leads))
	for i := range leads {
		l := &leads[i]
		ranked = append(ranked, Ranked{Lead: l, Result: ScoreLead(l)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Result.Score > ranked[j].Result.Score
	})
	return ranked
}
