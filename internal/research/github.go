package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tenexhq/sourcer/internal/ai"
	"github.com/tenexhq/sourcer/internal/lead"
)

const githubResearchPrompt = `You are a GitHub research agent. Given a repository, identify its most active contributors and gather their public profile information: username, display name, public email, company, location, bio, Twitter handle, and approximate contribution count.

Only report information that is publicly visible. Never fabricate emails or handles.

Return ONLY a JSON object in this exact format, with no other text:
{
  "contributors": [
    {
      "username": "string (required)",
      "name": "string (optional)",
      "email": "string (optional)",
      "emailSource": "string (optional, e.g. github-profile or commit-metadata)",
      "company": "string (optional)",
      "location": "string (optional)",
      "bio": "string (optional)",
      "twitter": "string (optional)",
      "contributions": 0
    }
  ]
}`

// githubContributor is the raw shape the agent reports.
type githubContributor struct {
	Username      string `json:"username"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	EmailSource   string `json:"emailSource,omitempty"`
	Company       string `json:"company,omitempty"`
	Location      string `json:"location,omitempty"`
	Bio           string `json:"bio,omitempty"`
	Twitter       string `json:"twitter,omitempty"`
	Contributions int    `json:"contributions"`
}

// GitHubResearcher extracts contributors from a repository.
type GitHubResearcher struct {
	completer ai.Completer
}

var _ Researcher = (*GitHubResearcher)(nil)

// NewGitHubResearcher creates a researcher for GitHub contributor search.
func NewGitHubResearcher(completer ai.Completer) *GitHubResearcher {
	return &GitHubResearcher{completer: completer}
}

func (r *GitHubResearcher) Source() string { return "github" }

func (r *GitHubResearcher) SearchKey(target lead.SeedTarget) string {
	return target.RepoPath()
}

func (r *GitHubResearcher) Research(ctx context.Context, target lead.SeedTarget) ([]lead.Lead, error) {
	repo := r.SearchKey(target)
	prompt := fmt.Sprintf("%s\n\n## Target Repository\n%s\n\nResearch this repository and return the contributor data in the specified JSON format.",
		githubResearchPrompt, repo)

	output, err := r.completer.Complete(ctx, ai.CompletionRequest{
		Prompt:    prompt,
		Operation: "github-research",
	})
	if err != nil {
		return nil, err
	}

	return parseContributorOutput(output, repo), nil
}

// parseContributorOutput converts agent output to leads. Unparseable output
// yields no leads rather than an error: an agent that found nothing and an
// agent that rambled are treated the same.
func parseContributorOutput(output, repo string) []lead.Lead {
	raw, ok := ai.ExtractJSONObject(output, "contributors")
	if !ok {
		return nil
	}

	var data struct {
		Contributors []githubContributor `json:"contributors"`
	}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil
	}

	leads := make([]lead.Lead, 0, len(data.Contributors))
	for _, c := range data.Contributors {
		if strings.TrimSpace(c.Username) == "" {
			continue
		}

		l := lead.Lead{
			Identity:       c.Username,
			DiscoveredFrom: []string{fmt.Sprintf("github-contributors:%s", repo)},
			ConfidenceTier: githubConfidenceTier(c),
			Score:          githubScore(c),
		}
		l.Name = c.Name
		if c.Email != "" {
			l.Email = c.Email
			l.EmailSource = c.EmailSource
			if l.EmailSource == "" {
				l.EmailSource = "github-profile"
			}
		}
		l.Company = c.Company
		l.Location = c.Location
		l.Bio = c.Bio
		l.SocialHandle = c.Twitter

		leads = append(leads, l)
	}
	return leads
}

// githubConfidenceTier rates a contributor by profile completeness and
// activity.
func githubConfidenceTier(c githubContributor) lead.ConfidenceTier {
	hasEmail := c.Email != ""
	hasName := c.Name != ""
	hasCompany := c.Company != ""
	highContributions := c.Contributions >= 10

	if hasEmail && hasName && (hasCompany || highContributions) {
		return lead.TierHigh
	}
	if hasName && (hasEmail || hasCompany || highContributions) {
		return lead.TierMedium
	}
	return lead.TierLow
}

// githubScore: contributions are worth up to 40 points (2 per contribution),
// profile completeness up to 60.
func githubScore(c githubContributor) int {
	score := c.Contributions * 2
	if score > 40 {
		score = 40
	}

	if c.Name != "" {
		score += 15
	}
	if c.Email != "" {
		score += 20
	}
	if c.Company != "" {
		score += 10
	}
	if c.Location != "" {
		score += 5
	}
	if c.Bio != "" {
		score += 5
	}
	if c.Twitter != "" {
		score += 5
	}

	return capScore(score)
}
