package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tenexhq/sourcer/internal/ai"
	"github.com/tenexhq/sourcer/internal/lead"
)

const hnResearchPrompt = `You are a Hacker News research agent. Search Hacker News (news.ycombinator.com and hn.algolia.com) for stories and discussions mentioning the given project. For each relevant story, capture the title, the submitting author's HN username, the point count, and the linked URL if any.

Only report stories that actually mention the project. Never invent usernames or point counts.

Return ONLY a JSON object in this exact format, with no other text:
{
  "results": [
    {
      "title": "string (required)",
      "author": "string (required, HN username)",
      "points": 0,
      "url": "string or null"
    }
  ]
}`

// hnStory is the raw shape the agent reports.
type hnStory struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Points int    `json:"points"`
	URL    string `json:"url,omitempty"`
}

// HNResearcher searches Hacker News discussions for a project.
type HNResearcher struct {
	completer ai.Completer
}

var _ Researcher = (*HNResearcher)(nil)

// NewHNResearcher creates a researcher for Hacker News search.
func NewHNResearcher(completer ai.Completer) *HNResearcher {
	return &HNResearcher{completer: completer}
}

func (r *HNResearcher) Source() string { return "hackernews" }

func (r *HNResearcher) SearchKey(target lead.SeedTarget) string {
	return target.RepoName()
}

func (r *HNResearcher) Research(ctx context.Context, target lead.SeedTarget) ([]lead.Lead, error) {
	query := r.SearchKey(target)
	prompt := fmt.Sprintf("%s\n\n## Search Query\n%s\n\nSearch Hacker News for discussions about %q and return the results in the specified JSON format.",
		hnResearchPrompt, query, query)

	output, err := r.completer.Complete(ctx, ai.CompletionRequest{
		Prompt:    prompt,
		Operation: "hackernews-research",
	})
	if err != nil {
		return nil, err
	}

	return parseHNOutput(output, query), nil
}

func parseHNOutput(output, query string) []lead.Lead {
	raw, ok := ai.ExtractJSONObject(output, "results")
	if !ok {
		return nil
	}

	var data struct {
		Results []hnStory `json:"results"`
	}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil
	}

	leads := make([]lead.Lead, 0, len(data.Results))
	for _, story := range data.Results {
		if strings.TrimSpace(story.Author) == "" {
			continue
		}

		leads = append(leads, lead.Lead{
			// The HN username stands in as the identity; there is no
			// reliable mapping to a code-hosting handle at discovery time.
			Identity:       story.Author,
			DiscoveredFrom: []string{fmt.Sprintf("hacker-news:%s", query)},
			ConfidenceTier: hnConfidenceTier(story),
			Score:          hnScore(story),
		})
	}
	return leads
}

// hnConfidenceTier rates a story by engagement.
func hnConfidenceTier(story hnStory) lead.ConfidenceTier {
	if story.Points >= 100 && story.URL != "" {
		return lead.TierHigh
	}
	if story.Points >= 50 || story.URL != "" {
		return lead.TierMedium
	}
	return lead.TierLow
}

// hnScore: up to 50 points from upvotes, 20 for a linked URL, 10 for a
// non-empty title.
func hnScore(story hnStory) int {
	score := story.Points
	if score > 50 {
		score = 50
	}
	if score < 0 {
		score = 0
	}

	if story.URL != "" {
		score += 20
	}
	if strings.TrimSpace(story.Title) != "" {
		score += 10
	}

	return capScore(score)
}
