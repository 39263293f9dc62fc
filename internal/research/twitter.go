package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tenexhq/sourcer/internal/ai"
	"github.com/tenexhq/sourcer/internal/lead"
)

const twitterResearchPrompt = `You are a Twitter research agent. Search Twitter (via Nitter mirrors or web search) for recent tweets discussing the given project. For each relevant tweet, capture the author's handle, the tweet text, and like/retweet counts.

Only report tweets that actually discuss the project. Never invent handles or engagement numbers.

Return ONLY a JSON object in this exact format, with no other text:
{
  "results": [
    {
      "twitterHandle": "string (required, without the @ prefix)",
      "tweetText": "string",
      "likes": 0,
      "retweets": 0
    }
  ]
}`

// tweetResult is the raw shape the agent reports.
type tweetResult struct {
	TwitterHandle string `json:"twitterHandle"`
	TweetText     string `json:"tweetText"`
	Likes         int    `json:"likes"`
	Retweets      int    `json:"retweets"`
}

// TwitterResearcher searches Twitter chatter about a project.
type TwitterResearcher struct {
	completer ai.Completer
}

var _ Researcher = (*TwitterResearcher)(nil)

// NewTwitterResearcher creates a researcher for Twitter search.
func NewTwitterResearcher(completer ai.Completer) *TwitterResearcher {
	return &TwitterResearcher{completer: completer}
}

func (r *TwitterResearcher) Source() string { return "twitter" }

func (r *TwitterResearcher) SearchKey(target lead.SeedTarget) string {
	return target.RepoName()
}

func (r *TwitterResearcher) Research(ctx context.Context, target lead.SeedTarget) ([]lead.Lead, error) {
	query := r.SearchKey(target)
	prompt := fmt.Sprintf("%s\n\n## Search Query\n%s\n\nSearch Twitter for tweets about %q and return the results in the specified JSON format.",
		twitterResearchPrompt, query, query)

	output, err := r.completer.Complete(ctx, ai.CompletionRequest{
		Prompt:    prompt,
		Operation: "twitter-research",
	})
	if err != nil {
		return nil, err
	}

	return parseTwitterOutput(output, query), nil
}

func parseTwitterOutput(output, query string) []lead.Lead {
	raw, ok := ai.ExtractJSONObject(output, "results")
	if !ok {
		return nil
	}

	var data struct {
		Results []tweetResult `json:"results"`
	}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil
	}

	leads := make([]lead.Lead, 0, len(data.Results))
	for _, tweet := range data.Results {
		handle := strings.TrimPrefix(strings.TrimSpace(tweet.TwitterHandle), "@")
		if handle == "" {
			continue
		}
		tweet.TwitterHandle = handle

		leads = append(leads, lead.Lead{
			// The handle stands in as the identity until enrichment maps it
			// to a code-hosting account.
			Identity:       handle,
			SocialHandle:   handle,
			DiscoveredFrom: []string{fmt.Sprintf("twitter:%s", query)},
			ConfidenceTier: twitterConfidenceTier(tweet),
			Score:          twitterScore(tweet),
		})
	}
	return leads
}

// twitterConfidenceTier rates a tweet by engagement.
func twitterConfidenceTier(tweet tweetResult) lead.ConfidenceTier {
	engagement := tweet.Likes + tweet.Retweets
	if engagement >= 100 {
		return lead.TierHigh
	}
	if engagement >= 20 || tweet.Likes >= 10 {
		return lead.TierMedium
	}
	return lead.TierLow
}

// twitterScore: likes are worth up to 40 points (1 per 2.5 likes), retweets
// up to 30, plus 10 each for non-empty text and handle.
func twitterScore(tweet tweetResult) int {
	score := int(float64(tweet.Likes) / 2.5)
	if score > 40 {
		score = 40
	}
	if score < 0 {
		score = 0
	}

	retweets := tweet.Retweets
	if retweets > 30 {
		retweets = 30
	}
	if retweets < 0 {
		retweets = 0
	}
	score += retweets

	if strings.TrimSpace(tweet.TweetText) != "" {
		score += 10
	}
	if tweet.TwitterHandle != "" {
		score += 10
	}

	return capScore(score)
}
