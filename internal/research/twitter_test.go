package research

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenexhq/sourcer/internal/lead"
)

func TestTwitterResearchParsesTweets(t *testing.T) {
	response := `{
  "results": [
    {"twitterHandle": "@devfan", "tweetText": "agent-browser is great", "likes": 250, "retweets": 80},
    {"twitterHandle": "quietuser", "tweetText": "", "likes": 2, "retweets": 0},
    {"twitterHandle": "  ", "tweetText": "anonymous", "likes": 50, "retweets": 10}
  ]
}`

	r := NewTwitterResearcher(&fakeCompleter{response: response})
	leads, err := r.Research(context.Background(), testTarget)
	require.NoError(t, err)
	require.Len(t, leads, 2, "tweets without a handle are dropped")

	first := leads[0]
	assert.Equal(t, "devfan", first.Identity, "leading @ is stripped")
	assert.Equal(t, "devfan", first.SocialHandle)
	assert.Equal(t, []string{"twitter:agent-browser"}, first.DiscoveredFrom)
	assert.Equal(t, lead.TierHigh, first.ConfidenceTier)
	// 40 (likes capped) + 30 (retweets capped) + 10 text + 10 handle
	assert.Equal(t, 90, first.Score)

	second := leads[1]
	assert.Equal(t, lead.TierLow, second.ConfidenceTier)
	// 0 likes bonus (2/2.5 floors to 0) + 0 retweets + 0 text + 10 handle
	assert.Equal(t, 10, second.Score)
}

func TestTwitterConfidenceTier(t *testing.T) {
	tests := []struct {
		name  string
		tweet tweetResult
		want  lead.ConfidenceTier
	}{
		{"viral", tweetResult{Likes: 80, Retweets: 30}, lead.TierHigh},
		{"moderate engagement", tweetResult{Likes: 15, Retweets: 10}, lead.TierMedium},
		{"likes threshold", tweetResult{Likes: 10}, lead.TierMedium},
		{"quiet", tweetResult{Likes: 3, Retweets: 1}, lead.TierLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, twitterConfidenceTier(tt.tweet))
		})
	}
}

func TestTwitterResearchUnparseableOutput(t *testing.T) {
	r := NewTwitterResearcher(&fakeCompleter{response: "The sandbox timed out before returning results."})
	leads, err := r.Research(context.Background(), testTarget)
	require.NoError(t, err)
	assert.Empty(t, leads)
}
