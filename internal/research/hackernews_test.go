package research

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenexhq/sourcer/internal/lead"
)

func TestHNResearchParsesStories(t *testing.T) {
	response := `{
  "results": [
    {"title": "Show HN: agent-browser", "author": "builder1", "points": 150, "url": "https://example.com/post"},
    {"title": "agent-browser discussion", "author": "lurker", "points": 12},
    {"title": "orphan story", "author": "", "points": 99}
  ]
}`

	r := NewHNResearcher(&fakeCompleter{response: response})
	leads, err := r.Research(context.Background(), testTarget)
	require.NoError(t, err)
	require.Len(t, leads, 2, "stories without an author are dropped")

	first := leads[0]
	assert.Equal(t, "builder1", first.Identity)
	assert.Equal(t, []string{"hacker-news:agent-browser"}, first.DiscoveredFrom)
	assert.Equal(t, lead.TierHigh, first.ConfidenceTier)
	// 50 (points capped) + 20 url + 10 title
	assert.Equal(t, 80, first.Score)

	second := leads[1]
	assert.Equal(t, lead.TierLow, second.ConfidenceTier)
	// 12 points + 10 title
	assert.Equal(t, 22, second.Score)
}

func TestHNConfidenceTier(t *testing.T) {
	tests := []struct {
		name  string
		story hnStory
		want  lead.ConfidenceTier
	}{
		{"high points with url", hnStory{Points: 150, URL: "https://x.com"}, lead.TierHigh},
		{"high points without url", hnStory{Points: 150}, lead.TierMedium},
		{"url only", hnStory{Points: 3, URL: "https://x.com"}, lead.TierMedium},
		{"low engagement", hnStory{Points: 5}, lead.TierLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hnConfidenceTier(tt.story))
		})
	}
}

func TestHNResearchUnparseableOutput(t *testing.T) {
	r := NewHNResearcher(&fakeCompleter{response: "No discussions found."})
	leads, err := r.Research(context.Background(), testTarget)
	require.NoError(t, err)
	assert.Empty(t, leads)
}
