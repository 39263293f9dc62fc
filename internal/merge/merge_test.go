package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenexhq/sourcer/internal/lead"
)

func makeLead(identity string, sources ...string) lead.Lead {
	return lead.Lead{
		Identity:       identity,
		DiscoveredFrom: sources,
		ConfidenceTier: lead.TierLow,
		Score:          10,
	}
}

func TestMergeNoDuplicates(t *testing.T) {
	leads := []lead.Lead{
		makeLead("alice", "github-contributors:o/r"),
		makeLead("bob", "hacker-news:r"),
		makeLead("carol", "twitter:r"),
	}

	result := Merge(leads)
	assert.Len(t, result.Leads, 3)
	assert.Equal(t, 0, result.Collapsed)
	assert.Equal(t, 0, result.DroppedInvalid)
}

func TestMergeCaseInsensitiveIdentity(t *testing.T) {
	leads := []lead.Lead{
		makeLead("OctoCat", "github-contributors:o/r"),
		makeLead("octocat", "hacker-news:r"),
	}

	result := Merge(leads)
	require.Len(t, result.Leads, 1)
	assert.Equal(t, 1, result.Collapsed)

	// Stored casing of the first-seen lead is preserved.
	assert.Equal(t, "OctoCat", result.Leads[0].Identity)
}

func TestMergeUnionsDiscoverySources(t *testing.T) {
	leads := []lead.Lead{
		makeLead("alice", "github-contributors:o/r", "comment:o/r"),
		makeLead("alice", "hacker-news:r", "comment:o/r"),
	}

	result := Merge(leads)
	require.Len(t, result.Leads, 1)
	assert.Equal(t,
		[]string{"github-contributors:o/r", "comment:o/r", "hacker-news:r"},
		result.Leads[0].DiscoveredFrom)
}

func TestMergeFirstNonEmptyWins(t *testing.T) {
	a := makeLead("alice", "github-contributors:o/r")
	a.Name = "Alice"

	b := makeLead("alice", "hacker-news:r")
	b.Name = "A. Liddell"
	b.Email = "b@x.com"

	result := Merge([]lead.Lead{a, b})
	require.Len(t, result.Leads, 1)

	merged := result.Leads[0]
	assert.Equal(t, "Alice", merged.Name)
	assert.Equal(t, "b@x.com", merged.Email)
}

func TestMergeRetainsFirstSeenScoreAndTier(t *testing.T) {
	a := makeLead("alice", "github-contributors:o/r")
	a.Score = 80
	a.ConfidenceTier = lead.TierHigh

	b := makeLead("alice", "twitter:r")
	b.Score = 20
	b.ConfidenceTier = lead.TierLow

	result := Merge([]lead.Lead{a, b})
	require.Len(t, result.Leads, 1)
	assert.Equal(t, 80, result.Leads[0].Score)
	assert.Equal(t, lead.TierHigh, result.Leads[0].ConfidenceTier)
}

func TestMergeIdempotence(t *testing.T) {
	leads := []lead.Lead{
		makeLead("alice", "github-contributors:o/r"),
		makeLead("ALICE", "hacker-news:r"),
		makeLead("bob", "twitter:r"),
	}

	first := Merge(leads)
	second := Merge(first.Leads)

	assert.Equal(t, first.Leads, second.Leads)
	assert.Equal(t, 0, second.Collapsed)
}

func TestMergeDropsInvalidLeads(t *testing.T) {
	leads := []lead.Lead{
		{Identity: "", DiscoveredFrom: []string{"github-contributors:o/r"}},
		{Identity: "alice"},
		makeLead("bob", "twitter:r"),
	}

	result := Merge(leads)
	assert.Len(t, result.Leads, 1)
	assert.Equal(t, 2, result.DroppedInvalid)
	assert.Equal(t, "bob", result.Leads[0].Identity)
}

func TestMergeDoesNotMutateInput(t *testing.T) {
	a := makeLead("alice", "github-contributors:o/r")
	b := makeLead("alice", "hacker-news:r")
	input := []lead.Lead{a, b}

	Merge(input)
	assert.Equal(t, []string{"github-contributors:o/r"}, input[0].DiscoveredFrom)
	assert.Equal(t, []string{"hacker-news:r"}, input[1].DiscoveredFrom)
}

func TestMergeEmptyInput(t *testing.T) {
	result := Merge(nil)
	assert.Empty(t, result.Leads)
}
