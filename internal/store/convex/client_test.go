package convex

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenexhq/sourcer/internal/lead"
)

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)

	_, err = New("   ")
	assert.Error(t, err)
}

func TestUpsertLeadSendsMutation(t *testing.T) {
	var captured mutationRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/mutation", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := New(server.URL)
	require.NoError(t, err)

	l := &lead.Lead{
		Identity:       "octocat",
		Name:           "Octo Cat",
		Email:          "octo@example.com",
		DiscoveredFrom: []string{"github-contributors:o/r"},
		ConfidenceTier: lead.TierHigh,
		Score:          85,
	}
	require.NoError(t, client.UpsertLead(context.Background(), l))

	assert.Equal(t, "prospects:upsertProspect", captured.Path)
	args, ok := captured.Args.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "octocat", args["githubUsername"])
	assert.Equal(t, "Octo Cat", args["name"])
	assert.Equal(t, "new", args["status"])
	assert.NotContains(t, args, "company", "empty optional fields are omitted")
}

func TestUpsertLeadBackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := New(server.URL)
	require.NoError(t, err)

	l := &lead.Lead{
		Identity:       "octocat",
		DiscoveredFrom: []string{"twitter:repo"},
		ConfidenceTier: lead.TierLow,
		Score:          10,
	}
	err = client.UpsertLead(context.Background(), l)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upsert prospect")
}

func TestLogRunSendsMutation(t *testing.T) {
	var captured mutationRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := New(server.URL)
	require.NoError(t, err)

	started := time.Now().Add(-time.Minute)
	run := &lead.SourcingRun{
		StartedAt:           started,
		CompletedAt:         time.Now(),
		TotalLeadsFound:     5,
		TotalLeadsPersisted: 3,
		Errors:              []string{"twitter researcher failed for repo: timeout"},
	}
	require.NoError(t, client.LogRun(context.Background(), run))

	assert.Equal(t, "sourcingRuns:createSourcingRun", captured.Path)
	args, ok := captured.Args.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(3), args["prospectsFound"])
	errs, ok := args["errors"].([]any)
	require.True(t, ok)
	assert.Len(t, errs, 1)
}

func TestLogRunEmptyErrorsEncodesAsArray(t *testing.T) {
	var rawBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, _ := New(server.URL)
	run := &lead.SourcingRun{StartedAt: time.Now(), CompletedAt: time.Now()}
	require.NoError(t, client.LogRun(context.Background(), run))
	assert.Contains(t, string(rawBody), `"errors":[]`)
}
