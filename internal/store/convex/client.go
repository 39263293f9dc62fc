// Package convex implements the persistence contract against a Convex
// deployment's HTTP mutation API.
package convex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tenexhq/sourcer/internal/lead"
	"golang.org/x/time/rate"
)

const (
	mutationPath   = "/api/mutation"
	requestTimeout = 30 * time.Second

	// The deployment-side functions invoked by the client.
	upsertMutation = "prospects:upsertProspect"
	logRunMutation = "sourcingRuns:createSourcingRun"
)

// Client talks to a Convex deployment. Safe for concurrent use; a shared
// limiter keeps mutation bursts under the deployment's rate limits.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// New creates a client for the given deployment base URL.
func New(baseURL string) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("convex base URL cannot be empty")
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		limiter: rate.NewLimiter(rate.Limit(20), 5),
	}, nil
}

// mutationRequest is the Convex HTTP mutation envelope.
type mutationRequest struct {
	Path string `json:"path"`
	Args any    `json:"args"`
}

// UpsertLead persists an accepted lead as a prospect record. The deployment
// upserts by identity, so re-submitting the same handle updates rather than
// duplicates.
func (c *Client) UpsertLead(ctx context.Context, l *lead.Lead) error {
	args := map[string]any{
		"githubUsername": l.Identity,
		"discoveredFrom": l.DiscoveredFrom,
		"confidenceTier": string(l.ConfidenceTier),
		"score":          l.Score,
		"status":         "new",
		"dateDiscovered": time.Now().UnixMilli(),
	}
	setIfPresent(args, "name", l.Name)
	setIfPresent(args, "email", l.Email)
	setIfPresent(args, "emailSource", l.EmailSource)
	setIfPresent(args, "twitterHandle", l.SocialHandle)
	setIfPresent(args, "company", l.Company)
	setIfPresent(args, "location", l.Location)
	setIfPresent(args, "bio", l.Bio)

	if err := c.mutate(ctx, upsertMutation, args); err != nil {
		return fmt.Errorf("failed to upsert prospect: %w", err)
	}
	return nil
}

// LogRun records the run summary as a sourcingRuns row.
func (c *Client) LogRun(ctx context.Context, run *lead.SourcingRun) error {
	errs := run.Errors
	if errs == nil {
		errs = []string{}
	}
	args := map[string]any{
		"startedAt":      run.StartedAt.UnixMilli(),
		"completedAt":    run.CompletedAt.UnixMilli(),
		"prospectsFound": run.TotalLeadsPersisted,
		"errors":         errs,
	}

	if err := c.mutate(ctx, logRunMutation, args); err != nil {
		return fmt.Errorf("failed to log sourcing run: %w", err)
	}
	return nil
}

// Close implements the store lifecycle; the HTTP client has nothing to release.
func (c *Client) Close() error { return nil }

func (c *Client) mutate(ctx context.Context, path string, args any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(mutationRequest{Path: path, Args: args})
	if err != nil {
		return fmt.Errorf("failed to encode mutation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+mutationPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("convex mutation %s returned %s", path, resp.Status)
	}
	return nil
}

func setIfPresent(args map[string]any, key, value string) {
	if value != "" {
		args[key] = value
	}
}
