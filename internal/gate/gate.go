// Package gate implements the validation gate that every merged lead must
// pass before persistence.
//
// The gate is deliberately paranoid: researcher output is model-generated
// text describing external, adversarial content, so nothing past this
// boundary is trusted. Local checks handle JSON shape; a Haiku oracle checks
// the schema and screens for injection-style content. Any failure anywhere,
// including the oracle's own transport errors, rejects the candidate.
// Rejection is a filtering outcome, not a run error.
package gate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/tenexhq/sourcer/internal/ai"
	"github.com/tenexhq/sourcer/internal/lead"
)

// Gate validates a JSON array of candidate leads.
//
// Validate returns the cleaned leads on acceptance, a non-nil empty slice
// for an empty input array, and nil on rejection. Callers must treat nil as
// "drop this candidate" and never as an error.
type Gate interface {
	Validate(ctx context.Context, candidateJSON string) []lead.Lead
}

const validationSystemPrompt = `You are a JSON schema validator. Your task is to validate that the provided JSON matches the expected Lead schema and contains no suspicious or malicious content.

Expected Lead schema:
{
  "githubUsername": string (required),
  "name": string (optional),
  "email": string (optional),
  "emailSource": string (optional),
  "twitterHandle": string (optional),
  "company": string (optional),
  "location": string (optional),
  "bio": string (optional),
  "discoveredFrom": string[] (required),
  "confidenceTier": string (required, should be one of: "high", "medium", "low"),
  "score": number (required, should be between 0 and 100)
}

Rules for validation:
1. The input must be valid JSON
2. It must be an array of Lead objects
3. Each Lead must have required fields: githubUsername, discoveredFrom, confidenceTier, score
4. Score must be a number between 0 and 100
5. confidenceTier should be "high", "medium", or "low"
6. No field should contain suspicious content like SQL injection, XSS payloads, or shell commands
7. GitHub usernames should match the pattern: alphanumeric with hyphens, no special characters
8. Emails if present should look like valid email addresses

Respond with ONLY a JSON object in this exact format:
{"valid": true, "leads": [...cleaned leads array...]}
or
{"valid": false, "reason": "explanation of what failed"}

Do not include any other text, markdown formatting, or explanation outside the JSON.`

// oracleVerdict is the oracle's response shape.
type oracleVerdict struct {
	Valid  bool        `json:"valid"`
	Leads  []lead.Lead `json:"leads,omitempty"`
	Reason string      `json:"reason,omitempty"`
}

// HaikuGate validates candidates with a cost-efficient model.
type HaikuGate struct {
	completer ai.Completer
	model     string
}

// Compile-time check that HaikuGate implements Gate
var _ Gate = (*HaikuGate)(nil)

// New creates a validation gate backed by the given completer.
func New(completer ai.Completer) (*HaikuGate, error) {
	if completer == nil {
		return nil, fmt.Errorf("completer cannot be nil")
	}
	return &HaikuGate{
		completer: completer,
		model:     ai.GetValidationModel(),
	}, nil
}

// Validate checks a JSON array of candidate leads. See the Gate interface
// for the nil/empty/non-nil contract.
func (g *HaikuGate) Validate(ctx context.Context, candidateJSON string) []lead.Lead {
	// Cheap local checks first; no point paying for an oracle call on input
	// that is not even an array.
	var parsed any
	if err := json.Unmarshal([]byte(candidateJSON), &parsed); err != nil {
		return nil
	}
	arr, ok := parsed.([]any)
	if !ok {
		return nil
	}
	if len(arr) == 0 {
		return []lead.Lead{}
	}

	response, err := g.completer.Complete(ctx, ai.CompletionRequest{
		Prompt:    fmt.Sprintf("Validate this JSON array of leads:\n\n%s", candidateJSON),
		System:    validationSystemPrompt,
		Model:     g.model,
		MaxTokens: 4096,
		Operation: "lead-validation",
	})
	if err != nil {
		log.Printf("[GATE] Oracle call failed, rejecting candidate: %v", err)
		return nil
	}

	verdict, ok := parseVerdict(response)
	if !ok {
		log.Printf("[GATE] Oracle returned unparseable verdict, rejecting candidate")
		return nil
	}
	if !verdict.Valid {
		log.Printf("[GATE] Candidate rejected: %s", verdict.Reason)
		return nil
	}
	if verdict.Leads == nil {
		return nil
	}
	return verdict.Leads
}

// parseVerdict decodes the oracle response, tolerating prose or code fences
// around the verdict object.
func parseVerdict(response string) (oracleVerdict, bool) {
	var verdict oracleVerdict
	if err := json.Unmarshal([]byte(response), &verdict); err == nil {
		return verdict, true
	}
	extracted, ok := ai.ExtractJSON(response)
	if !ok {
		return oracleVerdict{}, false
	}
	if err := json.Unmarshal([]byte(extracted), &verdict); err != nil {
		return oracleVerdict{}, false
	}
	return verdict, true
}
