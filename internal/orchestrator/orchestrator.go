// Package orchestrator drives a sourcing run: fan out researchers across
// seed targets, merge the findings, pass each candidate through the
// validation gate, persist what survives, and log the run.
//
// Failure semantics: no single target, researcher, validation call, or
// persistence call can abort a run. Every recoverable failure becomes a
// string in the summary's error list. The only fatal condition is a
// persistence backend that cannot be constructed, and even that returns a
// populated (zero-count) summary rather than an error.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tenexhq/sourcer/internal/events"
	"github.com/tenexhq/sourcer/internal/gate"
	"github.com/tenexhq/sourcer/internal/lead"
	"github.com/tenexhq/sourcer/internal/merge"
	"github.com/tenexhq/sourcer/internal/research"
	"github.com/tenexhq/sourcer/internal/store"
)

// DefaultCallTimeout bounds each external call (researcher, gate, store).
// The researchers are expected to manage their own timeouts; this is the
// backstop that keeps a hung call from stalling the run forever.
const DefaultCallTimeout = 5 * time.Minute

// StoreFactory constructs the persistence backend at run start. Its failure
// is the one fatal configuration error.
type StoreFactory func() (store.Store, error)

// Config holds orchestrator dependencies.
type Config struct {
	Researchers []research.Researcher
	Gate        gate.Gate

	// NewStore is called once per run. If nil, StoreConfig is used with the
	// default backend construction.
	NewStore    StoreFactory
	StoreConfig *store.Config

	// Events receives run progress; optional.
	Events *events.Broadcaster

	// CallTimeout overrides DefaultCallTimeout when positive.
	CallTimeout time.Duration
}

// Orchestrator coordinates sourcing runs. Two concurrent runs share no
// state beyond the injected collaborators.
type Orchestrator struct {
	researchers []research.Researcher
	gate        gate.Gate
	newStore    StoreFactory
	events      *events.Broadcaster
	callTimeout time.Duration
}

// New creates an orchestrator.
func New(cfg *Config) (*Orchestrator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if len(cfg.Researchers) == 0 {
		return nil, fmt.Errorf("at least one researcher is required")
	}
	if cfg.Gate == nil {
		return nil, fmt.Errorf("validation gate is required")
	}

	factory := cfg.NewStore
	if factory == nil {
		storeCfg := cfg.StoreConfig
		factory = func() (store.Store, error) { return store.New(storeCfg) }
	}

	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}

	return &Orchestrator{
		researchers: cfg.Researchers,
		gate:        cfg.Gate,
		newStore:    factory,
		events:      cfg.Events,
		callTimeout: timeout,
	}, nil
}

// Run executes the full pipeline for the given targets and returns the run
// summary. The summary is always fully populated; callers never see a
// panic or an error value from a run.
func (o *Orchestrator) Run(ctx context.Context, targets []lead.SeedTarget) *lead.SourcingRun {
	runID := uuid.New().String()
	summary := &lead.SourcingRun{
		StartedAt:     time.Now(),
		LeadsBySource: make(map[string]int, len(o.researchers)),
	}
	for _, r := range o.researchers {
		summary.LeadsBySource[r.Source()] = 0
	}

	o.publish(events.New(events.TypeRunStarted, runID,
		fmt.Sprintf("sourcing run started for %d targets", len(targets))))

	// The persistence backend must exist before any researcher is invoked;
	// without it there is nowhere to put results.
	st, err := o.newStore()
	if err != nil {
		summary.Errors = append(summary.Errors,
			fmt.Sprintf("Failed to create persistence client: %v", err))
		summary.CompletedAt = time.Now()
		o.publish(events.New(events.TypeRunCompleted, runID, "run aborted: no persistence client"))
		return summary
	}
	defer st.Close()

	rawLeads := o.collectLeads(ctx, runID, targets, summary)

	merged := merge.Merge(rawLeads)
	summary.TotalLeadsFound = len(merged.Leads)
	o.publish(events.New(events.TypeMergeCompleted, runID,
		fmt.Sprintf("merged %d raw leads into %d candidates", len(rawLeads), len(merged.Leads))).
		WithData(map[string]any{
			"raw":       len(rawLeads),
			"merged":    len(merged.Leads),
			"collapsed": merged.Collapsed,
			"invalid":   merged.DroppedInvalid,
		}))

	o.validateAndPersist(ctx, runID, st, merged.Leads, summary)

	summary.CompletedAt = time.Now()

	// The summary is never lost to a logging failure; the error is recorded
	// and the populated summary still returned.
	logCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	if err := st.LogRun(logCtx, summary); err != nil {
		summary.Errors = append(summary.Errors,
			fmt.Sprintf("Failed to log sourcing run: %v", err))
	}
	cancel()

	o.publish(events.New(events.TypeRunCompleted, runID,
		fmt.Sprintf("run completed: %d found, %d persisted, %d errors",
			summary.TotalLeadsFound, summary.TotalLeadsPersisted, len(summary.Errors))))

	return summary
}

// collectLeads fans all (target x researcher) calls out concurrently and
// gathers the outcomes. The raw lead list is assembled in completion order;
// that order feeds the merge engine's first-seen-wins rules, so it is
// intentionally not normalized.
func (o *Orchestrator) collectLeads(ctx context.Context, runID string, targets []lead.SeedTarget, summary *lead.SourcingRun) []lead.Lead {
	outcomes := make(chan research.Outcome)
	var wg sync.WaitGroup

	for _, target := range targets {
		for _, r := range o.researchers {
			wg.Add(1)
			go func(r research.Researcher, target lead.SeedTarget) {
				defer wg.Done()
				callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
				defer cancel()
				outcomes <- research.Run(callCtx, r, target)
			}(r, target)
		}
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	// Single-reader aggregation: the error list and per-source counters are
	// only touched here, so concurrent completions cannot lose updates.
	var rawLeads []lead.Lead
	for outcome := range outcomes {
		if outcome.Err != "" {
			summary.Errors = append(summary.Errors, outcome.Err)
			o.publish(events.New(events.TypeResearcherFailed, runID, outcome.Err))
			continue
		}
		rawLeads = append(rawLeads, outcome.Leads...)
		summary.LeadsBySource[outcome.Source] += len(outcome.Leads)
		o.publish(events.New(events.TypeResearcherCompleted, runID,
			fmt.Sprintf("%s found %d leads for %s", outcome.Source, len(outcome.Leads), outcome.Target)))
	}
	return rawLeads
}

// validateAndPersist gates each candidate and upserts the accepted ones.
// The gate is called once per candidate with a single-element array; a nil
// result is a deliberate filter outcome and records no error.
func (o *Orchestrator) validateAndPersist(ctx context.Context, runID string, st store.Store, candidates []lead.Lead, summary *lead.SourcingRun) {
	for i := range candidates {
		candidate := &candidates[i]

		payload, err := json.Marshal([]lead.Lead{*candidate})
		if err != nil {
			// Leads are plain data; this should be unreachable. Treat it
			// like any other rejection.
			log.Printf("[ORCH] Failed to encode candidate %s: %v", candidate.Identity, err)
			continue
		}

		gateCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
		validated := o.gate.Validate(gateCtx, string(payload))
		cancel()

		if len(validated) == 0 {
			o.publish(events.New(events.TypeLeadRejected, runID,
				fmt.Sprintf("validation dropped %s", candidate.Identity)))
			continue
		}

		// Persist the gate's cleaned copy, not the original candidate.
		accepted := validated[0]
		o.publish(events.New(events.TypeLeadValidated, runID,
			fmt.Sprintf("validated %s", accepted.Identity)))

		upsertCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
		err = st.UpsertLead(upsertCtx, &accepted)
		cancel()

		if err != nil {
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("Failed to persist lead %s: %v", accepted.Identity, err))
			o.publish(events.New(events.TypePersistenceFailed, runID,
				fmt.Sprintf("failed to persist %s", accepted.Identity)))
			continue
		}

		summary.TotalLeadsPersisted++
		o.publish(events.New(events.TypeLeadPersisted, runID,
			fmt.Sprintf("persisted %s", accepted.Identity)))
	}
}

func (o *Orchestrator) publish(event events.Event) {
	if o.events != nil {
		o.events.Publish(event)
	}
}
