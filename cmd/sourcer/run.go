package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tenexhq/sourcer/internal/ai"
	"github.com/tenexhq/sourcer/internal/config"
	"github.com/tenexhq/sourcer/internal/events"
	"github.com/tenexhq/sourcer/internal/gate"
	"github.com/tenexhq/sourcer/internal/lead"
	"github.com/tenexhq/sourcer/internal/orchestrator"
	"github.com/tenexhq/sourcer/internal/research"
)

var runRepo string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the sourcing pipeline over the seed targets",
	Long: `Run the full sourcing pipeline: research every seed target across all
platforms, merge and validate the findings, and persist accepted leads.

By default the built-in seed list is used; --targets points at a YAML
file, and --repo restricts the run to a single repository.

Example:
  sourcer run
  sourcer run --store=sqlite
  sourcer run --repo=https://github.com/vercel/ai`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		targets, err := resolveTargets()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		client, err := ai.NewClient(nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		validator, err := gate.New(client)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		broadcaster := events.NewBroadcaster()
		defer broadcaster.Close()
		if verbose {
			ch, unsub := broadcaster.Subscribe(1024)
			defer unsub()
			go printEvents(ch)
		}

		orch, err := orchestrator.New(&orchestrator.Config{
			Researchers: []research.Researcher{
				research.NewGitHubResearcher(client),
				research.NewHNResearcher(client),
				research.NewTwitterResearcher(client),
			},
			Gate:        validator,
			StoreConfig: storeConfig(),
			Events:      broadcaster,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Printf("\n%s\n\n", cyan("=== Sourcing Run ==="))
		fmt.Printf("Targets: %d\n\n", len(targets))

		summary := orch.Run(ctx, targets)
		printSummary(summary)

		// Total failure: nothing persisted and at least one error.
		if summary.TotalLeadsPersisted == 0 && len(summary.Errors) > 0 {
			os.Exit(1)
		}
	},
}

// resolveTargets picks the seed list: a single --repo override, a --targets
// file, or the built-in defaults.
func resolveTargets() ([]lead.SeedTarget, error) {
	if runRepo != "" {
		if !strings.Contains(runRepo, "github.com/") {
			return nil, fmt.Errorf("--repo must be a github.com repository URL, got %q", runRepo)
		}
		target := lead.SeedTarget{URL: runRepo, Category: inferCategory(runRepo)}
		return []lead.SeedTarget{target}, nil
	}
	return config.LoadOrDefault(targetsPath)
}

// inferCategory guesses a category from the repository name. Anything with
// "agent" in the name is an agent project; the rest default to ai-tools.
func inferCategory(url string) lead.Category {
	if strings.Contains(strings.ToLower(url), "agent") {
		return lead.CategoryAgents
	}
	return lead.CategoryAITools
}

// printEvents streams verbose progress lines while a run executes.
func printEvents(ch <-chan events.Event) {
	gray := color.New(color.FgHiBlack).SprintFunc()
	for event := range ch {
		fmt.Printf("  %s %s\n", gray(string(event.Type)), event.Message)
	}
}

// printSummary renders the run summary in the standard layout.
func printSummary(summary *lead.SourcingRun) {
	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Printf("\n%s\n", yellow("Results:"))
	fmt.Printf("  Found:     %d\n", summary.TotalLeadsFound)
	fmt.Printf("  Persisted: %s\n", green(fmt.Sprintf("%d", summary.TotalLeadsPersisted)))
	fmt.Printf("  Duration:  %v\n", summary.Duration().Round(time.Second))

	fmt.Printf("\n%s\n", yellow("Leads by source:"))
	sources := make([]string, 0, len(summary.LeadsBySource))
	for source := range summary.LeadsBySource {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	for _, source := range sources {
		fmt.Printf("  %-12s %d\n", source+":", summary.LeadsBySource[source])
	}

	if len(summary.Errors) > 0 {
		fmt.Printf("\n%s\n", red(fmt.Sprintf("Errors (%d):", len(summary.Errors))))
		for _, msg := range summary.Errors {
			fmt.Printf("  %s %s\n", red("✗"), msg)
		}
	} else {
		fmt.Printf("\n%s\n", gray("No errors"))
	}
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runRepo, "repo", "", "Run against a single repository URL instead of the seed list")
}
