package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tenexhq/sourcer/internal/ai"
	"github.com/tenexhq/sourcer/internal/gate"
	"github.com/tenexhq/sourcer/internal/jobs"
	"github.com/tenexhq/sourcer/internal/lead"
	"github.com/tenexhq/sourcer/internal/orchestrator"
	"github.com/tenexhq/sourcer/internal/research"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run each seed target as a separate tracked job",
	Long: `Scan runs the pipeline once per seed target, tracking each as a job
with its own summary. A target whose run fails completely does not stop
the remaining targets.

Example:
  sourcer scan
  sourcer scan --targets=seeds.yaml --store=sqlite`,
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

		orch, err := orchestrator.New(&orchestrator.Config{
			Researchers: []research.Researcher{
				research.NewGitHubResearcher(client),
				research.NewHNResearcher(client),
				research.NewTwitterResearcher(client),
			},
			Gate:        validator,
			StoreConfig: storeConfig(),
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		fmt.Printf("\n%s\n\n", cyan(fmt.Sprintf("=== Scanning %d targets ===", len(targets))))

		jobStore := jobs.NewStore()
		for _, target := range targets {
			id := jobStore.Create(target)
			if err := jobStore.SetRunning(id); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}

			fmt.Printf("Scanning %s...\n", target.URL)
			summary := orch.Run(ctx, []lead.SeedTarget{target})

			if summary.TotalLeadsPersisted == 0 && len(summary.Errors) > 0 {
				if err := jobStore.Fail(id, summary.Errors[0]); err != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				}
			} else if err := jobStore.Complete(id, summary); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}

		fmt.Printf("\n%s\n", cyan("=== Scan results ==="))
		failures := 0
		for _, job := range jobStore.List() {
			switch job.State {
			case jobs.StateDone:
				fmt.Printf("  %s %s: %d found, %d persisted, %d errors\n",
					green("✓"), job.Target.RepoPath(),
					job.Summary.TotalLeadsFound, job.Summary.TotalLeadsPersisted,
					len(job.Summary.Errors))
			case jobs.StateFailed:
				failures++
				fmt.Printf("  %s %s: %s\n", red("✗"), job.Target.RepoPath(), job.Err)
			}
		}
		fmt.Println()

		if failures == len(targets) && failures > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
