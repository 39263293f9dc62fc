package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tenexhq/sourcer/internal/lead"
	"github.com/tenexhq/sourcer/internal/scoring"
)

var scoreTop int

var scoreCmd = &cobra.Command{
	Use:   "score <leads.json>",
	Short: "Re-score a JSON file of leads and rank them",
	Long: `Score reads a JSON array of leads, recomputes each lead's score from
its contribution type, discovery sources, and profile completeness, and
prints them ranked by descending score.

This is an offline ranking tool; it does not modify stored leads.

Example:
  sourcer score leads.json
  sourcer score leads.json --top=10`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to read %s: %v\n", args[0], err)
			os.Exit(1)
		}

		var leads []lead.Lead
		if err := json.Unmarshal(data, &leads); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to parse %s: %v\n", args[0], err)
			os.Exit(1)
		}

		ranked := scoring.RankLeads(leads)
		if scoreTop > 0 && scoreTop < len(ranked) {
			ranked = ranked[:scoreTop]
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s\n\n", cyan(fmt.Sprintf("=== %d leads ranked ===", len(ranked))))
		for i, entry := range ranked {
			tierColor := gray
			switch entry.Result.Tier {
			case scoring.TierHigh:
				tierColor = green
			case scoring.TierMid:
				tierColor = yellow
			}

			fmt.Printf("%3d. %-24s %4d  %s\n",
				i+1, entry.Lead.Identity, entry.Result.Score, tierColor(string(entry.Result.Tier)))
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().IntVar(&scoreTop, "top", 0, "Only show the top N leads (0 = all)")
}
