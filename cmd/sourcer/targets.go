package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tenexhq/sourcer/internal/config"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List the seed targets a run would use",
	Long: `Targets prints the seed repository list: the file named by --targets,
or the built-in defaults when no file is given.`,
	Run: func(cmd *cobra.Command, args []string) {
		targets, err := config.LoadOrDefault(targetsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		source := "built-in defaults"
		if targetsPath != "" {
			source = targetsPath
		}
		fmt.Printf("\n%s %s\n\n", cyan("Seed targets:"), gray("("+source+")"))

		for _, target := range targets {
			fmt.Printf("  %-10s %s\n", string(target.Category), target.URL)
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}
