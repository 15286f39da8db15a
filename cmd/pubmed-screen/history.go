// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-screen/internal/output"
	"github.com/pdiddy/pubmed-screen/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse saved screen runs",
	Long: `History lists screen runs saved with --save, newest first. Pass --run
with a run ID to re-display the stored articles for that run.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 0, "maximum runs to list (0 = default)")
	historyCmd.Flags().Int64("run", 0, "show the stored articles for this run ID")
	historyCmd.Flags().Bool("json", false, "output as JSON")
	historyCmd.Flags().String("db", "", "history database path (default pubmed-screen.db)")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := store.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	jsonOut, _ := cmd.Flags().GetBool("json")

	if runID, _ := cmd.Flags().GetInt64("run"); runID != 0 {
		articles, err := s.Articles(ctx, runID)
		if err != nil {
			return err
		}
		if jsonOut {
			return output.FormatJSON(os.Stdout, articles)
		}
		output.FormatConsole(os.Stdout, articles)
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := s.Runs(ctx, limit)
	if err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No saved runs.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-50s  %-20s  %s\n", "Run", "Query", "Saved", "Articles")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for _, r := range runs {
		query := r.Query
		if len(query) > 50 {
			query = query[:47] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-6d  %-50s  %-20s  %d\n",
			r.ID, query, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Articles)
	}
	fmt.Fprintf(os.Stdout, "\n%d run(s)\n", len(runs))
	return nil
}
