// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubmed-screen/internal/output"
	"github.com/pdiddy/pubmed-screen/internal/pubmed"
	"github.com/pdiddy/pubmed-screen/internal/screen"
	"github.com/pdiddy/pubmed-screen/internal/store"
	"github.com/pdiddy/pubmed-screen/pkg/types"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxResults = 20
	defaultUserAgent  = "pubmed-screen/0.1"
)

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Search PubMed and keep articles with company-affiliated authors",
	Long: `Screen runs the full pipeline: ESearch the query for PMIDs, EFetch the
records, and keep each article that has at least one author whose stated
affiliation looks commercial (Inc, Ltd, Pharma, Biotech, ...) and not
academic. Output goes to a CSV file with --file, YAML or JSON with --yaml
or --json, and a formatted console listing otherwise.`,
	RunE: runScreen,
}

func init() {
	screenCmd.Flags().String("query", "", "PubMed search query (required)")
	screenCmd.Flags().StringP("file", "f", "", "output CSV filename; prints to console when unset")
	screenCmd.Flags().Int("max", defaultMaxResults, "maximum number of results to fetch")
	screenCmd.Flags().Bool("json", false, "output results as JSON")
	screenCmd.Flags().Bool("yaml", false, "output results as YAML")
	screenCmd.Flags().Bool("save", false, "record this run in the history database")
	screenCmd.Flags().String("db", "", "history database path (default pubmed-screen.db)")
	screenCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	screenCmd.Flags().BoolP("debug", "d", false, "print pipeline progress to stderr")

	rootCmd.AddCommand(screenCmd)
}

func searchConfig(cmd *cobra.Command) types.SearchConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = viper.GetDuration("search.timeout")
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}
	maxResults, _ := cmd.Flags().GetInt("max")
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	return types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		MaxResults: maxResults,
		APIKey:     secretDefault("ncbi-api-key", viper.GetString("search.api_key")),
		Email:      secretDefault("ncbi-email", viper.GetString("search.email")),
	}
}

func runScreen(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	if query == "" {
		return fmt.Errorf("provide a PubMed search query with --query")
	}

	cfg := searchConfig(cmd)
	debug, _ := cmd.Flags().GetBool("debug")

	client := &pubmed.Client{
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		Cfg:        cfg,
	}
	ctx := context.Background()

	if debug {
		fmt.Fprintf(os.Stderr, "searching: %s (max %d)\n", query, cfg.MaxResults)
	}

	ids, err := client.Search(ctx, query)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(os.Stdout, "No articles found for the given query.")
		return nil
	}

	if debug {
		fmt.Fprintf(os.Stderr, "found %d PMIDs, fetching records\n", len(ids))
	}

	data, err := client.Fetch(ctx, ids)
	if err != nil {
		return err
	}

	articles, err := screen.NewExtractor().Extract(data)
	if err != nil {
		return err
	}

	if debug {
		fmt.Fprintf(os.Stderr, "%d article(s) with company authors\n", len(articles))
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		runID, err := saveRun(ctx, cmd, query, cfg.MaxResults, articles)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved as run %d\n", runID)
	}

	return writeScreenOutput(cmd, articles)
}

func saveRun(ctx context.Context, cmd *cobra.Command, query string, maxResults int, articles []types.Article) (int64, error) {
	s, err := store.NewStore(storeConfig(cmd))
	if err != nil {
		return 0, err
	}
	defer s.Close()
	return s.Save(ctx, query, maxResults, articles)
}

func storeConfig(cmd *cobra.Command) types.StoreConfig {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = viper.GetString("store.db_path")
	}
	return types.StoreConfig{DBPath: dbPath}
}

func writeScreenOutput(cmd *cobra.Command, articles []types.Article) error {
	jsonOut, _ := cmd.Flags().GetBool("json")
	yamlOut, _ := cmd.Flags().GetBool("yaml")
	filename, _ := cmd.Flags().GetString("file")

	switch {
	case jsonOut:
		return output.FormatJSON(os.Stdout, articles)
	case yamlOut:
		return output.WriteYAML(os.Stdout, articles)
	case filename != "":
		f, err := os.Create(filename)
		if err != nil {
			return fmt.Errorf("creating %s: %w", filename, err)
		}
		defer f.Close()
		if err := output.WriteCSV(f, articles); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Saved %d result(s) to %s\n", len(articles), filename)
		return nil
	default:
		output.FormatConsole(os.Stdout, articles)
		return nil
	}
}
