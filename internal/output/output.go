// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output renders screened articles as CSV, console text, JSON, or YAML.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubmed-screen/pkg/types"
)

// Multi-value cells are joined with "; " in CSV files and ", " on the console.
const (
	fileDelim    = "; "
	consoleDelim = ", "
)

// csvHeader matches the column layout downstream spreadsheets expect.
var csvHeader = []string{
	"PubmedID",
	"Title",
	"Publication Date",
	"Non-academic Author(s)",
	"Company Affiliation(s)",
	"Corresponding Author Email(s)",
}

// WriteCSV writes articles as CSV rows to w, one row per article.
func WriteCSV(w io.Writer, articles []types.Article) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, a := range articles {
		row := []string{
			a.PMID,
			a.Title,
			a.Date,
			strings.Join(a.Authors, fileDelim),
			strings.Join(a.Affiliations, fileDelim),
			strings.Join(a.Emails, fileDelim),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row for %s: %w", a.PMID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}

// FormatConsole writes a human-readable block per article to w.
func FormatConsole(w io.Writer, articles []types.Article) {
	if len(articles) == 0 {
		fmt.Fprintln(w, "No articles with company-affiliated authors found.")
		return
	}

	for _, a := range articles {
		fmt.Fprintln(w, strings.Repeat("-", 70))
		fmt.Fprintf(w, "PMID:           %s\n", a.PMID)
		fmt.Fprintf(w, "Title:          %s\n", a.Title)
		fmt.Fprintf(w, "Date:           %s\n", a.Date)
		fmt.Fprintf(w, "Author(s):      %s\n", strings.Join(a.Authors, consoleDelim))
		fmt.Fprintf(w, "Affiliation(s): %s\n", strings.Join(a.Affiliations, consoleDelim))
		fmt.Fprintf(w, "Email(s):       %s\n", strings.Join(a.Emails, consoleDelim))
	}
	fmt.Fprintln(w, strings.Repeat("-", 70))
	fmt.Fprintf(w, "%d article(s)\n", len(articles))
}

// FormatJSON writes articles as indented JSON to w.
func FormatJSON(w io.Writer, articles []types.Article) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(articles)
}

// WriteYAML writes articles as YAML to w.
func WriteYAML(w io.Writer, articles []types.Article) error {
	data, err := yaml.Marshal(articles)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}
