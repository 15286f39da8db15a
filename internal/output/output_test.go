// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubmed-screen/pkg/types"
)

func sampleArticles() []types.Article {
	return []types.Article{
		{
			PMID:         "38012345",
			Title:        "A Novel Kinase Inhibitor",
			Date:         "2023",
			Authors:      []string{"Bob Smith", "Dana Reyes"},
			Affiliations: []string{"Global Biotech LLC, San Diego", "Helix Pharma Ltd, Basel"},
			Emails:       []string{"bsmith@globalbiotech.com", "N/A"},
		},
		{
			PMID:         "N/A",
			Title:        "No Title",
			Date:         "Unknown",
			Authors:      []string{"Pat Okafor"},
			Affiliations: []string{"Acme Inc"},
			Emails:       []string{"N/A"},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleArticles()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading CSV back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3 (header + 2 rows)", len(records))
	}
	if records[0][0] != "PubmedID" {
		t.Errorf("header[0] = %q", records[0][0])
	}
	if records[1][3] != "Bob Smith; Dana Reyes" {
		t.Errorf("authors cell = %q, want semicolon join", records[1][3])
	}
	if records[1][5] != "bsmith@globalbiotech.com; N/A" {
		t.Errorf("emails cell = %q", records[1][5])
	}
	if records[2][0] != "N/A" {
		t.Errorf("second row PMID = %q", records[2][0])
	}
}

func TestFormatConsole(t *testing.T) {
	var buf bytes.Buffer
	FormatConsole(&buf, sampleArticles())
	s := buf.String()

	if !strings.Contains(s, "38012345") {
		t.Error("console output should contain the PMID")
	}
	if !strings.Contains(s, "Bob Smith, Dana Reyes") {
		t.Error("console output should join multi-value fields with comma")
	}
	if !strings.Contains(s, "2 article(s)") {
		t.Error("console output should contain the article count")
	}
}

func TestFormatConsoleEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatConsole(&buf, nil)
	if !strings.Contains(buf.String(), "No articles") {
		t.Error("empty output should say no articles were found")
	}
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatJSON(&buf, sampleArticles()); err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}

	var parsed []types.Article
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("len(parsed) = %d, want 2", len(parsed))
	}
	if parsed[0].PMID != "38012345" {
		t.Errorf("PMID = %q", parsed[0].PMID)
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteYAML(&buf, sampleArticles()); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	var parsed []types.Article
	if err := yaml.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("invalid YAML output: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("len(parsed) = %d, want 2", len(parsed))
	}
	if parsed[1].Title != "No Title" {
		t.Errorf("Title = %q", parsed[1].Title)
	}
}
