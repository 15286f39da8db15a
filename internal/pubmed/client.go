// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed queries the NCBI E-utilities API for PubMed records.
package pubmed

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/pubmed-screen/internal/httputil"
	"github.com/pdiddy/pubmed-screen/pkg/types"
)

// E-utilities endpoints. Declared as vars so tests can substitute an
// httptest server.
var (
	esearchAPIBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	efetchAPIBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
)

// Client issues ESearch and EFetch requests against the PubMed database.
type Client struct {
	HTTPClient *http.Client
	Cfg        types.SearchConfig
}

// esearchResult is the subset of the ESearch XML response we consume.
type esearchResult struct {
	XMLName xml.Name `xml:"eSearchResult"`
	IDs     []string `xml:"IdList>Id"`
}

// Search runs an ESearch query and returns matching PMIDs in rank order,
// capped at Cfg.MaxResults (default 20).
func (c *Client) Search(ctx context.Context, query string) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty PubMed query")
	}

	maxResults := c.Cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	params := url.Values{
		"db":      {"pubmed"},
		"term":    {query},
		"retmode": {"xml"},
		"retmax":  {strconv.Itoa(maxResults)},
	}
	c.addIdentity(params)

	body, err := c.get(ctx, esearchAPIBase, params)
	if err != nil {
		return nil, fmt.Errorf("PubMed search: %w", err)
	}

	var result esearchResult
	if err := xml.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parsing ESearch response: %w", err)
	}
	return result.IDs, nil
}

// Fetch runs an EFetch request for the given PMIDs and returns the raw
// PubmedArticleSet XML bytes.
func (c *Client) Fetch(ctx context.Context, ids []string) ([]byte, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("no PMIDs to fetch")
	}

	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(ids, ",")},
		"retmode": {"xml"},
	}
	c.addIdentity(params)

	body, err := c.get(ctx, efetchAPIBase, params)
	if err != nil {
		return nil, fmt.Errorf("PubMed fetch: %w", err)
	}
	return body, nil
}

// addIdentity attaches the optional NCBI api_key and email parameters.
// NCBI grants a higher request budget when an API key is present.
func (c *Client) addIdentity(params url.Values) {
	if c.Cfg.APIKey != "" {
		params.Set("api_key", c.Cfg.APIKey)
	}
	if c.Cfg.Email != "" {
		params.Set("email", c.Cfg.Email)
	}
}

func (c *Client) get(ctx context.Context, base string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.HTTPClient, req, 0)
	if err != nil {
		return nil, fmt.Errorf("E-utilities request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("E-utilities returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}
