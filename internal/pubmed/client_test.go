// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/pubmed-screen/pkg/types"
)

func testCfg() types.SearchConfig {
	return types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "test/0.1",
		},
		MaxResults: 20,
	}
}

const sampleESearchXML = `<?xml version="1.0" encoding="UTF-8"?>
<eSearchResult>
  <Count>3</Count>
  <RetMax>3</RetMax>
  <RetStart>0</RetStart>
  <IdList>
    <Id>38012345</Id>
    <Id>38099999</Id>
    <Id>37555555</Id>
  </IdList>
</eSearchResult>`

func TestSearch(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, sampleESearchXML)
	}))
	defer ts.Close()

	old := esearchAPIBase
	esearchAPIBase = ts.URL
	defer func() { esearchAPIBase = old }()

	c := &Client{HTTPClient: ts.Client(), Cfg: testCfg()}
	ids, err := c.Search(context.Background(), "cancer immunotherapy")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	want := []string{"38012345", "38099999", "37555555"}
	if len(ids) != len(want) {
		t.Fatalf("len(ids) = %d, want %d", len(ids), len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}

	for _, param := range []string{"db=pubmed", "retmode=xml", "retmax=20"} {
		if !strings.Contains(gotQuery, param) {
			t.Errorf("request query %q should contain %q", gotQuery, param)
		}
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	c := &Client{HTTPClient: http.DefaultClient, Cfg: testCfg()}
	_, err := c.Search(context.Background(), "   ")
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Errorf("expected empty query error, got: %v", err)
	}
}

func TestSearchAPIKeyAttached(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, sampleESearchXML)
	}))
	defer ts.Close()

	old := esearchAPIBase
	esearchAPIBase = ts.URL
	defer func() { esearchAPIBase = old }()

	cfg := testCfg()
	cfg.APIKey = "nk_abc"
	cfg.Email = "user@example.com"

	c := &Client{HTTPClient: ts.Client(), Cfg: cfg}
	if _, err := c.Search(context.Background(), "aspirin"); err != nil {
		t.Fatalf("Search: %v", err)
	}

	if !strings.Contains(gotQuery, "api_key=nk_abc") {
		t.Errorf("request query %q should contain api_key", gotQuery)
	}
	if !strings.Contains(gotQuery, "email=user%40example.com") {
		t.Errorf("request query %q should contain email", gotQuery)
	}
}

func TestSearchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	old := esearchAPIBase
	esearchAPIBase = ts.URL
	defer func() { esearchAPIBase = old }()

	c := &Client{HTTPClient: ts.Client(), Cfg: testCfg()}
	_, err := c.Search(context.Background(), "aspirin")
	if err == nil || !strings.Contains(err.Error(), "HTTP 400") {
		t.Errorf("expected HTTP 400 error, got: %v", err)
	}
}

func TestFetch(t *testing.T) {
	const payload = `<PubmedArticleSet></PubmedArticleSet>`
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, payload)
	}))
	defer ts.Close()

	old := efetchAPIBase
	efetchAPIBase = ts.URL
	defer func() { efetchAPIBase = old }()

	c := &Client{HTTPClient: ts.Client(), Cfg: testCfg()}
	body, err := c.Fetch(context.Background(), []string{"38012345", "38099999"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(body) != payload {
		t.Errorf("body = %q, want raw payload", body)
	}
	if !strings.Contains(gotQuery, "id=38012345%2C38099999") {
		t.Errorf("request query %q should contain comma-joined IDs", gotQuery)
	}
}

func TestFetchNoIDs(t *testing.T) {
	c := &Client{HTTPClient: http.DefaultClient, Cfg: testCfg()}
	_, err := c.Fetch(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "no PMIDs") {
		t.Errorf("expected no PMIDs error, got: %v", err)
	}
}
