// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package screen filters PubMed records down to articles with
// company-affiliated authors.
package screen

import (
	"encoding/xml"
	"errors"
	"fmt"
	"regexp"

	"github.com/pdiddy/pubmed-screen/pkg/types"
)

// ErrMalformedXML indicates the EFetch response could not be parsed into a
// PubmedArticleSet. Extraction does not begin on a malformed document.
var ErrMalformedXML = errors.New("malformed PubMed XML")

// Sentinels substituted when an optional record field is absent. A field
// that is present but empty stays empty.
const (
	NoPMID  = "N/A"
	NoTitle = "No Title"
	NoDate  = "Unknown"
	NoEmail = "N/A"
)

var emailRE = regexp.MustCompile(`[\w.-]+@[\w.-]+`)

// PubMed EFetch XML structures. Optional leaf elements are pointers so an
// absent element is distinguishable from a present-but-empty one.
type articleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	PMID    *string      `xml:"MedlineCitation>PMID"`
	Title   *string      `xml:"MedlineCitation>Article>ArticleTitle"`
	PubDate *pubDate     `xml:"MedlineCitation>Article>Journal>JournalIssue>PubDate"`
	Authors []authorInfo `xml:"MedlineCitation>Article>AuthorList>Author"`
}

type pubDate struct {
	Year        *string `xml:"Year"`
	MedlineDate *string `xml:"MedlineDate"`
}

type authorInfo struct {
	LastName     *string           `xml:"LastName"`
	ForeName     *string           `xml:"ForeName"`
	Affiliations []affiliationInfo `xml:"AffiliationInfo"`
}

type affiliationInfo struct {
	Affiliation *string `xml:"Affiliation"`
}

// Extractor walks a PubMed article set and keeps, per article, only the
// authors whose affiliation the Classifier accepts as commercial.
type Extractor struct {
	Classifier *Classifier
}

// NewExtractor returns an Extractor using the default Classifier.
func NewExtractor() *Extractor {
	return &Extractor{Classifier: NewClassifier()}
}

// Extract parses raw EFetch XML and returns one Article per PubMed record
// that has at least one company-affiliated author. Records with none are
// dropped. Missing optional fields resolve to sentinels; only a document
// that fails to parse at all is an error, wrapping ErrMalformedXML.
func (e *Extractor) Extract(data []byte) ([]types.Article, error) {
	var set articleSet
	if err := xml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
	}

	var results []types.Article
	for _, rec := range set.Articles {
		article := types.Article{
			PMID:  stringOr(rec.PMID, NoPMID),
			Title: stringOr(rec.Title, NoTitle),
			Date:  resolveDate(rec.PubDate),
		}

		for _, author := range rec.Authors {
			affiliation, ok := firstAffiliation(author)
			if !ok || !e.Classifier.IsCommercial(affiliation) {
				continue
			}
			article.Authors = append(article.Authors, fullName(author))
			article.Affiliations = append(article.Affiliations, affiliation)
			article.Emails = append(article.Emails, extractEmail(affiliation))
		}

		if len(article.Authors) > 0 {
			results = append(results, article)
		}
	}
	return results, nil
}

// stringOr returns *s when the element was present, else the sentinel.
func stringOr(s *string, sentinel string) string {
	if s == nil {
		return sentinel
	}
	return *s
}

// resolveDate prefers the structured Year, falls back to the free-form
// MedlineDate, and never combines the two.
func resolveDate(d *pubDate) string {
	if d == nil {
		return NoDate
	}
	if d.Year != nil {
		return *d.Year
	}
	if d.MedlineDate != nil {
		return *d.MedlineDate
	}
	return NoDate
}

// firstAffiliation returns the first affiliation text for the author, with
// ok false when no AffiliationInfo block carries one.
func firstAffiliation(a authorInfo) (string, bool) {
	for _, info := range a.Affiliations {
		if info.Affiliation != nil {
			return *info.Affiliation, true
		}
	}
	return "", false
}

// fullName joins ForeName and LastName with a single space. A missing
// ForeName leaves the LastName alone; both missing yields "".
func fullName(a authorInfo) string {
	name := ""
	if a.ForeName != nil {
		name = *a.ForeName + " "
	}
	if a.LastName != nil {
		name += *a.LastName
	}
	return name
}

// extractEmail returns the first email-shaped token in the affiliation, or
// the NoEmail sentinel.
func extractEmail(affiliation string) string {
	if m := emailRE.FindString(affiliation); m != "" {
		return m
	}
	return NoEmail
}
