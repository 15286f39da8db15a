// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pubmed-screen pipeline.
package types

// Article is one PubMed record that has at least one company-affiliated
// author. The Authors, Affiliations, and Emails slices are parallel: index i
// in each refers to the same author, in document order.
type Article struct {
	// PMID is the PubMed identifier, or "N/A" when the record carries none.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title, or "No Title" when the record carries none.
	Title string `json:"title" yaml:"title"`

	// Date is the publication year or raw MedlineDate string, or "Unknown"
	// when the record carries neither.
	Date string `json:"date" yaml:"date"`

	// Authors lists the full names of company-affiliated authors.
	Authors []string `json:"authors" yaml:"authors"`

	// Affiliations lists the raw affiliation strings, one per author.
	Affiliations []string `json:"affiliations" yaml:"affiliations"`

	// Emails lists the email found in each affiliation, or "N/A" per author.
	Emails []string `json:"emails" yaml:"emails"`
}
