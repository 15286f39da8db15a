// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

import "strings"

// Default marker sets for affiliation classification. Matching is
// case-sensitive and unanchored, mirroring the screening heuristic the
// downstream reports are calibrated against.
var (
	defaultCommercialMarkers = []string{"Inc", "Ltd", "Corporation", "Pharma", "Biotech", "LLC"}
	defaultAcademicMarkers   = []string{"University", "Hospital", "School", "Institute"}
)

// Classifier decides whether a free-text affiliation names a commercial
// organization. An academic marker vetoes any commercial marker, so a
// university spin-off mentioning both classifies as non-commercial. This
// trades recall for precision: a real company whose name contains
// "Institute" is missed on purpose.
type Classifier struct {
	// CommercialMarkers are substrings indicating a for-profit organization.
	CommercialMarkers []string

	// AcademicMarkers are substrings indicating an academic or clinical
	// institution. Any match overrides the commercial markers.
	AcademicMarkers []string
}

// NewClassifier returns a Classifier with the default marker sets.
func NewClassifier() *Classifier {
	return &Classifier{
		CommercialMarkers: defaultCommercialMarkers,
		AcademicMarkers:   defaultAcademicMarkers,
	}
}

// IsCommercial reports whether affiliation names a commercial organization.
// An empty affiliation is never commercial.
func (c *Classifier) IsCommercial(affiliation string) bool {
	if affiliation == "" {
		return false
	}
	for _, m := range c.AcademicMarkers {
		if strings.Contains(affiliation, m) {
			return false
		}
	}
	for _, m := range c.CommercialMarkers {
		if strings.Contains(affiliation, m) {
			return true
		}
	}
	return false
}
