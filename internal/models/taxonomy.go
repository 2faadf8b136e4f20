package models

import "strings"

// Taxonomy is the closed theme/industry label set injected at job start.
// The pipeline never invents labels of its own; classifier output is
// rejected unless it canonicalizes into one of these sets.
type Taxonomy struct {
	Themes     []string `json:"themes"`
	Industries []string `json:"industries"`
}

func canonical(set []string, label string) (string, bool) {
	needle := strings.TrimSpace(label)
	for _, entry := range set {
		if strings.EqualFold(entry, needle) {
			return entry, true
		}
	}
	return "", false
}

// CanonicalTheme returns the taxonomy's spelling of label, or false when
// the label is out of taxonomy.
func (t Taxonomy) CanonicalTheme(label string) (string, bool) {
	return canonical(t.Themes, label)
}

func (t Taxonomy) CanonicalIndustry(label string) (string, bool) {
	return canonical(t.Industries, label)
}

func (t Taxonomy) IsEmpty() bool {
	return len(t.Themes) == 0 || len(t.Industries) == 0
}
