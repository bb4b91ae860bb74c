// ABOUTME: Entity extractor: scans text against every entity rule in table order
// ABOUTME: Returns an ordered, duplicate-free Set; empty or foreign text yields an empty Set

package entity

import (
	"github.com/elliotchance/pie/v2"

	"github.com/mauromedda/pi-offline-go/internal/textnorm"
)

// Set is an ordered collection of unique labels. Order follows the entity table.
// The zero value is an empty set.
type Set struct {
	labels []Label
}

// NewSet builds a Set from labels, dropping duplicates and keeping first occurrence.
func NewSet(labels ...Label) Set {
	var out []Label
	for _, l := range labels {
		if !pie.Contains(out, l) {
			out = append(out, l)
		}
	}
	return Set{labels: out}
}

// Labels returns a copy of the labels in order.
func (s Set) Labels() []Label {
	out := make([]Label, len(s.labels))
	copy(out, s.labels)
	return out
}

// Len returns the number of labels.
func (s Set) Len() int {
	return len(s.labels)
}

// IsEmpty reports whether the set has no labels.
func (s Set) IsEmpty() bool {
	return len(s.labels) == 0
}

// Has reports whether l is in the set.
func (s Set) Has(l Label) bool {
	return pie.Contains(s.labels, l)
}

// HasAny reports whether any of ls is in the set.
func (s Set) HasAny(ls ...Label) bool {
	return pie.Any(ls, s.Has)
}

// HasCategory reports whether any label of category c is in the set.
func (s Set) HasCategory(c Category) bool {
	return pie.Any(s.labels, func(l Label) bool { return CategoryOf(l) == c })
}

// First returns the first label of category c in table order.
func (s Set) First(c Category) (Label, bool) {
	i := pie.FindFirstUsing(s.labels, func(l Label) bool { return CategoryOf(l) == c })
	if i < 0 {
		return "", false
	}
	return s.labels[i], true
}

// Strings returns the labels as plain strings, for JSON and logs.
func (s Set) Strings() []string {
	return pie.Map(s.labels, func(l Label) string { return string(l) })
}

// Extract scans text against every entity rule and returns the labels of all
// matching rules in table order. A rule contributes its label at most once no
// matter how often its terms occur. Extract never fails.
func Extract(text string) Set {
	return ExtractFolded(textnorm.Fold(text))
}

// ExtractFolded is Extract for text already passed through textnorm.Fold.
func ExtractFolded(folded string) Set {
	if textnorm.IsBlank(folded) {
		return Set{}
	}

	var labels []Label
	for _, r := range rules {
		if r.matcher.Match(folded) {
			labels = append(labels, r.label)
		}
	}
	return Set{labels: labels}
}
