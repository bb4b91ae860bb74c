// ABOUTME: Rule-table intent classifier with strict-greater replacement and baseline default
// ABOUTME: Pure and allocation-light; one Classifier is shared by every conversation

package intent

import (
	"github.com/mauromedda/pi-offline-go/internal/textnorm"
)

// ClassifierConfig holds configuration for the intent classifier.
type ClassifierConfig struct {
	Rules    []Rule  // Priority-ordered table; nil means DefaultRules().
	Baseline float64 // Confidence of the default intent (default BaselineConfidence).
}

// Classifier assigns exactly one intent to an utterance.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	rules    []Rule
	baseline float64
}

// NewClassifier creates a classifier with the given config, applying defaults.
func NewClassifier(cfg ClassifierConfig) *Classifier {
	if cfg.Rules == nil {
		cfg.Rules = defaultRules
	}
	if cfg.Baseline == 0 {
		cfg.Baseline = BaselineConfidence
	}
	rules := make([]Rule, len(cfg.Rules))
	copy(rules, cfg.Rules)
	return &Classifier{rules: rules, baseline: cfg.Baseline}
}

var defaultClassifier = NewClassifier(ClassifierConfig{})

// Classify determines the intent of text with the built-in rule table.
func Classify(text string) Classification {
	return defaultClassifier.Classify(text)
}

// Classify determines the intent of text.
func (c *Classifier) Classify(text string) Classification {
	return c.ClassifyFolded(textnorm.Fold(text))
}

// ClassifyFolded determines the intent of text already passed through textnorm.Fold.
//
// Rules are visited in table order. A matching rule replaces the running best
// only when its weight is strictly greater, so among equal weights the earliest
// rule wins. Blank text, or text no rule matches, yields IntentGeneral at the
// baseline confidence.
func (c *Classifier) ClassifyFolded(folded string) Classification {
	result := Classification{
		Intent:     IntentGeneral,
		Confidence: c.baseline,
		Source:     "default",
	}
	if textnorm.IsBlank(folded) {
		return result
	}

	winner := -1
	for _, r := range c.rules {
		term, ok := r.matcher.First(folded)
		if !ok {
			continue
		}
		result.Signals = append(result.Signals, Signal{
			Intent: r.Intent,
			Weight: r.Weight,
			Term:   term,
		})
		if r.Weight > result.Confidence {
			result.Intent = r.Intent
			result.Confidence = r.Weight
			result.Source = "rule"
			winner = len(result.Signals) - 1
		}
	}

	if winner >= 0 {
		result.Signals[winner].Won = true
	}
	return result
}
