// ABOUTME: Conversation-level intent shift tracking across consecutive turns
// ABOUTME: Ignores default-intent turns so small talk does not reset the thread

package intent

import "fmt"

// TransitionDetector follows the dominant intent of a conversation and reports
// when a confident classification moves it somewhere else. It is not safe for
// concurrent use; each conversation owns one.
type TransitionDetector struct {
	current Intent
	turns   map[Intent]int
	path    []Intent
}

// NewTransitionDetector creates a detector positioned at IntentGeneral.
func NewTransitionDetector() *TransitionDetector {
	return &TransitionDetector{
		current: IntentGeneral,
		turns:   make(map[Intent]int),
	}
}

// Transition describes a change of conversational intent.
type Transition struct {
	From   Intent
	To     Intent
	Reason string
}

// Observe records a classification and returns the transition it caused, if any.
// Default-intent turns and turns below the baseline never move the detector.
func (d *TransitionDetector) Observe(c Classification) *Transition {
	d.turns[c.Intent]++

	if c.Intent == IntentGeneral || c.Intent == d.current {
		return nil
	}
	if c.Confidence <= BaselineConfidence {
		return nil
	}

	tr := &Transition{
		From:   d.current,
		To:     c.Intent,
		Reason: fmt.Sprintf("%s -> %s (confidence %.2f)", d.current, c.Intent, c.Confidence),
	}
	d.current = c.Intent
	d.path = append(d.path, c.Intent)
	return tr
}

// Current returns the intent the conversation is currently in.
func (d *TransitionDetector) Current() Intent {
	return d.current
}

// Path returns every intent the detector moved to, oldest first.
func (d *TransitionDetector) Path() []Intent {
	out := make([]Intent, len(d.path))
	copy(out, d.path)
	return out
}

// Count returns how many observed turns were classified as i.
func (d *TransitionDetector) Count(i Intent) int {
	return d.turns[i]
}

// Reset forgets everything observed so far.
func (d *TransitionDetector) Reset() {
	d.current = IntentGeneral
	d.path = nil
	clear(d.turns)
}
