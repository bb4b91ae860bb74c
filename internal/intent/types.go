// ABOUTME: Intent labels and classification result types for the offline assistant
// ABOUTME: Intent marshals to its wire label ("how_to", "general") for JSON surfaces

package intent

import (
	"fmt"
	"strings"
)

// Intent represents the coarse purpose of a single utterance.
type Intent int

const (
	IntentGeneral  Intent = iota // Default: no rule matched
	IntentGreeting               // Hello, good morning
	IntentThanks                 // Thank you
	IntentGoodbye                // See you
	IntentCode                   // Write code, show a snippet
	IntentExplain                // What is X
	IntentHowTo                  // How do I X
	IntentCompare                // X vs Y
	IntentDebug                  // Errors, bugs, crashes
)

// BaselineConfidence is the confidence reported for IntentGeneral.
const BaselineConfidence = 0.5

var labels = map[Intent]string{
	IntentGeneral:  "general",
	IntentGreeting: "greeting",
	IntentThanks:   "thanks",
	IntentGoodbye:  "goodbye",
	IntentCode:     "code",
	IntentExplain:  "explain",
	IntentHowTo:    "how_to",
	IntentCompare:  "compare",
	IntentDebug:    "debug",
}

// String returns the wire label of the intent.
func (i Intent) String() string {
	if s, ok := labels[i]; ok {
		return s
	}
	return fmt.Sprintf("unknown(%d)", int(i))
}

// MarshalText implements encoding.TextMarshaler.
func (i Intent) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Intent) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// Parse maps a wire label to an Intent. Matching ignores case and surrounding space.
func Parse(s string) (Intent, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for i, label := range labels {
		if label == want {
			return i, nil
		}
	}
	return IntentGeneral, fmt.Errorf("unknown intent: %q", s)
}

// Classification holds the result of intent classification.
type Classification struct {
	Intent     Intent   `json:"intent"`
	Confidence float64  `json:"confidence"`
	Source     string   `json:"source"`            // "rule" or "default"
	Signals    []Signal `json:"signals,omitempty"` // every rule that fired, in table order
}

// Signal records a rule that fired during classification.
type Signal struct {
	Intent Intent  `json:"intent"`
	Weight float64 `json:"weight"`
	Term   string  `json:"term"` // first matching term of the rule
	Won    bool    `json:"won"`
}
