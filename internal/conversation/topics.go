// ABOUTME: Context tracker: accumulates entity labels across past turns
// ABOUTME: Scans every turn by default; UserTurnsOnly restricts the scan to user turns

package conversation

import (
	"github.com/elliotchance/pie/v2"

	"github.com/mauromedda/pi-offline-go/internal/entity"
)

// TopicOption configures AccumulateTopics.
type TopicOption func(*topicOptions)

type topicOptions struct {
	userOnly bool
}

// UserTurnsOnly skips assistant turns, whose canned replies repeat vocabulary
// the user never typed.
func UserTurnsOnly() TopicOption {
	return func(o *topicOptions) { o.userOnly = true }
}

// AccumulateTopics runs the entity extractor over each turn, oldest first, and
// concatenates the labels. Duplicates are kept; the most recent mention is last.
func AccumulateTopics(h History, opts ...TopicOption) []entity.Label {
	var o topicOptions
	for _, opt := range opts {
		opt(&o)
	}

	var topics []entity.Label
	for _, t := range h {
		if o.userOnly && t.Role != RoleUser {
			continue
		}
		topics = append(topics, entity.Extract(t.Content).Labels()...)
	}
	return topics
}

// LatestTopic returns the most recently mentioned topic.
func LatestTopic(topics []entity.Label) (entity.Label, bool) {
	if len(topics) == 0 {
		return "", false
	}
	return pie.Last(topics), true
}

// DistinctTopics returns topics with repeats removed, most recent first.
func DistinctTopics(topics []entity.Label) []entity.Label {
	var out []entity.Label
	for _, l := range pie.Reverse(topics) {
		if !pie.Contains(out, l) {
			out = append(out, l)
		}
	}
	return out
}
