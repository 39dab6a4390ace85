package moderation

import "github.com/studymesh/tutorcore/core"

// TopicChecker flags inappropriate subject matter and, separately, phrases
// signalling harmful intent. The two outcomes carry distinct check types so
// the pipeline can escalate harmful intent harder than an off-limits topic.
type TopicChecker struct {
	topics  []string
	harmful []string
}

// NewTopicChecker builds the checker with the stock phrase lists.
func NewTopicChecker() *TopicChecker {
	return &TopicChecker{
		topics: []string{
			"gambling", "casino", "betting odds",
			"recreational drugs", "buy drugs", "get high",
			"pornography", "explicit content",
			"buy a gun", "buy weapons", "firearms dealer",
		},
		harmful: []string{
			"how to hurt", "hurt someone", "hurt myself",
			"how to kill", "kill someone",
			"make a bomb", "build a weapon",
			"hack into", "steal from", "poison someone",
		},
	}
}

func (c *TopicChecker) Name() string { return "inappropriate_topic" }

func (c *TopicChecker) Check(text string, _ Context) core.SafetyCheck {
	q := normalize(text)
	if phrase, ok := containsAny(q, c.harmful); ok {
		return failed("harmful_intent", 0.95, "harmful intent phrase: "+phrase)
	}
	if phrase, ok := containsAny(q, c.topics); ok {
		return failed("inappropriate_topic", 0.85, "restricted topic: "+phrase)
	}
	return passed("inappropriate_topic", 0.9)
}
