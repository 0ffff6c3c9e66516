package output

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

const maxFollowUps = 3

// minTopicLen filters out glue words that survive the stopword table.
const minTopicLen = 5

var followUpTemplates = []string{
	"Would you like more detail on %s?",
	"Should I walk through an example of %s?",
	"Do you want to know how %s compares to alternatives?",
}

var topicStopwords = map[string]struct{}{
	"about": {}, "above": {}, "after": {}, "again": {}, "answer": {},
	"because": {}, "before": {}, "being": {}, "below": {}, "between": {},
	"could": {}, "doing": {}, "during": {}, "every": {}, "first": {},
	"should": {}, "their": {}, "there": {}, "these": {}, "thing": {},
	"things": {}, "think": {}, "those": {}, "through": {}, "under": {},
	"until": {}, "using": {}, "where": {}, "which": {}, "while": {},
	"would": {}, "other": {}, "often": {}, "example": {},
	"usually": {}, "generally": {}, "however": {}, "therefore": {},
}

// Suggestions derives follow-up question suggestions from the answer's
// recurring topic words: the most frequent substantive words are
// treated as topics, each phrased as a question from a fixed template.
// Output is bounded and deterministic for a given answer.
func Suggestions(answer string) []string {
	counts := map[string]int{}
	firstSeen := map[string]int{}

	pos := 0
	for _, raw := range strings.FieldsFunc(answer, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		word := strings.ToLower(raw)
		pos++
		if len(word) < minTopicLen {
			continue
		}
		if _, stop := topicStopwords[word]; stop {
			continue
		}
		if _, seen := counts[word]; !seen {
			firstSeen[word] = pos
		}
		counts[word]++
	}

	topics := make([]string, 0, len(counts))
	for w := range counts {
		topics = append(topics, w)
	}
	sort.Slice(topics, func(i, j int) bool {
		if counts[topics[i]] != counts[topics[j]] {
			return counts[topics[i]] > counts[topics[j]]
		}
		return firstSeen[topics[i]] < firstSeen[topics[j]]
	})

	if len(topics) > maxFollowUps {
		topics = topics[:maxFollowUps]
	}
	suggestions := make([]string, 0, len(topics))
	for i, topic := range topics {
		suggestions = append(suggestions, fmt.Sprintf(followUpTemplates[i], topic))
	}
	return suggestions
}
