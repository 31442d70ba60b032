package profile

import (
	"regexp"
	"strings"
)

// Tokenizer converts raw text into lowercase word tokens. It is injected so
// segmentation strategies can be swapped without touching scoring logic.
type Tokenizer func(text string) []string

var wordPattern = regexp.MustCompile(`[a-z][a-z0-9'-]*`)

// DefaultTokenizer lowercases, strips punctuation, and drops stop words and
// single-letter tokens.
func DefaultTokenizer(text string) []string {
	lower := strings.ToLower(text)
	words := wordPattern.FindAllString(lower, -1)
	tokens := words[:0]
	for _, w := range words {
		if len(w) < 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// stopWords is the fixed filter set. It intentionally stays small; aggressive
// stop-word removal hurts short persona descriptions.
var stopWords = func() map[string]struct{} {
	words := []string{
		"the", "a", "an", "and", "or", "but", "if", "then", "else",
		"in", "on", "at", "to", "for", "of", "with", "by", "from",
		"up", "about", "into", "through", "during", "before", "after",
		"above", "below", "between", "among", "is", "are", "was", "were",
		"be", "been", "being", "have", "has", "had", "do", "does", "did",
		"will", "would", "could", "should", "may", "might", "must",
		"shall", "can", "i", "you", "he", "she", "it", "we", "they",
		"them", "their", "this", "that", "these", "those", "as", "so",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
