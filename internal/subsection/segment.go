// Package subsection splits high-scoring sections into finer units and
// scores each on keyword density, specificity, and actionability.
package subsection

import (
	"regexp"
	"strings"
)

// SegmentConfig bounds subsection size.
type SegmentConfig struct {
	TargetWords int // greedy merge stops once a unit reaches this many words
	MinSentence int // sentences shorter than this many runes are discarded noise
}

// DefaultSegmentConfig keeps subsections around two to four sentences.
func DefaultSegmentConfig() SegmentConfig {
	return SegmentConfig{
		TargetWords: 60,
		MinSentence: 20,
	}
}

// Segmenter converts a section body into subsection texts. It is injected
// into the Analyzer so splitting strategies can change independently of
// scoring.
type Segmenter func(body string) []string

var sentencePattern = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?]+)`)

// NewSegmenter builds the default strategy: split on terminal punctuation,
// then greedily merge consecutive sentences until the word window fills or a
// paragraph boundary is crossed, whichever comes first. Merging never cuts
// mid-sentence.
func NewSegmenter(cfg SegmentConfig) Segmenter {
	if cfg.TargetWords <= 0 {
		cfg.TargetWords = DefaultSegmentConfig().TargetWords
	}
	if cfg.MinSentence <= 0 {
		cfg.MinSentence = DefaultSegmentConfig().MinSentence
	}

	return func(body string) []string {
		var units []string
		for _, para := range splitParagraphs(body) {
			sentences := splitSentences(para, cfg.MinSentence)
			var current []string
			words := 0
			for _, sent := range sentences {
				current = append(current, sent)
				words += len(strings.Fields(sent))
				if words >= cfg.TargetWords {
					units = append(units, strings.Join(current, " "))
					current, words = nil, 0
				}
			}
			// Paragraph boundary flushes whatever accumulated.
			if len(current) > 0 {
				units = append(units, strings.Join(current, " "))
			}
		}
		return units
	}
}

func splitParagraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitSentences(para string, minRunes int) []string {
	matches := sentencePattern.FindAllString(para, -1)
	if matches == nil {
		if trimmed := refine(para); len([]rune(trimmed)) >= minRunes {
			return []string{trimmed}
		}
		return nil
	}
	var sentences []string
	for _, m := range matches {
		if s := refine(m); len([]rune(s)) >= minRunes {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// refine collapses internal whitespace so emitted text reads as one line.
func refine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
