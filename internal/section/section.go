// Package section turns parsed document trees into the flat, ordered
// section inputs the scoring pipeline works on.
package section

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dgallion1/docrank/internal/doctree"
)

// Document identifies one member of the analyzed collection.
type Document struct {
	ID       string
	Filename string
	Title    string
	Ordinal  int // position within the collection, 0-based
}

// Section is a contiguous extracted block of document text. It is read-only
// input to the scorer; nothing downstream mutates it.
type Section struct {
	ID         string
	DocumentID string
	DocOrdinal int // ordinal of the owning document in the collection
	Ordinal    int // position within the document, 0-based
	Title      string
	Body       string
	Page       int
	WordCount  int
}

// Limits bounds how much of a document the sectionizer emits.
type Limits struct {
	MaxPerDocument int // sections kept per document (0 = unlimited)
	MaxBodyRunes   int // body truncation point (0 = unlimited)
}

// DefaultLimits matches the batch-processing defaults.
func DefaultLimits() Limits {
	return Limits{
		MaxPerDocument: 50,
		MaxBodyRunes:   10000,
	}
}

// FromTree flattens a DocTree into ordered sections. Node order in the tree
// is document order, so section ordinals preserve reading order. The second
// return value counts text-bearing nodes dropped by the per-document cap; it
// feeds the report's skip accounting so truncation is never silent.
func FromTree(doc Document, tree *doctree.DocTree, lim Limits) ([]Section, int) {
	var sections []Section
	ordinal := 0
	skipped := 0

	tree.Walk(func(n *doctree.DocNode, _ int) {
		body := strings.TrimSpace(n.Text)
		if body == "" {
			return
		}
		if lim.MaxPerDocument > 0 && len(sections) >= lim.MaxPerDocument {
			skipped++
			return
		}
		if lim.MaxBodyRunes > 0 {
			body = truncateRunes(body, lim.MaxBodyRunes)
		}
		sections = append(sections, Section{
			ID:         fmt.Sprintf("%s:s%d", doc.ID, ordinal),
			DocumentID: doc.ID,
			DocOrdinal: doc.Ordinal,
			Ordinal:    ordinal,
			Title:      deriveTitle(n.Title, body, ordinal),
			Body:       body,
			Page:       n.Page,
			WordCount:  len(strings.Fields(body)),
		})
		ordinal++
	})

	return sections, skipped
}

// headerWords are terms that mark a leading line as a heading even without
// heading markup.
var headerWords = []string{
	"chapter", "section", "introduction", "conclusion",
	"overview", "summary", "abstract", "methodology",
}

// deriveTitle uses the node heading when present, otherwise promotes the
// section's first line if it looks like a header.
func deriveTitle(heading, body string, ordinal int) string {
	if heading = strings.TrimSpace(heading); heading != "" {
		return heading
	}
	firstLine := body
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		firstLine = body[:i]
	}
	firstLine = strings.TrimSpace(firstLine)
	if looksLikeHeader(firstLine) {
		return firstLine
	}
	return fmt.Sprintf("Section %d", ordinal+1)
}

func looksLikeHeader(line string) bool {
	if len(line) < 3 || len(line) > 100 {
		return false
	}
	lower := strings.ToLower(line)
	for _, w := range headerWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return isUpperLine(line) || isTitleCaseLine(line)
}

func isUpperLine(line string) bool {
	hasLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func isTitleCaseLine(line string) bool {
	// A sentence-ending line is prose, not a heading.
	if strings.ContainsAny(line, ".!?") {
		return false
	}
	words := strings.Fields(line)
	if len(words) == 0 || len(words) > 8 {
		return false
	}
	for _, w := range words {
		r := []rune(w)[0]
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
