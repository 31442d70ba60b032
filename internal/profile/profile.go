// Package profile turns a persona description and a job-to-be-done into the
// weighted keyword profile that drives section scoring. A profile is built
// once per run, is deterministic for identical input, and holds no reference
// to document data.
package profile

import (
	"fmt"
	"sort"
	"strings"
)

// Base weights for each keyword origin. A keyword appearing in both persona
// and job sums both weights: dual-origin keywords are the strongest
// relevance signal.
const (
	PersonaKeywordWeight   = 1.0
	JobKeywordWeight       = 1.0
	DomainSupplementWeight = 1.5
)

// Persona describes the end user whose relevance judgment we approximate.
// Any field may be empty.
type Persona struct {
	Role            string   `json:"role"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
	Domain          string   `json:"domain,omitempty"`
	Goals           []string `json:"goals,omitempty"`
}

// InvalidInputError rejects a run before any document work begins.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// WeightedKeyword is one profile keyword with its merged weight.
type WeightedKeyword struct {
	Keyword string
	Weight  float64
}

// Profile is the derived, run-scoped relevance profile.
type Profile struct {
	Persona Persona
	Job     Job

	weights map[string]float64
	tags    []ContextTag
}

// Keywords returns the profile keywords in deterministic (sorted) order.
// Callers summing weights must use this, not map iteration, so that repeated
// runs produce bit-identical scores.
func (p *Profile) Keywords() []WeightedKeyword {
	out := make([]WeightedKeyword, 0, len(p.weights))
	for k, w := range p.weights {
		out = append(out, WeightedKeyword{Keyword: k, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Keyword < out[j].Keyword })
	return out
}

// Weight returns the merged weight for a keyword, 0 if absent.
func (p *Profile) Weight(keyword string) float64 {
	return p.weights[keyword]
}

// TotalWeight is the sum of all keyword weights.
func (p *Profile) TotalWeight() float64 {
	total := 0.0
	for _, kw := range p.Keywords() {
		total += kw.Weight
	}
	return total
}

// ContextTags returns the resolved context-preference tags, in table order.
func (p *Profile) ContextTags() []ContextTag {
	return p.tags
}

// Builder constructs profiles from persona and job input. Construct once and
// reuse across runs; the domain table is immutable after load.
type Builder struct {
	table    *DomainTable
	tokenize Tokenizer
}

// NewBuilder creates a Builder with the given domain table. A nil tokenizer
// selects DefaultTokenizer.
func NewBuilder(table *DomainTable, tokenize Tokenizer) *Builder {
	if tokenize == nil {
		tokenize = DefaultTokenizer
	}
	return &Builder{table: table, tokenize: tokenize}
}

// Build derives a Profile. The job task must be non-empty; persona fields may
// all be blank, in which case the profile carries job tokens only.
func (b *Builder) Build(persona Persona, task string) (*Profile, error) {
	if strings.TrimSpace(task) == "" {
		return nil, &InvalidInputError{Field: "job.task", Reason: "task description is empty"}
	}

	p := &Profile{
		Persona: persona,
		Job:     DeriveJob(task),
		weights: make(map[string]float64),
	}

	// Persona-derived tokens.
	personaText := strings.Join(append([]string{persona.Role, persona.Domain}, persona.Goals...), " ")
	for _, tok := range b.tokenize(personaText) {
		p.weights[tok] += PersonaKeywordWeight
	}

	// Job-derived tokens. Duplicates merge by summing.
	for _, tok := range b.tokenize(task) {
		p.weights[tok] += JobKeywordWeight
	}

	// Domain supplement: only on a table match, otherwise the profile
	// degrades gracefully to persona/job tokens.
	if entry := b.table.Match(persona.Domain); entry != nil {
		for _, kw := range entry.Keywords {
			p.weights[strings.ToLower(kw)] += DomainSupplementWeight
		}
		for _, tagName := range entry.Tags {
			if tag := b.table.Tag(tagName); tag != nil {
				p.tags = append(p.tags, *tag)
			}
		}
	}

	return p, nil
}
