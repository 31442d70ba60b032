package profile

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed domains.yaml
var defaultDomainTable []byte

// DomainEntry supplies supplemental keywords and context-preference tags for
// one known domain.
type DomainEntry struct {
	Name     string   `yaml:"name"`
	Aliases  []string `yaml:"aliases"`
	Keywords []string `yaml:"keywords"`
	Tags     []string `yaml:"tags"`
}

// ContextTag is a context preference with the phrases that satisfy it.
type ContextTag struct {
	Name     string   `yaml:"name"`
	Triggers []string `yaml:"triggers"`
}

// DomainTable is the static persona-domain lookup table, loaded once at
// builder construction and never mutated afterwards.
type DomainTable struct {
	Domains []DomainEntry `yaml:"domains"`
	Tags    []ContextTag  `yaml:"tags"`
}

// LoadDomainTable reads a table from path, or the embedded default when path
// is empty.
func LoadDomainTable(path string) (*DomainTable, error) {
	data := defaultDomainTable
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read domain table: %w", err)
		}
	}
	var t DomainTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse domain table: %w", err)
	}
	return &t, nil
}

// Match returns the entry for a persona domain string, using case-insensitive
// substring matching in both directions ("Tourism" matches alias "tourism",
// "tourism" matches domain "Tourism & Travel"). Returns nil when unknown.
func (t *DomainTable) Match(domain string) *DomainEntry {
	d := strings.ToLower(strings.TrimSpace(domain))
	if d == "" {
		return nil
	}
	for i := range t.Domains {
		for _, alias := range t.Domains[i].Aliases {
			a := strings.ToLower(alias)
			if strings.Contains(d, a) || strings.Contains(a, d) {
				return &t.Domains[i]
			}
		}
	}
	return nil
}

// Tag resolves a tag name to its trigger set. Tags named by a domain entry
// but missing from the trigger table resolve to nil and are dropped.
func (t *DomainTable) Tag(name string) *ContextTag {
	for i := range t.Tags {
		if strings.EqualFold(t.Tags[i].Name, name) {
			return &t.Tags[i]
		}
	}
	return nil
}
