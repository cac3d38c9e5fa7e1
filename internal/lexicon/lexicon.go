// Package lexicon holds the static skill vocabulary and role requirement tables.
//
// A Lexicon is parsed once and never mutated afterwards; every accessor returns
// a copy so callers cannot change the shared tables.
package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultTables []byte

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
)

// Lexicon is an immutable set of skill terms and role requirements.
type Lexicon struct {
	skills      []string
	roles       map[string]role
	roleOrder   []string
	resources   map[string]string
	defaultRole string
}

type role struct {
	requires []string
	projects []string
}

type document struct {
	DefaultRole string `yaml:"default-role"`
	Skills      []string
	Roles       []struct {
		Name     string
		Requires []string
		Projects []string
	}
	Resources map[string]string
}

// Default returns the built-in lexicon. It panics if the embedded tables are invalid.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		lex, err := Parse(defaultTables)
		if err != nil {
			panic(fmt.Sprintf("embedded lexicon: %v", err))
		}
		defaultLex = lex
	})
	return defaultLex
}

// Load reads lexicon tables from a YAML file.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon file %q: %w", path, err)
	}

	lex, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("lexicon file %q: %w", path, err)
	}

	return lex, nil
}

// Parse builds a Lexicon from YAML tables. Skill terms are lowercased; every
// role requirement must be a term of the vocabulary.
func Parse(data []byte) (*Lexicon, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}

	if len(doc.Skills) == 0 {
		return nil, fmt.Errorf("lexicon has no skills")
	}

	lex := &Lexicon{
		skills:      make([]string, 0, len(doc.Skills)),
		roles:       make(map[string]role, len(doc.Roles)),
		resources:   make(map[string]string, len(doc.Resources)),
		defaultRole: strings.TrimSpace(doc.DefaultRole),
	}

	known := make(map[string]struct{}, len(doc.Skills))
	for _, raw := range doc.Skills {
		term := normalizeTerm(raw)
		if term == "" {
			return nil, fmt.Errorf("lexicon contains an empty skill term")
		}
		if _, dup := known[term]; dup {
			return nil, fmt.Errorf("duplicate skill term %q", term)
		}
		known[term] = struct{}{}
		lex.skills = append(lex.skills, term)
	}

	for _, r := range doc.Roles {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return nil, fmt.Errorf("role without a name")
		}
		if _, dup := lex.roles[name]; dup {
			return nil, fmt.Errorf("duplicate role %q", name)
		}

		requires := make([]string, 0, len(r.Requires))
		for _, raw := range r.Requires {
			term := normalizeTerm(raw)
			if _, ok := known[term]; !ok {
				return nil, fmt.Errorf("role %q requires unknown skill %q", name, raw)
			}
			requires = append(requires, term)
		}

		lex.roles[name] = role{requires: requires, projects: trimAll(r.Projects)}
		lex.roleOrder = append(lex.roleOrder, name)
	}

	for skill, resource := range doc.Resources {
		term := normalizeTerm(skill)
		if _, ok := known[term]; !ok {
			return nil, fmt.Errorf("resource for unknown skill %q", skill)
		}
		if resource = strings.TrimSpace(resource); resource != "" {
			lex.resources[term] = resource
		}
	}

	return lex, nil
}

// Skills returns the vocabulary in scan order.
func (l *Lexicon) Skills() []string {
	return append([]string(nil), l.skills...)
}

// Required returns the ordered requirements of a role and whether the role is known.
func (l *Lexicon) Required(roleName string) ([]string, bool) {
	r, ok := l.roles[strings.TrimSpace(roleName)]
	if !ok {
		return []string{}, false
	}
	return append([]string{}, r.requires...), true
}

// Projects returns suggested portfolio projects for a role.
func (l *Lexicon) Projects(roleName string) []string {
	r, ok := l.roles[strings.TrimSpace(roleName)]
	if !ok {
		return []string{}
	}
	return append([]string{}, r.projects...)
}

// Resource returns the learning resource for a skill term, matched case-insensitively.
func (l *Lexicon) Resource(skill string) (string, bool) {
	res, ok := l.resources[normalizeTerm(skill)]
	return res, ok
}

// Roles returns the role names in declaration order.
func (l *Lexicon) Roles() []string {
	return append([]string(nil), l.roleOrder...)
}

// DefaultRole is the role analysed when neither the request nor the stored profile names one.
func (l *Lexicon) DefaultRole() string {
	return l.defaultRole
}

func normalizeTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// WithDefaultRole returns a copy of l that falls back to name. The tables are
// shared since neither copy mutates them.
func (l *Lexicon) WithDefaultRole(name string) *Lexicon {
	cp := *l
	cp.defaultRole = strings.TrimSpace(name)
	return &cp
}
