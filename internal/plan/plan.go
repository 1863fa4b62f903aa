// Package plan defines the render plan ("flight plan"): the validated
// configuration object driving one render invocation.
package plan

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultBudget is the token budget applied when a plan omits one.
const DefaultBudget = 20000

// DefaultBoostWeight is the boost multiplier applied when a focus entry
// omits one. Multipliers beyond ~100x drown out graph structure entirely
// and are discouraged, though not rejected.
const DefaultBoostWeight = 10.0

// PathBoost boosts files matching a glob pattern in the centrality ranking.
type PathBoost struct {
	Pattern string  `yaml:"pattern" toml:"pattern" json:"pattern"`
	Weight  float64 `yaml:"weight,omitempty" toml:"weight,omitempty" json:"weight,omitempty"`
}

// SymbolBoost boosts files defining a symbol name in the centrality ranking.
type SymbolBoost struct {
	Name   string  `yaml:"name" toml:"name" json:"name"`
	Weight float64 `yaml:"weight,omitempty" toml:"weight,omitempty" json:"weight,omitempty"`
}

// Focus biases the ranking toward caller-specified paths and symbols.
type Focus struct {
	Paths   []PathBoost   `yaml:"paths,omitempty" toml:"paths,omitempty" json:"paths,omitempty"`
	Symbols []SymbolBoost `yaml:"symbols,omitempty" toml:"symbols,omitempty" json:"symbols,omitempty"`
}

// SectionRule maps a section name pattern to a verbosity level.
type SectionRule struct {
	Pattern string `yaml:"pattern" toml:"pattern" json:"pattern"`
	Level   int    `yaml:"level" toml:"level" json:"level"`
}

// Rule maps a file pattern to either a flat verbosity level or an ordered
// list of section rules. Exactly one of Level and Sections must be set.
type Rule struct {
	Pattern  string        `yaml:"pattern" toml:"pattern" json:"pattern"`
	Level    *int          `yaml:"level,omitempty" toml:"level,omitempty" json:"level,omitempty"`
	Sections []SectionRule `yaml:"sections,omitempty" toml:"sections,omitempty" json:"sections,omitempty"`
}

// CustomQuery overrides the builtin extraction ruleset for matching files.
type CustomQuery struct {
	Pattern string `yaml:"pattern" toml:"pattern" json:"pattern"`
	Query   string `yaml:"query" toml:"query" json:"query"`
}

// Plan is the complete configuration for one render invocation. Construct
// it through ParseYAML/ParseTOML (or build it directly) and call Validate
// before use; it is immutable thereafter.
type Plan struct {
	Budget        int           `yaml:"budget,omitempty" toml:"budget,omitempty" json:"budget,omitempty"`
	Focus         *Focus        `yaml:"focus,omitempty" toml:"focus,omitempty" json:"focus,omitempty"`
	Verbosity     []Rule        `yaml:"verbosity,omitempty" toml:"verbosity,omitempty" json:"verbosity,omitempty"`
	CustomQueries []CustomQuery `yaml:"custom_queries,omitempty" toml:"custom_queries,omitempty" json:"custom_queries,omitempty"`
}

// Default returns a plan with no rules and the default budget.
func Default() *Plan {
	return &Plan{Budget: DefaultBudget}
}

// ParseYAML parses a plan from YAML. Unknown keys are rejected at any
// nesting level.
func ParseYAML(data []byte) (*Plan, error) {
	var p Plan
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		// An empty document is a valid, all-defaults plan.
		if len(bytes.TrimSpace(data)) == 0 {
			p = Plan{}
		} else {
			return nil, fmt.Errorf("parse render plan: %w", err)
		}
	}
	p.applyDefaults()
	return &p, nil
}

// ParseTOML parses a plan from TOML with the same fail-closed schema as
// ParseYAML.
func ParseTOML(data []byte) (*Plan, error) {
	var p Plan
	md, err := toml.Decode(string(data), &p)
	if err != nil {
		return nil, fmt.Errorf("parse render plan: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("parse render plan: unknown keys: %s", strings.Join(keys, ", "))
	}
	p.applyDefaults()
	return &p, nil
}

// Load reads and parses a plan file, dispatching on extension (.toml is
// TOML, everything else YAML).
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read render plan: %w", err)
	}
	if filepath.Ext(path) == ".toml" {
		return ParseTOML(data)
	}
	return ParseYAML(data)
}

// EncodeYAML serializes the plan so that re-parsing yields a deep-equal
// plan.
func (p *Plan) EncodeYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("encode render plan: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode render plan: %w", err)
	}
	return buf.Bytes(), nil
}

// applyDefaults materializes the documented defaults so validation and
// serialization see concrete values.
func (p *Plan) applyDefaults() {
	if p.Budget == 0 {
		p.Budget = DefaultBudget
	}
	if p.Focus != nil {
		for i := range p.Focus.Paths {
			if p.Focus.Paths[i].Weight == 0 {
				p.Focus.Paths[i].Weight = DefaultBoostWeight
			}
		}
		for i := range p.Focus.Symbols {
			if p.Focus.Symbols[i].Weight == 0 {
				p.Focus.Symbols[i].Weight = DefaultBoostWeight
			}
		}
	}
}

// Overrides are CLI-level replacements merged into an already-valid plan.
// Non-zero fields replace the corresponding plan field wholesale; the
// merged result must be re-validated.
type Overrides struct {
	Budget        int
	Focus         *Focus
	Verbosity     []Rule
	CustomQueries []CustomQuery
}

// Merge returns a copy of p with the overrides applied.
func (p *Plan) Merge(o Overrides) *Plan {
	merged := *p
	if o.Budget != 0 {
		merged.Budget = o.Budget
	}
	if o.Focus != nil {
		merged.Focus = o.Focus
	}
	if o.Verbosity != nil {
		merged.Verbosity = o.Verbosity
	}
	if o.CustomQueries != nil {
		merged.CustomQueries = o.CustomQueries
	}
	merged.applyDefaults()
	return &merged
}
