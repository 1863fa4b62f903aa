package plan

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/kevinaud/repo-map/internal/errors"
	"github.com/kevinaud/repo-map/internal/verbosity"
)

// Validate checks the full plan and returns nil or a *errors.ConfigError
// enumerating every violation with its field path. It is idempotent:
// validating an already-valid plan (or a merged copy of one) succeeds.
func (p *Plan) Validate() error {
	var violations []errors.Violation

	add := func(field, format string, args ...interface{}) {
		violations = append(violations, errors.Violation{
			Field:   field,
			Message: fmt.Sprintf(format, args...),
		})
	}

	if p.Budget <= 0 {
		add("budget", "must be positive, got %d", p.Budget)
	}

	if p.Focus != nil {
		for i, b := range p.Focus.Paths {
			field := fmt.Sprintf("focus.paths[%d]", i)
			checkPattern(add, field+".pattern", b.Pattern)
			if b.Weight <= 0 {
				add(field+".weight", "must be positive, got %g", b.Weight)
			}
		}
		for i, b := range p.Focus.Symbols {
			field := fmt.Sprintf("focus.symbols[%d]", i)
			if b.Name == "" {
				add(field+".name", "must not be empty")
			}
			if b.Weight <= 0 {
				add(field+".weight", "must be positive, got %g", b.Weight)
			}
		}
	}

	for i, r := range p.Verbosity {
		field := fmt.Sprintf("verbosity[%d]", i)
		checkPattern(add, field+".pattern", r.Pattern)
		switch {
		case r.Level == nil && r.Sections == nil:
			add(field, "either 'level' or 'sections' must be specified")
		case r.Level != nil && r.Sections != nil:
			add(field, "cannot specify both 'level' and 'sections'")
		case r.Level != nil:
			if !verbosity.Level(*r.Level).Valid() {
				add(field+".level", "must be 0-4, got %d", *r.Level)
			}
		default:
			if len(r.Sections) == 0 {
				add(field+".sections", "must not be empty")
			}
			for j, s := range r.Sections {
				sfield := fmt.Sprintf("%s.sections[%d]", field, j)
				checkPattern(add, sfield+".pattern", s.Pattern)
				if !verbosity.Level(s.Level).Valid() {
					add(sfield+".level", "must be 0-4, got %d", s.Level)
				}
			}
		}
	}

	for i, q := range p.CustomQueries {
		field := fmt.Sprintf("custom_queries[%d]", i)
		checkPattern(add, field+".pattern", q.Pattern)
		if q.Query == "" {
			add(field+".query", "must not be empty")
		}
	}

	if len(violations) > 0 {
		return errors.NewConfigError(violations)
	}
	return nil
}

func checkPattern(add func(field, format string, args ...interface{}), field, pattern string) {
	if pattern == "" {
		add(field, "must not be empty")
		return
	}
	if !doublestar.ValidatePattern(pattern) {
		add(field, "invalid glob pattern %q", pattern)
	}
}
