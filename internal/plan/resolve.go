package plan

import (
	"github.com/bmatcuk/doublestar/v4"

	"github.com/kevinaud/repo-map/internal/verbosity"
)

// DefaultLevel is applied to files that match no verbosity rule.
const DefaultLevel = verbosity.Structure

// MatchPath reports whether a glob pattern matches a slash-separated
// relative path. A pattern without a slash also matches against the base
// name, so "*.py" covers files in subdirectories the way gitignore-style
// rules do.
func MatchPath(pattern, path string) bool {
	if ok, err := doublestar.Match(pattern, path); err == nil && ok {
		return true
	}
	if !containsSlash(pattern) {
		base := path
		if i := lastSlash(path); i >= 0 {
			base = path[i+1:]
		}
		if ok, err := doublestar.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}

// ResolveLevel evaluates the verbosity rules in declaration order for a
// file path. Level and section rules resolve independently: the last
// matching rule that carries a flat level sets the level, and the last
// matching rule that carries section rules sets the sections. A rule
// carrying only one of the two leaves the other untouched. Both default
// when no rule matches (level to DefaultLevel, sections to nil).
func (p *Plan) ResolveLevel(path string) (verbosity.Level, []SectionRule) {
	level := DefaultLevel
	var sections []SectionRule

	for _, r := range p.Verbosity {
		if !MatchPath(r.Pattern, path) {
			continue
		}
		if r.Level != nil {
			level = verbosity.Level(*r.Level)
		}
		if r.Sections != nil {
			sections = r.Sections
		}
	}
	return level, sections
}

// ResolveSectionLevel evaluates section rules for a section name, last
// match wins, falling back to the file's resolved level for unmatched
// sections.
func ResolveSectionLevel(name string, rules []SectionRule, fileLevel verbosity.Level) verbosity.Level {
	level := fileLevel
	for _, r := range rules {
		if ok, err := doublestar.Match(r.Pattern, name); err == nil && ok {
			level = verbosity.Level(r.Level)
		}
	}
	return level
}

// ResolveQuery returns the custom extraction query for a path, if any.
// Later declarations win.
func (p *Plan) ResolveQuery(path string) (string, bool) {
	query := ""
	found := false
	for _, q := range p.CustomQueries {
		if MatchPath(q.Pattern, path) {
			query = q.Query
			found = true
		}
	}
	return query, found
}

func containsSlash(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			return true
		}
	}
	return false
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}
