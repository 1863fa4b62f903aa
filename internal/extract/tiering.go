package extract

import (
	"embed"
	"fmt"

	"github.com/kevinaud/repo-map/internal/verbosity"
)

//go:embed queries
var queryFS embed.FS

// Ruleset is the query text driving extraction for one language at one
// verbosity level.
type Ruleset struct {
	Language Language
	Level    verbosity.Level
	Query    string
}

// ResolveRuleset returns the extraction ruleset for a language at a
// level, or nil when no tiering exists. Existence and implementation
// levels never use a query. Markdown is handled line-based and has no
// ruleset. A nil result tells the extractor to degrade per its
// fallback rules.
func ResolveRuleset(lang Language, level verbosity.Level) *Ruleset {
	if level != verbosity.Structure && level != verbosity.Interface {
		return nil
	}
	text, err := queryFS.ReadFile(fmt.Sprintf("queries/%s/definitions.scm", lang))
	if err != nil {
		return nil
	}
	return &Ruleset{Language: lang, Level: level, Query: string(text)}
}

// refsRuleset returns the reference-capture query for a language, or
// nil when the language has none.
func refsRuleset(lang Language) *Ruleset {
	text, err := queryFS.ReadFile(fmt.Sprintf("queries/%s/refs.scm", lang))
	if err != nil {
		return nil
	}
	return &Ruleset{Language: lang, Query: string(text)}
}
