package extract

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kevinaud/repo-map/internal/verbosity"
)

// Tag extraction reuses the structure-tier definitions ruleset.
const defaultTagLevel = verbosity.Structure

// TagKind distinguishes definition tags from reference tags.
type TagKind int

const (
	TagDef TagKind = iota
	TagRef
)

// Tag is one named occurrence in a file, used to build the dependency
// graph. Line is 1-based.
type Tag struct {
	Name string
	Kind TagKind
	Line int
}

// ExtractTags returns the definition and reference tags of a file.
// Languages without tag queries, and unparseable files, yield no tags;
// such files still participate in ranking as isolated nodes.
func ExtractTags(ctx context.Context, content []byte, lang Language) []Tag {
	if lang == "" || lang == LangMarkdown {
		return nil
	}
	grammar, err := sitterLanguage(lang)
	if err != nil {
		return nil
	}
	tree, err := parse(ctx, lang, content)
	if err != nil {
		return nil
	}
	defer tree.Close()

	var tags []Tag
	if rs := ResolveRuleset(lang, defaultTagLevel); rs != nil {
		if caps, err := runDefinitions(rs.Query, grammar, tree.RootNode(), content); err == nil {
			for _, dc := range caps {
				tags = append(tags, Tag{
					Name: dc.name,
					Kind: TagDef,
					Line: int(dc.nameNode.StartPoint().Row) + 1,
				})
			}
		}
	}
	if rs := refsRuleset(lang); rs != nil {
		tags = append(tags, runRefs(rs.Query, grammar, tree.RootNode(), content)...)
	}
	return tags
}

func runRefs(pattern string, grammar *sitter.Language, root *sitter.Node, content []byte) []Tag {
	q, err := sitter.NewQuery([]byte(pattern), grammar)
	if err != nil {
		return nil
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, root)

	var tags []Tag
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range m.Captures {
			capName := q.CaptureNameForId(c.Index)
			if !strings.HasPrefix(capName, "name.reference.") {
				continue
			}
			name := c.Node.Content(content)
			if name == "" {
				continue
			}
			tags = append(tags, Tag{
				Name: name,
				Kind: TagRef,
				Line: int(c.Node.StartPoint().Row) + 1,
			})
		}
	}
	return tags
}
