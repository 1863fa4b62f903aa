package extract

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kevinaud/repo-map/internal/verbosity"
)

// Extract produces the sections of one file at the requested verbosity
// level. It is a pure function of its inputs and safe to call
// concurrently across files. customQuery, when non-empty, replaces the
// built-in ruleset for the file's language and must follow the same
// capture conventions (@definition.KIND, @name.definition.KIND,
// @doc.definition.KIND).
//
// Extraction never fails the pipeline for one bad file: unparseable or
// unsupported content degrades to a single whole-file section with a
// diagnostic.
func Extract(ctx context.Context, path string, content []byte, lang Language, level verbosity.Level, customQuery string) Result {
	switch level {
	case verbosity.Exclude, verbosity.Existence:
		return Result{}
	case verbosity.Implementation:
		return Result{Sections: []Section{wholeFileSection(path, content)}}
	}

	if lang == LangMarkdown {
		return extractMarkdown(content, level)
	}

	query := customQuery
	if query == "" {
		rs := ResolveRuleset(lang, level)
		if rs == nil {
			return degraded(path, content, fmt.Sprintf("no extraction ruleset for language %q", lang))
		}
		query = rs.Query
	}

	tree, err := parse(ctx, lang, content)
	if err != nil {
		return degraded(path, content, fmt.Sprintf("parse failed: %v", err))
	}
	defer tree.Close()

	grammar, err := sitterLanguage(lang)
	if err != nil {
		return degraded(path, content, err.Error())
	}

	caps, err := runDefinitions(query, grammar, tree.RootNode(), content)
	if err != nil {
		return degraded(path, content, fmt.Sprintf("query failed: %v", err))
	}

	sections := buildSections(caps, content, lang, level)
	return Result{Sections: sections}
}

func wholeFileSection(path string, content []byte) Section {
	return Section{
		Name:      path,
		Kind:      KindModule,
		StartLine: 1,
		EndLine:   countLines(content),
		Body:      string(content),
	}
}

func degraded(path string, content []byte, diag string) Result {
	return Result{
		Sections:   []Section{wholeFileSection(path, content)},
		Degraded:   true,
		Diagnostic: diag,
	}
}

// defCapture is one captured definition before reconstruction into a
// Section.
type defCapture struct {
	kind     SectionKind
	name     string
	defNode  *sitter.Node
	nameNode *sitter.Node
	docNode  *sitter.Node
}

// runDefinitions executes a definitions query and groups captures by
// match. Each match contributes one definition when it carries both a
// @definition.* and a @name.definition.* capture.
func runDefinitions(pattern string, grammar *sitter.Language, root *sitter.Node, content []byte) ([]defCapture, error) {
	q, err := sitter.NewQuery([]byte(pattern), grammar)
	if err != nil {
		return nil, err
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, root)

	// Dedup by the name node's byte offset: overlapping patterns (for
	// example decorated and plain function definitions) may both match
	// the same declaration.
	seen := make(map[uint32]int)
	var caps []defCapture

	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		var dc defCapture
		for _, c := range m.Captures {
			capName := q.CaptureNameForId(c.Index)
			switch {
			case strings.HasPrefix(capName, "definition."):
				dc.defNode = c.Node
				dc.kind = sectionKind(strings.TrimPrefix(capName, "definition."))
			case strings.HasPrefix(capName, "name.definition."):
				dc.nameNode = c.Node
				dc.name = c.Node.Content(content)
			case strings.HasPrefix(capName, "doc.definition."):
				dc.docNode = c.Node
			}
		}
		if dc.defNode == nil || dc.nameNode == nil || dc.name == "" {
			continue
		}
		off := dc.nameNode.StartByte()
		if i, dup := seen[off]; dup {
			// Prefer the match with a doc capture when both exist.
			if caps[i].docNode == nil && dc.docNode != nil {
				caps[i].docNode = dc.docNode
			}
			continue
		}
		seen[off] = len(caps)
		caps = append(caps, dc)
	}
	return caps, nil
}

func sectionKind(s string) SectionKind {
	switch SectionKind(s) {
	case KindFunction, KindMethod, KindType, KindClass, KindInterface,
		KindConst, KindVar, KindModule, KindHeading:
		return SectionKind(s)
	default:
		return KindFunction
	}
}

// buildSections turns captures into ordered Sections, computing nesting
// depth by byte-range containment and, at interface level,
// reconstructing signature and documentation text from components. The
// query layer can only capture components, not "everything except the
// body", so the interface text is assembled here.
func buildSections(caps []defCapture, content []byte, lang Language, level verbosity.Level) []Section {
	sort.Slice(caps, func(i, j int) bool {
		return caps[i].defNode.StartByte() < caps[j].defNode.StartByte()
	})

	sections := make([]Section, 0, len(caps))
	var stack []uint32 // end bytes of enclosing definitions
	for _, dc := range caps {
		start := dc.defNode.StartByte()
		end := dc.defNode.EndByte()
		for len(stack) > 0 && start >= stack[len(stack)-1] {
			stack = stack[:len(stack)-1]
		}
		depth := len(stack)
		stack = append(stack, end)

		sec := Section{
			Name:      dc.name,
			Kind:      dc.kind,
			StartLine: int(dc.defNode.StartPoint().Row) + 1,
			EndLine:   int(dc.defNode.EndPoint().Row) + 1,
			Depth:     depth,
			Body:      dc.defNode.Content(content),
		}
		if sec.Kind == KindFunction && depth > 0 {
			sec.Kind = KindMethod
		}
		if level >= verbosity.Interface {
			sec.Signature = signatureText(dc.defNode, content)
			sec.Doc = docText(dc, content, lang)
		}
		sections = append(sections, sec)
	}
	return sections
}

// signatureText is the declaration text up to but excluding the body.
func signatureText(def *sitter.Node, content []byte) string {
	body := def.ChildByFieldName("body")
	if body == nil {
		// Declarations without bodies (specs, signatures) are already
		// interface-shaped.
		return strings.TrimSpace(def.Content(content))
	}
	start, end := def.StartByte(), body.StartByte()
	if end <= start || int(end) > len(content) {
		return strings.TrimSpace(def.Content(content))
	}
	sig := strings.TrimSpace(string(content[start:end]))
	sig = strings.TrimSuffix(sig, "{")
	return strings.TrimSpace(sig)
}

// docText returns the first documentation unit for a definition: the
// captured leading docstring when the query provides one, otherwise
// the contiguous comment block immediately above the definition.
func docText(dc defCapture, content []byte, lang Language) string {
	if dc.docNode != nil {
		return trimDocstring(dc.docNode.Content(content))
	}
	return precedingComment(content, int(dc.defNode.StartPoint().Row), lang)
}

func trimDocstring(s string) string {
	s = strings.TrimSpace(s)
	for _, q := range []string{`"""`, `'''`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return strings.TrimSpace(s[len(q) : len(s)-len(q)])
		}
	}
	return s
}

// precedingComment collects the contiguous comment lines directly
// above a definition. row is 0-based.
func precedingComment(content []byte, row int, lang Language) string {
	lines := strings.Split(string(content), "\n")
	if row <= 0 || row > len(lines) {
		return ""
	}
	prefixes := commentPrefixes(lang)
	var block []string
	for i := row - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if !isCommentLine(line, prefixes) {
			break
		}
		for _, p := range prefixes {
			if strings.HasPrefix(line, p) {
				line = strings.TrimSpace(strings.TrimPrefix(line, p))
				break
			}
		}
		block = append([]string{line}, block...)
	}
	return strings.TrimSpace(strings.Join(block, "\n"))
}

func isCommentLine(line string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

func commentPrefixes(lang Language) []string {
	switch lang {
	case LangPython:
		return []string{"#"}
	case LangRust:
		return []string{"///", "//"}
	default:
		return []string{"//"}
	}
}

func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := 1
	for _, b := range content {
		if b == '\n' {
			n++
		}
	}
	return n
}
