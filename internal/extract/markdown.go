package extract

import (
	"strings"

	"github.com/kevinaud/repo-map/internal/verbosity"
)

// extractMarkdown splits a document into heading sections. ATX
// headings (levels 1 through 6) open sections; a section runs until
// the next heading at its own depth or shallower, so a parent's range
// contains all of its subsections. Headings inside fenced code blocks
// are ignored. At interface level each section's doc is the first
// paragraph immediately following its heading, and only that
// paragraph.
func extractMarkdown(content []byte, level verbosity.Level) Result {
	lines := strings.Split(string(content), "\n")

	type heading struct {
		text  string
		depth int
		line  int // 1-based
	}
	var headings []heading

	inFence := false
	fenceMarker := ""
	for i, raw := range lines {
		line := strings.TrimRight(raw, " \t")
		trimmed := strings.TrimSpace(line)
		if marker := fenceOpen(trimmed); marker != "" {
			if !inFence {
				inFence = true
				fenceMarker = marker
			} else if strings.HasPrefix(trimmed, fenceMarker) {
				inFence = false
			}
			continue
		}
		if inFence {
			continue
		}
		if depth, text, ok := atxHeading(line); ok {
			headings = append(headings, heading{text: text, depth: depth, line: i + 1})
		}
	}

	if len(headings) == 0 {
		if len(content) == 0 {
			return Result{}
		}
		sec := wholeFileSection("document", content)
		if level >= verbosity.Interface {
			sec.Doc = firstParagraph(lines, 0)
		}
		return Result{Sections: []Section{sec}}
	}

	sections := make([]Section, 0, len(headings))
	for i, h := range headings {
		end := len(lines)
		for j := i + 1; j < len(headings); j++ {
			if headings[j].depth <= h.depth {
				end = headings[j].line - 1
				break
			}
		}
		sec := Section{
			Name:      h.text,
			Kind:      KindHeading,
			StartLine: h.line,
			EndLine:   end,
			Depth:     h.depth - 1,
			Body:      strings.Join(lines[h.line-1:end], "\n"),
		}
		if level >= verbosity.Interface {
			sec.Doc = firstParagraph(lines, h.line)
		}
		sections = append(sections, sec)
	}
	return Result{Sections: sections}
}

// atxHeading parses an ATX heading line, returning its level and text.
func atxHeading(line string) (int, string, bool) {
	trimmed := strings.TrimSpace(line)
	n := 0
	for n < len(trimmed) && trimmed[n] == '#' {
		n++
	}
	if n == 0 || n > 6 {
		return 0, "", false
	}
	if n == len(trimmed) {
		return n, "", false
	}
	if trimmed[n] != ' ' && trimmed[n] != '\t' {
		return 0, "", false
	}
	text := strings.TrimSpace(trimmed[n:])
	text = strings.TrimRight(text, "#")
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, "", false
	}
	return n, text, true
}

func fenceOpen(trimmed string) string {
	for _, m := range []string{"```", "~~~"} {
		if strings.HasPrefix(trimmed, m) {
			return m
		}
	}
	return ""
}

// firstParagraph returns the first contiguous run of non-blank,
// non-heading lines starting at or after the given 0-based index.
// Later paragraphs in the same section are deliberately not included.
func firstParagraph(lines []string, from int) string {
	i := from
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	var para []string
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			break
		}
		if _, _, ok := atxHeading(lines[i]); ok {
			break
		}
		if fenceOpen(trimmed) != "" {
			break
		}
		para = append(para, trimmed)
		i++
	}
	return strings.Join(para, "\n")
}
