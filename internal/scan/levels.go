package scan

import (
	"strings"

	"github.com/kevinaud/repo-map/internal/extract"
	"github.com/kevinaud/repo-map/internal/verbosity"
)

// LevelText returns the body text this file renders to at a level,
// without the path header. Existence renders no body; the caller emits
// a path marker. Cost estimation and rendering both go through here so
// the recorded costs match what is actually emitted.
func (n *FileNode) LevelText(level verbosity.Level) string {
	if n.Binary {
		return ""
	}
	switch level {
	case verbosity.Exclude, verbosity.Existence:
		return ""
	case verbosity.Implementation:
		return n.Content
	}
	if n.Degraded {
		// No structural tiering for this file; raw content stands in
		// at both structural levels.
		return n.Content
	}
	var b strings.Builder
	for _, sec := range n.Sections {
		text := n.SectionText(sec, level)
		if text == "" {
			continue
		}
		b.WriteString(text)
		if !strings.HasSuffix(text, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// SectionText renders one section at a level. Structure shows the
// defining source line with its original indentation; interface adds
// the full signature and the first documentation unit.
func (n *FileNode) SectionText(sec extract.Section, level verbosity.Level) string {
	switch level {
	case verbosity.Exclude:
		return ""
	case verbosity.Existence:
		return sec.Name
	case verbosity.Structure:
		return n.sourceLine(sec.StartLine)
	case verbosity.Interface:
		var b strings.Builder
		if sec.Doc != "" {
			b.WriteString(sec.Doc)
			b.WriteByte('\n')
		}
		if sec.Signature != "" {
			b.WriteString(indentOf(n.sourceLine(sec.StartLine)) + sec.Signature)
		} else {
			b.WriteString(n.sourceLine(sec.StartLine))
		}
		return b.String()
	case verbosity.Implementation:
		return sec.Body
	}
	return ""
}

// sourceLine returns the 1-based line from the file content,
// indentation preserved.
func (n *FileNode) sourceLine(line int) string {
	if line < 1 {
		return ""
	}
	lines := strings.Split(n.Content, "\n")
	if line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], " \t")
}

func indentOf(line string) string {
	for i, r := range line {
		if r != ' ' && r != '\t' {
			return line[:i]
		}
	}
	return line
}
