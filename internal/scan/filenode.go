// Package scan walks a repository and extracts per-file structure on a
// bounded worker pool.
package scan

import (
	"github.com/kevinaud/repo-map/internal/cost"
	"github.com/kevinaud/repo-map/internal/extract"
)

// FileNode is one scanned file with its extracted sections and
// per-level rendering costs. Nodes are created once per run and never
// mutated after the scan completes.
type FileNode struct {
	// Path is the slash-separated path relative to the repo root.
	Path string

	// Language is empty for unsupported file types.
	Language extract.Language

	// Score is the normalized centrality score, filled in after
	// ranking.
	Score float64

	// Sections are ordered by ascending start line.
	Sections []extract.Section

	// Tags feed the dependency graph.
	Tags []extract.Tag

	// Costs maps each verbosity level to its token cost.
	Costs cost.FileCosts

	// Content is the full file text, needed for implementation-level
	// rendering. Empty for binary files.
	Content string

	// Binary marks files that failed the text sniff. They render as a
	// path marker only.
	Binary bool

	// Important marks well-known root files (readme, manifests).
	Important bool

	// Degraded is set when extraction fell back to a whole-file
	// section; Diagnostic says why.
	Degraded   bool
	Diagnostic string
}
