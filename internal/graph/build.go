package graph

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/kevinaud/repo-map/internal/extract"
)

// maxCommonDefiners is the definer count past which an identifier is
// treated as too generic to carry much signal.
const maxCommonDefiners = 5

// Build constructs the file dependency graph from per-file tags. Every
// path in tags becomes a node, including files with no tags at all.
// Edges run from referencing files to defining files, weighted by
// identifier quality and the square root of the reference count.
func Build(tags map[string][]extract.Tag) *Graph {
	g := NewGraph()

	paths := make([]string, 0, len(tags))
	for path := range tags {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	// ident -> defining paths, and ident -> referencing path -> count
	defines := make(map[string]map[string]bool)
	references := make(map[string]map[string]int)

	for _, path := range paths {
		g.AddNode(path)
		for _, tag := range tags[path] {
			switch tag.Kind {
			case extract.TagDef:
				if defines[tag.Name] == nil {
					defines[tag.Name] = make(map[string]bool)
				}
				defines[tag.Name][path] = true
			case extract.TagRef:
				if references[tag.Name] == nil {
					references[tag.Name] = make(map[string]int)
				}
				references[tag.Name][path]++
			}
		}
	}

	// A corpus with definitions but no references still needs edges,
	// or ranking degenerates to uniform.
	if len(references) == 0 {
		for ident, definers := range defines {
			references[ident] = make(map[string]int)
			for path := range definers {
				references[ident][path] = 1
			}
		}
	}

	// Defined-but-unreferenced identifiers keep their definers in the
	// walk via a weak self-edge.
	for ident, definers := range defines {
		if len(references[ident]) > 0 {
			continue
		}
		for path := range definers {
			g.AddEdge(path, path, 0.1)
		}
	}

	for ident, referencers := range references {
		definers := defines[ident]
		if len(definers) == 0 {
			continue
		}
		mul := identWeight(ident, len(definers))
		for referencer, count := range referencers {
			scaled := mul * math.Sqrt(float64(count))
			for definer := range definers {
				g.AddEdge(referencer, definer, scaled)
			}
		}
	}

	return g
}

// identWeight scores how much signal an identifier name carries.
// Multi-word names of real length are boosted; private names and names
// defined all over the repo are damped.
func identWeight(ident string, definerCount int) float64 {
	mul := 1.0
	if isMultiWord(ident) && len(ident) >= 8 {
		mul *= 10
	}
	if strings.HasPrefix(ident, "_") {
		mul *= 0.1
	}
	if definerCount > maxCommonDefiners {
		mul *= 0.1
	}
	return mul
}

func isMultiWord(ident string) bool {
	hasAlpha := false
	hasUpper := false
	hasLower := false
	hasSep := false
	for _, r := range ident {
		switch {
		case r == '_' || r == '-':
			hasSep = true
		case unicode.IsUpper(r):
			hasAlpha = true
			hasUpper = true
		case unicode.IsLower(r):
			hasAlpha = true
			hasLower = true
		}
	}
	if hasSep && hasAlpha {
		return true
	}
	return hasUpper && hasLower
}

// DefinerIndex maps each defined identifier to the sorted list of
// files defining it, for resolving symbol boosts to paths.
func DefinerIndex(tags map[string][]extract.Tag) map[string][]string {
	defs := make(map[string]map[string]bool)
	for path, fileTags := range tags {
		for _, tag := range fileTags {
			if tag.Kind != extract.TagDef {
				continue
			}
			if defs[tag.Name] == nil {
				defs[tag.Name] = make(map[string]bool)
			}
			defs[tag.Name][path] = true
		}
	}
	out := make(map[string][]string, len(defs))
	for name, paths := range defs {
		list := make([]string, 0, len(paths))
		for p := range paths {
			list = append(list, p)
		}
		sort.Strings(list)
		out[name] = list
	}
	return out
}
