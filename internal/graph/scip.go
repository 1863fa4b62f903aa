package graph

import (
	"fmt"
	"os"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	"github.com/kevinaud/repo-map/internal/errors"
)

// PreciseEdgeWeight is the weight of an index-derived edge. Precise
// edges are trusted more than name-match edges.
const PreciseEdgeWeight = 2.0

// LoadPreciseEdges reads a SCIP index and derives file-level reference
// edges from it: a reference occurrence in document A to a symbol
// defined in document B becomes an edge A -> B. Name-match edges from
// Build remain the baseline; precise edges supplement them when an
// index is available.
func LoadPreciseEdges(path string) ([]Edge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.ConfigInvalid,
			fmt.Sprintf("reading index %s", path), err)
	}

	var index scippb.Index
	if err := proto.Unmarshal(data, &index); err != nil {
		return nil, errors.New(errors.ConfigInvalid,
			fmt.Sprintf("parsing index %s", path), err)
	}

	// symbol -> defining document path
	definedIn := make(map[string]string)
	for _, doc := range index.Documents {
		for _, occ := range doc.Occurrences {
			if occ.SymbolRoles&int32(scippb.SymbolRole_Definition) != 0 {
				definedIn[occ.Symbol] = doc.RelativePath
			}
		}
	}

	counts := make(map[[2]string]int)
	var order [][2]string
	for _, doc := range index.Documents {
		for _, occ := range doc.Occurrences {
			if occ.SymbolRoles&int32(scippb.SymbolRole_Definition) != 0 {
				continue
			}
			target, ok := definedIn[occ.Symbol]
			if !ok || target == doc.RelativePath {
				continue
			}
			key := [2]string{doc.RelativePath, target}
			if counts[key] == 0 {
				order = append(order, key)
			}
			counts[key]++
		}
	}

	edges := make([]Edge, 0, len(order))
	for _, key := range order {
		edges = append(edges, Edge{
			From:   key[0],
			To:     key[1],
			Weight: PreciseEdgeWeight * float64(counts[key]),
			Kind:   "precise",
		})
	}
	return edges, nil
}

// AddPreciseEdges merges index-derived edges into the graph, skipping
// edges whose endpoints were not scanned.
func (g *Graph) AddPreciseEdges(edges []Edge) int {
	added := 0
	for _, e := range edges {
		if !g.HasNode(e.From) || !g.HasNode(e.To) {
			continue
		}
		g.AddEdge(e.From, e.To, e.Weight)
		added++
	}
	return added
}
