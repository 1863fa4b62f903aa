package graph

import (
	"os"
	"path/filepath"
	"testing"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	"github.com/kevinaud/repo-map/internal/errors"
)

func writeIndex(t *testing.T, index *scippb.Index) string {
	t.Helper()
	data, err := proto.Marshal(index)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "index.scip")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPreciseEdges(t *testing.T) {
	index := &scippb.Index{
		Documents: []*scippb.Document{
			{
				RelativePath: "util.go",
				Occurrences: []*scippb.Occurrence{
					{Symbol: "pkg/FormatPath().", SymbolRoles: int32(scippb.SymbolRole_Definition)},
				},
			},
			{
				RelativePath: "main.go",
				Occurrences: []*scippb.Occurrence{
					{Symbol: "pkg/FormatPath()."},
					{Symbol: "pkg/FormatPath()."},
					{Symbol: "pkg/Unknown()."},
				},
			},
		},
	}

	edges, err := LoadPreciseEdges(writeIndex(t, index))
	if err != nil {
		t.Fatal(err)
	}
	if len(edges) != 1 {
		t.Fatalf("edges = %+v, want one", edges)
	}
	e := edges[0]
	if e.From != "main.go" || e.To != "util.go" {
		t.Errorf("edge %s -> %s, want main.go -> util.go", e.From, e.To)
	}
	if e.Weight != 2*PreciseEdgeWeight {
		t.Errorf("weight = %v, want %v for two occurrences", e.Weight, 2*PreciseEdgeWeight)
	}
}

func TestLoadPreciseEdgesSkipsSelfReference(t *testing.T) {
	index := &scippb.Index{
		Documents: []*scippb.Document{
			{
				RelativePath: "a.go",
				Occurrences: []*scippb.Occurrence{
					{Symbol: "pkg/A().", SymbolRoles: int32(scippb.SymbolRole_Definition)},
					{Symbol: "pkg/A()."},
				},
			},
		},
	}

	edges, err := LoadPreciseEdges(writeIndex(t, index))
	if err != nil {
		t.Fatal(err)
	}
	if len(edges) != 0 {
		t.Errorf("edges = %+v, want none for self reference", edges)
	}
}

func TestLoadPreciseEdgesMissingFile(t *testing.T) {
	_, err := LoadPreciseEdges(filepath.Join(t.TempDir(), "absent.scip"))
	var engErr *errors.EngineError
	if !errors.As(err, &engErr) || engErr.Code != errors.ConfigInvalid {
		t.Fatalf("error = %v, want CONFIG_INVALID", err)
	}
}

func TestLoadPreciseEdgesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.scip")
	if err := os.WriteFile(path, []byte("\xff\xff\xffnot protobuf"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadPreciseEdges(path)
	var engErr *errors.EngineError
	if !errors.As(err, &engErr) || engErr.Code != errors.ConfigInvalid {
		t.Fatalf("error = %v, want CONFIG_INVALID", err)
	}
}
