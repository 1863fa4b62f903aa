package graph

import (
	"context"
	"math"
	"testing"

	"github.com/kevinaud/repo-map/internal/extract"
)

func TestBuildIncludesIsolatedNodes(t *testing.T) {
	tags := map[string][]extract.Tag{
		"a.go":      {{Name: "ProcessOrder", Kind: extract.TagDef}},
		"b.go":      {{Name: "ProcessOrder", Kind: extract.TagRef}},
		"assets.md": nil,
	}
	g := Build(tags)

	if g.NumNodes() != 3 {
		t.Fatalf("expected 3 nodes, got %d", g.NumNodes())
	}
	if !g.HasNode("assets.md") {
		t.Error("file with no tags must still be a graph node")
	}
	if g.NumEdges() == 0 {
		t.Error("expected a reference edge from b.go to a.go")
	}
}

func TestIdentWeight(t *testing.T) {
	tests := []struct {
		ident    string
		definers int
		want     float64
	}{
		{"process_order_items", 1, 10}, // long snake_case
		{"ProcessOrder", 1, 10},        // long camelCase
		{"x", 1, 1},                    // short, no boost
		{"value", 1, 1},                // single word
		{"_internal_helper", 1, 1},     // boosted 10x then damped 0.1x
		{"_x", 1, 0.1},                 // private
		{"to_string", 10, 1},           // boosted 10x, damped 0.1x for 10 definers
	}
	for _, tt := range tests {
		got := identWeight(tt.ident, tt.definers)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("identWeight(%q, %d) = %v, want %v", tt.ident, tt.definers, got, tt.want)
		}
	}
}

func TestRankScoresSumToOne(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a.go", "b.go", 1)
	g.AddEdge("b.go", "c.go", 1)
	g.AddNode("d.go") // isolated
	g.AddNode("sink.go")
	g.AddEdge("a.go", "sink.go", 1) // sink.go is dangling

	scores := g.Rank(context.Background(), nil, DefaultRankOptions())

	var sum float64
	for _, s := range scores {
		sum += s
	}
	if math.Abs(sum-1) > 1e-6 {
		t.Errorf("scores sum to %v, want 1", sum)
	}
	for path, s := range scores {
		if s <= 0 || s > 1 {
			t.Errorf("score for %s = %v, want within (0, 1]", path, s)
		}
	}
}

// A boost on one file must not zero the teleportation probability of
// unrelated files. An isolated file keeps a positive score even when a
// different file is boosted.
func TestRankPersonalizationCoversAllNodes(t *testing.T) {
	g := NewGraph()
	g.AddEdge("core.go", "util.go", 1)
	g.AddNode("island.go")

	base := g.Rank(context.Background(), nil, DefaultRankOptions())
	boosted := g.Rank(context.Background(), map[string]float64{"core.go": 10}, DefaultRankOptions())

	if boosted["island.go"] <= 0 {
		t.Fatal("unboosted isolated node lost its teleportation probability")
	}
	if boosted["core.go"] <= base["core.go"] {
		t.Errorf("boost did not raise core.go: %v -> %v", base["core.go"], boosted["core.go"])
	}

	// The isolated node's share shrinks under someone else's boost but
	// must not collapse to zero or to a floating point residue.
	ratio := boosted["island.go"] / base["island.go"]
	if ratio < 0.05 {
		t.Errorf("island.go score collapsed under unrelated boost: ratio %v", ratio)
	}
}

func TestRankBoostRaisesRelativeOrder(t *testing.T) {
	// Symmetric pair: without boosts they tie, with a boost the
	// boosted side must win.
	g := NewGraph()
	g.AddEdge("left.go", "right.go", 1)
	g.AddEdge("right.go", "left.go", 1)

	scores := g.Rank(context.Background(), map[string]float64{"left.go": 10}, DefaultRankOptions())
	if scores["left.go"] <= scores["right.go"] {
		t.Errorf("boosted left.go (%v) must outrank right.go (%v)", scores["left.go"], scores["right.go"])
	}
}

func TestRankEmptyGraph(t *testing.T) {
	g := NewGraph()
	scores := g.Rank(context.Background(), nil, DefaultRankOptions())
	if len(scores) != 0 {
		t.Errorf("empty graph yields no scores, got %v", scores)
	}
}

func TestNormalizeByMax(t *testing.T) {
	scores := map[string]float64{"a": 0.5, "b": 0.25, "c": 0.25}
	norm := NormalizeByMax(scores)
	if norm["a"] != 1 {
		t.Errorf("max score must normalize to 1, got %v", norm["a"])
	}
	if norm["b"] != 0.5 {
		t.Errorf("norm[b] = %v, want 0.5", norm["b"])
	}
}

func TestMergeBoosts(t *testing.T) {
	definers := map[string][]string{
		"ProcessOrder": {"order.go", "legacy.go"},
	}
	pathBoosts := map[string]float64{"order.go": 3}
	symbolBoosts := map[string]float64{"ProcessOrder": 10}

	merged := MergeBoosts(pathBoosts, symbolBoosts, definers)

	if merged["order.go"] != 10 {
		t.Errorf("order.go = %v, want max(3, 10) = 10", merged["order.go"])
	}
	if merged["legacy.go"] != 10 {
		t.Errorf("symbol boost must reach every defining file, legacy.go = %v", merged["legacy.go"])
	}
}

func TestAddPreciseEdgesSkipsUnknownNodes(t *testing.T) {
	g := NewGraph()
	g.AddNode("a.go")
	g.AddNode("b.go")

	added := g.AddPreciseEdges([]Edge{
		{From: "a.go", To: "b.go", Weight: 2, Kind: "precise"},
		{From: "a.go", To: "vendored/x.go", Weight: 2, Kind: "precise"},
	})
	if added != 1 {
		t.Errorf("added = %d, want 1 (unknown endpoint skipped)", added)
	}
	if g.NumEdges() != 1 {
		t.Errorf("edges = %d, want 1", g.NumEdges())
	}
}
