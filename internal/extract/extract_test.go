package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/kevinaud/repo-map/internal/verbosity"
)

func TestLanguageFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Language
		ok   bool
	}{
		{"main.go", LangGo, true},
		{"src/app.ts", LangTypeScript, true},
		{"src/App.tsx", LangTSX, true},
		{"lib/util.js", LangJavaScript, true},
		{"lib/util.mjs", LangJavaScript, true},
		{"scripts/run.py", LangPython, true},
		{"src/lib.rs", LangRust, true},
		{"Main.java", LangJava, true},
		{"App.kt", LangKotlin, true},
		{"README.md", LangMarkdown, true},
		{"data.bin", "", false},
		{"Makefile", "", false},
	}
	for _, tt := range tests {
		got, ok := LanguageFromPath(tt.path)
		if got != tt.want || ok != tt.ok {
			t.Errorf("LanguageFromPath(%q) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.ok)
		}
	}
}

const goSource = `package main

// Handler serves item lookups.
type Handler struct {
	db *Database
}

// NewHandler wires a handler to its database.
func NewHandler(db *Database) *Handler {
	return &Handler{db: db}
}

func (h *Handler) Get(id string) (*Item, error) {
	return h.db.Find(id)
}

const maxRetries = 3
`

func TestExtractGoStructure(t *testing.T) {
	res := Extract(context.Background(), "main.go", []byte(goSource), LangGo, verbosity.Structure, "")
	if res.Degraded {
		t.Fatalf("unexpected degradation: %s", res.Diagnostic)
	}

	names := make([]string, len(res.Sections))
	for i, s := range res.Sections {
		names[i] = s.Name
	}
	for _, want := range []string{"Handler", "NewHandler", "Get", "maxRetries"} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing section %q, got %v", want, names)
		}
	}

	for i := 1; i < len(res.Sections); i++ {
		if res.Sections[i].StartLine < res.Sections[i-1].StartLine {
			t.Errorf("sections not sorted by start line: %v then %v",
				res.Sections[i-1].StartLine, res.Sections[i].StartLine)
		}
	}

	for _, s := range res.Sections {
		if s.Signature != "" || s.Doc != "" {
			t.Errorf("structure level must not populate signature/doc, got %q / %q for %s",
				s.Signature, s.Doc, s.Name)
		}
	}
}

func TestExtractGoInterface(t *testing.T) {
	res := Extract(context.Background(), "main.go", []byte(goSource), LangGo, verbosity.Interface, "")
	if res.Degraded {
		t.Fatalf("unexpected degradation: %s", res.Diagnostic)
	}

	var newHandler *Section
	for i := range res.Sections {
		if res.Sections[i].Name == "NewHandler" {
			newHandler = &res.Sections[i]
		}
	}
	if newHandler == nil {
		t.Fatal("NewHandler not extracted")
	}
	if !strings.Contains(newHandler.Signature, "func NewHandler(db *Database) *Handler") {
		t.Errorf("signature = %q, want declaration without body", newHandler.Signature)
	}
	if strings.Contains(newHandler.Signature, "return") {
		t.Errorf("signature must exclude the body, got %q", newHandler.Signature)
	}
	if !strings.Contains(newHandler.Doc, "wires a handler") {
		t.Errorf("doc = %q, want preceding comment text", newHandler.Doc)
	}
}

func TestExtractPythonInterface(t *testing.T) {
	source := []byte(`"""Module docstring."""

TIMEOUT = 30


class Store:
    """Key-value store backed by a directory."""

    def get(self, key):
        """Return the value for key, or None."""
        return self._data.get(key)

    def _prune(self):
        pass
`)
	res := Extract(context.Background(), "store.py", source, LangPython, verbosity.Interface, "")
	if res.Degraded {
		t.Fatalf("unexpected degradation: %s", res.Diagnostic)
	}

	byName := make(map[string]Section)
	for _, s := range res.Sections {
		byName[s.Name] = s
	}

	store, ok := byName["Store"]
	if !ok {
		t.Fatal("Store class not extracted")
	}
	if store.Kind != KindClass {
		t.Errorf("Store kind = %s, want class", store.Kind)
	}
	if store.Depth != 0 {
		t.Errorf("Store depth = %d, want 0", store.Depth)
	}
	if !strings.Contains(store.Doc, "Key-value store") {
		t.Errorf("Store doc = %q, want class docstring", store.Doc)
	}
	if strings.Contains(store.Doc, `"""`) {
		t.Errorf("docstring quotes must be stripped, got %q", store.Doc)
	}

	get, ok := byName["get"]
	if !ok {
		t.Fatal("get method not extracted")
	}
	if get.Depth != 1 {
		t.Errorf("get depth = %d, want 1 (nested in Store)", get.Depth)
	}
	if get.Kind != KindMethod {
		t.Errorf("get kind = %s, want method", get.Kind)
	}
	if !strings.Contains(get.Doc, "Return the value") {
		t.Errorf("get doc = %q, want method docstring", get.Doc)
	}
	if !strings.Contains(get.Signature, "def get(self, key)") {
		t.Errorf("get signature = %q", get.Signature)
	}

	if _, ok := byName["TIMEOUT"]; !ok {
		t.Error("top-level constant TIMEOUT not extracted")
	}
}

func TestExtractMarkdown(t *testing.T) {
	source := []byte(`# Overview

The renderer produces token-budgeted maps.

More detail that should not appear in the doc.

## Usage

Run the binary against a repository root.

` + "```" + `
# not a heading, inside a fence
` + "```" + `

## Internals
`)
	res := Extract(context.Background(), "README.md", source, LangMarkdown, verbosity.Interface, "")
	if len(res.Sections) != 3 {
		t.Fatalf("expected 3 heading sections, got %d", len(res.Sections))
	}

	overview := res.Sections[0]
	if overview.Name != "Overview" || overview.Depth != 0 {
		t.Errorf("first section = %q depth %d, want Overview depth 0", overview.Name, overview.Depth)
	}
	if !strings.Contains(overview.Doc, "token-budgeted maps") {
		t.Errorf("doc = %q, want first paragraph", overview.Doc)
	}
	if strings.Contains(overview.Doc, "More detail") {
		t.Errorf("doc must contain only the first paragraph, got %q", overview.Doc)
	}

	usage := res.Sections[1]
	if usage.Name != "Usage" || usage.Depth != 1 {
		t.Errorf("second section = %q depth %d, want Usage depth 1", usage.Name, usage.Depth)
	}

	if res.Sections[2].Name != "Internals" {
		t.Errorf("third section = %q, want Internals", res.Sections[2].Name)
	}
	if res.Sections[2].Doc != "" {
		t.Errorf("Internals has no paragraph, doc = %q", res.Sections[2].Doc)
	}
}

func TestExtractMarkdownNestedHeadingContainment(t *testing.T) {
	source := []byte(`# Top

Intro paragraph.

## Child

Child body.

## Sibling

More.

# Second
`)
	res := Extract(context.Background(), "doc.md", source, LangMarkdown, verbosity.Structure, "")
	if len(res.Sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(res.Sections))
	}

	top := res.Sections[0]
	if top.Name != "Top" || top.Depth != 0 {
		t.Fatalf("first section = %q depth %d, want Top depth 0", top.Name, top.Depth)
	}
	for _, child := range res.Sections[1:3] {
		if child.Depth != 1 {
			t.Errorf("section %q depth = %d, want 1", child.Name, child.Depth)
		}
		if child.StartLine < top.StartLine || child.EndLine > top.EndLine {
			t.Errorf("section %q spans %d-%d, outside parent %d-%d",
				child.Name, child.StartLine, child.EndLine, top.StartLine, top.EndLine)
		}
		if !strings.Contains(top.Body, child.Name) {
			t.Errorf("parent body missing subsection heading %q", child.Name)
		}
	}

	second := res.Sections[3]
	if second.Name != "Second" || second.StartLine <= top.EndLine {
		t.Errorf("Second starts at %d, must follow Top ending at %d", second.StartLine, top.EndLine)
	}
}

func TestExtractMarkdownStructureNoDoc(t *testing.T) {
	res := Extract(context.Background(), "README.md", []byte("# Title\n\nBody text.\n"), LangMarkdown, verbosity.Structure, "")
	if len(res.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(res.Sections))
	}
	if res.Sections[0].Doc != "" {
		t.Errorf("structure level must not populate doc, got %q", res.Sections[0].Doc)
	}
}

func TestExtractLevels(t *testing.T) {
	content := []byte(goSource)

	for _, level := range []verbosity.Level{verbosity.Exclude, verbosity.Existence} {
		res := Extract(context.Background(), "main.go", content, LangGo, level, "")
		if len(res.Sections) != 0 {
			t.Errorf("level %s: expected no sections, got %d", level, len(res.Sections))
		}
	}

	res := Extract(context.Background(), "main.go", content, LangGo, verbosity.Implementation, "")
	if len(res.Sections) != 1 {
		t.Fatalf("implementation level: expected 1 section, got %d", len(res.Sections))
	}
	if res.Sections[0].Body != goSource {
		t.Error("implementation section must span the full file")
	}
	if res.Sections[0].Signature != "" || res.Sections[0].Doc != "" {
		t.Error("implementation section must leave signature/doc unset")
	}
}

func TestExtractDegradesWithoutRuleset(t *testing.T) {
	source := []byte("fun main() {\n    println(\"hi\")\n}\n")
	res := Extract(context.Background(), "main.kt", source, LangKotlin, verbosity.Structure, "")
	if !res.Degraded {
		t.Fatal("expected degradation for language without a ruleset")
	}
	if res.Diagnostic == "" {
		t.Error("degraded result must carry a diagnostic")
	}
	if len(res.Sections) != 1 || res.Sections[0].Body != string(source) {
		t.Error("degraded result must fall back to one whole-file section")
	}
}

func TestExtractCustomQueryOverride(t *testing.T) {
	query := `(function_declaration name: (identifier) @name.definition.function) @definition.function`
	res := Extract(context.Background(), "main.go", []byte(goSource), LangGo, verbosity.Structure, query)
	if res.Degraded {
		t.Fatalf("unexpected degradation: %s", res.Diagnostic)
	}
	for _, s := range res.Sections {
		if s.Kind != KindFunction {
			t.Errorf("custom query captures functions only, got %s %q", s.Kind, s.Name)
		}
	}
	if len(res.Sections) != 1 || res.Sections[0].Name != "NewHandler" {
		t.Errorf("expected only NewHandler, got %+v", res.Sections)
	}
}

func TestExtractInvalidCustomQuery(t *testing.T) {
	res := Extract(context.Background(), "main.go", []byte(goSource), LangGo, verbosity.Structure, "(((")
	if !res.Degraded {
		t.Fatal("invalid query must degrade, not crash")
	}
}

func TestExtractTags(t *testing.T) {
	source := []byte(`package main

func process(items []Item) {
	validate(items)
	store.Save(items)
}
`)
	tags := ExtractTags(context.Background(), source, LangGo)

	var defs, refs []string
	for _, tag := range tags {
		switch tag.Kind {
		case TagDef:
			defs = append(defs, tag.Name)
		case TagRef:
			refs = append(refs, tag.Name)
		}
	}

	if len(defs) != 1 || defs[0] != "process" {
		t.Errorf("defs = %v, want [process]", defs)
	}
	wantRefs := map[string]bool{"validate": false, "Save": false, "Item": false}
	for _, r := range refs {
		if _, ok := wantRefs[r]; ok {
			wantRefs[r] = true
		}
	}
	for name, found := range wantRefs {
		if !found {
			t.Errorf("missing reference tag %q, got %v", name, refs)
		}
	}
}

func TestExtractTagsMarkdown(t *testing.T) {
	if tags := ExtractTags(context.Background(), []byte("# Title\n"), LangMarkdown); tags != nil {
		t.Errorf("markdown yields no tags, got %v", tags)
	}
}
