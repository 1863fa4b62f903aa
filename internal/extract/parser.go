package extract

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// parse builds a syntax tree for content in the given language. A
// fresh sitter.Parser is created per call; the parser type is not safe
// for concurrent use and extraction runs from a worker pool.
func parse(ctx context.Context, lang Language, content []byte) (*sitter.Tree, error) {
	grammar, err := sitterLanguage(lang)
	if err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", lang, err)
	}
	if tree == nil || tree.RootNode() == nil {
		return nil, fmt.Errorf("parsing %s: no tree produced", lang)
	}
	return tree, nil
}
