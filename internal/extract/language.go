// Package extract provides tiered structural extraction of sections
// (definitions, headings) from source files using tree-sitter.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/kotlin"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language represents a supported language.
type Language string

const (
	LangGo         Language = "go"
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangTSX        Language = "tsx"
	LangPython     Language = "python"
	LangRust       Language = "rust"
	LangJava       Language = "java"
	LangKotlin     Language = "kotlin"
	LangMarkdown   Language = "markdown"
)

// LanguageFromPath returns the Language for a file path based on its
// extension. The second result is false for unsupported extensions.
func LanguageFromPath(path string) (Language, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return LangGo, true
	case ".js", ".mjs", ".cjs":
		return LangJavaScript, true
	case ".jsx":
		return LangJavaScript, true // JSX uses the JS parser
	case ".ts", ".mts", ".cts":
		return LangTypeScript, true
	case ".tsx":
		return LangTSX, true
	case ".py", ".pyw":
		return LangPython, true
	case ".rs":
		return LangRust, true
	case ".java":
		return LangJava, true
	case ".kt", ".kts":
		return LangKotlin, true
	case ".md", ".markdown":
		return LangMarkdown, true
	default:
		return "", false
	}
}

// ParseLanguage maps a language name to its Language value. The second
// result is false for unknown names.
func ParseLanguage(name string) (Language, bool) {
	switch Language(strings.ToLower(name)) {
	case LangGo, LangJavaScript, LangTypeScript, LangTSX, LangPython,
		LangRust, LangJava, LangKotlin, LangMarkdown:
		return Language(strings.ToLower(name)), true
	default:
		return "", false
	}
}

// sitterLanguage returns the tree-sitter grammar for a language.
// Markdown has no grammar in this binding and is handled line-based.
func sitterLanguage(lang Language) (*sitter.Language, error) {
	switch lang {
	case LangGo:
		return golang.GetLanguage(), nil
	case LangJavaScript:
		return javascript.GetLanguage(), nil
	case LangTypeScript:
		return typescript.GetLanguage(), nil
	case LangTSX:
		return tsx.GetLanguage(), nil
	case LangPython:
		return python.GetLanguage(), nil
	case LangRust:
		return rust.GetLanguage(), nil
	case LangJava:
		return java.GetLanguage(), nil
	case LangKotlin:
		return kotlin.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("no grammar for language: %s", lang)
	}
}
