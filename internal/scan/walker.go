package scan

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// defaultExcludePatterns drop files that are too noisy for a map:
// lockfiles, editor config, generated metadata.
var defaultExcludePatterns = []string{
	"uv.lock",
	"poetry.lock",
	"Pipfile.lock",
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"go.sum",
	"Cargo.lock",
	"Gemfile.lock",
	".editorconfig",
	".prettierrc*",
	".eslintrc*",
	".ruff.toml",
	".pylintrc",
	".vscode",
	".idea",
	".gitattributes",
	".gitmodules",
	"__pycache__",
	"coverage.xml",
	".DS_Store",
}

// WalkOptions controls repository enumeration.
type WalkOptions struct {
	// IncludePatterns force-include matching paths, overriding every
	// exclusion including the hidden-directory rule.
	IncludePatterns []string

	// ExcludePatterns drop matching paths.
	ExcludePatterns []string

	// NoDefaultExcludes disables the built-in noise filters.
	NoDefaultExcludes bool

	// NoGitignore disables .gitignore handling at the repo root.
	NoGitignore bool
}

// Walk enumerates the files to scan under root, returning
// slash-separated paths relative to root, sorted. Hidden directories
// are skipped unless an include pattern reaches into them.
func Walk(root string, opts WalkOptions) ([]string, error) {
	excludes := append([]string{}, opts.ExcludePatterns...)
	if !opts.NoGitignore {
		excludes = append(excludes, readGitignore(filepath.Join(root, ".gitignore"))...)
	}

	var defaults []string
	if !opts.NoDefaultExcludes {
		defaults = defaultExcludePatterns
	}

	var paths []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		included := matchAny(opts.IncludePatterns, rel)

		if d.IsDir() {
			if included || reachesInto(opts.IncludePatterns, rel) {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			if matchAny(excludes, rel) || matchAny(defaults, rel) {
				return fs.SkipDir
			}
			return nil
		}

		if !included {
			if matchAny(excludes, rel) || matchAny(defaults, rel) {
				return nil
			}
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// matchAny matches rel against patterns with gitignore-flavored
// semantics: a slashless pattern matches the basename anywhere, a
// pattern with a slash anchors at the root, and a directory pattern
// matches everything below it.
func matchAny(patterns []string, rel string) bool {
	if len(patterns) == 0 {
		return false
	}
	base := filepath.Base(rel)
	for _, pat := range patterns {
		pat = strings.TrimSuffix(pat, "/")
		if pat == "" {
			continue
		}
		if strings.Contains(pat, "/") {
			pat = strings.TrimPrefix(pat, "/")
			if ok, err := doublestar.Match(pat, rel); err == nil && ok {
				return true
			}
			if ok, err := doublestar.Match(pat+"/**", rel); err == nil && ok {
				return true
			}
			continue
		}
		if ok, err := doublestar.Match(pat, base); err == nil && ok {
			return true
		}
		// A bare directory name excludes its whole subtree.
		if ok, err := doublestar.Match("**/"+pat+"/**", rel); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pat+"/**", rel); err == nil && ok {
			return true
		}
	}
	return false
}

// reachesInto reports whether any include pattern could match a path
// below dir, so pruning dir would hide explicitly included files.
func reachesInto(patterns []string, dir string) bool {
	for _, pat := range patterns {
		if strings.HasPrefix(pat, dir+"/") || strings.HasPrefix(pat, "**") {
			return true
		}
	}
	return false
}

// readGitignore loads non-comment patterns from a .gitignore file.
// Negation patterns are not supported and are ignored.
func readGitignore(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}

// isTextContent looks for null bytes in the leading chunk, the same
// cheap sniff git uses.
func isTextContent(content []byte) bool {
	n := len(content)
	if n > 1024 {
		n = 1024
	}
	for _, b := range content[:n] {
		if b == 0 {
			return false
		}
	}
	return true
}
