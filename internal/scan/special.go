package scan

import (
	"path"
	"strings"
)

// rootImportantNames are well-known files worth keeping visible in a
// map even when they carry no code structure.
var rootImportantNames = []string{
	".gitignore",
	"README", "README.md", "README.txt", "README.rst",
	"CONTRIBUTING", "CONTRIBUTING.md",
	"LICENSE", "LICENSE.md", "LICENSE.txt",
	"CHANGELOG", "CHANGELOG.md",
	"SECURITY.md",
	"CODEOWNERS",
	"requirements.txt", "pyproject.toml", "setup.py", "setup.cfg",
	"package.json", "Gemfile", "composer.json",
	"pom.xml", "build.gradle", "build.gradle.kts",
	"go.mod", "Cargo.toml", "mix.exs",
	"tsconfig.json",
	"Makefile", "CMakeLists.txt",
	"Dockerfile", "docker-compose.yml", "docker-compose.yaml",
	"Procfile", "Jenkinsfile",
	"mkdocs.yml",
}

var rootImportant = func() map[string]bool {
	m := make(map[string]bool, len(rootImportantNames))
	for _, name := range rootImportantNames {
		m[name] = true
	}
	return m
}()

// IsImportant reports whether a relative path is a well-known root
// file or a GitHub Actions workflow.
func IsImportant(relPath string) bool {
	if rootImportant[relPath] {
		return true
	}
	dir := path.Dir(relPath)
	if dir == ".github/workflows" &&
		(strings.HasSuffix(relPath, ".yml") || strings.HasSuffix(relPath, ".yaml")) {
		return true
	}
	return false
}
