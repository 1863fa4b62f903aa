// Package project reads per-repository declarations from a
// .repomap.toml file at the repository root. Unlike the tool config,
// these settings travel with the repository and apply to every render
// of it.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// DeclarationFile is the well-known file name at the repository root.
const DeclarationFile = ".repomap.toml"

// Declaration is the parsed .repomap.toml. The zero value means "no
// declaration present" and changes nothing.
type Declaration struct {
	// Name labels the project in logs and manifests.
	Name string `toml:"name"`

	// Exclude adds glob patterns to the scan excludes.
	Exclude []string `toml:"exclude"`

	// Languages maps file extensions (with leading dot) to language
	// names, overriding extension-based detection. Example:
	// ".pyx" = "python".
	Languages map[string]string `toml:"languages"`
}

// Load reads the declaration from root. A missing file yields the zero
// Declaration and no error; a malformed file is an error.
func Load(root string) (Declaration, error) {
	var decl Declaration
	data, err := os.ReadFile(filepath.Join(root, DeclarationFile))
	if err != nil {
		if os.IsNotExist(err) {
			return decl, nil
		}
		return decl, fmt.Errorf("read %s: %w", DeclarationFile, err)
	}
	if err := toml.Unmarshal(data, &decl); err != nil {
		return decl, fmt.Errorf("parse %s: %w", DeclarationFile, err)
	}
	for ext := range decl.Languages {
		if ext == "" || ext[0] != '.' {
			return Declaration{}, fmt.Errorf("parse %s: language key %q must start with a dot", DeclarationFile, ext)
		}
	}
	return decl, nil
}
