// Package plugin discovers linter plugin packages in a Node project and loads
// their rule metadata.
package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/buger/jsonparser"
)

// ManifestFileName is the package manifest of a Node project or package
const ManifestFileName = "package.json"

// Sentinel errors
var (
	ErrManifestNotFound = errors.New("package manifest not found")
	ErrInvalidManifest  = errors.New("invalid package manifest")
)

// Manifest holds the package.json fields used for discovery and entry resolution
type Manifest struct {
	Name    string
	Version string
	Type    string
	Main    string
	Module  string

	// Exports is the raw "exports" value, nil when absent
	Exports []byte
	// ExportsType is the JSON type of Exports
	ExportsType jsonparser.ValueType

	// Dependencies and DevDependencies keep declaration order
	Dependencies    []string
	DevDependencies []string
}

// ReadManifest reads and parses dir/package.json
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
		}
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	manifest, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return manifest, nil
}

// ParseManifest parses package.json content
func ParseManifest(data []byte) (*Manifest, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidManifest)
	}
	if _, dataType, _, _ := jsonparser.Get(data); dataType != jsonparser.Object {
		return nil, fmt.Errorf("%w: top level must be an object", ErrInvalidManifest)
	}

	m := &Manifest{
		Name:    optionalString(data, "name"),
		Version: optionalString(data, "version"),
		Type:    optionalString(data, "type"),
		Main:    optionalString(data, "main"),
		Module:  optionalString(data, "module"),
	}

	if value, dataType, _, err := jsonparser.Get(data, "exports"); err == nil && dataType != jsonparser.Null {
		m.Exports = value
		m.ExportsType = dataType
	}

	var err error
	if m.Dependencies, err = objectKeys(data, "dependencies"); err != nil {
		return nil, err
	}
	if m.DevDependencies, err = objectKeys(data, "devDependencies"); err != nil {
		return nil, err
	}

	return m, nil
}

// DeclaredDependencies merges runtime and dev dependencies: runtime first, then
// dev dependencies not already declared
func (m *Manifest) DeclaredDependencies() []string {
	seen := make(map[string]struct{}, len(m.Dependencies)+len(m.DevDependencies))
	out := make([]string, 0, len(m.Dependencies)+len(m.DevDependencies))
	for _, list := range [][]string{m.Dependencies, m.DevDependencies} {
		for _, name := range list {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// IsModule reports whether the package declares ES-module semantics
func (m *Manifest) IsModule() bool {
	return m.Type == "module"
}

func optionalString(data []byte, key string) string {
	value, err := jsonparser.GetString(data, key)
	if err != nil {
		return ""
	}
	return value
}

func objectKeys(data []byte, key string) ([]string, error) {
	_, dataType, _, err := jsonparser.Get(data, key)
	if err != nil || dataType == jsonparser.Null {
		return nil, nil
	}
	if dataType != jsonparser.Object {
		return nil, fmt.Errorf("%w: %q must be an object", ErrInvalidManifest, key)
	}

	var keys []string
	err = jsonparser.ObjectEach(data, func(k []byte, _ []byte, _ jsonparser.ValueType, _ int) error {
		keys = append(keys, string(k))
		return nil
	}, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	return keys, nil
}
