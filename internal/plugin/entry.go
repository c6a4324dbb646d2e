package plugin

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/buger/jsonparser"
)

// Format is the module system a plugin entry point is loaded with
type Format string

const (
	FormatCommonJS Format = "cjs"
	FormatESM      Format = "esm"
)

// ErrEntryNotFound is returned when no candidate entry file exists
var ErrEntryNotFound = errors.New("plugin entry point not found")

// exportConditions are the conditions honoured by require(), matched in the
// order the package lists them
var exportConditions = map[string]bool{
	"require": true,
	"node":    true,
	"default": true,
}

// Entry is a resolved plugin entry point
type Entry struct {
	Path   string `json:"path"`
	Format Format `json:"format"`
}

// ResolveEntry finds the entry point of the package installed in dir.
// Candidates are tried in order: exports, main, module, index.js.
func ResolveEntry(dir string, manifest *Manifest) (Entry, error) {
	var candidates []string
	if target, ok := exportsTarget(manifest.Exports, manifest.ExportsType); ok {
		candidates = append(candidates, target)
	}
	for _, c := range []string{manifest.Main, manifest.Module, "index.js"} {
		if c != "" {
			candidates = append(candidates, c)
		}
	}

	for _, candidate := range candidates {
		if path, ok := probe(filepath.Join(dir, filepath.FromSlash(candidate))); ok {
			return Entry{Path: path, Format: DetectFormat(manifest, path)}, nil
		}
	}

	return Entry{}, fmt.Errorf("%w in %s (tried %s)", ErrEntryNotFound, dir, strings.Join(candidates, ", "))
}

// DetectFormat returns ESM for "type": "module" packages and .mjs files
func DetectFormat(manifest *Manifest, path string) Format {
	if manifest.IsModule() || strings.EqualFold(filepath.Ext(path), ".mjs") {
		return FormatESM
	}
	return FormatCommonJS
}

// exportsTarget resolves the "." export of an exports value
func exportsTarget(value []byte, dataType jsonparser.ValueType) (string, bool) {
	switch dataType {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		return s, err == nil && s != ""
	case jsonparser.Array:
		var target string
		_, _ = jsonparser.ArrayEach(value, func(item []byte, itemType jsonparser.ValueType, _ int, _ error) {
			if target != "" {
				return
			}
			if t, ok := exportsTarget(item, itemType); ok {
				target = t
			}
		})
		return target, target != ""
	case jsonparser.Object:
		if isSubpathMap(value) {
			dot, dotType, _, err := jsonparser.Get(value, ".")
			if err != nil {
				return "", false
			}
			return exportsTarget(dot, dotType)
		}
		return conditionTarget(value)
	}
	return "", false
}

// isSubpathMap reports whether an exports object is keyed by subpaths
func isSubpathMap(value []byte) bool {
	subpaths := false
	_ = jsonparser.ObjectEach(value, func(key []byte, _ []byte, _ jsonparser.ValueType, _ int) error {
		subpaths = strings.HasPrefix(string(key), ".")
		return errStop
	})
	return subpaths
}

func conditionTarget(value []byte) (string, bool) {
	var target string
	_ = jsonparser.ObjectEach(value, func(key []byte, item []byte, itemType jsonparser.ValueType, _ int) error {
		if !exportConditions[string(key)] {
			return nil
		}
		if t, ok := exportsTarget(item, itemType); ok {
			target = t
			return errStop
		}
		return nil
	})
	return target, target != ""
}

var errStop = errors.New("stop")

// probe resolves path the way require does for files: as is, then with .js,
// then as a directory with index.js
func probe(path string) (string, bool) {
	for _, candidate := range []string{path, path + ".js", filepath.Join(path, "index.js")} {
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, true
		}
	}
	return "", false
}
