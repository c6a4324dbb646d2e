package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintindex/rules-index/internal/domain"
)

const objectCatalogJSON = `{
  "rules": [
    {
      "id": "no-var",
      "package": "eslint",
      "url": "https://eslint.org/docs/latest/rules/no-var",
      "description": "Require let or const instead of var",
      "deprecated": false,
      "type": "suggestion",
      "fixable": "code",
      "hasSuggestions": false,
      "category": null
    }
  ],
  "pluginCount": 1
}`

const legacyCatalogJSON = `[
  {"id": "no-var", "package": "eslint", "url": "https://eslint.org/docs/latest/rules/no-var"},
  {"id": "depend/ban-dependencies", "package": "eslint-plugin-depend", "url": "https://www.npmjs.com/package/eslint-plugin-depend#rules"}
]`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParser_ParseFile(t *testing.T) {
	dir := t.TempDir()
	parser := NewParser(nil)

	t.Run("object format", func(t *testing.T) {
		catalog, dropped, err := parser.ParseFile(writeFile(t, dir, "rules.json", objectCatalogJSON))
		require.NoError(t, err)
		assert.Empty(t, dropped)
		require.Len(t, catalog.Rules, 1)
		require.NotNil(t, catalog.PluginCount)
		assert.Equal(t, 1, *catalog.PluginCount)

		record := catalog.Rules[0]
		assert.Equal(t, "no-var", record.ID)
		assert.Equal(t, "code", record.FixableKind())
		assert.Nil(t, record.Category)
	})

	t.Run("legacy array has no plugin count", func(t *testing.T) {
		catalog, _, err := parser.ParseFile(writeFile(t, dir, "legacy.json", legacyCatalogJSON))
		require.NoError(t, err)
		assert.Len(t, catalog.Rules, 2)
		assert.Nil(t, catalog.PluginCount)
	})

	t.Run("yaml object", func(t *testing.T) {
		content := "rules:\n  - id: no-var\n    package: eslint\n    url: https://eslint.org/docs/latest/rules/no-var\n    type: suggestion\npluginCount: 0\n"
		catalog, _, err := parser.ParseFile(writeFile(t, dir, "rules.yaml", content))
		require.NoError(t, err)
		require.Len(t, catalog.Rules, 1)
		assert.Equal(t, "suggestion", catalog.Rules[0].TypeName())
		require.NotNil(t, catalog.PluginCount)
		assert.Equal(t, 0, *catalog.PluginCount)
	})

	t.Run("yaml sequence", func(t *testing.T) {
		content := "- id: no-var\n  package: eslint\n  url: https://eslint.org/docs/latest/rules/no-var\n"
		catalog, _, err := parser.ParseFile(writeFile(t, dir, "legacy.yml", content))
		require.NoError(t, err)
		assert.Len(t, catalog.Rules, 1)
		assert.Nil(t, catalog.PluginCount)
	})

	t.Run("empty object", func(t *testing.T) {
		catalog, _, err := parser.ParseFile(writeFile(t, dir, "empty.json", `{}`))
		require.NoError(t, err)
		assert.NotNil(t, catalog.Rules)
		assert.Empty(t, catalog.Rules)
	})

	t.Run("malformed json reports line", func(t *testing.T) {
		_, _, err := parser.ParseFile(writeFile(t, dir, "bad.json", "{\n  \"rules\": [\n    {,}\n  ]\n}"))
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, domain.ErrCatalogInvalid))

		appErr, ok := domain.AsAppError(err)
		require.True(t, ok)
		loadErr, ok := appErr.Details.(*domain.LoadError)
		require.True(t, ok)
		assert.Equal(t, 3, loadErr.Line)
	})

	t.Run("malformed yaml reports line", func(t *testing.T) {
		_, _, err := parser.ParseFile(writeFile(t, dir, "bad.yaml", "rules:\n\t- id: a\n"))
		require.Error(t, err)
		appErr, ok := domain.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 2, appErr.Details.(*domain.LoadError).Line)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := parser.ParseFile(filepath.Join(dir, "missing.json"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestParser_DropsInvalidRecords(t *testing.T) {
	content := `{"rules": [
  {"id": "no-var", "package": "eslint", "url": "https://eslint.org/docs/latest/rules/no-var"},
  {"id": "broken", "package": "", "url": "https://eslint.org"},
  {"id": "", "package": "eslint-plugin-odd", "url": "https://example.com"}
]}`
	path := writeFile(t, t.TempDir(), "rules.json", content)

	catalog, dropped, err := NewParser(domain.NewValidator()).ParseFile(path)
	require.NoError(t, err)
	require.Len(t, catalog.Rules, 1)
	assert.Equal(t, "no-var", catalog.Rules[0].ID)
	require.Len(t, dropped, 2)
	assert.Contains(t, dropped[0].Error, `"broken"`)
	assert.Contains(t, dropped[1].Error, `rules[2] ""`)
}

func TestWriter_WriteCatalog(t *testing.T) {
	count := 1
	catalog := domain.Catalog{
		Rules: []domain.RuleRecord{{
			ID:      "depend/ban-dependencies",
			Package: "eslint-plugin-depend",
			URL:     "https://www.npmjs.com/package/eslint-plugin-depend#rules",
			Type:    domain.StringPtr("problem"),
		}},
		PluginCount: &count,
	}

	t.Run("json with two-space indent and explicit nulls", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "src", "data", "eslint-rules.json")
		require.NoError(t, NewWriter().WriteCatalog(catalog, path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		content := string(data)
		assert.True(t, strings.HasPrefix(content, "{\n  \"rules\": [\n    {\n      \"id\""))
		assert.Contains(t, content, `"description": null`)
		assert.Contains(t, content, `"pluginCount": 1`)

		parsed, _, err := NewParser(nil).ParseFile(path)
		require.NoError(t, err)
		assert.Equal(t, catalog, parsed)
	})

	t.Run("yaml by extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "eslint-rules.yaml")
		require.NoError(t, NewWriter().WriteCatalog(catalog, path))

		parsed, _, err := NewParser(nil).ParseFile(path)
		require.NoError(t, err)
		assert.Equal(t, catalog, parsed)
	})

	t.Run("no temp files left behind", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, NewWriter().WriteCatalog(catalog, filepath.Join(dir, "out.json")))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "out.json", entries[0].Name())
	})

	t.Run("unwritable destination", func(t *testing.T) {
		dir := t.TempDir()
		blocker := writeFile(t, dir, "blocker", "x")
		err := NewWriter().WriteCatalog(catalog, filepath.Join(blocker, "out.json"))
		assert.Error(t, err)
	})
}

func TestWriter_ParserKeepsEveryWrittenRecord(t *testing.T) {
	count := 2
	catalog := domain.Catalog{
		Rules: []domain.RuleRecord{
			{ID: "no-var", Package: "eslint", URL: "https://eslint.org/docs/latest/rules/no-var"},
			{ID: "odd/relative-doc", Package: "eslint-plugin-odd", URL: "docs/rules/relative-doc.md"},
			{ID: "odd/cased-type", Package: "eslint-plugin-odd", URL: "https://example.com", Type: domain.StringPtr("Suggestion")},
		},
		PluginCount: &count,
	}

	for _, name := range []string{"eslint-rules.json", "eslint-rules.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, NewWriter().WriteCatalog(catalog, path))

			parsed, dropped, err := NewParser(domain.NewValidator()).ParseFile(path)
			require.NoError(t, err)
			assert.Empty(t, dropped)
			assert.Equal(t, catalog, parsed)
		})
	}
}

func TestFileCatalogLoader(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rules.json", `{"rules": [
  {"id": "no-var", "package": "eslint", "url": "https://eslint.org/docs/latest/rules/no-var"},
  {"id": "", "package": "eslint", "url": "https://eslint.org"}
]}`)

	loader := NewFileCatalogLoader(path, domain.NewValidator())
	assert.Equal(t, path, loader.Source())
	assert.True(t, loader.LoadedAt().IsZero())

	catalog, dropped, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, catalog.Rules, 1)
	assert.Len(t, dropped, 1)
	assert.Len(t, loader.GetLoadErrors(), 1)
	assert.False(t, loader.LoadedAt().IsZero())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = loader.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
