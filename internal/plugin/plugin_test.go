package plugin

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestParseManifest(t *testing.T) {
	data := []byte(`{
  "name": "docs-site",
  "version": "1.2.3",
  "type": "module",
  "dependencies": {"react": "^19", "eslint-plugin-depend": "^1", "@scope/eslint-plugin-foo": "^2"},
  "devDependencies": {"eslint": "^9", "eslint-plugin-depend": "^1", "eslint-plugin-unicorn": "^56"}
}`)

	m, err := ParseManifest(data)
	require.NoError(t, err)
	assert.Equal(t, "docs-site", m.Name)
	assert.Equal(t, "1.2.3", m.Version)
	assert.True(t, m.IsModule())
	assert.Nil(t, m.Exports)

	assert.Equal(t, []string{"react", "eslint-plugin-depend", "@scope/eslint-plugin-foo"}, m.Dependencies)
	assert.Equal(t,
		[]string{"react", "eslint-plugin-depend", "@scope/eslint-plugin-foo", "eslint", "eslint-plugin-unicorn"},
		m.DeclaredDependencies(),
	)
	assert.Equal(t,
		[]string{"eslint-plugin-depend", "@scope/eslint-plugin-foo", "eslint-plugin-unicorn"},
		FilterPlugins(m.DeclaredDependencies()),
	)
}

func TestParseManifest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", `{"name": `},
		{"array", `[]`},
		{"dependencies not an object", `{"dependencies": ["eslint"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalidManifest)
		})
	}

	m, err := ParseManifest([]byte(`{"dependencies": null}`))
	require.NoError(t, err)
	assert.Empty(t, m.DeclaredDependencies())
}

func TestReadManifest_NotFound(t *testing.T) {
	_, err := ReadManifest(t.TempDir())
	assert.ErrorIs(t, err, ErrManifestNotFound)
}

func TestNamespace(t *testing.T) {
	tests := []struct {
		name     string
		isPlugin bool
		prefix   string
		url      string
	}{
		{"eslint-plugin-depend", true, "depend", "https://www.npmjs.com/package/eslint-plugin-depend#rules"},
		{"@scope/eslint-plugin-foo", true, "foo", "https://www.npmjs.com/package/@scope/eslint-plugin-foo"},
		{"@typescript-eslint/eslint-plugin", false, "@typescript-eslint/eslint-plugin", "https://www.npmjs.com/package/@typescript-eslint/eslint-plugin"},
		{"eslint-plugin-", false, "eslint-plugin-", "https://www.npmjs.com/package/eslint-plugin-#rules"},
		{"eslint", false, "eslint", "https://www.npmjs.com/package/eslint#rules"},
		{"my-eslint-plugin-x", false, "my-eslint-plugin-x", "https://www.npmjs.com/package/my-eslint-plugin-x#rules"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isPlugin, IsPluginPackage(tt.name))
			assert.Equal(t, tt.prefix, Prefix(tt.name))
			assert.Equal(t, tt.url, RegistryURL(tt.name))
		})
	}

	assert.Equal(t, "foo/bar", RuleID(Prefix("@scope/eslint-plugin-foo"), "bar"))
}

func TestResolveEntry(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		expected string
		format   Format
	}{
		{
			name:     "main with extension",
			files:    map[string]string{"package.json": `{"main": "lib/index.js"}`, "lib/index.js": ""},
			expected: "lib/index.js",
			format:   FormatCommonJS,
		},
		{
			name:     "extensionless main",
			files:    map[string]string{"package.json": `{"main": "lib/plugin"}`, "lib/plugin.js": ""},
			expected: "lib/plugin.js",
			format:   FormatCommonJS,
		},
		{
			name:     "main directory",
			files:    map[string]string{"package.json": `{"main": "./dist"}`, "dist/index.js": ""},
			expected: "dist/index.js",
			format:   FormatCommonJS,
		},
		{
			name:     "exports string",
			files:    map[string]string{"package.json": `{"exports": "./src/index.mjs", "main": "old.js"}`, "src/index.mjs": "", "old.js": ""},
			expected: "src/index.mjs",
			format:   FormatESM,
		},
		{
			name: "exports subpath with conditions in object order",
			files: map[string]string{
				"package.json": `{"type": "module", "exports": {".": {"types": "./x.d.ts", "import": "./esm.js", "require": "./cjs.cjs", "default": "./esm.js"}, "./package.json": "./package.json"}}`,
				"esm.js":       "",
				"cjs.cjs":      "",
			},
			expected: "cjs.cjs",
			format:   FormatESM,
		},
		{
			name:     "exports conditions object",
			files:    map[string]string{"package.json": `{"exports": {"node": "./node.js", "require": "./cjs.js"}}`, "node.js": "", "cjs.js": ""},
			expected: "node.js",
			format:   FormatCommonJS,
		},
		{
			name:     "nested conditions",
			files:    map[string]string{"package.json": `{"exports": {".": {"require": {"types": "./t.d.ts", "default": "./dist/index.js"}}}}`, "dist/index.js": ""},
			expected: "dist/index.js",
			format:   FormatCommonJS,
		},
		{
			name:     "import-only exports fall back to main",
			files:    map[string]string{"package.json": `{"exports": {"import": "./esm.mjs"}, "main": "main.js"}`, "esm.mjs": "", "main.js": ""},
			expected: "main.js",
			format:   FormatCommonJS,
		},
		{
			name:     "module field",
			files:    map[string]string{"package.json": `{"module": "es/index.mjs"}`, "es/index.mjs": ""},
			expected: "es/index.mjs",
			format:   FormatESM,
		},
		{
			name:     "default index",
			files:    map[string]string{"package.json": `{"name": "eslint-plugin-x"}`, "index.js": ""},
			expected: "index.js",
			format:   FormatCommonJS,
		},
		{
			name:     "type module",
			files:    map[string]string{"package.json": `{"type": "module", "main": "index.js"}`, "index.js": ""},
			expected: "index.js",
			format:   FormatESM,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFiles(t, dir, tt.files)

			manifest, err := ReadManifest(dir)
			require.NoError(t, err)

			entry, err := ResolveEntry(dir, manifest)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, filepath.FromSlash(tt.expected)), entry.Path)
			assert.Equal(t, tt.format, entry.Format)
		})
	}
}

func TestResolveEntry_NotFound(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"package.json": `{"main": "missing.js"}`})

	manifest, err := ReadManifest(dir)
	require.NoError(t, err)

	_, err = ResolveEntry(dir, manifest)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func requireNode(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("node")
	if err != nil {
		t.Skip("node is not installed")
	}
	return path
}

func TestNodeRuntime_LoadPlugin(t *testing.T) {
	node := requireNode(t)
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json": `{"name": "site"}`,
		"node_modules/@scope/eslint-plugin-foo/package.json": `{"name": "@scope/eslint-plugin-foo", "main": "index.js"}`,
		"node_modules/@scope/eslint-plugin-foo/index.js": `
console.log("loading plugin");
module.exports = {
  rules: {
    bar: { meta: {} },
    baz: {
      meta: {
        type: "problem",
        fixable: "code",
        hasSuggestions: 1,
        deprecated: true,
        docs: { url: "https://example.com/baz", description: "Baz", category: "Possible Errors" },
      },
    },
    wrapped: { default: { meta: { type: "layout" } } },
  },
};`,
		"node_modules/eslint-plugin-esm/package.json": `{"name": "eslint-plugin-esm", "type": "module", "main": "index.js"}`,
		"node_modules/eslint-plugin-esm/index.js":     `export default { rules: { one: { meta: { type: "suggestion" } } } };`,
		"node_modules/eslint-plugin-empty/package.json": `{"name": "eslint-plugin-empty"}`,
		"node_modules/eslint-plugin-empty/index.js":     `module.exports = { configs: {} };`,
		"node_modules/eslint-plugin-broken/package.json": `{"name": "eslint-plugin-broken"}`,
		"node_modules/eslint-plugin-broken/index.js":     `throw new Error("missing peer dependency");`,
	})

	runtime := NewNodeRuntime(node, 30*time.Second)
	ctx := context.Background()
	load := func(name string) ([]RuleMeta, error) {
		dir := filepath.Join(root, "node_modules", filepath.FromSlash(name))
		manifest, err := ReadManifest(dir)
		require.NoError(t, err)
		entry, err := ResolveEntry(dir, manifest)
		require.NoError(t, err)
		return runtime.LoadPlugin(ctx, root, entry)
	}

	rules, err := load("@scope/eslint-plugin-foo")
	require.NoError(t, err)
	require.Len(t, rules, 3)

	assert.Equal(t, "bar", rules[0].Name)
	assert.Nil(t, rules[0].URL)
	assert.Nil(t, rules[0].Type)
	assert.False(t, rules[0].Deprecated)

	assert.Equal(t, "baz", rules[1].Name)
	assert.Equal(t, "https://example.com/baz", *rules[1].URL)
	assert.Equal(t, "code", *rules[1].Fixable)
	assert.Equal(t, "Possible Errors", *rules[1].Category)
	assert.True(t, rules[1].HasSuggestions)
	assert.True(t, rules[1].Deprecated)

	assert.Equal(t, "layout", *rules[2].Type)

	rules, err = load("eslint-plugin-esm")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "suggestion", *rules[0].Type)

	_, err = load("eslint-plugin-empty")
	assert.ErrorIs(t, err, ErrNoRules)

	_, err = load("eslint-plugin-broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing peer dependency")
}

func TestNodeRuntime_LoadCoreWithoutLinter(t *testing.T) {
	node := requireNode(t)
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"package.json": `{"name": "site"}`})

	_, err := NewNodeRuntime(node, 30*time.Second).LoadCore(context.Background(), root, "eslint")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoRules)
}
