package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrNoRules is returned when a loaded plugin exports no rules mapping
var ErrNoRules = errors.New("plugin exports no rules mapping")

// RuleMeta is the normalized metadata of one rule as reported by a runtime
type RuleMeta struct {
	Name           string  `json:"name"`
	URL            *string `json:"url"`
	Description    *string `json:"description"`
	Category       *string `json:"category"`
	Type           *string `json:"type"`
	Fixable        *string `json:"fixable"`
	HasSuggestions bool    `json:"hasSuggestions"`
	Deprecated     bool    `json:"deprecated"`
}

// Runtime loads rule metadata from an installed linter and its plugins.
// Rules are returned in declaration order.
type Runtime interface {
	// LoadCore reads the built-in rule registry of the linter package
	LoadCore(ctx context.Context, root, linterPackage string) ([]RuleMeta, error)
	// LoadPlugin loads entry and reads its rules mapping
	LoadPlugin(ctx context.Context, root string, entry Entry) ([]RuleMeta, error)
}

// probe modes
const (
	modeCore = "core"
)

const (
	exitNoRules  = 3
	outputMarker = "\n__RULES_INDEX_OUTPUT__\n"
)

// probeScript runs inside node. Plugins may print while loading, so the
// result is written after outputMarker.
const probeScript = `
const path = require("path");
const { createRequire } = require("module");
const { pathToFileURL } = require("url");

const mode = process.env.RULES_INDEX_MODE;
const root = process.env.RULES_INDEX_ROOT;
const entry = process.env.RULES_INDEX_ENTRY;
const req = createRequire(path.join(root, "package.json"));

function str(v) {
  return typeof v === "string" && v !== "" ? v : null;
}

function describe(name, rule) {
  const meta = (rule && rule.meta) || {};
  const docs = meta.docs || {};
  return {
    name,
    url: str(docs.url),
    description: str(docs.description),
    category: str(docs.category),
    type: str(meta.type),
    fixable: str(meta.fixable),
    hasSuggestions: !!meta.hasSuggestions,
    deprecated: !!meta.deprecated,
  };
}

async function load() {
  if (mode === "core") {
    const { builtinRules } = req(process.env.RULES_INDEX_LINTER + "/use-at-your-own-risk");
    return Array.from(builtinRules.entries(), ([name, rule]) => describe(name, rule));
  }
  let plugin;
  if (mode === "esm") {
    const mod = await import(pathToFileURL(entry).href);
    plugin = mod.default ?? mod;
  } else {
    plugin = req(entry);
  }
  const rules = (plugin && plugin.rules) || (plugin && plugin.default && plugin.default.rules);
  if (!rules || typeof rules !== "object") {
    process.exit(3);
  }
  return Object.entries(rules).map(([name, value]) => {
    const rule = typeof value === "function" ? value : ((value && value.default) ?? value);
    return describe(name, rule);
  });
}

load().then(
  (out) => process.stdout.write("\n__RULES_INDEX_OUTPUT__\n" + JSON.stringify(out)),
  (err) => {
    process.stderr.write(String((err && err.message) || err));
    process.exit(1);
  },
);
`

// NodeRuntime runs a Node.js probe process per load
type NodeRuntime struct {
	Binary  string
	Timeout time.Duration
}

// NewNodeRuntime creates a NodeRuntime. An empty binary means "node" on PATH.
func NewNodeRuntime(binary string, timeout time.Duration) *NodeRuntime {
	if binary == "" {
		binary = "node"
	}
	return &NodeRuntime{Binary: binary, Timeout: timeout}
}

// LoadCore reads <linterPackage>/use-at-your-own-risk builtinRules
func (r *NodeRuntime) LoadCore(ctx context.Context, root, linterPackage string) ([]RuleMeta, error) {
	return r.run(ctx, root, map[string]string{
		"RULES_INDEX_MODE":   modeCore,
		"RULES_INDEX_LINTER": linterPackage,
	})
}

// LoadPlugin loads entry with require or import depending on its format
func (r *NodeRuntime) LoadPlugin(ctx context.Context, root string, entry Entry) ([]RuleMeta, error) {
	return r.run(ctx, root, map[string]string{
		"RULES_INDEX_MODE":  string(entry.Format),
		"RULES_INDEX_ENTRY": entry.Path,
	})
}

func (r *NodeRuntime) run(ctx context.Context, root string, vars map[string]string) ([]RuleMeta, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.Binary, "-e", probeScript)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "RULES_INDEX_ROOT="+root)
	for k, v := range vars {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	log.Debug().
		Str("mode", vars["RULES_INDEX_MODE"]).
		Str("entry", vars["RULES_INDEX_ENTRY"]).
		Dur("elapsed", time.Since(start)).
		Msg("Node probe finished")

	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("node probe: %w", ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == exitNoRules {
			return nil, ErrNoRules
		}
		return nil, fmt.Errorf("node probe failed: %w: %s", err, lastLine(stderr.String()))
	}

	out := stdout.Bytes()
	i := bytes.LastIndex(out, []byte(outputMarker))
	if i < 0 {
		return nil, fmt.Errorf("node probe produced no output")
	}

	var rules []RuleMeta
	if err := json.Unmarshal(out[i+len(outputMarker):], &rules); err != nil {
		return nil, fmt.Errorf("failed to decode node probe output: %w", err)
	}
	return rules, nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
