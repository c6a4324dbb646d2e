// Package extractor builds the rules catalog from an installed linter and its plugins.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/lintindex/rules-index/internal/conflict"
	"github.com/lintindex/rules-index/internal/domain"
	"github.com/lintindex/rules-index/internal/loader"
	"github.com/lintindex/rules-index/internal/plugin"
	"github.com/lintindex/rules-index/internal/query"
)

// Defaults
const (
	DefaultDocBase       = "https://eslint.org/docs/latest/rules"
	DefaultLinterPackage = "eslint"
	DefaultOutPath       = "src/data/eslint-rules.json"
)

// Sentinel errors
var (
	ErrCoreUnavailable = errors.New("linter core rules unavailable")
	ErrPluginSkipped   = errors.New("plugin is in the skip list")

	errNotInstalled = errors.New("plugin is not installed")
)

// Options configures an extraction run
type Options struct {
	ProjectRoot   string
	OutPath       string
	DocBase       string
	LinterPackage string
	SkipPlugins   []string
}

func (o Options) withDefaults() Options {
	if o.ProjectRoot == "" {
		o.ProjectRoot = "."
	}
	if o.OutPath == "" {
		o.OutPath = DefaultOutPath
	}
	if !filepath.IsAbs(o.OutPath) {
		o.OutPath = filepath.Join(o.ProjectRoot, o.OutPath)
	}
	if o.DocBase == "" {
		o.DocBase = DefaultDocBase
	}
	o.DocBase = strings.TrimRight(o.DocBase, "/")
	if o.LinterPackage == "" {
		o.LinterPackage = DefaultLinterPackage
	}
	return o
}

// Result is the outcome of an extraction run
type Result struct {
	Catalog   domain.Catalog          `json:"catalog"`
	OutPath   string                  `json:"out_path"`
	Packages  []domain.PackageSummary `json:"packages"`
	Warnings  []domain.LoadWarning    `json:"warnings"`
	Conflicts []domain.ConflictInfo   `json:"conflicts"`
}

// PluginCount returns the distinct package count of the catalog
func (r *Result) PluginCount() int {
	if r.Catalog.PluginCount == nil {
		return 0
	}
	return *r.Catalog.PluginCount
}

// Extractor collects rule metadata through a plugin.Runtime
type Extractor struct {
	opts     Options
	runtime  plugin.Runtime
	resolver *conflict.Resolver
	writer   *loader.Writer
}

// New creates an Extractor
func New(opts Options, runtime plugin.Runtime) *Extractor {
	abs, err := filepath.Abs(opts.ProjectRoot)
	if err == nil {
		opts.ProjectRoot = abs
	}
	return &Extractor{
		opts:     opts.withDefaults(),
		runtime:  runtime,
		resolver: conflict.NewResolver(),
		writer:   loader.NewWriter(),
	}
}

// Options returns the effective options
func (e *Extractor) Options() Options {
	return e.opts
}

// Run extracts the catalog and writes it to the output path
func (e *Extractor) Run(ctx context.Context) (*Result, error) {
	result, err := e.Extract(ctx)
	if err != nil {
		return nil, err
	}

	if err := e.writer.WriteCatalog(result.Catalog, e.opts.OutPath); err != nil {
		return nil, fmt.Errorf("failed to write catalog: %w", err)
	}

	log.Info().
		Str("path", e.opts.OutPath).
		Int("rules", len(result.Catalog.Rules)).
		Int("plugins", result.PluginCount()).
		Msg("Catalog written")

	return result, nil
}

// Extract builds the catalog without writing it. A missing manifest or core
// registry aborts the run; plugin failures become warnings.
func (e *Extractor) Extract(ctx context.Context) (*Result, error) {
	manifest, err := plugin.ReadManifest(e.opts.ProjectRoot)
	if err != nil {
		return nil, err
	}

	result := &Result{OutPath: e.opts.OutPath}

	coreMeta, err := e.runtime.LoadCore(ctx, e.opts.ProjectRoot, e.opts.LinterPackage)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCoreUnavailable, err)
	}
	coreRecords := make([]domain.RuleRecord, 0, len(coreMeta))
	for _, meta := range coreMeta {
		coreRecords = append(coreRecords, e.coreRecord(meta))
	}
	result.Packages = append(result.Packages, domain.PackageSummary{
		Name:      e.opts.LinterPackage,
		Version:   e.installedVersion(e.opts.LinterPackage),
		RuleCount: len(coreMeta),
		Core:      true,
	})
	log.Info().Str("package", e.opts.LinterPackage).Int("rules", len(coreMeta)).Msg("Loaded core rules")

	var pluginRecords []domain.RuleRecord
	for _, name := range plugin.FilterPlugins(manifest.DeclaredDependencies()) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		loaded, summary, err := e.loadPlugin(ctx, name)
		if err != nil {
			if warning, ok := e.warningFor(name, err); ok {
				result.Warnings = append(result.Warnings, warning)
			}
			continue
		}
		pluginRecords = append(pluginRecords, loaded...)
		result.Packages = append(result.Packages, summary)
	}

	records, conflicts := e.resolver.Merge(coreRecords, pluginRecords)
	for _, c := range conflicts {
		for _, pkg := range c.Packages[1:] {
			result.Warnings = append(result.Warnings, domain.LoadWarning{
				Kind:    domain.WarningDuplicateID,
				Package: pkg,
				Message: fmt.Sprintf("rule %s already provided by %s", c.RuleID, c.ActivePackage),
			})
		}
		log.Warn().Str("rule_id", c.RuleID).Str("active_package", c.ActivePackage).Msg("Duplicate rule id dropped")
	}
	result.Conflicts = conflicts

	result.Catalog = domain.Catalog{Rules: query.SortByID(records)}
	pluginCount := len(result.Catalog.Packages())
	result.Catalog.PluginCount = &pluginCount

	return result, nil
}

func (e *Extractor) loadPlugin(ctx context.Context, name string) ([]domain.RuleRecord, domain.PackageSummary, error) {
	if slices.Contains(e.opts.SkipPlugins, name) {
		return nil, domain.PackageSummary{}, ErrPluginSkipped
	}

	dir := filepath.Join(e.opts.ProjectRoot, "node_modules", filepath.FromSlash(name))
	if _, err := os.Stat(dir); err != nil {
		return nil, domain.PackageSummary{}, fmt.Errorf("%w: %v", errNotInstalled, err)
	}

	manifest, err := plugin.ReadManifest(dir)
	if err != nil {
		return nil, domain.PackageSummary{}, err
	}
	entry, err := plugin.ResolveEntry(dir, manifest)
	if err != nil {
		return nil, domain.PackageSummary{}, err
	}

	metas, err := e.runtime.LoadPlugin(ctx, e.opts.ProjectRoot, entry)
	if err != nil {
		return nil, domain.PackageSummary{}, err
	}

	prefix := plugin.Prefix(name)
	records := make([]domain.RuleRecord, 0, len(metas))
	for _, meta := range metas {
		records = append(records, pluginRecord(name, prefix, meta))
	}

	log.Info().Str("package", name).Str("format", string(entry.Format)).Int("rules", len(records)).Msg("Loaded plugin")

	return records, domain.PackageSummary{
		Name:      name,
		Version:   manifest.Version,
		Prefix:    prefix,
		RuleCount: len(records),
	}, nil
}

// warningFor maps a plugin error to a warning; absent plugins only log at debug
func (e *Extractor) warningFor(name string, err error) (domain.LoadWarning, bool) {
	switch {
	case errors.Is(err, errNotInstalled):
		log.Debug().Str("package", name).Msg("Plugin not installed, skipping")
		return domain.LoadWarning{}, false
	case errors.Is(err, ErrPluginSkipped):
		log.Warn().Str("package", name).Msg("Skipping plugin (in skip list)")
		return domain.LoadWarning{Kind: domain.WarningSkipped, Package: name, Message: err.Error()}, true
	case errors.Is(err, plugin.ErrNoRules):
		log.Warn().Str("package", name).Msg("Plugin has no rules object, skipping")
		return domain.LoadWarning{Kind: domain.WarningNoRules, Package: name, Message: err.Error()}, true
	default:
		log.Warn().Err(err).Str("package", name).Msg("Could not load plugin")
		return domain.LoadWarning{Kind: domain.WarningLoadFailed, Package: name, Message: err.Error()}, true
	}
}

func (e *Extractor) coreRecord(meta plugin.RuleMeta) domain.RuleRecord {
	url := e.opts.DocBase + "/" + meta.Name
	if meta.URL != nil && *meta.URL != "" {
		url = *meta.URL
	}
	return newRecord(meta.Name, e.opts.LinterPackage, url, meta)
}

func pluginRecord(packageName, prefix string, meta plugin.RuleMeta) domain.RuleRecord {
	url := plugin.RegistryURL(packageName)
	if meta.URL != nil && *meta.URL != "" {
		url = *meta.URL
	}
	return newRecord(plugin.RuleID(prefix, meta.Name), packageName, url, meta)
}

func newRecord(id, packageName, url string, meta plugin.RuleMeta) domain.RuleRecord {
	return domain.RuleRecord{
		ID:             id,
		Package:        packageName,
		URL:            url,
		Description:    nonEmpty(meta.Description),
		Deprecated:     meta.Deprecated,
		Type:           nonEmpty(meta.Type),
		Fixable:        nonEmpty(meta.Fixable),
		HasSuggestions: meta.HasSuggestions,
		Category:       nonEmpty(meta.Category),
	}
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	return domain.StringPtr(*s)
}

func (e *Extractor) installedVersion(name string) string {
	manifest, err := plugin.ReadManifest(filepath.Join(e.opts.ProjectRoot, "node_modules", filepath.FromSlash(name)))
	if err != nil {
		return ""
	}
	return manifest.Version
}
