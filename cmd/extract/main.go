package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lintindex/rules-index/internal/config"
	"github.com/lintindex/rules-index/internal/extractor"
	"github.com/lintindex/rules-index/internal/plugin"
	"github.com/lintindex/rules-index/internal/report"
)

type runtimeFactory func(binary string, timeout time.Duration) plugin.Runtime

type extractOptions struct {
	root    string
	out     string
	docBase string
	linter  string
	node    string
	skip    []string
	timeout time.Duration
	quiet   bool
}

func main() {
	setupLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := newExtractCommand(&cfg.Extract, func(binary string, timeout time.Duration) plugin.Runtime {
		return plugin.NewNodeRuntime(binary, timeout)
	})
	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("Extraction failed")
	}
}

func newExtractCommand(cfg *config.ExtractConfig, newRuntime runtimeFactory) *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Build the rules catalog from the installed linter and plugins",
		Long: `Reads the linter's core rules and every installed eslint-plugin-* dependency
declared in package.json, then writes the sorted catalog file.

Plugins that fail to load are reported as warnings and omitted.`,
		Example: `  extract
  extract --root ./site --out public/eslint-rules.json
  extract --skip eslint-plugin-import --skip eslint-plugin-node`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExtract(cmd, opts, newRuntime)
		},
	}

	cmd.Flags().StringVarP(&opts.root, "root", "r", cfg.ProjectRoot, "Project root containing package.json and node_modules")
	cmd.Flags().StringVarP(&opts.out, "out", "o", cfg.OutPath, "Output catalog path (.json, .yaml or .yml), relative to the root")
	cmd.Flags().StringVar(&opts.docBase, "doc-base", cfg.DocBase, "Documentation base URL for core rules")
	cmd.Flags().StringVar(&opts.linter, "linter", cfg.LinterPackage, "Linter package providing the core rules")
	cmd.Flags().StringVar(&opts.node, "node", cfg.NodeBinary, "Node.js binary used to load plugins")
	cmd.Flags().StringSliceVarP(&opts.skip, "skip", "s", cfg.SkipList(), "Plugin packages to skip")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", cfg.PluginTimeout, "Per-plugin load timeout")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Print only the final summary line")

	return cmd
}

func runExtract(cmd *cobra.Command, opts *extractOptions, newRuntime runtimeFactory) error {
	ext := extractor.New(extractor.Options{
		ProjectRoot:   opts.root,
		OutPath:       opts.out,
		DocBase:       opts.docBase,
		LinterPackage: opts.linter,
		SkipPlugins:   opts.skip,
	}, newRuntime(opts.node, opts.timeout))

	log.Info().
		Str("root", ext.Options().ProjectRoot).
		Str("out", ext.Options().OutPath).
		Strs("skip", opts.skip).
		Msg("Starting extraction")

	result, err := ext.Run(cmd.Context())
	if err != nil {
		return err
	}

	if opts.quiet {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), report.Summary(result))
		return err
	}
	return report.Render(cmd.OutOrStdout(), result)
}

func setupLogger() {
	zerolog.TimeFieldFormat = time.RFC3339

	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	if os.Getenv("LOG_FORMAT") != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
