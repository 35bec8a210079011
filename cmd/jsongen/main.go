// jsongen generates Serialize methods for Go types that embed
// jsonser.Serializable.
//
// Typical use is a go:generate directive in the package holding the types:
//
//	//go:generate go run jsongen/cmd/jsongen .
package main

import (
	"context"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"jsongen/internal/config"
	"jsongen/internal/generator"
	"jsongen/internal/logger"
	"jsongen/internal/model"
	"jsongen/internal/parser"
	"jsongen/internal/registry"
)

type options struct {
	configFile string
	modelFile  string
	dir        string
	outputDir  string
	dryRun     bool
	types      string
	exclude    string
	exported   bool
	logLevel   string
	logJSON    bool
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "jsongen [packages]",
		Short: "Generate JSON-like Serialize methods for marked Go types",
		Long: `jsongen loads Go packages, finds every type that embeds
jsonser.Serializable[T] and writes a <type>_jsonserializable.go file with a
Serialize(jsonser.TextWriter) method next to it.`,
		Example: `  # Generate for the package in the current directory
  jsongen .

  # Generate for a whole module, only for two types
  jsongen ./... -T Poco,Order

  # Print what would be written
  jsongen ./models --dry-run

  # Generate from a YAML model description into ./out
  jsongen --model model.yaml -o out`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configFile, "config", "c", "", "config file (YAML/JSON)")
	f.StringVarP(&opts.modelFile, "model", "m", "", "YAML model description to use instead of Go packages")
	f.StringVarP(&opts.dir, "dir", "d", ".", "directory package patterns are resolved in")
	f.StringVarP(&opts.outputDir, "output", "o", "", "write files under this directory instead of next to each package")
	f.BoolVar(&opts.dryRun, "dry-run", false, "print generated files to stdout")
	f.StringVarP(&opts.types, "types", "T", "", "only generate for these types (comma-separated)")
	f.StringVarP(&opts.exclude, "exclude", "X", "", "exclude these types (comma-separated)")
	f.BoolVar(&opts.exported, "exported", false, "only process exported types")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	f.BoolVar(&opts.logJSON, "log-json", false, "log as JSON")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "shorthand for --log-level debug")

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, opts *options, args []string) error {
	level := logger.LogLevel(opts.logLevel)
	if opts.verbose {
		level = logger.DebugLevel
	}
	log := logger.NewLogger(&logger.Config{Level: level, Output: cmd.ErrOrStderr(), JSON: opts.logJSON})
	ctx = logger.ContextWithLogger(ctx, log)

	cfg := config.New()
	if opts.configFile != "" {
		if err := cfg.LoadFile(opts.configFile); err != nil {
			return errors.Wrap(err, "loading config")
		}
	}
	applyOverrides(cmd, cfg, opts)

	m, err := loadModel(ctx, opts, args)
	if err != nil {
		log.Error("loading model failed", "error", err)
		return err
	}

	reg := newRegistry(cmd, opts)
	n, err := generator.New(cfg, log).Generate(m, reg)
	if err != nil {
		log.Error("generation failed", "error", err)
		for _, hint := range errors.GetAllHints(err) {
			log.Error("hint: " + hint)
		}
		return err
	}

	if d, ok := reg.(*registry.Dir); ok {
		for _, path := range d.Written {
			log.Debug("wrote file", "path", path)
		}
	}
	log.Info("done", "fragments", n)
	return nil
}

// applyOverrides lets explicitly set flags win over the config file.
func applyOverrides(cmd *cobra.Command, cfg *config.Config, opts *options) {
	flags := cmd.Flags()
	if flags.Changed("exported") {
		cfg.Options.ExportedOnly = opts.exported
	}
	if opts.types != "" {
		cfg.Options.IncludeTypes = parseCommaSeparated(opts.types)
	}
	if opts.exclude != "" {
		cfg.Options.ExcludeTypes = parseCommaSeparated(opts.exclude)
	}
}

func loadModel(ctx context.Context, opts *options, args []string) (*model.Module, error) {
	if opts.modelFile != "" {
		if len(args) > 0 {
			return nil, errors.New("package patterns cannot be combined with --model")
		}
		return parser.LoadModel(opts.modelFile)
	}
	if len(args) == 0 {
		args = []string{"."}
	}
	return parser.New(opts.dir, logger.FromContext(ctx)).LoadPackages(ctx, args...)
}

func newRegistry(cmd *cobra.Command, opts *options) registry.Registry {
	if opts.dryRun {
		return &registry.Stream{W: cmd.OutOrStdout()}
	}
	return &registry.Dir{Root: opts.outputDir}
}

// parseCommaSeparated splits a comma-separated string into a slice of trimmed strings.
func parseCommaSeparated(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
