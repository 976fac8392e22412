package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/kmehta/codescope/internal/output"
	"github.com/kmehta/codescope/internal/progress"
	"github.com/kmehta/codescope/pkg/analyzer/callgraph"
	"github.com/kmehta/codescope/pkg/backend"
	"github.com/kmehta/codescope/pkg/config"
	"github.com/kmehta/codescope/pkg/frontend/cfe"
	"github.com/kmehta/codescope/pkg/frontend/pythonfe"
	"github.com/kmehta/codescope/pkg/models"
	"github.com/kmehta/codescope/pkg/symtab"
)

// projectDir returns the project path from positional args, defaulting to
// the current directory.
func projectDir(c *cli.Context) (string, error) {
	path := "."
	if c.Args().Len() > 0 {
		path = c.Args().First()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %s: %w", path, err)
	}
	return abs, nil
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	var cfg *config.Config
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrDefault()
	}

	if c.Bool("no-cache") {
		cfg.Cache.Enabled = false
	}
	if c.Bool("no-color") {
		cfg.Output.Color = false
	}
	if c.Bool("verbose") {
		cfg.Output.Verbose = true
	}
	if format := c.String("format"); format != "" {
		cfg.Output.Format = format
	}
	return cfg, nil
}

func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	return output.NewFormatter(
		output.ParseFormat(cfg.Output.Format),
		c.String("output"),
		cfg.Output.Color,
	)
}

// analysisLevel maps the configured level name to the engine's numeric
// level.
func analysisLevel(c *cli.Context, cfg *config.Config) int {
	level := cfg.Analysis.Level
	if c.IsSet("level") {
		level = c.String("level")
	}
	if strings.EqualFold(level, config.LevelCallGraph) {
		return symtab.LevelCallGraph
	}
	return symtab.LevelSymbolTable
}

// loadApplication builds the application model for a command. An explicit
// --input points at a persisted analysis database; otherwise the project is
// analyzed with the front-end for the requested language.
func loadApplication(c *cli.Context, cfg *config.Config) (*models.Application, error) {
	if input := c.String("input"); input != "" {
		raw, err := os.ReadFile(input)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", input, err)
		}
		return symtab.Build(raw)
	}

	dir, err := projectDir(c)
	if err != nil {
		return nil, err
	}

	lang := strings.ToLower(c.String("language"))
	if lang == "" {
		lang = "java"
	}

	tracker := progress.NewSpinner(fmt.Sprintf("Analyzing %s...", lang))
	app, err := analyzeProject(c, cfg, dir, lang)
	if err != nil {
		tracker.FinishError(err)
		return nil, err
	}
	tracker.FinishSuccess()
	return app, nil
}

func analyzeProject(c *cli.Context, cfg *config.Config, dir, lang string) (*models.Application, error) {
	switch lang {
	case "java":
		opts := []backend.Option{
			backend.WithLevel(analysisLevel(c, cfg)),
			backend.WithJavaExecutable(cfg.Backend.Java),
		}
		if cfg.Backend.Path != "" {
			opts = append(opts, backend.WithBackendPath(cfg.Backend.Path))
		}
		if cfg.Backend.AnalysisDir != "" {
			opts = append(opts, backend.WithAnalysisDir(filepath.Join(dir, cfg.Backend.AnalysisDir)))
		}
		if c.Bool("eager") || cfg.Analysis.Eager {
			opts = append(opts, backend.WithEagerAnalysis())
		}
		return backend.NewJavaRunner(dir, opts...).Analyze(c.Context)
	case "python":
		fe, err := pythonfe.New(cfg)
		if err != nil {
			return nil, err
		}
		return fe.Analyze(c.Context, dir)
	case "c":
		fe, err := cfe.New(cfg)
		if err != nil {
			return nil, err
		}
		return fe.Analyze(c.Context, dir)
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}

// newGraphAnalyzer builds the call graph analyzer for graph-backed
// commands.
func newGraphAnalyzer(app *models.Application, cfg *config.Config) (*callgraph.Analyzer, error) {
	var opts []callgraph.Option
	if cfg.Analysis.IncludeControlDeps {
		opts = append(opts, callgraph.WithControlDependencies())
	}
	return callgraph.New(app, opts...)
}

// languageFlags are shared by every command that loads an application.
func languageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "language",
			Aliases: []string{"l"},
			Value:   "java",
			Usage:   "Source language: java, python, c",
		},
		&cli.StringFlag{
			Name:  "input",
			Usage: "Use a persisted analysis database instead of running analysis",
		},
		&cli.StringFlag{
			Name:  "level",
			Usage: "Analysis depth: symbol_table or call_graph",
		},
		&cli.BoolFlag{
			Name:  "eager",
			Usage: "Re-run analysis even when a persisted database exists",
		},
	}
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}

func signatureOf(d models.MethodDetail) string {
	if d.Method != nil {
		return d.Method.Signature
	}
	return d.MethodDeclaration
}
