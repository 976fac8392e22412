package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/kmehta/codescope/internal/output"
	"github.com/kmehta/codescope/pkg/backend"
	"github.com/kmehta/codescope/pkg/config"
	"github.com/kmehta/codescope/pkg/frontend/cfe"
	"github.com/kmehta/codescope/pkg/frontend/pythonfe"
	"github.com/kmehta/codescope/pkg/models"
	"github.com/kmehta/codescope/pkg/symtab"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"an"},
		Usage:     "Build the symbol table (and call graph) for a project",
		ArgsUsage: "[path]",
		Flags: append(languageFlags(),
			&cli.StringFlag{
				Name:  "source",
				Usage: "Analyze a single source file instead of a project",
			},
			&cli.StringFlag{
				Name:  "save-graph",
				Usage: "Write the serialized call graph to a file",
			},
		),
		Action: runAnalyzeCmd,
	}
}

type analysisSummary struct {
	Level             string `json:"level"`
	CompilationUnits  int    `json:"compilation_units"`
	Classes           int    `json:"classes"`
	Methods           int    `json:"methods"`
	EntryPointClasses int    `json:"entry_point_classes"`
	GraphEdges        int    `json:"graph_edges"`
	GraphCallWeight   int    `json:"graph_call_weight"`
}

func summarize(app *models.Application) analysisSummary {
	methods := 0
	for _, callables := range app.AllMethods() {
		methods += len(callables)
	}
	callWeight := 0
	for _, e := range app.GraphEdges() {
		callWeight += symtab.EdgeWeightCount(e.Weight)
	}
	return analysisSummary{
		Level:             levelName(symtab.Level(app)),
		CompilationUnits:  len(app.SymbolTable),
		Classes:           len(app.AllClasses()),
		Methods:           methods,
		EntryPointClasses: len(app.EntryPointClasses()),
		GraphEdges:        len(app.GraphEdges()),
		GraphCallWeight:   callWeight,
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	app, err := loadSingleOrProject(c, cfg)
	if err != nil {
		return err
	}

	summary := summarize(app)

	if path := c.String("save-graph"); path != "" {
		an, err := newGraphAnalyzer(app, cfg)
		if err != nil {
			return err
		}
		defer an.Close()
		data, err := an.SerializeGraph()
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		formatter.Success("Call graph written to %s", path)
	}

	table := output.NewTable(
		"Analysis Summary",
		[]string{"Metric", "Value"},
		[][]string{
			{"Level", summary.Level},
			{"Compilation units", fmt.Sprintf("%d", summary.CompilationUnits)},
			{"Classes", fmt.Sprintf("%d", summary.Classes)},
			{"Methods", fmt.Sprintf("%d", summary.Methods)},
			{"Entry point classes", fmt.Sprintf("%d", summary.EntryPointClasses)},
			{"Graph edges", fmt.Sprintf("%d", summary.GraphEdges)},
			{"Graph call weight", fmt.Sprintf("%d", summary.GraphCallWeight)},
		},
		nil,
		summary,
	)
	return formatter.Output(table)
}

func loadSingleOrProject(c *cli.Context, cfg *config.Config) (*models.Application, error) {
	source := c.String("source")
	if source == "" {
		return loadApplication(c, cfg)
	}

	raw, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	switch strings.ToLower(c.String("language")) {
	case "", "java":
		dir, err := projectDir(c)
		if err != nil {
			return nil, err
		}
		var opts []backend.Option
		if cfg.Backend.Path != "" {
			opts = append(opts, backend.WithBackendPath(cfg.Backend.Path))
		}
		opts = append(opts, backend.WithJavaExecutable(cfg.Backend.Java))
		return backend.NewJavaRunner(dir, opts...).AnalyzeSource(c.Context, string(raw))
	case "python":
		fe, err := pythonfe.New(cfg)
		if err != nil {
			return nil, err
		}
		return fe.AnalyzeSource(string(raw), source)
	case "c":
		fe, err := cfe.New(cfg)
		if err != nil {
			return nil, err
		}
		return fe.AnalyzeSource(string(raw), source)
	default:
		return nil, fmt.Errorf("unsupported language: %s", c.String("language"))
	}
}

func levelName(level int) string {
	if level == symtab.LevelCallGraph {
		return config.LevelCallGraph
	}
	return config.LevelSymbolTable
}
