// Package backend runs the external Java analysis engine and loads its
// output into the application model. The engine ships as a standalone jar;
// its JSON output is the raw analysis database pkg/symtab decodes.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kmehta/codescope/pkg/models"
	"github.com/kmehta/codescope/pkg/symtab"
)

// AnalysisFileName is the persisted database file the engine writes.
const AnalysisFileName = "analysis.json"

// UnavailableError reports that the analysis engine could not be located or
// executed. When a compatible persisted database exists it is used instead
// and this error is never raised.
type UnavailableError struct {
	Reason string
	Err    error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("analysis backend unavailable: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("analysis backend unavailable: %s", e.Reason)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// JavaRunner drives the Java analysis engine for one project.
type JavaRunner struct {
	projectDir  string
	backendPath string
	analysisDir string
	level       int
	eager       bool
	targetFiles []string
	javaBin     string
}

// Option configures a JavaRunner.
type Option func(*JavaRunner)

// WithBackendPath sets the directory searched for the engine jar.
func WithBackendPath(path string) Option {
	return func(r *JavaRunner) { r.backendPath = path }
}

// WithAnalysisDir sets the directory the analysis database persists in.
// Without it the database is read from the engine's stdout.
func WithAnalysisDir(dir string) Option {
	return func(r *JavaRunner) { r.analysisDir = dir }
}

// WithLevel sets the analysis depth.
func WithLevel(level int) Option {
	return func(r *JavaRunner) { r.level = level }
}

// WithEagerAnalysis re-runs the engine even when a compatible persisted
// database exists.
func WithEagerAnalysis() Option {
	return func(r *JavaRunner) { r.eager = true }
}

// WithTargetFiles restricts the analysis to the given source files.
func WithTargetFiles(files []string) Option {
	return func(r *JavaRunner) { r.targetFiles = files }
}

// WithJavaExecutable overrides the java binary used to run the engine.
func WithJavaExecutable(bin string) Option {
	return func(r *JavaRunner) { r.javaBin = bin }
}

// NewJavaRunner creates a runner for the given project directory.
func NewJavaRunner(projectDir string, opts ...Option) *JavaRunner {
	r := &JavaRunner{
		projectDir: projectDir,
		level:      symtab.LevelSymbolTable,
		javaBin:    "java",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Analyze produces the application model for the project. A compatible
// persisted database short-circuits the engine run unless eager analysis is
// requested, which makes a missing engine recoverable.
func (r *JavaRunner) Analyze(ctx context.Context) (*models.Application, error) {
	if r.analysisDir != "" && !r.eager && len(r.targetFiles) == 0 {
		file := filepath.Join(r.analysisDir, AnalysisFileName)
		if CheckExistingAnalysisLevel(file, r.level) {
			data, err := os.ReadFile(file)
			if err != nil {
				return nil, fmt.Errorf("reading persisted analysis: %w", err)
			}
			return symtab.Build(data)
		}
	}

	jar, err := r.locateJar()
	if err != nil {
		return nil, err
	}

	args := []string{"-jar", jar, "-i", r.projectDir, fmt.Sprintf("--analysis-level=%d", r.level)}
	for _, f := range r.targetFiles {
		args = append(args, "-t", strings.TrimSpace(f))
	}
	if r.analysisDir == "" {
		out, err := r.run(ctx, args)
		if err != nil {
			return nil, err
		}
		return symtab.Build(out)
	}

	args = append(args, "-o", r.analysisDir, "-v")
	if _, err := r.run(ctx, args); err != nil {
		return nil, err
	}
	file := filepath.Join(r.analysisDir, AnalysisFileName)
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, &UnavailableError{Reason: "engine did not produce the analysis database", Err: err}
	}
	return symtab.Build(data)
}

// AnalyzeSource analyzes a single compilation unit given as source text.
func (r *JavaRunner) AnalyzeSource(ctx context.Context, source string) (*models.Application, error) {
	jar, err := r.locateJar()
	if err != nil {
		return nil, err
	}
	out, err := r.run(ctx, []string{"-jar", jar, "--source-analysis", source})
	if err != nil {
		return nil, err
	}
	return symtab.Build(out)
}

func (r *JavaRunner) run(ctx context.Context, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.javaBin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		reason := "engine execution failed"
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			reason = fmt.Sprintf("engine execution failed: %s", msg)
		}
		return nil, &UnavailableError{Reason: reason, Err: err}
	}
	return stdout.Bytes(), nil
}

// locateJar finds the engine jar under the configured backend path.
func (r *JavaRunner) locateJar() (string, error) {
	if r.backendPath == "" {
		return "", &UnavailableError{Reason: "no backend path configured"}
	}
	var jar string
	err := filepath.WalkDir(r.backendPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if jar != "" || d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, "codeanalyzer-") && strings.HasSuffix(name, ".jar") {
			jar = path
		}
		return nil
	})
	if err != nil {
		return "", &UnavailableError{Reason: "searching backend path", Err: err}
	}
	if jar == "" {
		return "", &UnavailableError{Reason: fmt.Sprintf("no engine jar found under %s", r.backendPath)}
	}
	return jar, nil
}

// CheckExistingAnalysisLevel reports whether a persisted database exists and
// carries enough depth for the requested analysis level.
func CheckExistingAnalysisLevel(file string, level int) bool {
	data, err := os.ReadFile(file)
	if err != nil {
		return false
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return false
	}
	if level == symtab.LevelCallGraph {
		_, ok := keys["call_graph"]
		return ok
	}
	_, ok := keys["symbol_table"]
	return ok
}
