// Package fileproc runs per-file extraction functions concurrently, giving
// each worker invocation its own parser so tree-sitter state is never
// shared across goroutines.
package fileproc

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/kmehta/codescope/pkg/parser"
)

// defaultWorkerMultiplier scales NumCPU for mixed I/O and CGO workloads.
const defaultWorkerMultiplier = 2

// ProcessingError is a failure tied to one file.
type ProcessingError struct {
	Path string
	Err  error
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// ProcessingErrors collects per-file failures across workers.
type ProcessingErrors struct {
	mu     sync.Mutex
	Errors []ProcessingError
}

func (e *ProcessingErrors) add(path string, err error) {
	e.mu.Lock()
	e.Errors = append(e.Errors, ProcessingError{Path: path, Err: err})
	e.mu.Unlock()
}

// HasErrors reports whether any file failed.
func (e *ProcessingErrors) HasErrors() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Errors) > 0
}

func (e *ProcessingErrors) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	default:
		return fmt.Sprintf("%d files failed to process (first: %v)", len(e.Errors), e.Errors[0])
	}
}

// ProgressFunc is called once per completed file.
type ProgressFunc func()

// MapFiles applies fn to every file concurrently and returns the successful
// results in arbitrary order, along with the collected failures.
func MapFiles[T any](files []string, fn func(*parser.Parser, string) (T, error)) ([]T, *ProcessingErrors) {
	return MapFilesWithContext(context.Background(), files, fn, nil)
}

// MapFilesWithContext is MapFiles with cancellation and an optional progress
// callback. Files not yet started when ctx is done are skipped.
func MapFilesWithContext[T any](ctx context.Context, files []string, fn func(*parser.Parser, string) (T, error), onProgress ProgressFunc) ([]T, *ProcessingErrors) {
	errs := &ProcessingErrors{}
	if len(files) == 0 {
		return nil, errs
	}

	results := make([]T, 0, len(files))
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(runtime.NumCPU() * defaultWorkerMultiplier)
	for _, path := range files {
		p.Go(func() {
			if onProgress != nil {
				defer onProgress()
			}
			if ctx.Err() != nil {
				errs.add(path, ctx.Err())
				return
			}

			psr := parser.New()
			defer psr.Close()

			result, err := fn(psr, path)
			if err != nil {
				errs.add(path, err)
				return
			}
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		})
	}
	p.Wait()

	return results, errs
}
